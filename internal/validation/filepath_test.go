package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePathValidatorValidateAndSanitize(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	tmp := os.TempDir()

	tests := []struct {
		name        string
		input       string
		permissive  bool
		expected    string
		expectError bool
	}{
		{name: "home expansion", input: "~/.qlaunch/qlaunch.db", expected: filepath.Join(homeDir, ".qlaunch", "qlaunch.db")},
		{name: "config dir", input: "~/.config/qlaunch/config.toml", expected: filepath.Join(homeDir, ".config", "qlaunch", "config.toml")},
		{name: "temp dir", input: filepath.Join(tmp, "x.db"), expected: filepath.Join(tmp, "x.db")},
		{name: "outside allowed dirs", input: "/etc/passwd", expectError: true},
		{name: "traversal", input: "~/.qlaunch/../.ssh/id_rsa", expectError: true},
		{name: "null byte", input: "~/.qlaunch/a\x00b", expectError: true},
		{name: "control character", input: "~/.qlaunch/a\x01b", expectError: true},
		{name: "other user's home", input: "~root/file", expectError: true},
		{name: "relative path", input: "qlaunch.db", expectError: true},
		{name: "empty", input: "", expectError: true},
		{name: "permissive anywhere", input: "/srv/projects.yaml", permissive: true, expected: "/srv/projects.yaml"},
		{name: "permissive traversal still rejected", input: "/srv/../etc/passwd", permissive: true, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFilePathValidator()
			if tt.permissive {
				v = NewPermissiveFilePathValidator()
			}
			got, err := v.ValidateAndSanitize(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFilePathValidatorPrefixSibling(t *testing.T) {
	base := t.TempDir()
	v := &FilePathValidator{AllowedBaseDirs: []string{filepath.Join(base, "data")}, MaxPathLength: 4096}

	_, err := v.ValidateAndSanitize(filepath.Join(base, "data", "a.db"))
	assert.NoError(t, err)
	_, err = v.ValidateAndSanitize(filepath.Join(base, "data-other", "a.db"))
	assert.Error(t, err, "sibling sharing a name prefix is outside the base")
}

func TestValidateDirectory(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	dir := filepath.Join(t.TempDir(), "index.bleve")

	got, err := v.ValidateDirectory(dir, false)
	require.NoError(t, err)
	assert.NoDirExists(t, got)

	got, err = v.ValidateDirectory(dir, true)
	require.NoError(t, err)
	assert.DirExists(t, got)

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = v.ValidateDirectory(file, false)
	assert.Error(t, err)
}

func TestValidateFile(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	dir := t.TempDir()

	_, err := v.ValidateFile(dir)
	assert.Error(t, err)

	got, err := v.ValidateFile(filepath.Join(dir, "new.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new.yaml"), got)
}

func TestPathHandlerDefaults(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	ph := NewSecurePathHandler()

	db, err := ph.DBPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, ".qlaunch", "qlaunch.db"), db)

	cfg, err := ph.ConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, ".config", "qlaunch", "config.toml"), cfg)

	_, err = ph.DBPath("/var/lib/qlaunch.db")
	assert.Error(t, err)

	user, err := ph.UserFile("/srv/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/srv/catalog.yaml", user)
}
