package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qlaunch/internal/alias"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Timeout != 1*time.Second {
		t.Errorf("Database.Timeout = %v, want 1s", cfg.Database.Timeout)
	}
	if cfg.Launcher.GridColumns != 4 {
		t.Errorf("Launcher.GridColumns = %d, want 4", cfg.Launcher.GridColumns)
	}
	if cfg.Launcher.MemeDebounce != 300*time.Millisecond {
		t.Errorf("Launcher.MemeDebounce = %v, want 300ms", cfg.Launcher.MemeDebounce)
	}
	if cfg.Domains.Bookmarks.Alias != "bm" || !cfg.Domains.Bookmarks.Enabled {
		t.Errorf("Domains.Bookmarks = %+v, want enabled alias 'bm'", cfg.Domains.Bookmarks)
	}
	if len(cfg.Web.Fallback) == 0 {
		t.Error("Web.Fallback should not be empty")
	}
	if cfg.Media.DefaultOpener == "" {
		t.Error("Media.DefaultOpener should not be empty")
	}
	if cfg.Keys.Bindings.QuickActions != "k" {
		t.Errorf("Keys.Bindings.QuickActions = %s, want 'k'", cfg.Keys.Bindings.QuickActions)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 50, cfg.Launcher.SearchLimit)
	assert.Equal(t, "2fa", cfg.Domains.TwoFactor.Alias)
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[database]
path = "/tmp/test.db"
timeout = "10s"

[launcher]
start_expanded = false
grid_columns = 6
meme_debounce = "250ms"

[domains.bookmarks]
alias = "b"
enabled = false

[[web.fallback]]
name = "Kagi"
url = "https://kagi.com/search?q={query}"

[ui.colors]
primary = "#FF0000"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.False(t, cfg.Launcher.StartExpanded)
	assert.Equal(t, 6, cfg.Launcher.GridColumns)
	assert.Equal(t, 250*time.Millisecond, cfg.Launcher.MemeDebounce)
	assert.Equal(t, "b", cfg.Domains.Bookmarks.Alias)
	assert.False(t, cfg.Domains.Bookmarks.Enabled)
	require.Len(t, cfg.Web.Fallback, 1)
	assert.Equal(t, "Kagi", cfg.Web.Fallback[0].Name)
	assert.Equal(t, "#FF0000", cfg.UI.Colors.Primary)
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[launcher\ngrid_columns = "), 0o644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.Database.Path = "/test/path.db"
	cfg.Launcher.GridColumns = 5
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(tmpDir, "nested", "saved-config.toml")
	require.NoError(t, Save(cfg, savePath))

	_, statErr := os.Stat(savePath)
	require.NoError(t, statErr)

	loaded, err := Load(savePath)
	require.NoError(t, err)

	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
	assert.Equal(t, 5, loaded.Launcher.GridColumns)
	assert.Equal(t, cfg.Launcher.MemeDebounce, loaded.Launcher.MemeDebounce)
	assert.Equal(t, "alt", loaded.Keys.Modifier)
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	require.NoError(t, GenerateDefaultConfig(configPath))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "ctrl", cfg.Keys.Modifier)
	assert.Equal(t, 4, cfg.Launcher.GridColumns)
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "qlaunch-test/1.0", cfg.Memes.UserAgent)
}

func TestSettings(t *testing.T) {
	cfg := TestConfig()
	cfg.Domains.Memes.Enabled = false
	cfg.Launcher.GridColumns = 0

	s := cfg.Settings()
	assert.True(t, s.StartExpanded)
	assert.Equal(t, 4, s.GridColumns, "non-positive column count falls back to 4")
	assert.True(t, s.Enabled(alias.Bookmarks))
	assert.False(t, s.Enabled(alias.Memes))
	assert.Equal(t, "2fa", s.Aliases[alias.TwoFactor].Alias)

	s.Fallback[0].Name = "mutated"
	assert.NotEqual(t, "mutated", cfg.Web.Fallback[0].Name)
}

func TestStaticSource(t *testing.T) {
	src := &StaticSource{Value: TestConfig().Settings()}
	_ = src.Settings()
	src.Value.GridColumns = 3
	assert.Equal(t, 3, src.Settings().GridColumns)
	assert.Equal(t, 2, src.Reads)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[launcher]\ngrid_columns = 3\n"), 0o644))

	live, err := Watch(configPath)
	require.NoError(t, err)
	assert.Equal(t, 3, live.Settings().GridColumns)
	assert.Equal(t, configPath, live.File())

	changed := make(chan struct{}, 1)
	live.OnChange(func(*Config) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	require.NoError(t, os.WriteFile(configPath, []byte("[launcher]\ngrid_columns = 7\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
	assert.Eventually(t, func() bool {
		return live.Settings().GridColumns == 7
	}, 2*time.Second, 20*time.Millisecond)
}
