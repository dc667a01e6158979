package validation

import (
	"os"
	"path/filepath"
)

// PathHandler resolves the launcher's database, index and config paths.
type PathHandler struct {
	validator *FilePathValidator
}

func NewSecurePathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator()}
}

func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{validator: NewPermissiveFilePathValidator()}
}

// UserFile validates a file the user points the launcher at.
func (ph *PathHandler) UserFile(path string) (string, error) {
	return NewPermissiveFilePathValidator().ValidateFile(path)
}

func (ph *PathHandler) DBPath(userPath string) (string, error) {
	if userPath == "" {
		p, err := dataPath("qlaunch.db")
		if err != nil {
			return "", err
		}
		userPath = p
	}
	return ph.validator.ValidateFile(userPath)
}

func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".config", "qlaunch", "config.toml")
	}
	return ph.validator.ValidateFile(userPath)
}

// IndexPath validates the bleve index location, which is a directory.
func (ph *PathHandler) IndexPath(userPath string) (string, error) {
	if userPath == "" {
		p, err := dataPath("index.bleve")
		if err != nil {
			return "", err
		}
		userPath = p
	}
	return ph.validator.ValidateDirectory(userPath, false)
}

func dataPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".qlaunch", name), nil
}
