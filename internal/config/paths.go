// ABOUTME: Standard filesystem paths for pi-mood configuration and state
// ABOUTME: Resolves ~/.pi-mood/ for global and .pi-mood/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".pi-mood"
	projectDirName = ".pi-mood"
)

// GlobalDir returns the user-global config directory (~/.pi-mood/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.pi-mood/ in projectRoot).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global settings file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.json")
}

// ProjectConfigFile returns the path to the project-local settings file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "config.json")
}

// SessionsDir returns the directory holding per-session state and history files.
func SessionsDir() string {
	return filepath.Join(GlobalDir(), "sessions")
}

// DotEnvFiles returns the .env files consulted before ${VAR} expansion,
// most specific first.
func DotEnvFiles(projectRoot string) []string {
	return []string{
		filepath.Join(ProjectDir(projectRoot), ".env"),
		filepath.Join(GlobalDir(), ".env"),
	}
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
