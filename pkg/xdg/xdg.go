// pkg/xdg/xdg.go

package xdg

import (
	"os"
	"path/filepath"
)

func GetEnvOrDefault(envVar, fallback string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return fallback
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return os.Getenv("HOME")
}

func XDGConfigPath(app, file string) string {
	base := GetEnvOrDefault("XDG_CONFIG_HOME", filepath.Join(home(), ".config"))
	return filepath.Join(base, app, file)
}

func XDGStatePath(app, file string) string {
	base := GetEnvOrDefault("XDG_STATE_HOME", filepath.Join(home(), ".local", "state"))
	return filepath.Join(base, app, file)
}

// EnsureDir creates the parent directory of path, owner-only.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), DirPermPrivate)
}
