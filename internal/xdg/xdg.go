// Package xdg resolves XDG Base Directory paths for aerostack.
// It falls back to the traditional dotfile locations when the XDG
// environment variables are unset and creates directories with private
// permissions, since the config directory may reference secrets.
package xdg

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the XDG config directory for aerostack.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/aerostack when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, "aerostack")
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}

// DataDir returns the XDG data directory for aerostack. The embedded
// database file lives here by default. It falls back to
// ~/.local/share/aerostack when XDG_DATA_HOME is unset.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(base, "aerostack")
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
