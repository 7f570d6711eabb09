// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores aerostack configuration in the XDG config
// dir. Only non-secret settings are kept here; secrets (tokens, the remote
// connection string) go to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"aerostack/sdk/internal/xdg"
)

// Config holds non-sensitive SDK and CLI settings.
type Config struct {
	LogLevel string         `json:"log_level"`
	Identity IdentityConfig `json:"identity"`
	DB       DBConfig       `json:"db"`
	Cache    CacheConfig    `json:"cache"`
	Queue    QueueConfig    `json:"queue"`
}

// IdentityConfig points at the remote identity API.
type IdentityConfig struct {
	BaseURL string `json:"base_url"`
}

// Route is one table-to-engine routing rule. Order in the slice is the
// order rules are evaluated.
type Route struct {
	Table  string `json:"table"`
	Target string `json:"target"`
}

// DBConfig holds query router settings. The remote connection string is not
// here: it lives in the keychain or comes from AEROSTACK_DSN / DATABASE_URL.
type DBConfig struct {
	// LocalPath is the embedded database file. Empty disables the local
	// engine; "auto" places it in the XDG data dir.
	LocalPath string `json:"local_path"`
	// DefaultTarget routes statements no rule or heuristic claims:
	// "local", "remote", or empty for remote-when-configured.
	DefaultTarget string `json:"default_target"`
	// SchemaTarget selects the engine introspected when no binding hint is
	// given; same values as DefaultTarget.
	SchemaTarget string `json:"schema_target"`
	// Routes are evaluated in order; first match wins.
	Routes []Route `json:"routes"`
}

// CacheConfig holds key-value cache binding settings.
type CacheConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

// QueueConfig holds message queue binding settings.
type QueueConfig struct {
	Addr   string `json:"addr"`
	Stream string `json:"stream"`
}

// DefaultIdentityURL is the hosted identity API.
const DefaultIdentityURL = "https://aerostack.dev"

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Identity: IdentityConfig{BaseURL: DefaultIdentityURL},
		DB:       DBConfig{LocalPath: "auto"},
		Cache:    CacheConfig{Prefix: "aerostack"},
		Queue:    QueueConfig{Stream: "aerostack:events"},
	}
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Config{}, err
	}
	c := Defaults()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// LocalDBPath resolves the embedded database location. "auto" maps to
// edge.db in the XDG data dir; empty stays empty (local engine disabled).
func (c Config) LocalDBPath() (string, error) {
	switch c.DB.LocalPath {
	case "":
		return "", nil
	case "auto":
		dir, err := xdg.DataDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "edge.db"), nil
	default:
		return c.DB.LocalPath, nil
	}
}
