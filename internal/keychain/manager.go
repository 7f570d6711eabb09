// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores aerostack secrets in the OS credential store.
// Access tokens, refresh tokens, login state, and the remote database
// connection string all live here, never in the config file. A Manager is
// constructed explicitly and passed to whoever needs it; there is no
// package-level instance.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies the aerostack namespace in the credential store.
const ServiceName = "aerostack"

// Keys used for storing secrets in the OS keychain.
const (
	KeyAccessToken  = "auth_access_token"
	KeyRefreshToken = "auth_refresh_token"
	KeyAuthState    = "auth_state"
	KeyRemoteDSN    = "remote_dsn"
)

// Manager provides thread-safe operations against the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// Open opens the OS keyring using native platform backends.
func Open() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewWithRing wraps an existing keyring. Tests use this with an in-memory
// ring so they never touch the OS credential store.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring using native platform backends only.
// No file fallback: secrets either land in a real credential store or the
// operation fails.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// macOS Keychain first, pass(1) as fallback for headless setups.
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	return keyring.Open(cfg)
}

// SaveAuthTokens stores access and refresh tokens. Empty values are left
// untouched so callers can update the two independently.
func (m *Manager) SaveAuthTokens(accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if accessToken != "" {
		if err := m.ring.Set(keyring.Item{Key: KeyAccessToken, Data: []byte(accessToken)}); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if err := m.ring.Set(keyring.Item{Key: KeyRefreshToken, Data: []byte(refreshToken)}); err != nil {
			return err
		}
	}
	return nil
}

// LoadAccessToken retrieves the access token.
func (m *Manager) LoadAccessToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyAccessToken)
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", errors.New("empty access token")
	}
	return string(it.Data), nil
}

// LoadRefreshToken retrieves the refresh token.
func (m *Manager) LoadRefreshToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", errors.New("empty refresh token")
	}
	return string(it.Data), nil
}

// ClearAuth removes all auth-related secrets.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.ring.Remove(KeyAccessToken)
	_ = m.ring.Remove(KeyRefreshToken)
	_ = m.ring.Remove(KeyAuthState)
	return nil
}

// SaveAuthState stores serialized login state.
func (m *Manager) SaveAuthState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: KeyAuthState, Data: data})
}

// LoadAuthState retrieves serialized login state.
func (m *Manager) LoadAuthState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyAuthState)
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

// ClearAuthState removes the stored login state.
func (m *Manager) ClearAuthState() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.ring.Remove(KeyAuthState)
	return nil
}

// SaveRemoteDSN stores the remote database connection string.
func (m *Manager) SaveRemoteDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: KeyRemoteDSN, Data: []byte(dsn)})
}

// LoadRemoteDSN retrieves the remote database connection string.
func (m *Manager) LoadRemoteDSN() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyRemoteDSN)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

// ClearRemoteDSN removes the stored connection string.
func (m *Manager) ClearRemoteDSN() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.ring.Remove(KeyRemoteDSN)
	return nil
}

// ClearAll removes every aerostack secret. Use with caution.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.ring.Remove(KeyAccessToken)
	_ = m.ring.Remove(KeyRefreshToken)
	_ = m.ring.Remove(KeyAuthState)
	_ = m.ring.Remove(KeyRemoteDSN)
	return nil
}
