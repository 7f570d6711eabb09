// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package identity is the HTTP client for the Aerostack identity API. It
// covers the device-link login flow, token refresh, logout, and account
// lookup. The package holds no auth decision logic; the server is the
// authority for every operation here.
package identity

import "context"

// API defines the identity operations the SDK depends on.
// Implementations may call the real HTTP endpoints or provide mocks for tests.
type API interface {
	GetVersion(ctx context.Context) (string, error)
	// BeginDeviceLink requests a login link and device code.
	BeginDeviceLink(ctx context.Context) (authURL string, deviceCode string, pollIntervalSeconds int, err error)
	// PollDeviceLink polls for tokens. Empty tokens with a nil error mean
	// the user has not approved the link yet.
	PollDeviceLink(ctx context.Context, deviceCode string) (accessToken string, refreshToken string, err error)
	// ConfirmDevice validates the access token and returns the associated
	// account identifier.
	ConfirmDevice(ctx context.Context, accessToken string) (accountID string, err error)
	// Logout invalidates the access token on the server.
	Logout(ctx context.Context, accessToken string) error
	// GetMe retrieves the current account's profile.
	GetMe(ctx context.Context, accessToken string) (map[string]any, error)
	// RefreshToken exchanges a refresh token for a new access token, and
	// possibly a rotated refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, newRefreshToken string, err error)
}

// New creates an identity API client for the service at baseURL.
func New(baseURL string) API {
	return newHTTP(baseURL, DefaultEndpoints())
}
