// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth manages the Aerostack login session on the client side. It
// drives the device-link login flow against the identity API, persists tokens
// in the OS keychain, and refreshes access tokens when they expire. No auth
// decisions happen here; the identity service is the authority.
package auth

import (
	"context"

	"aerostack/sdk/internal/identity"
	"aerostack/sdk/internal/keychain"
)

// Service centralizes session operations against the identity API and local
// secure storage. Construct it with NewService; both collaborators are
// injected so tests can substitute fakes.
type Service struct {
	api  identity.API
	keys *keychain.Manager
}

// NewService constructs an auth Service.
func NewService(api identity.API, keys *keychain.Manager) *Service {
	return &Service{api: api, keys: keys}
}

// StartLogin begins the device-link login flow.
func (s *Service) StartLogin(ctx context.Context) (authURL string, deviceCode string, pollIntervalSeconds int, err error) {
	return s.api.BeginDeviceLink(ctx)
}

// PollLogin attempts to complete login for the given device code. When tokens
// are issued they are saved to the keychain and login state is updated.
// Returns (account, true, nil) on success; (_, false, nil) while pending.
func (s *Service) PollLogin(ctx context.Context, deviceCode string) (string, bool, error) {
	access, refresh, err := s.api.PollDeviceLink(ctx, deviceCode)
	if err != nil {
		return "", false, err
	}
	if access == "" {
		return "", false, nil
	}

	if err := s.keys.SaveAuthTokens(access, refresh); err != nil {
		return "", false, err
	}

	accountID := ""
	if id, err := s.api.ConfirmDevice(ctx, access); err == nil && id != "" {
		accountID = id
	}
	if accountID == "" {
		accountID = "user"
	}
	_ = s.saveState(State{LoggedIn: true, Account: accountID})
	return accountID, true, nil
}

// WhoAmI validates the current access token and returns the account when
// valid. It tries the profile endpoint first, refreshes an expired token,
// falls back to device confirmation, and finally to local state for offline
// use. A failed refresh clears local credentials.
func (s *Service) WhoAmI(ctx context.Context) (string, bool, error) {
	token, err := s.keys.LoadAccessToken()
	if err == nil && token != "" {
		account, meErr := s.api.GetMe(ctx, token)
		if meErr == nil && account != nil {
			return accountIdentifier(account), true, nil
		}

		if meErr != nil && meErr.Error() == "unauthorized" {
			refreshed, _ := s.RefreshAccessToken(ctx)
			if !refreshed {
				// Both tokens expired
				_ = s.ResetLocalAuth()
				return "", false, nil
			}
			if newToken, err := s.keys.LoadAccessToken(); err == nil && newToken != "" {
				if account, err := s.api.GetMe(ctx, newToken); err == nil && account != nil {
					return accountIdentifier(account), true, nil
				}
			}
		}

		if id, err := s.api.ConfirmDevice(ctx, token); err == nil && id != "" {
			return id, true, nil
		}
	}

	// Offline fallback
	st, err := s.loadState()
	if err != nil {
		return "", false, err
	}
	if st.LoggedIn && st.Account != "" {
		return st.Account, true, nil
	}
	return "", false, nil
}

// accountIdentifier picks a display identifier from profile data.
func accountIdentifier(account map[string]any) string {
	for _, key := range []string{"account_id", "user_id", "id", "email"} {
		if v, ok := account[key].(string); ok && v != "" {
			return v
		}
	}
	return "user"
}

// Logout performs remote logout best-effort and clears local credentials.
func (s *Service) Logout(ctx context.Context) error {
	if token, err := s.keys.LoadAccessToken(); err == nil && token != "" {
		_ = s.api.Logout(ctx, token)
	}
	return s.ResetLocalAuth()
}

// ResetLocalAuth clears local credentials and state without remote calls.
func (s *Service) ResetLocalAuth() error {
	if err := s.keys.ClearAuth(); err != nil {
		return err
	}
	return s.clearState()
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token and persists the result. Returns true when the refresh succeeded.
func (s *Service) RefreshAccessToken(ctx context.Context) (bool, error) {
	refreshToken, err := s.keys.LoadRefreshToken()
	if err != nil || refreshToken == "" {
		return false, err
	}

	newAccess, newRefresh, err := s.api.RefreshToken(ctx, refreshToken)
	if err != nil {
		return false, err
	}

	if err := s.keys.SaveAuthTokens(newAccess, newRefresh); err != nil {
		return false, err
	}
	return true, nil
}

// GetAccessToken returns the stored access token without validation.
// For automatic refresh use GetValidAccessToken.
func (s *Service) GetAccessToken(ctx context.Context) (string, error) {
	return s.keys.LoadAccessToken()
}

// GetValidAccessToken returns an access token, refreshing it first when the
// stored one is rejected. When both tokens are expired, local auth is cleared
// and the unauthorized error is returned.
func (s *Service) GetValidAccessToken(ctx context.Context) (string, error) {
	token, err := s.keys.LoadAccessToken()
	if err != nil {
		return "", err
	}

	_, meErr := s.api.GetMe(ctx, token)
	if meErr == nil {
		return token, nil
	}
	if meErr.Error() == "unauthorized" {
		if refreshed, _ := s.RefreshAccessToken(ctx); refreshed {
			if newToken, err := s.keys.LoadAccessToken(); err == nil {
				return newToken, nil
			}
		}
		_ = s.ResetLocalAuth()
		return "", meErr
	}

	// Network error, let the caller try with the stored token
	return token, nil
}

// WarmCache pre-fetches profile data so whoami works offline right after login.
func (s *Service) WarmCache(ctx context.Context) error {
	token, err := s.keys.LoadAccessToken()
	if err != nil || token == "" {
		return err
	}
	_, _ = s.api.GetMe(ctx, token)
	return nil
}

// GetUserData retrieves the full account profile.
func (s *Service) GetUserData(ctx context.Context) (map[string]any, error) {
	token, err := s.keys.LoadAccessToken()
	if err != nil || token == "" {
		return nil, err
	}
	return s.api.GetMe(ctx, token)
}
