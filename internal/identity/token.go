// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// parseBearerToken extracts the token from a value like "Bearer <token>",
// matching the prefix case-insensitively.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return ""
	}
	if strings.EqualFold(v[0:6], "bearer") {
		if rest := strings.TrimSpace(v[6:]); rest != "" {
			return rest
		}
	}
	return ""
}

// findBearerTokenInHeaders scans response headers for a bearer token,
// preferring the Authorization header.
func findBearerTokenInHeaders(h http.Header) string {
	if t := parseBearerToken(h.Get("Authorization")); t != "" {
		return t
	}

	for k, vals := range h {
		if strings.EqualFold(k, "authorization") {
			for _, v := range vals {
				if t := parseBearerToken(v); t != "" {
					return t
				}
			}
		}
		for _, v := range vals {
			lower := strings.ToLower(v)
			if idx := strings.Index(lower, "bearer "); idx >= 0 {
				if token := strings.TrimSpace(v[idx+len("bearer "):]); token != "" {
					return token
				}
			}
		}
	}
	return ""
}

// RefreshToken exchanges a refresh token for a new access token. The server
// may rotate the refresh token or keep it unchanged.
func (h *HTTP) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.RefreshToken, strings.NewReader(string(body)))
	if err != nil {
		return "", "", err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			return "", "", errors.New("refresh token expired or invalid")
		}
		b, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("refresh-token failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", err
	}

	newAccess := firstString(result, "access_token", "accessToken", "token")
	if newAccess == "" {
		return "", "", errors.New("no access_token in response")
	}
	newRefresh := firstString(result, "refresh_token", "refreshToken")
	return newAccess, newRefresh, nil
}

// firstString returns the first non-empty string value among keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
