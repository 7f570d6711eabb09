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
	"net/url"
	"strings"
	"time"
)

// BeginDeviceLink fetches a login link from the identity API.
// Returns the link URL, the device code, and the polling interval in seconds.
func (h *HTTP) BeginDeviceLink(ctx context.Context) (string, string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.GetLink, nil)
	if err != nil {
		return "", "", 0, err
	}
	h.setStandardHeaders(req)
	resp, err := h.client.Do(req)
	if err != nil {
		return "", "", 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", "", 0, fmt.Errorf("get-link failed: %s", strings.TrimSpace(string(b)))
	}

	// Be liberal in what we accept: decode into a map first
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", "", 0, err
	}

	link := ""
	if v, ok := raw["link"].(string); ok {
		link = strings.TrimSpace(v)
	}
	if link == "" {
		return "", "", 0, errors.New("empty login link")
	}

	return link, extractDeviceCode(raw, link), 3, nil
}

// extractDeviceCode pulls the device code out of the response payload, trying
// the common field names and falling back to the link URL itself.
func extractDeviceCode(raw map[string]any, link string) string {
	candidates := []string{
		"device_id", "deviceId", "code", "user_code", "userCode", "device_code", "deviceCode",
	}
	for _, key := range candidates {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return deviceCodeFromURL(link)
}

// deviceCodeFromURL tries query parameters first, then the last non-empty
// path segment.
func deviceCodeFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	q := u.Query()
	for _, key := range []string{"device_id", "deviceId", "code"} {
		if v := q.Get(key); v != "" {
			return v
		}
	}

	parts := strings.Split(u.Path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return ""
}

// PollDeviceLink posts the device code to the token endpoint. Empty tokens
// with a nil error mean the link has not been approved yet.
func (h *HTTP) PollDeviceLink(ctx context.Context, deviceCode string) (string, string, error) {
	body, err := json.Marshal(map[string]string{"device_id": deviceCode})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.GetToken, strings.NewReader(string(body)))
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

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if token := findBearerTokenInHeaders(resp.Header); token != "" {
			return token, "", nil
		}
		access, refresh := parseTokensFromBody(resp.Body, resp.Header.Get("Content-Type"))
		return access, refresh, nil
	default:
		// Pending authorization or transient rejection
		return "", "", nil
	}
}

// parseTokensFromBody extracts access and refresh tokens from a JSON or
// plain-text response body.
func parseTokensFromBody(r io.Reader, contentType string) (string, string) {
	lowerCT := strings.ToLower(contentType)
	if strings.Contains(lowerCT, "application/json") || strings.Contains(lowerCT, "+json") || contentType == "" {
		var body any
		if err := json.NewDecoder(r).Decode(&body); err == nil {
			var access, refresh string
			walkJSON(body, &access, &refresh)
			return access, refresh
		}
	}

	b, _ := io.ReadAll(r)
	if token := strings.TrimSpace(string(b)); token != "" {
		return token, ""
	}
	return "", ""
}

// walkJSON recursively searches a decoded JSON structure for access and
// refresh tokens under their common field names.
func walkJSON(node any, access *string, refresh *string) {
	if *access != "" && *refresh != "" {
		return
	}

	switch v := node.(type) {
	case map[string]any:
		for k, vv := range v {
			lk := strings.ToLower(strings.ReplaceAll(k, "_", ""))
			if s, ok := vv.(string); ok {
				val := strings.TrimSpace(s)
				if *access == "" {
					if lk == "accesstoken" || lk == "access" || lk == "token" || lk == "bearer" {
						*access = val
					} else if lk == "authorization" {
						if t := parseBearerToken(val); t != "" {
							*access = t
						}
					}
				}
				if *refresh == "" && (lk == "refreshtoken" || lk == "refresh") {
					*refresh = val
				}
			}
			if *access == "" || *refresh == "" {
				walkJSON(vv, access, refresh)
			}
		}
	case []any:
		for _, e := range v {
			if *access == "" || *refresh == "" {
				walkJSON(e, access, refresh)
			}
		}
	}
}

// ConfirmDevice validates the access token and returns the account ID.
func (h *HTTP) ConfirmDevice(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.ConfirmDevice, nil)
	if err != nil {
		return "", err
	}
	h.setStandardHeaders(req)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var out map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&out); err == nil {
			for _, key := range []string{"account_id", "user_id"} {
				if v, ok := out[key].(string); ok && v != "" {
					return v, nil
				}
			}
		}
		return "", errors.New("unexpected response")
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return "", errors.New("unauthorized")
	}

	b, _ := io.ReadAll(resp.Body)
	return "", fmt.Errorf("confirm-device failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

// Logout invalidates the access token and drops the cached account data.
func (h *HTTP) Logout(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.Logout, nil)
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	h.meCache = nil
	h.meCacheTime = time.Time{}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	b, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("logout failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
}
