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
	"time"
)

// meCacheTTL bounds how long cached account data is served without a refresh.
const meCacheTTL = 10 * time.Minute

// GetMe retrieves the current account's profile. Results are cached in memory
// so callers still get an answer when the service is briefly unreachable.
func (h *HTTP) GetMe(ctx context.Context, accessToken string) (map[string]any, error) {
	if h.meCache != nil && time.Since(h.meCacheTime) < meCacheTTL {
		return h.meCache, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Me, nil)
	if err != nil {
		if h.meCache != nil {
			return h.meCache, nil
		}
		return nil, err
	}
	h.setStandardHeaders(req)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if h.meCache != nil {
			return h.meCache, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if h.meCache != nil {
			return h.meCache, nil
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.New("unauthorized")
		}
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get-me failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var account map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		if h.meCache != nil {
			return h.meCache, nil
		}
		return nil, err
	}

	h.meCache = account
	h.meCacheTime = time.Now()
	return account, nil
}
