// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// HTTP implements API over REST endpoints. Account data from /api/cli/me is
// cached in memory to support offline callers and reduce round trips.
type HTTP struct {
	baseURL   string
	endpoints Endpoints
	client    *http.Client

	meCache     map[string]any
	meCacheTime time.Time
}

func newHTTP(baseURL string, endpoints Endpoints) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("User-Agent", "aerostack-sdk")
}

// GetVersion calls GET /api/version. No authentication required; useful as a
// connectivity check.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Version, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}
