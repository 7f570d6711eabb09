// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"net/http"
	"testing"
)

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"standard", "Bearer abc123", "abc123"},
		{"lowercase", "bearer abc123", "abc123"},
		{"mixed case", "BeArEr abc123", "abc123"},
		{"extra spaces", "  Bearer   abc123  ", "abc123"},
		{"no prefix", "abc123", ""},
		{"empty", "", ""},
		{"prefix only", "Bearer ", ""},
		{"short", "Bear", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseBearerToken(tt.value); got != tt.want {
				t.Errorf("parseBearerToken(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFindBearerTokenInHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer tok-1")
	if got := findBearerTokenInHeaders(h); got != "tok-1" {
		t.Errorf("got %q, want tok-1", got)
	}

	h = http.Header{}
	h.Set("X-Auth", "bearer tok-2")
	if got := findBearerTokenInHeaders(h); got != "tok-2" {
		t.Errorf("got %q, want tok-2", got)
	}

	if got := findBearerTokenInHeaders(http.Header{}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestFirstString(t *testing.T) {
	m := map[string]any{"accessToken": "a", "token": "b", "n": 3}
	if got := firstString(m, "access_token", "accessToken", "token"); got != "a" {
		t.Errorf("got %q, want a", got)
	}
	if got := firstString(m, "missing"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestWalkJSONFindsNestedTokens(t *testing.T) {
	var access, refresh string
	walkJSON(map[string]any{
		"data": map[string]any{
			"access_token":  "aa",
			"refresh_token": "rr",
		},
	}, &access, &refresh)
	if access != "aa" || refresh != "rr" {
		t.Errorf("got (%q, %q), want (aa, rr)", access, refresh)
	}
}
