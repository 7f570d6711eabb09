// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aerostack/sdk/platform"
)

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Model  string         `json:"model"`
			Inputs map[string]any `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if in.Model == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model":      in.Model,
			"outputs":    map[string]any{"text": "hello"},
			"latency_ms": 12,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")

	res, err := c.Run(context.Background(), "summarizer-v2", map[string]any{"text": "long document"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outputs["text"] != "hello" {
		t.Errorf("outputs = %v", res.Outputs)
	}
	if res.Latency != 12 {
		t.Errorf("latency = %d, want 12", res.Latency)
	}

	_, err = c.Run(context.Background(), "missing", nil)
	var e *platform.E
	if !errors.As(err, &e) || e.Kind != platform.NotFound {
		t.Errorf("unknown model: got %v, want NotFound", err)
	}

	_, err = c.Run(context.Background(), "", nil)
	if !errors.As(err, &e) || e.Kind != platform.InvalidInput {
		t.Errorf("empty model: got %v, want InvalidInput", err)
	}
}
