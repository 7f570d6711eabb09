// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ai is the inference binding of the Aerostack SDK. It submits model
// runs to the platform's inference HTTP API and returns the outputs as-is.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aerostack/sdk/platform"
)

// Client talks to the inference HTTP API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Result is the outcome of a model run.
type Result struct {
	Model   string         `json:"model"`
	Outputs map[string]any `json:"outputs"`
	// Latency is the server-reported inference time in milliseconds.
	Latency int64 `json:"latency_ms"`
}

// New creates an inference client for the API at baseURL.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// Inference can be slow, allow more headroom than the other bindings.
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Run submits inputs to model and waits for the outputs.
func (c *Client) Run(ctx context.Context, model string, inputs map[string]any) (Result, error) {
	if model == "" {
		return Result{}, platform.New(platform.InvalidInput, "model name must not be empty")
	}

	body, err := json.Marshal(map[string]any{
		"model":  model,
		"inputs": inputs,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/ai/run", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, platform.Wrap(platform.Unavailable, "inference request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Result{}, platform.New(platform.NotFound, "unknown model: "+model)
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{}, platform.New(platform.Unauthorized, "inference not authorized")
	default:
		b, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = resp.Status
		}
		return Result{}, platform.New(platform.Internal, fmt.Sprintf("inference failed: %s", msg))
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, err
	}
	if out.Model == "" {
		out.Model = model
	}
	return out, nil
}
