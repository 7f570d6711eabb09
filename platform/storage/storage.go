// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package storage is the object store binding of the Aerostack SDK. Objects
// live in buckets addressed by key; the client is a thin HTTP wrapper around
// the platform's object API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aerostack/sdk/platform"
)

// Client talks to the object store HTTP API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Object describes a stored object as returned by List.
type Object struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// New creates a client for the object store at baseURL. The bearer token is
// attached to every request.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) objectURL(bucket, key string) string {
	return fmt.Sprintf("%s/v1/storage/%s/%s", c.baseURL, url.PathEscape(bucket), url.PathEscape(key))
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// Put uploads data under bucket/key with the given content type.
func (c *Client) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if bucket == "" || key == "" {
		return platform.New(platform.InvalidInput, "bucket and key must not be empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectURL(bucket, key), bytes.NewReader(data))
	if err != nil {
		return err
	}
	c.authorize(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return platform.Wrap(platform.Unavailable, "storage put failed", err)
	}
	defer resp.Body.Close()
	return statusError(resp, "put "+bucket+"/"+key)
}

// Get downloads the object stored under bucket/key.
func (c *Client) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(bucket, key), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, platform.Wrap(platform.Unavailable, "storage get failed", err)
	}
	defer resp.Body.Close()
	if err := statusError(resp, "get "+bucket+"/"+key); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// Delete removes the object stored under bucket/key.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(bucket, key), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return platform.Wrap(platform.Unavailable, "storage delete failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return statusError(resp, "delete "+bucket+"/"+key)
}

// List returns objects in bucket whose keys start with prefix. An empty
// prefix lists the whole bucket.
func (c *Client) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	u := fmt.Sprintf("%s/v1/storage/%s", c.baseURL, url.PathEscape(bucket))
	if prefix != "" {
		u += "?prefix=" + url.QueryEscape(prefix)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, platform.Wrap(platform.Unavailable, "storage list failed", err)
	}
	defer resp.Body.Close()
	if err := statusError(resp, "list "+bucket); err != nil {
		return nil, err
	}

	var out struct {
		Objects []Object `json:"objects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Objects, nil
}

// statusError maps an HTTP response status to a typed error, or nil for 2xx.
func statusError(resp *http.Response, op string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return platform.New(platform.NotFound, op+": object not found")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return platform.New(platform.Unauthorized, op+": not authorized")
	default:
		b, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = resp.Status
		}
		return platform.New(platform.Internal, fmt.Sprintf("%s: %s", op, msg))
	}
}
