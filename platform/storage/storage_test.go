// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"aerostack/sdk/platform"
)

func TestPutGetDelete(t *testing.T) {
	store := map[string][]byte{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			store[r.URL.Path] = body
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			b, ok := store[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write(b)
		case http.MethodDelete:
			delete(store, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx := context.Background()

	if err := c.Put(ctx, "assets", "logo.png", []byte("png-bytes"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := c.Get(ctx, "assets", "logo.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Errorf("Get = %q, want %q", got, "png-bytes")
	}
	if err := c.Delete(ctx, "assets", "logo.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err = c.Get(ctx, "assets", "logo.png")
	var e *platform.E
	if !errors.As(err, &e) || e.Kind != platform.NotFound {
		t.Errorf("Get after Delete: got %v, want NotFound", err)
	}
}

func TestUnauthorizedMapsToKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad")
	err := c.Put(context.Background(), "assets", "x", nil, "")
	var e *platform.E
	if !errors.As(err, &e) || e.Kind != platform.Unauthorized {
		t.Errorf("got %v, want Unauthorized", err)
	}
}
