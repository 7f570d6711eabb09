// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package queue

import (
	"context"
	"errors"
	"testing"

	"aerostack/sdk/platform"
)

func TestNewRequiresStream(t *testing.T) {
	_, err := New(context.Background(), Options{Addr: "localhost:6379"})
	var e *platform.E
	if !errors.As(err, &e) || e.Kind != platform.InvalidInput {
		t.Errorf("got %v, want InvalidInput", err)
	}
}
