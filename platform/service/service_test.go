// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package service

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"aerostack/sdk/platform"
)

func TestInvokeRejectsBareMethodName(t *testing.T) {
	c := &Client{}
	_, err := c.Invoke(context.Background(), "pkg.Service/Method", nil)
	var e *platform.E
	if !errors.As(err, &e) || e.Kind != platform.InvalidInput {
		t.Errorf("got %v, want InvalidInput", err)
	}
}

func TestTranslateStatus(t *testing.T) {
	tests := []struct {
		name string
		code codes.Code
		want platform.Kind
	}{
		{"unauthenticated", codes.Unauthenticated, platform.Unauthorized},
		{"permission denied", codes.PermissionDenied, platform.Unauthorized},
		{"not found", codes.NotFound, platform.NotFound},
		{"unimplemented", codes.Unimplemented, platform.NotFound},
		{"invalid argument", codes.InvalidArgument, platform.InvalidInput},
		{"unavailable", codes.Unavailable, platform.Unavailable},
		{"deadline exceeded", codes.DeadlineExceeded, platform.Unavailable},
		{"internal", codes.Internal, platform.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateStatus(status.Error(tt.code, "boom"), "/pkg.Svc/M")
			if got := platform.KindOf(err); got != tt.want {
				t.Errorf("translateStatus(%v) kind = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
