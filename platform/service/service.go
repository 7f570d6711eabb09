// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package service is the cross-service RPC binding of the Aerostack SDK. It
// invokes platform services over gRPC with struct-typed payloads, so callers
// do not need generated stubs for every service they talk to.
//
// Method names use the literal proto path ("/package.Service/Method"). The
// client manages the connection lifecycle and attaches bearer metadata to
// every call.
package service

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"aerostack/sdk/platform"
)

// Client invokes platform services over a shared gRPC connection.
type Client struct {
	conn  *grpc.ClientConn
	token string
}

// Options configures a service client.
type Options struct {
	// Addr is the service gateway address. Port 443 is assumed when missing.
	Addr string
	// Token is sent as bearer metadata with every call.
	Token string
	// Insecure disables TLS, for local development only.
	Insecure bool
}

// Connect dials the service gateway.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	// Derive SNI and ensure default port if missing
	host := opts.Addr
	if h, _, err := net.SplitHostPort(opts.Addr); err == nil {
		host = h
	}
	target := opts.Addr
	if _, _, err := net.SplitHostPort(opts.Addr); err != nil {
		target = net.JoinHostPort(opts.Addr, "443")
	}

	var creds credentials.TransportCredentials
	if opts.Insecure {
		creds = insecure.NewCredentials()
	} else {
		creds = credentials.NewTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
	}

	dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(dctx, target, grpc.WithTransportCredentials(creds), grpc.WithBlock())
	if err != nil {
		return nil, platform.Wrap(platform.Unavailable, "service dial failed", err)
	}
	return &Client{conn: conn, token: opts.Token}, nil
}

// Invoke calls the given full method ("/package.Service/Method") with payload
// marshalled as a protobuf Struct, and returns the response Struct as a map.
func (c *Client) Invoke(ctx context.Context, fullMethod string, payload map[string]any) (map[string]any, error) {
	if fullMethod == "" || fullMethod[0] != '/' {
		return nil, platform.New(platform.InvalidInput, "method must be a full proto path like /pkg.Service/Method")
	}

	in, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, platform.Wrap(platform.InvalidInput, "payload not representable as a Struct", err)
	}

	if c.token != "" {
		md := metadata.Pairs("authorization", "Bearer "+c.token)
		ctx = metadata.NewOutgoingContext(ctx, md)
	}

	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, fullMethod, in, out); err != nil {
		return nil, translateStatus(err, fullMethod)
	}
	return out.AsMap(), nil
}

// translateStatus maps a gRPC status to the binding error model.
func translateStatus(err error, method string) error {
	st, ok := status.FromError(err)
	if !ok {
		return platform.Wrap(platform.Internal, "call failed: "+method, err)
	}
	switch st.Code().String() {
	case "Unauthenticated", "PermissionDenied":
		return platform.Wrap(platform.Unauthorized, st.Message(), err)
	case "NotFound", "Unimplemented":
		return platform.Wrap(platform.NotFound, st.Message(), err)
	case "InvalidArgument":
		return platform.Wrap(platform.InvalidInput, st.Message(), err)
	case "Unavailable", "DeadlineExceeded":
		return platform.Wrap(platform.Unavailable, st.Message(), err)
	default:
		return platform.Wrap(platform.Internal, st.Message(), err)
	}
}

// Close tears down the connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
