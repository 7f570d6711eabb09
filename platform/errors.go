// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package platform hosts the service bindings of the Aerostack SDK: cache,
// queue, storage, AI inference and generic service invocation. The bindings
// share a typed error model so callers can branch on failure categories
// without parsing message strings.
package platform

import "fmt"

// Kind is a machine-readable error category shared by all bindings.
type Kind string

const (
	// Unavailable indicates the backing service could not be reached.
	Unavailable Kind = "unavailable"
	// Unauthorized indicates the request was rejected for missing or invalid credentials.
	Unauthorized Kind = "unauthorized"
	// NotFound indicates the requested object or key does not exist.
	NotFound Kind = "not_found"
	// InvalidInput indicates the caller supplied malformed arguments.
	InvalidInput Kind = "invalid_input"
	// Internal indicates the service failed while processing a valid request.
	Internal Kind = "internal"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the category of err, or Internal when err carries none.
func KindOf(err error) Kind {
	if e, ok := err.(*E); ok {
		return e.Kind
	}
	return Internal
}
