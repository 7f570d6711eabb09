// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package db

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category. Raw driver errors never cross
// the package boundary; they are translated to one of these kinds with the
// original error preserved as the cause.
type Kind string

const (
	// KindConnectionFailed indicates no driver is configured for the
	// selected target, or the selected driver is unreachable.
	KindConnectionFailed Kind = "connection_failed"
	// KindQueryFailed is the generic execution failure on a reachable driver.
	KindQueryFailed Kind = "query_failed"
	// KindTableNotFound indicates the statement referenced a missing table.
	KindTableNotFound Kind = "table_not_found"
	// KindColumnNotFound indicates the statement referenced a missing column.
	KindColumnNotFound Kind = "column_not_found"
	// KindAuthFailed indicates the driver rejected the configured credentials.
	KindAuthFailed Kind = "auth_failed"
	// KindTransactionFailed indicates a transaction could not start, commit,
	// or was aborted by the engine.
	KindTransactionFailed Kind = "transaction_failed"
)

// Error wraps a driver failure with kind, human-friendly message, and an
// optional remediation hint. The original driver error is kept as Cause.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func wrapError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func (e *Error) withHint(hint string) *Error {
	e.Hint = hint
	return e
}

// KindOf extracts the error kind from err, or KindQueryFailed when err is
// not a router error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindQueryFailed
}

// asError coerces any error to *Error, defaulting unmatched errors to
// KindQueryFailed with the original text preserved.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return wrapError(KindQueryFailed, "query failed", err)
}
