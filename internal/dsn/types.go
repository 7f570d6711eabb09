// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn classifies and validates database connection strings for the
// two engine families the router knows: the remote PostgreSQL-family engine
// (URL-style DSNs) and the embedded SQLite-family engine (file paths).
// Connection strings are resolved once, at construction time.
package dsn

import "fmt"

// EngineKind is the engine family a connection string addresses.
type EngineKind string

const (
	KindPostgres EngineKind = "postgres"
	KindSQLite   EngineKind = "sqlite"
	KindUnknown  EngineKind = "unknown"
)

// Info contains the parsed components of a PostgreSQL connection string.
type Info struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
	Original string
}

// ParseError describes an invalid connection string, with a remediation
// hint when one is available. The DSN itself is kept out of the message so
// errors can be logged without masking.
type ParseError struct {
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid connection string: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid connection string: %s", e.Reason)
}

// NewParseError creates a new ParseError.
func NewParseError(reason, hint string) *ParseError {
	return &ParseError{Reason: reason, Hint: hint}
}
