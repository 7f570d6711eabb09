// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"strings"
)

// Detect classifies a connection string by engine family. URL-style
// postgres:// and postgresql:// strings address the remote engine;
// in-memory markers, file: URIs, and bare filesystem paths address the
// embedded engine.
func Detect(dsn string) EngineKind {
	s := strings.TrimSpace(dsn)
	lower := strings.ToLower(s)

	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return KindPostgres
	}
	if s == ":memory:" || strings.HasPrefix(lower, "file:") {
		return KindSQLite
	}
	if strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3") {
		return KindSQLite
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "~/") {
		return KindSQLite
	}
	return KindUnknown
}

// ParseRemote parses and validates a remote engine connection string,
// returning its components.
func ParseRemote(dsn string) (*Info, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, NewParseError("empty connection string", "provide a postgres:// connection string")
	}
	if Detect(dsn) != KindPostgres {
		return nil, NewParseError("not a PostgreSQL connection string", "use postgres:// or postgresql://")
	}
	return parsePostgres(dsn)
}

// Validate checks a remote engine connection string without returning the
// parsed form.
func Validate(dsn string) error {
	_, err := ParseRemote(dsn)
	return err
}

// Normalize parses a remote engine connection string and re-renders it in
// canonical postgresql:// form with credentials URL-encoded.
func Normalize(dsn string) (string, error) {
	info, err := ParseRemote(dsn)
	if err != nil {
		return "", err
	}
	return info.render(), nil
}
