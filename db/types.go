// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package db

import "time"

// Target identifies which engine a statement executes against.
type Target string

const (
	// TargetLocal is the embedded SQLite-family engine colocated with the
	// compute unit.
	TargetLocal Target = "local"
	// TargetRemote is the centrally hosted PostgreSQL-family engine.
	TargetRemote Target = "remote"
)

// Inline directives a caller can embed in SQL text (typically in a comment)
// to force routing for that statement regardless of rules or heuristics.
const (
	DirectiveRemote = "aerostack:target=remote"
	DirectiveLocal  = "aerostack:target=local"
)

// Rule assigns a table name to an execution target. Rules are evaluated in
// the order they were supplied; the first table name found as a substring of
// the statement wins.
type Rule struct {
	Table  string `json:"table"`
	Target Target `json:"target"`
}

// Row is an engine-native record. The router stays agnostic to row content;
// callers deserialize rows into their own domain types.
type Row map[string]any

// Request is a single SQL statement plus its ordered bind parameters.
type Request struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params,omitempty"`
}

// Meta describes how a statement was executed.
type Meta struct {
	// Target is the engine that executed (or was selected for) the statement.
	Target Target `json:"target"`
	// RowCount is the number of rows returned (reads) or affected (writes).
	RowCount int `json:"row_count"`
	// Duration is the wall-clock driver execution time.
	Duration time.Duration `json:"duration"`
}

// Response is the normalized result of a successful execution. A failed
// execution returns an *Error instead; the two outcomes are mutually
// exclusive.
type Response struct {
	Rows    []Row `json:"rows"`
	Success bool  `json:"success"`
	Meta    Meta  `json:"meta"`
}

// BatchError records the failure of a single statement within a batch.
type BatchError struct {
	Index int    `json:"index"`
	Err   *Error `json:"error"`
}

// BatchResult holds one response per input statement, preserving input
// order. Failed statements are represented by an empty unsuccessful
// Response in Results plus an entry in Errors at the same index.
type BatchResult struct {
	Results []Response   `json:"results"`
	Errors  []BatchError `json:"errors,omitempty"`
	Success bool         `json:"success"`
}

// SchemaColumn describes one column as the owning engine declares it. The
// declared type is engine-native and intentionally not normalized across
// engines.
type SchemaColumn struct {
	Name         string  `json:"name"`
	DeclaredType string  `json:"declared_type"`
	Nullable     bool    `json:"nullable"`
	Default      *string `json:"default,omitempty"`
	// PrimaryKey is only populated by the embedded engine. The remote
	// engine's information_schema path does not expose it; that asymmetry
	// is part of the contract.
	PrimaryKey bool `json:"primary_key,omitempty"`
}

// SchemaTable is one user table with its columns in declaration order.
type SchemaTable struct {
	Name    string         `json:"name"`
	Columns []SchemaColumn `json:"columns"`
}

// SchemaInfo is the result of introspecting one engine.
type SchemaInfo struct {
	Tables []SchemaTable `json:"tables"`
	Source Target        `json:"source"`
}
