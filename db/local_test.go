// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package db

import (
	"context"
	"errors"
	"testing"
)

// openTestDB creates an in-memory embedded database with a small schema.
func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	drv, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { drv.Close() })

	ctx := context.Background()
	stmts := []string{
		`CREATE TABLE widgets (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			shade TEXT DEFAULT 'gray',
			weight REAL
		)`,
		`CREATE TABLE sessions (token TEXT NOT NULL, expires_at INTEGER)`,
	}
	for _, stmt := range stmts {
		if _, _, _, err := drv.Exec(ctx, stmt, nil); err != nil {
			t.Fatalf("setup statement failed: %v", err)
		}
	}
	return drv
}

func TestSQLiteRoundTrip(t *testing.T) {
	drv := openTestDB(t)
	ctx := context.Background()

	r := newTestRouter(t, Options{Local: drv})

	ins, err := r.Query(ctx, "INSERT INTO widgets (name, shade, weight) VALUES (?, ?, ?)", "flange", "blue", 2.5)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if ins.Meta.RowCount != 1 {
		t.Errorf("insert RowCount = %d, want 1", ins.Meta.RowCount)
	}
	if ins.Meta.Target != TargetLocal {
		t.Errorf("insert Target = %v, want %v", ins.Meta.Target, TargetLocal)
	}

	sel, err := r.Query(ctx, "SELECT name, shade, weight FROM widgets WHERE name = ?", "flange")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(sel.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(sel.Rows))
	}
	row := sel.Rows[0]
	if row["name"] != "flange" || row["shade"] != "blue" {
		t.Errorf("row = %+v, want the inserted values back", row)
	}
	if w, ok := row["weight"].(float64); !ok || w != 2.5 {
		t.Errorf("weight = %v (%T), want 2.5", row["weight"], row["weight"])
	}
}

func TestSQLiteSchemaIntrospection(t *testing.T) {
	drv := openTestDB(t)

	tables, err := drv.Schema(context.Background())
	if err != nil {
		t.Fatalf("Schema() failed: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2 user tables", len(tables))
	}
	// sqlite_master ordering is by name here: sessions, widgets.
	if tables[0].Name != "sessions" || tables[1].Name != "widgets" {
		t.Fatalf("table order = %q, %q; want sessions, widgets", tables[0].Name, tables[1].Name)
	}

	byName := map[string]SchemaColumn{}
	for _, c := range tables[1].Columns {
		byName[c.Name] = c
	}

	id := byName["id"]
	if !id.PrimaryKey {
		t.Error("id.PrimaryKey = false, want true")
	}
	name := byName["name"]
	if name.Nullable {
		t.Error("name.Nullable = true, want false for NOT NULL column")
	}
	if name.DeclaredType != "TEXT" {
		t.Errorf("name.DeclaredType = %q, want engine-native TEXT", name.DeclaredType)
	}
	shade := byName["shade"]
	if shade.Default == nil || *shade.Default != "'gray'" {
		t.Errorf("shade.Default = %v, want the declared literal", shade.Default)
	}
	weight := byName["weight"]
	if !weight.Nullable || weight.PrimaryKey {
		t.Errorf("weight = %+v, want plain nullable non-key column", weight)
	}
}

func TestSQLiteSchemaHandlesQuotedTableNames(t *testing.T) {
	drv := openTestDB(t)
	ctx := context.Background()

	// Table names with embedded quotes and spaces are legal; introspection
	// must list them like any other table.
	if _, _, _, err := drv.Exec(ctx, `CREATE TABLE "odd ""name" (id INTEGER PRIMARY KEY)`, nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tables, err := drv.Schema(ctx)
	if err != nil {
		t.Fatalf("Schema() failed: %v", err)
	}
	var found *SchemaTable
	for i := range tables {
		if tables[i].Name == `odd "name` {
			found = &tables[i]
		}
	}
	if found == nil {
		t.Fatalf("table %q missing from schema: %+v", `odd "name`, tables)
	}
	if len(found.Columns) != 1 || found.Columns[0].Name != "id" || !found.Columns[0].PrimaryKey {
		t.Errorf("columns = %+v, want single primary-key id column", found.Columns)
	}
}

func TestSQLiteMissingTableMapsToTaxonomy(t *testing.T) {
	drv := openTestDB(t)

	_, _, _, err := drv.Exec(context.Background(), "SELECT * FROM missing_widgets", nil)
	if err == nil {
		t.Fatal("expected an error for a missing table")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if e.Kind != KindTableNotFound {
		t.Errorf("Kind = %v, want %v", e.Kind, KindTableNotFound)
	}
	if e.Cause == nil {
		t.Error("Cause = nil, want original driver error preserved")
	}
}

func TestIsWriteStatement(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{sql: "INSERT INTO t VALUES (1)", want: true},
		{sql: "  update t set a = 1", want: true},
		{sql: "DELETE FROM t", want: true},
		{sql: "CREATE TABLE t (id INTEGER)", want: true},
		{sql: "DROP TABLE t", want: true},
		{sql: "SELECT * FROM t", want: false},
		{sql: "PRAGMA table_info(t)", want: false},
		{sql: "WITH x AS (SELECT 1) SELECT * FROM x", want: false},
	}
	for _, tt := range tests {
		if got := isWriteStatement(tt.sql); got != tt.want {
			t.Errorf("isWriteStatement(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}
