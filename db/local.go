// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the embedded engine driver. The database lives in a file (or in
// memory) colocated with the compute unit; latency is low but join-heavy
// workloads belong on the remote engine.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (and creates, if missing) the embedded database at path.
// Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, wrapError(KindConnectionFailed, "cannot open embedded database", err).
			withHint("check that the database path is writable")
	}
	return &SQLite{db: conn}, nil
}

// Exec runs one statement and returns normalized rows. Reads report the
// number of rows returned; writes report the number of rows affected.
func (s *SQLite) Exec(ctx context.Context, query string, params []any) ([]Row, int, time.Duration, error) {
	start := time.Now()

	if isWriteStatement(query) {
		res, err := s.db.ExecContext(ctx, query, params...)
		if err != nil {
			return nil, 0, 0, translateSQLiteError(err)
		}
		affected, _ := res.RowsAffected()
		return []Row{}, int(affected), time.Since(start), nil
	}

	rows, err := s.db.QueryxContext(ctx, query, params...)
	if err != nil {
		return nil, 0, 0, translateSQLiteError(err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		row := Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, 0, 0, translateSQLiteError(err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, translateSQLiteError(err)
	}
	return out, len(out), time.Since(start), nil
}

// Schema lists every user table (internal sqlite_* catalog tables excluded)
// with its columns in declaration order. Column metadata comes from a
// per-table PRAGMA round-trip; there is no bulk describe in SQLite.
func (s *SQLite) Schema(ctx context.Context) ([]SchemaTable, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, translateSQLiteError(err)
	}

	tables := make([]SchemaTable, 0, len(names))
	for _, name := range names {
		cols, err := s.tableColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, SchemaTable{Name: name, Columns: cols})
	}
	return tables, nil
}

// tableInfoRow mirrors one row of PRAGMA table_info output.
type tableInfoRow struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func (s *SQLite) tableColumns(ctx context.Context, table string) ([]SchemaColumn, error) {
	// PRAGMA does not accept bind parameters; the table name comes from
	// sqlite_master, quoted here against identifiers with special characters.
	var infos []tableInfoRow
	query := "PRAGMA table_info(" + quoteIdent(table) + ")"
	if err := s.db.SelectContext(ctx, &infos, query); err != nil {
		return nil, translateSQLiteError(err)
	}

	cols := make([]SchemaColumn, 0, len(infos))
	for _, info := range infos {
		col := SchemaColumn{
			Name:         info.Name,
			DeclaredType: info.Type,
			Nullable:     info.NotNull == 0,
			PrimaryKey:   info.PK > 0,
		}
		if info.Default.Valid {
			v := info.Default.String
			col.Default = &v
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// quoteIdent double-quotes an identifier, escaping embedded double quotes
// by doubling them per SQL syntax.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Close closes the embedded database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// isWriteStatement reports whether the statement mutates data or schema.
// Anything unrecognized is executed as a read.
func isWriteStatement(query string) bool {
	head := strings.ToLower(strings.TrimSpace(query))
	for _, prefix := range []string{"insert", "update", "delete", "create", "drop", "alter", "replace"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

// translateSQLiteError maps the embedded engine's error messages to the
// router taxonomy. SQLite reports catalog misses in stable message text, so
// matching is on substrings of the message; anything unmatched becomes a
// generic query failure with the original error preserved.
func translateSQLiteError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "no such table"):
		return wrapError(KindTableNotFound, tableFromMessage(err.Error(), "no such table"), err).
			withHint("check the table name or create the table first")
	case strings.Contains(msg, "no such column"), strings.Contains(msg, "has no column named"):
		return wrapError(KindColumnNotFound, "column does not exist", err).
			withHint("check the column name against the table schema")
	case strings.Contains(msg, "unable to open database"):
		return wrapError(KindConnectionFailed, "cannot open embedded database", err).
			withHint("check that the database path is writable")
	case strings.Contains(msg, "not authorized"), strings.Contains(msg, "access permission denied"):
		return wrapError(KindAuthFailed, "embedded engine denied access", err)
	case strings.Contains(msg, "cannot start a transaction"),
		strings.Contains(msg, "cannot commit"),
		strings.Contains(msg, "cannot rollback"):
		return wrapError(KindTransactionFailed, "transaction failed", err)
	default:
		return wrapError(KindQueryFailed, "query failed", err)
	}
}

// tableFromMessage builds a message naming the missing table, e.g.
// "no such table: widgets" -> "table not found: widgets".
func tableFromMessage(raw, marker string) string {
	idx := strings.Index(strings.ToLower(raw), marker)
	if idx < 0 {
		return "table does not exist"
	}
	name := strings.TrimSpace(strings.TrimPrefix(raw[idx+len(marker):], ":"))
	if name == "" {
		return "table does not exist"
	}
	return "table not found: " + name
}
