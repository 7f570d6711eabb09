// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package db

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes the translator recognizes. Everything else becomes
// a generic query failure.
const (
	pgUndefinedTable   = "42P01"
	pgUndefinedColumn  = "42703"
	pgInvalidPassword  = "28P01"
	pgInvalidAuthSpec  = "28000"
	pgClassConnection  = "08"
	pgClassInvalidTxn  = "25"
	pgClassTxnRollback = "40"
)

// Postgres is the remote engine driver over a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the remote engine using an explicit connection
// string. The DSN is resolved once here, at construction; nothing scans the
// environment at query time.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, wrapError(KindConnectionFailed, "cannot connect to remote database", err).
			withHint("check the connection string; run `aerostack connect` to update it")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, translatePgError(err)
	}
	return &Postgres{pool: pool}, nil
}

// Exec runs one statement and returns normalized rows. pgx reports both
// returned and affected rows through the command tag, so reads and writes
// share one code path.
func (p *Postgres) Exec(ctx context.Context, query string, params []any) ([]Row, int, time.Duration, error) {
	start := time.Now()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, 0, translatePgError(err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, params...)
	if err != nil {
		return nil, 0, 0, translatePgError(err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	out := []Row{}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, 0, 0, translatePgError(err)
		}
		row := make(Row, len(fds))
		for i, fd := range fds {
			row[string(fd.Name)] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, translatePgError(err)
	}

	count := len(out)
	if count == 0 {
		// Writes return no rows; report affected rows from the command tag.
		count = int(rows.CommandTag().RowsAffected())
	}
	return out, count, time.Since(start), nil
}

// Schema lists the public-schema base tables with their columns in ordinal
// order, via the standard information_schema views. The remote path exposes
// no primary-key flag; SchemaColumn.PrimaryKey stays false here.
func (p *Postgres) Schema(ctx context.Context) ([]SchemaTable, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, translatePgError(err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, translatePgError(err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}

	tables := make([]SchemaTable, 0, len(names))
	for _, name := range names {
		cols, err := p.tableColumns(ctx, conn, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, SchemaTable{Name: name, Columns: cols})
	}
	return tables, nil
}

func (p *Postgres) tableColumns(ctx context.Context, conn *pgxpool.Conn, table string) ([]SchemaColumn, error) {
	rows, err := conn.Query(ctx,
		`SELECT column_name, data_type, is_nullable, column_default
		 FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = $1
		 ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var cols []SchemaColumn
	for rows.Next() {
		var name, dataType, nullable string
		var def *string
		if err := rows.Scan(&name, &dataType, &nullable, &def); err != nil {
			return nil, translatePgError(err)
		}
		cols = append(cols, SchemaColumn{
			Name:         name,
			DeclaredType: dataType,
			Nullable:     strings.EqualFold(nullable, "YES"),
			Default:      def,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return cols, nil
}

// Close shuts down the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// translatePgError maps remote engine failures onto the router taxonomy
// using documented PostgreSQL error codes, with the raw error preserved as
// the cause. Network-level failures (no PgError available) map to a
// connection failure.
func translatePgError(err error) *Error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUndefinedTable:
			return wrapError(KindTableNotFound, pgErr.Message, err).
				withHint("check the table name or create the table first")
		case pgErr.Code == pgUndefinedColumn:
			return wrapError(KindColumnNotFound, pgErr.Message, err).
				withHint("check the column name against the table schema")
		case pgErr.Code == pgInvalidPassword || pgErr.Code == pgInvalidAuthSpec:
			return wrapError(KindAuthFailed, "remote engine rejected credentials", err).
				withHint("run `aerostack connect` to update the connection string")
		case strings.HasPrefix(pgErr.Code, pgClassConnection):
			return wrapError(KindConnectionFailed, "remote engine unreachable", err)
		case strings.HasPrefix(pgErr.Code, pgClassInvalidTxn),
			strings.HasPrefix(pgErr.Code, pgClassTxnRollback):
			return wrapError(KindTransactionFailed, pgErr.Message, err)
		default:
			return wrapError(KindQueryFailed, pgErr.Message, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || strings.Contains(strings.ToLower(err.Error()), "connection refused") {
		return wrapError(KindConnectionFailed, "remote engine unreachable", err).
			withHint("check network access to the remote database")
	}

	return wrapError(KindQueryFailed, "query failed", err)
}
