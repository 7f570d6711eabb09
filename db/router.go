// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package db implements the Aerostack query router. It decides, per SQL
// statement, whether to execute against the edge-local embedded engine
// (SQLite-family) or the remote relational engine (PostgreSQL-family), and
// normalizes both engines' results and errors into one response shape.
//
// Routing is a pure, deterministic classification of the SQL text: an inline
// directive wins over configured table rules, table rules win over the
// complexity heuristic, and the heuristic wins over the configured default.
// Classification is substring-based by design; it is a heuristic, not a SQL
// parser, and its exact semantics are part of the compatibility contract.
//
// A Router is constructed once per logical session or request scope and
// passed explicitly; there is no package-level instance. Routing rules are
// immutable after construction and each call is independent, so a Router is
// safe for concurrent use.
package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// complexityKeywords route a statement to the remote engine when present.
// These operations are assumed to exceed the embedded engine's comfortable
// performance envelope.
var complexityKeywords = []string{"join", "group by", "having", "union", "intersect", "except"}

// Driver is the contract both engine drivers satisfy. Implementations
// translate their native errors to *Error before returning.
type Driver interface {
	// Exec runs one statement with ordered bind parameters and returns the
	// normalized rows plus execution timing.
	Exec(ctx context.Context, sql string, params []any) ([]Row, int, time.Duration, error)
	// Schema introspects the engine's user tables in a stable order.
	Schema(ctx context.Context) ([]SchemaTable, error)
	// Close releases the underlying connection handle.
	Close() error
}

// Options configures a Router. At least one driver must be supplied.
type Options struct {
	// Local is the embedded engine driver, nil when not configured.
	Local Driver
	// Remote is the remote engine driver, nil when not configured.
	Remote Driver
	// Rules maps table names to targets, evaluated in slice order.
	Rules []Rule
	// DefaultTarget is used when no directive, rule, or complexity keyword
	// matches. Empty means remote when a remote driver is configured,
	// otherwise local.
	DefaultTarget Target
	// SchemaTarget selects the engine for introspection when no binding
	// hint is given. Empty resolves the same way as DefaultTarget.
	SchemaTarget Target
	// Logger receives routing decisions at debug level. Optional.
	Logger *zerolog.Logger
}

// Router routes SQL statements between the two engines. It holds only the
// two driver handles and the immutable routing configuration.
type Router struct {
	local         Driver
	remote        Driver
	rules         []Rule
	defaultTarget Target
	schemaTarget  Target
	log           zerolog.Logger
}

// New constructs a Router from options, resolving unset defaults to the
// remote engine when one is configured and the local engine otherwise.
func New(opts Options) (*Router, error) {
	if opts.Local == nil && opts.Remote == nil {
		return nil, newError(KindConnectionFailed, "no database driver configured").
			withHint("configure a local database path or a remote connection string")
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	// A rule with an empty table name would substring-match every
	// statement and shadow the heuristic and the default. Drop such rules
	// instead of letting a blank config line capture all traffic.
	rules := make([]Rule, 0, len(opts.Rules))
	for _, rule := range opts.Rules {
		if strings.TrimSpace(rule.Table) == "" {
			log.Warn().Msg("ignoring routing rule with empty table name")
			continue
		}
		rules = append(rules, rule)
	}

	r := &Router{
		local:         opts.Local,
		remote:        opts.Remote,
		rules:         rules,
		defaultTarget: opts.DefaultTarget,
		schemaTarget:  opts.SchemaTarget,
		log:           log,
	}
	if r.defaultTarget == "" {
		r.defaultTarget = r.preferredTarget()
	}
	if r.schemaTarget == "" {
		r.schemaTarget = r.preferredTarget()
	}
	return r, nil
}

// preferredTarget is the architectural default: remote when configured,
// local otherwise.
func (r *Router) preferredTarget() Target {
	if r.remote != nil {
		return TargetRemote
	}
	return TargetLocal
}

// DetermineTarget classifies a statement and returns exactly one target.
// It is pure and case-insensitive. Precedence, first match wins:
//
//  1. inline directive (aerostack:target=remote / aerostack:target=local)
//  2. configured table rules, in configuration order
//  3. complexity keywords (JOIN, GROUP BY, HAVING, UNION, INTERSECT, EXCEPT)
//  4. the configured default target
//
// Matching is substring containment on the lower-cased SQL text, not
// tokenized parsing. A table name occurring inside another identifier or a
// string literal will match; that approximation is intentional and covered
// by tests.
func (r *Router) DetermineTarget(sql string) Target {
	lower := strings.ToLower(sql)

	if strings.Contains(lower, DirectiveRemote) {
		return TargetRemote
	}
	if strings.Contains(lower, DirectiveLocal) {
		return TargetLocal
	}

	for _, rule := range r.rules {
		if strings.Contains(lower, strings.ToLower(rule.Table)) {
			return rule.Target
		}
	}

	for _, kw := range complexityKeywords {
		if strings.Contains(lower, kw) {
			return TargetRemote
		}
	}

	return r.defaultTarget
}

// Query executes one statement against the engine DetermineTarget selects.
// When the remote engine is selected but not configured, execution falls
// back to the local engine; this is a configuration fallback, not a retry.
// A remote execution failure is never re-run locally. With no usable driver
// the call fails with KindConnectionFailed.
func (r *Router) Query(ctx context.Context, sql string, params ...any) (*Response, error) {
	target := r.DetermineTarget(sql)
	drv, executed, err := r.driverFor(target)
	if err != nil {
		return nil, err
	}

	r.log.Debug().Str("target", string(executed)).Msg("routing query")

	rows, count, elapsed, execErr := drv.Exec(ctx, sql, params)
	if execErr != nil {
		return nil, asError(execErr)
	}
	if rows == nil {
		rows = []Row{}
	}
	return &Response{
		Rows:    rows,
		Success: true,
		Meta:    Meta{Target: executed, RowCount: count, Duration: elapsed},
	}, nil
}

// driverFor resolves the selected target to a usable driver handle: the
// remote driver when selected and configured, else the local driver, else a
// connection failure.
func (r *Router) driverFor(target Target) (Driver, Target, error) {
	if target == TargetRemote && r.remote != nil {
		return r.remote, TargetRemote, nil
	}
	if r.local != nil {
		return r.local, TargetLocal, nil
	}
	if r.remote != nil {
		return nil, target, newError(KindConnectionFailed, "local engine selected but not configured").
			withHint("configure a local database path or route the statement remote")
	}
	return nil, target, newError(KindConnectionFailed, "no database driver configured")
}

// Batch executes statements sequentially, one result slot per input in
// input order. Statements are independent: no transaction wraps the batch
// and a failure neither aborts nor rolls back the remaining statements. A
// failed slot carries an empty unsuccessful Response whose target is
// whatever the selector resolved to, plus an entry in Errors at the same
// index. The sequential default preserves input-order determinism; see
// BatchConcurrent for the opt-in parallel variant.
func (r *Router) Batch(ctx context.Context, queries []Request) *BatchResult {
	out := &BatchResult{
		Results: make([]Response, len(queries)),
		Success: true,
	}
	for i, q := range queries {
		resp, err := r.Query(ctx, q.SQL, q.Params...)
		if err != nil {
			out.Success = false
			out.Errors = append(out.Errors, BatchError{Index: i, Err: asError(err)})
			out.Results[i] = Response{
				Rows:    []Row{},
				Success: false,
				Meta:    Meta{Target: r.DetermineTarget(q.SQL)},
			}
			continue
		}
		out.Results[i] = *resp
	}
	return out
}

// BatchConcurrent is the opt-in concurrent variant of Batch. Results keep
// input order; per-statement independence is unchanged. Callers whose
// statements depend on each other's effects must use Batch.
func (r *Router) BatchConcurrent(ctx context.Context, queries []Request) *BatchResult {
	out := &BatchResult{
		Results: make([]Response, len(queries)),
		Success: true,
	}
	type failure struct {
		index int
		err   *Error
	}
	failures := make(chan failure, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q Request) {
			defer wg.Done()
			resp, err := r.Query(ctx, q.SQL, q.Params...)
			if err != nil {
				failures <- failure{index: i, err: asError(err)}
				out.Results[i] = Response{
					Rows:    []Row{},
					Success: false,
					Meta:    Meta{Target: r.DetermineTarget(q.SQL)},
				}
				return
			}
			out.Results[i] = *resp
		}(i, q)
	}
	wg.Wait()
	close(failures)

	collected := make([]BatchError, 0, len(queries))
	for f := range failures {
		collected = append(collected, BatchError{Index: f.index, Err: f.err})
	}
	sort.Slice(collected, func(a, b int) bool { return collected[a].Index < collected[b].Index })
	if len(collected) > 0 {
		out.Success = false
		out.Errors = collected
	}
	return out
}

// Schema introspects one engine and returns its user tables. A binding hint
// containing "sqlite" or "local" selects the embedded engine; "postgres" or
// "remote" selects the remote engine. Without a matching hint the configured
// SchemaTarget decides.
func (r *Router) Schema(ctx context.Context, bindingHint string) (*SchemaInfo, error) {
	target := r.schemaTarget
	hint := strings.ToLower(bindingHint)
	switch {
	case strings.Contains(hint, "sqlite") || strings.Contains(hint, "local"):
		target = TargetLocal
	case strings.Contains(hint, "postgres") || strings.Contains(hint, "remote"):
		target = TargetRemote
	}

	drv, executed, err := r.driverFor(target)
	if err != nil {
		return nil, err
	}

	tables, err := drv.Schema(ctx)
	if err != nil {
		return nil, asError(err)
	}
	return &SchemaInfo{Tables: tables, Source: executed}, nil
}

// Close releases both driver handles. Safe to call with either unset.
func (r *Router) Close() error {
	var first error
	if r.local != nil {
		if err := r.local.Close(); err != nil {
			first = err
		}
	}
	if r.remote != nil {
		if err := r.remote.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
