// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"aerostack/sdk/auth"
	"aerostack/sdk/db"
	"aerostack/sdk/internal/config"
	"aerostack/sdk/internal/identity"
	"aerostack/sdk/internal/keychain"
	"aerostack/sdk/internal/logging"
)

// newAuthService wires the identity client and the keychain into an auth
// service. Fails when the OS has no supported credential store.
func newAuthService() (*auth.Service, *keychain.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	keys, err := keychain.Open()
	if err != nil {
		return nil, nil, err
	}
	return auth.NewService(identity.New(cfg.Identity.BaseURL), keys), keys, nil
}

// resolveRemoteDSN returns the remote connection string and where it came
// from. Environment variables win over the keychain so scripted runs can
// override the stored connection.
func resolveRemoteDSN(keys *keychain.Manager) (dsn string, source string) {
	if env := strings.TrimSpace(os.Getenv("AEROSTACK_DSN")); env != "" {
		return env, "AEROSTACK_DSN environment variable"
	}
	if env := strings.TrimSpace(os.Getenv("DATABASE_URL")); env != "" {
		return env, "DATABASE_URL environment variable"
	}
	if keys != nil {
		if stored, err := keys.LoadRemoteDSN(); err == nil && strings.TrimSpace(stored) != "" {
			return strings.TrimSpace(stored), "OS keychain"
		}
	}
	return "", ""
}

// openEngines opens whichever engines the configuration names. A driver
// that fails to open degrades the router to the other engine, and that must
// be loud: statements routed at the broken engine would otherwise fall back
// and quietly return the other engine's data. Every failed open is reported
// through warnf and the structured logger.
func openEngines(ctx context.Context, cfg config.Config, keys *keychain.Manager, logger zerolog.Logger, warnf func(format string, args ...any)) (local, remote db.Driver) {
	if path, err := cfg.LocalDBPath(); err == nil && path != "" {
		d, err := db.OpenSQLite(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("embedded engine unavailable")
			warnf("Embedded database at %s could not be opened: %s", path, logging.Mask(err.Error()))
		} else {
			local = d
		}
	}

	if dsnStr, source := resolveRemoteDSN(keys); dsnStr != "" {
		d, err := db.OpenPostgres(ctx, dsnStr)
		if err != nil {
			logger.Warn().Err(err).Str("source", source).Msg("remote engine unavailable")
			warnf("Remote database (from %s) could not be opened: %s", source, logging.Mask(err.Error()))
		} else {
			remote = d
		}
	}
	return local, remote
}

// buildRouter constructs the query router from the config file, the stored
// remote connection, and the local database path. The returned cleanup
// closes both drivers.
func buildRouter(ctx context.Context) (*db.Router, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}

	var keys *keychain.Manager
	if km, err := keychain.Open(); err == nil {
		keys = km
	}

	logger := logging.New(cfg.LogLevel)
	local, remote := openEngines(ctx, cfg, keys, logger, func(format string, args ...any) {
		pterm.Warning.Printfln(format, args...)
	})

	rules := make([]db.Rule, 0, len(cfg.DB.Routes))
	for _, rt := range cfg.DB.Routes {
		rules = append(rules, db.Rule{Table: rt.Table, Target: db.Target(rt.Target)})
	}
	router, err := db.New(db.Options{
		Local:         local,
		Remote:        remote,
		Rules:         rules,
		DefaultTarget: db.Target(cfg.DB.DefaultTarget),
		SchemaTarget:  db.Target(cfg.DB.SchemaTarget),
		Logger:        &logger,
	})
	if err != nil {
		if local != nil {
			_ = local.Close()
		}
		if remote != nil {
			_ = remote.Close()
		}
		return nil, nil, err
	}
	return router, func() { _ = router.Close() }, nil
}
