// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aerostack/sdk/internal/config"
	"aerostack/sdk/internal/logging"
)

func TestOpenEnginesWarnsOnFailedOpens(t *testing.T) {
	// The local path sits under a regular file, so the embedded engine
	// cannot open it. The remote connection string is unparseable, so the
	// remote driver fails before any network activity.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	t.Setenv("AEROSTACK_DSN", "://not-a-connection-string")

	cfg := config.Defaults()
	cfg.DB.LocalPath = filepath.Join(blocker, "edge.db")

	var warnings []string
	logger := logging.NewWithWriter("error", io.Discard)
	local, remote := openEngines(context.Background(), cfg, nil, logger, func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	if local != nil || remote != nil {
		t.Fatalf("local = %v, remote = %v; want both nil after failed opens", local, remote)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %q, want one per failed engine", warnings)
	}
	if !strings.Contains(warnings[0], cfg.DB.LocalPath) {
		t.Errorf("embedded warning = %q, want the database path named", warnings[0])
	}
	if !strings.Contains(warnings[1], "AEROSTACK_DSN") {
		t.Errorf("remote warning = %q, want the connection source named", warnings[1])
	}
}

func TestOpenEnginesSilentWhenNothingConfigured(t *testing.T) {
	t.Setenv("AEROSTACK_DSN", "")
	t.Setenv("DATABASE_URL", "")

	cfg := config.Defaults()
	cfg.DB.LocalPath = ""

	var warnings []string
	logger := logging.NewWithWriter("error", io.Discard)
	local, remote := openEngines(context.Background(), cfg, nil, logger, func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	if local != nil || remote != nil {
		t.Fatalf("local = %v, remote = %v; want both nil", local, remote)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %q, want none when no engine is configured", warnings)
	}
}
