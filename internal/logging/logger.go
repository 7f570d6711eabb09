// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the structured logger and secret masking for
// aerostack. Everything user-visible should pass through Mask first so
// connection strings, tokens, and API keys never leak into output or logs.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the zerolog logger used across the SDK. Level names follow
// zerolog ("debug", "info", "warn", "error"); unknown names fall back to
// info. Output is human-readable on stderr.
func New(level string) zerolog.Logger {
	return NewWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

// NewWithWriter is New with an explicit sink, used by tests.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
