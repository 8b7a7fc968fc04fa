// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logx builds the structured logger. The terminal belongs to the UI
// while it runs, so the logger writes to a file or nowhere.
package logx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/pslog"
)

// ParseLevel maps a config level name to a pslog level.
func ParseLevel(name string) (pslog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pslog.TraceLevel, nil
	case "debug":
		return pslog.DebugLevel, nil
	case "", "info":
		return pslog.InfoLevel, nil
	case "warn", "warning":
		return pslog.WarnLevel, nil
	case "error":
		return pslog.ErrorLevel, nil
	default:
		return pslog.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a structured logger writing to w at the given level.
func New(w io.Writer, level pslog.Level) pslog.Logger {
	return pslog.NewWithOptions(w, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      level,
		VerboseFields: true,
	})
}

// Open creates the logger described by path and level. An empty path yields
// a logger that discards everything. The returned closer must be called on
// exit.
func Open(path, level string) (pslog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return New(io.Discard, lvl), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, lvl), f, nil
}

// Ctx returns the logger bound to the provided context, or a discarding
// logger when none is bound.
func Ctx(ctx context.Context) pslog.Logger {
	if log := pslog.Ctx(ctx); log != nil {
		return log
	}
	return Discard()
}

// Discard returns a logger that drops every entry.
func Discard() pslog.Logger {
	return New(io.Discard, pslog.ErrorLevel)
}

// WithModel annotates the logger with the model name when set.
func WithModel(log pslog.Logger, model string) pslog.Logger {
	if model != "" {
		log = log.With("model", model)
	}
	return log
}

// WithStream annotates the logger with a stream id when set.
func WithStream(log pslog.Logger, streamID string) pslog.Logger {
	if streamID != "" {
		log = log.With("stream", streamID)
	}
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
