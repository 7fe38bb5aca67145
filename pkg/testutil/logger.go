// Package testutil provides shared helpers for tests.
package testutil

import (
	"bytes"
	"io"
	"log/slog"
)

// NewTestLogger returns a debug-level text logger writing to w. A nil
// writer discards all output.
func NewTestLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// DiscardLogger returns a logger that discards all output. Most tests want
// this; handlers take a logger and the output is noise.
func DiscardLogger() *slog.Logger {
	return NewTestLogger(nil)
}

// CaptureLogger returns a logger together with the buffer it writes to, for
// tests that assert on log output.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewTestLogger(buf), buf
}
