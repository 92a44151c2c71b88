// Package logging builds the slog loggers shared by the agent, the HTTP and
// MCP adapters and the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger at level. It writes to stderr so logs never mix
// with the chat transcript or the MCP stdio stream on stdout. The "error"
// attribute is shortened to "err".
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything. Library types default
// to it when no logger is configured.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
