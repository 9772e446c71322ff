// Package testutil provides shared test helpers: a slog logger routed
// through the test log and AST fixture decoding.
package testutil

import (
	"log/slog"
	"testing"

	"github.com/metastack-labs/metasql/pkg/ast"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// MustDecode decodes a JSON statement fixture, failing the test on error.
func MustDecode(t testing.TB, data string) *ast.Statement {
	t.Helper()
	stmt, err := ast.DecodeStatement([]byte(data))
	if err != nil {
		t.Fatalf("decode statement fixture: %v", err)
	}
	return stmt
}
