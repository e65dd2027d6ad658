package synth

import (
	"io"
	"log/slog"
	"math"
	"testing"
)

const eps = 1e-9

func requireNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v (tol %v)", name, got, want, tol)
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := New(append([]Option{WithLogger(quiet)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}
