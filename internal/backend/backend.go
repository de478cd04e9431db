package backend

import (
	"context"

	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/ops"
)

// MirBackend is the contract both execution strategies satisfy: given a
// lowered program and the function to start at, run it to completion and
// return its result. The evaluator and the emitter must produce the same
// observable result for any well-typed program — mismatches between the
// two are a compiler bug, not an acceptable divergence.
type MirBackend interface {
	Name() string
	Run(ctx context.Context, prog *mir.Program, entry *mir.MirFunction, args []ops.Value) (ops.Value, error)
}

// RuntimeError wraps a thrown Nova exception so callers can distinguish
// "the program threw" from a Go-level backend fault (e.g. a malformed
// CallInstr referencing an unknown name).
// Only the former is something a user's own try/catch is meant to observe.
type RuntimeError struct {
	Value ops.Value
}

func (e *RuntimeError) Error() string {
	return "uncaught exception: " + render(e.Value)
}

// checkInterval mirrors the cancellation-poll cadence Nova's concurrency
// model calls for: the evaluator checks ctx only every N executed
// instructions rather than on every single one, since a context.Context
// read is not free and most instructions never block.
const checkInterval = 1000
