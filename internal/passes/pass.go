// Package passes runs the compiler's optimizing/normalizing passes over
// HIR and MIR in a declared order, the way internal/pipeline's Pipeline
// chains processors over a compilation unit one stage at a time — here
// the "stages" are tree/CFG transforms instead of lex/parse/analyze.
package passes

import (
	"github.com/novalang/novac/internal/hir"
	"github.com/novalang/novac/internal/mir"
)

// HIRPass rewrites a hir.Program, either in place (Mutates true) or by
// producing a replacement tree. Invalidates names the cached analyses
// (see Cache) this pass's rewrite can make stale, so the Registry clears
// only what actually needs recomputing rather than every analysis after
// every pass.
type HIRPass interface {
	Name() string
	Mutates() bool
	Invalidates() []string
	RunHIR(prog *hir.Program, cache *Cache) (*hir.Program, error)
}

// MIRPass is HIRPass's MIR-level counterpart.
type MIRPass interface {
	Name() string
	Mutates() bool
	Invalidates() []string
	RunMIR(prog *mir.Program, cache *Cache) (*mir.Program, error)
}

// Registry holds the two ordered pass lists (HIR, then MIR) and the
// shared analysis cache passes query against instead of recomputing a
// CFG from scratch in every pass that needs one.
type Registry struct {
	hirPasses []HIRPass
	mirPasses []MIRPass
	cache     *Cache
}

// NewRegistry returns an empty Registry; callers add passes with
// AddHIRPass/AddMIRPass, or use Default for the compiler's standard
// pipeline.
func NewRegistry() *Registry {
	return &Registry{cache: newCache()}
}

// Default builds the compiler's standard pass pipeline: HIR
// inline-expansion, then constant-folding, then dead-code-elimination;
// MIR dead-block-elimination. Declared in this order because constant
// folding can only fold what inlining exposed (a call site replaced by
// its callee's body may now be a Binary over two Literals), and
// dead-code elimination can only trim what folding exposed (a folded
// `if (true)` leaves one branch provably unreachable).
func Default() *Registry {
	r := NewRegistry()
	r.AddHIRPass(&InlineExpansion{MaxDepth: 4})
	r.AddHIRPass(&ConstantFolding{})
	r.AddHIRPass(&DeadCodeElimination{})
	r.AddMIRPass(&DeadBlockElimination{})
	return r
}

func (r *Registry) AddHIRPass(p HIRPass) { r.hirPasses = append(r.hirPasses, p) }
func (r *Registry) AddMIRPass(p MIRPass) { r.mirPasses = append(r.mirPasses, p) }

// RunHIR runs every registered HIR pass over prog in order, invalidating
// the shared cache after each pass that reports it made a stale
// analysis. A pass returning an error aborts the remaining HIR passes
// (and the MIR passes that would run after them) — unlike a user
// diagnostic, a failing pass means the compiler's own transform is
// unsound to continue from.
func (r *Registry) RunHIR(prog *hir.Program) (*hir.Program, error) {
	for _, p := range r.hirPasses {
		next, err := p.RunHIR(prog, r.cache)
		if err != nil {
			return nil, err
		}
		prog = next
		r.cache.invalidate(p.Invalidates())
	}
	return prog, nil
}

// RunMIR is RunHIR's MIR-level counterpart.
func (r *Registry) RunMIR(prog *mir.Program) (*mir.Program, error) {
	for _, p := range r.mirPasses {
		next, err := p.RunMIR(prog, r.cache)
		if err != nil {
			return nil, err
		}
		prog = next
		r.cache.invalidate(p.Invalidates())
	}
	return prog, nil
}
