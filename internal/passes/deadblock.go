package passes

import "github.com/novalang/novac/internal/mir"

// DeadBlockElimination drops every BasicBlock unreachable from its
// function's Entry, per the Cache's CFG reachability set. Runs last in
// the default pipeline since HIR-level inlining/dead-code-elimination
// surface most of the MIR-level unreachable blocks (an inlined branch
// that provably never runs lowers to a block nothing jumps to).
type DeadBlockElimination struct{}

func (p *DeadBlockElimination) Name() string         { return "dead-block-elimination" }
func (p *DeadBlockElimination) Mutates() bool         { return true }
func (p *DeadBlockElimination) Invalidates() []string { return []string{"cfg"} }

func (p *DeadBlockElimination) RunMIR(prog *mir.Program, cache *Cache) (*mir.Program, error) {
	for _, fn := range prog.Functions {
		pruneUnreachable(fn, cache)
	}
	for _, c := range prog.Classes {
		for _, m := range c.Methods {
			pruneUnreachable(m, cache)
		}
	}
	return prog, nil
}

func pruneUnreachable(fn *mir.MirFunction, cache *Cache) {
	info := cache.CFG(fn)
	kept := fn.Blocks[:0]
	for _, b := range fn.Blocks {
		if info.Reachable[b.ID] {
			kept = append(kept, b)
		}
	}
	fn.Blocks = kept
}
