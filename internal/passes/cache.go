package passes

import "github.com/novalang/novac/internal/mir"

// CFGInfo is one MirFunction's control-flow graph, derived from its
// blocks' terminators rather than stored redundantly on BasicBlock
// itself — a block's successors are exactly whatever BlockIDs its own
// Terminator names.
type CFGInfo struct {
	Successors   map[mir.BlockID][]mir.BlockID
	Predecessors map[mir.BlockID][]mir.BlockID
	Reachable    map[mir.BlockID]bool
}

// Cache holds analyses a pass can ask for instead of recomputing: today
// just the per-function CFG (successors/predecessors/reachability from
// Entry), the one dead-block-elimination needs. A dominator tree is a
// natural later addition here (guard-clause hoisting, loop-invariant
// code motion) but nothing in the current pass set consumes one yet, so
// building it now would be unused machinery.
type Cache struct {
	cfg map[*mir.MirFunction]*CFGInfo
}

func newCache() *Cache {
	return &Cache{cfg: map[*mir.MirFunction]*CFGInfo{}}
}

// invalidate drops cached analyses a pass's Invalidates() list names.
// "cfg" is the only recognized tag today; an unrecognized tag is
// ignored rather than erroring, since a pass is free to over-report
// (naming an analysis this cache doesn't even track yet) without that
// becoming a build failure.
func (c *Cache) invalidate(names []string) {
	for _, n := range names {
		if n == "cfg" {
			c.cfg = map[*mir.MirFunction]*CFGInfo{}
		}
	}
}

// CFG returns fn's cached control-flow graph, computing it on first
// request.
func (c *Cache) CFG(fn *mir.MirFunction) *CFGInfo {
	if info, ok := c.cfg[fn]; ok {
		return info
	}
	info := buildCFG(fn)
	c.cfg[fn] = info
	return info
}

func buildCFG(fn *mir.MirFunction) *CFGInfo {
	info := &CFGInfo{
		Successors:   map[mir.BlockID][]mir.BlockID{},
		Predecessors: map[mir.BlockID][]mir.BlockID{},
		Reachable:    map[mir.BlockID]bool{},
	}
	for _, b := range fn.Blocks {
		succs := successorsOf(b.Term)
		if b.HasLandingPad {
			// Every potentially-throwing instruction in b carries an
			// implicit unwind edge to its landing pad, in addition to
			// whatever the block's own terminator reaches.
			succs = append(succs, b.LandingPad)
		}
		info.Successors[b.ID] = succs
		for _, s := range succs {
			info.Predecessors[s] = append(info.Predecessors[s], b.ID)
		}
	}
	worklist := []mir.BlockID{fn.Entry}
	info.Reachable[fn.Entry] = true
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, s := range info.Successors[id] {
			if !info.Reachable[s] {
				info.Reachable[s] = true
				worklist = append(worklist, s)
			}
		}
	}
	return info
}

func successorsOf(term mir.Terminator) []mir.BlockID {
	switch t := term.(type) {
	case mir.JumpTerm:
		return []mir.BlockID{t.Target}
	case mir.BranchTerm:
		return []mir.BlockID{t.Then, t.Else}
	case mir.SwitchTerm:
		ids := make([]mir.BlockID, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			ids = append(ids, c.Target)
		}
		return append(ids, t.Default)
	case mir.UnwindTerm:
		return []mir.BlockID{t.LandingPad}
	default: // ReturnTerm, ThrowTerm: exit the function, no successor block
		return nil
	}
}
