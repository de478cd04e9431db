package mir

import (
	"github.com/google/uuid"

	"github.com/novalang/novac/internal/types"
)

// loopContext tracks the blocks `break`/`continue` inside one loop body
// target, plus an optional Label for a labeled break/continue that names
// an enclosing loop other than the innermost one. Adapted from a
// bytecode compiler's loop-context-stack pattern for jump patching,
// turning "patch a jump list once the loop's end address is known" into
// "remember which BlockID a break or continue should jump to", since
// this package builds real blocks rather than patching fixed-up
// bytecode offsets.
type loopContext struct {
	label     string
	continueTarget BlockID
	breakTarget    BlockID
}

// tryContext tracks the landing pad currently in scope, so every
// instruction capable of unwinding inside a protected region gets routed
// there, and the duplicated `finally` body to run on every way out.
type tryContext struct {
	landingPad BlockID
	finallyFn  func(b *Builder) // emits one copy of the finally body into the builder's current block; nil when the protected try has no finally
}

// Builder constructs one MirFunction's blocks incrementally. A single
// Builder is used per function; nested loop/try regions push and pop
// loopContext/tryContext frames as they're entered and left, mirroring
// a bytecode compiler's enclosing-scope-chain walk for break/continue/
// capture resolution but over block identities instead of stack slots.
type Builder struct {
	fn      *MirFunction
	cur     *BasicBlock
	nextReg RegID
	loops   []*loopContext
	tries   []*tryContext
	scopes  []map[string]*LocalSlot
}

// NewBuilder starts building a fresh function named name with params
// already materialized as LocalSlots (done by the caller, since a
// parameter's slot must exist before the entry block's first
// instruction can reference it).
func NewBuilder(name string, params []*LocalSlot, returnType types.Type) *Builder {
	fn := &MirFunction{
		ID:         uuid.New(),
		Name:       name,
		Params:     params,
		ReturnType: returnType,
	}
	b := &Builder{fn: fn}
	entry := b.newBlock("entry")
	fn.Entry = entry.ID
	b.cur = entry
	b.pushScope()
	for _, p := range params {
		b.declare(p)
	}
	return b
}

// Finish returns the completed function. Callers must have terminated
// every block (including b.Current()) before calling this.
func (b *Builder) Finish() *MirFunction {
	return b.fn
}

func (b *Builder) newBlock(label string) *BasicBlock {
	blk := &BasicBlock{ID: BlockID(len(b.fn.Blocks) + 1), Label: label}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

// NewBlock allocates a fresh, not-yet-current block. Callers terminate
// the current block with a Jump/Branch/Switch into it, then call
// SetCurrent to start appending to it.
func (b *Builder) NewBlock(label string) BlockID {
	return b.newBlock(label).ID
}

// SetCurrent switches the append cursor to id; used once a prior block's
// terminator has been emitted and construction moves on to a sibling
// block (the then-branch after the else-branch, the loop body after its
// header, and so on).
func (b *Builder) SetCurrent(id BlockID) {
	b.cur = b.fn.Block(id)
}

// Current returns the block instructions are currently appended to.
func (b *Builder) Current() BlockID {
	return b.cur.ID
}

// Emit appends instr to the current block, tagging it with the active
// landing pad when one is in scope.
func (b *Builder) Emit(instr Instr) {
	b.cur.Instrs = append(b.cur.Instrs, instr)
	if len(b.tries) > 0 {
		b.cur.HasLandingPad = true
		b.cur.LandingPad = b.tries[len(b.tries)-1].landingPad
	}
}

// Terminate sets the current block's terminator. A block must be
// terminated exactly once; calling this twice on the same block without
// an intervening SetCurrent to a fresh block is a builder bug.
func (b *Builder) Terminate(t Terminator) {
	b.cur.Term = t
}

// FreshReg allocates a new, never-reused RegID for this function.
func (b *Builder) FreshReg() RegID {
	b.nextReg++
	return b.nextReg
}

// FreshLocal allocates and declares a new synthesized temp slot in the
// current scope, the building block lowerTernary-equivalent MIR code
// uses for every value-producing conditional HIR already reduced to
// declare/assign-per-branch/read-back.
func (b *Builder) FreshLocal(name string, t types.Type, isVal bool) *LocalSlot {
	slot := NewLocalSlot(name, t, isVal)
	b.fn.Locals = append(b.fn.Locals, slot)
	b.declare(slot)
	return slot
}

// pushScope/popScope/declare/Resolve implement the same name-to-slot
// scope chain a bytecode compiler's resolveLocal walks, but over
// *LocalSlot pointers instead of stack-frame indices — there is no fixed
// stack layout in a CFG IR, so a slot's identity is the pointer itself.
func (b *Builder) pushScope() {
	b.scopes = append(b.scopes, map[string]*LocalSlot{})
}

func (b *Builder) popScope() {
	b.scopes = b.scopes[:len(b.scopes)-1]
}

// PushScope/PopScope are the lowering pass's public hooks for entering
// and leaving a lexical block (an `if`'s then/else body, a loop body, a
// function body).
func (b *Builder) PushScope() { b.pushScope() }
func (b *Builder) PopScope()  { b.popScope() }

func (b *Builder) declare(slot *LocalSlot) {
	b.scopes[len(b.scopes)-1][slot.Name] = slot
}

// Declare introduces a new name binding in the innermost scope,
// shadowing any outer binding of the same name.
func (b *Builder) Declare(slot *LocalSlot) {
	b.fn.Locals = append(b.fn.Locals, slot)
	b.declare(slot)
}

// Resolve walks the scope chain from innermost to outermost looking for
// name, mirroring resolveLocal's inner-to-outer walk within one function
// frame. It does not cross into an enclosing function's scope — that
// crossing is capture.go's job, since a name found there needs box
// treatment rather than a plain LocalSlot read.
func (b *Builder) Resolve(name string) (*LocalSlot, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if slot, ok := b.scopes[i][name]; ok {
			return slot, true
		}
	}
	return nil, false
}

// PushLoop/PopLoop bracket a loop's body, recording where a bare or
// label-matching break/continue should jump.
func (b *Builder) PushLoop(label string, continueTarget, breakTarget BlockID) {
	b.loops = append(b.loops, &loopContext{label: label, continueTarget: continueTarget, breakTarget: breakTarget})
}

func (b *Builder) PopLoop() {
	b.loops = b.loops[:len(b.loops)-1]
}

// ContinueTarget resolves a (possibly empty) label against the loop
// stack, innermost first, returning the block a continue targets.
// Mirrors a bytecode compiler's labeled-loop lookup.
func (b *Builder) ContinueTarget(label string) (BlockID, bool) {
	return b.loopTarget(label, true)
}

// BreakTarget is ContinueTarget's break-side counterpart.
func (b *Builder) BreakTarget(label string) (BlockID, bool) {
	return b.loopTarget(label, false)
}

func (b *Builder) loopTarget(label string, continueSide bool) (BlockID, bool) {
	for i := len(b.loops) - 1; i >= 0; i-- {
		lc := b.loops[i]
		if label == "" || lc.label == label {
			if continueSide {
				return lc.continueTarget, true
			}
			return lc.breakTarget, true
		}
	}
	return 0, false
}

// PushTry/PopTry bracket a protected region, recording the landing pad
// every potentially-throwing instruction inside it implicitly unwinds
// to, and the finally emitter to run (possibly more than once) at every
// exit from the region.
func (b *Builder) PushTry(landingPad BlockID, finallyFn func(b *Builder)) {
	b.tries = append(b.tries, &tryContext{landingPad: landingPad, finallyFn: finallyFn})
}

func (b *Builder) PopTry() {
	b.tries = b.tries[:len(b.tries)-1]
}

// EmitFinallyCopies runs every enclosing try's finally emitter, from the
// current one outward, once per exit point (fall-through, return, break,
// continue, unwind) of a protected region — the duplication this
// package's block-construction scheme uses instead of modeling finally
// as a shared callable subroutine.
func (b *Builder) EmitFinallyCopies() {
	for i := len(b.tries) - 1; i >= 0; i-- {
		if fn := b.tries[i].finallyFn; fn != nil {
			fn(b)
		}
	}
}

// InLandingPad reports the currently active landing pad, if any; used
// by lowerCatchChain to unwind an unmatched exception to the enclosing try.
func (b *Builder) InLandingPad() (BlockID, bool) {
	if len(b.tries) == 0 {
		return 0, false
	}
	return b.tries[len(b.tries)-1].landingPad, true
}
