package mir

import (
	"github.com/google/uuid"

	"github.com/novalang/novac/internal/types"
)

// Terminator ends a BasicBlock. Every block has exactly one; terminators
// are the only instructions that transfer control between blocks.
type Terminator interface {
	termNode()
}

// ReturnTerm exits the current function with Value (nil for a Unit-typed
// function body).
type ReturnTerm struct {
	Value Operand
}

func (ReturnTerm) termNode() {}

// JumpTerm transfers unconditionally to Target.
type JumpTerm struct {
	Target BlockID
}

func (JumpTerm) termNode() {}

// BranchTerm transfers to Then when Cond is true, Else otherwise.
type BranchTerm struct {
	Cond Operand
	Then BlockID
	Else BlockID
}

func (BranchTerm) termNode() {}

// SwitchCase is one Value->Target arm of a SwitchTerm.
type SwitchCase struct {
	Value Operand
	Target BlockID
}

// SwitchTerm dispatches on Value's runtime equality against each Case in
// order, falling through to Default when none match. No lowering stage
// in this package currently synthesizes one directly — a subject-ed
// `when` lowers to a BranchTerm chain instead, since its branch
// conditions survive HIR as arbitrary boolean expressions rather than
// constant-equality arms a jump table could dispatch on — but the shape
// is kept as part of the block-terminator vocabulary for a later
// optimizing pass (e.g. recognizing an all-constant-equality `when` and
// rewriting its Branch chain into a single Switch) to target.
type SwitchTerm struct {
	Value   Operand
	Cases   []SwitchCase
	Default BlockID
}

func (SwitchTerm) termNode() {}

// ThrowTerm raises Value as the active exception, unwinding to the
// current landing pad exactly like an implicit unwind edge would.
type ThrowTerm struct {
	Value Operand
}

func (ThrowTerm) termNode() {}

// UnwindTerm transfers to LandingPad, carrying whatever exception is
// currently propagating. Synthesized at the end of a try's catch chain
// when no catch matched, after that try's `finally` copy has run, and
// only when an enclosing try's landing pad is active.
type UnwindTerm struct {
	LandingPad BlockID
}

func (UnwindTerm) termNode() {}

// BasicBlock is a straight-line run of instructions ending in one
// Terminator. A Call, Alloc, or non-Safe TypeCastInstr inside it can
// invoke user code or fail a runtime check; when HasLandingPad is set,
// every such instruction carries an implicit unwind edge to LandingPad
// (BlockID 0 is never a real landing pad, so a zero LandingPad with
// HasLandingPad false reads unambiguously as "unprotected").
type BasicBlock struct {
	ID          BlockID
	Label       string // empty for a block with no source-meaningful name; present for header/body/latch/exit/handler blocks, for readable dumps
	Instrs      []Instr
	Term        Terminator
	LandingPad  BlockID
	HasLandingPad bool
}

// MirFunction is one lowered function or method body: its basic blocks,
// its locals (parameters first, in declaration order, followed by every
// synthesized temp), and the transitive capture list a closure built
// from it realizes at MakeClosureInstr time.
type MirFunction struct {
	ID         uuid.UUID
	Name       string
	Params     []*LocalSlot
	Locals     []*LocalSlot
	Captures   []*LocalSlot // free variables read through the enclosing scope; empty for a top-level function
	ReturnType types.Type
	Blocks     []*BasicBlock
	Entry      BlockID
}

// Block looks up one of Fn's blocks by ID, panicking if id doesn't name
// a block in this function — every BlockID a builder hands out always
// gets a matching BasicBlock appended before the function is considered
// built, so a miss here means a construction bug, not a normal runtime
// condition worth a Go error return.
func (fn *MirFunction) Block(id BlockID) *BasicBlock {
	for _, b := range fn.Blocks {
		if b.ID == id {
			return b
		}
	}
	panic("mir: unknown block id")
}

// Program is every lowered function in one compilation unit, plus the
// class layout metadata field/method dispatch needs at the instance
// level (AllocInstr, LoadInstr/StoreInstr by field name) rather than
// duplicating it per function.
type Program struct {
	Functions []*MirFunction
	Classes   []*ClassLayout
}

// ClassLayout records one class's field order and its function table,
// the information LoadInstr/StoreInstr and dynamic CallInstr dispatch
// need at runtime that a bare types.Type reference doesn't carry.
type ClassLayout struct {
	Name       string
	Fields     []FieldLayout
	Methods    []*MirFunction
	SuperNames []string
}

// FieldLayout is one instance field's declared name, type, and position.
type FieldLayout struct {
	Name  string
	Type  types.Type
	Index int
}
