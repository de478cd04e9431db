// Package mir defines the control-flow-graph intermediate representation
// HIR->MIR lowering produces: basic blocks of three-address instructions
// ending in exactly one terminator, plus the lowering pass that builds
// them from a hir.Program. Nothing downstream of this package looks at
// internal/hir again.
package mir

import (
	"github.com/google/uuid"

	"github.com/novalang/novac/internal/types"
)

// RegID names the result of one instruction within its function; unlike
// a LocalSlot, a Reg is never reassigned once defined (the "SSA-ish"
// half of the three-address form) and never survives past the block
// that defines it being joined with another — a join point always goes
// through a LocalSlot instead: HIR already lowered `if` used as an
// expression, `?:` and `?.` to exactly that shape, and MIR's own
// lowering of `when` and `&&`/`||` joins through a result slot too.
type RegID uint32

// BlockID names one BasicBlock within its MirFunction.
type BlockID uint32

// LocalSlot is a named, possibly-reassigned storage location: a
// parameter, a `val`/`var`, or a synthesized lowering temp. ID is a UUID
// rather than a small integer because block construction builds loop
// and try/finally regions as free-standing pieces stitched together
// after the fact (see Builder), so slots from sibling regions — and from
// sibling monomorphized copies of the same source function — must never
// collide.
type LocalSlot struct {
	ID       uuid.UUID
	Name     string
	Type     types.Type
	IsVal    bool
	Captured bool // wrapped in a heap box because a nested lambda captures it by reference
}

// NewLocalSlot allocates a fresh slot; every call produces a distinct
// identity even for two slots sharing Name (shadowing, or two unrelated
// synthesized temps that happen to reuse a lowering hint).
func NewLocalSlot(name string, t types.Type, isVal bool) *LocalSlot {
	return &LocalSlot{ID: uuid.New(), Name: name, Type: t, IsVal: isVal}
}

// Operand is an instruction/terminator input: a constant, a previously
// defined Reg, or a LocalSlot read.
type Operand interface {
	operandNode()
	OperandType() types.Type
}

// ConstOperand is a literal value already decoded to its Go-typed
// payload, mirroring hir.Literal.
type ConstOperand struct {
	Value interface{}
	Type  types.Type
}

func (ConstOperand) operandNode()            {}
func (c ConstOperand) OperandType() types.Type { return c.Type }

// RegOperand reads the value a prior instruction in the same function
// defined into Reg.
type RegOperand struct {
	Reg  RegID
	Type types.Type
}

func (RegOperand) operandNode()            {}
func (r RegOperand) OperandType() types.Type { return r.Type }

// LocalOperand reads Slot's current value.
type LocalOperand struct {
	Slot *LocalSlot
}

func (LocalOperand) operandNode()            {}
func (l LocalOperand) OperandType() types.Type { return l.Slot.Type }
