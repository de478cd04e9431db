package mir

import (
	"github.com/google/uuid"

	"github.com/novalang/novac/internal/types"
)

type base struct {
	ID uuid.UUID
}

// Instr is one three-address instruction inside a BasicBlock.
type Instr interface {
	instrNode()
}

// BinOp mirrors hir.BinOp; kept as its own copy so this package never
// imports internal/hir.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpRefEq
	OpRefNotEq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// UnOp mirrors hir.UnOp.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

// ConstInstr materializes a literal value into Dst.
type ConstInstr struct {
	base
	Dst   RegID
	Value interface{}
	Type  types.Type
}

func (*ConstInstr) instrNode() {}

// MoveInstr assigns Src's value into Target, the lowered form of
// hir.Assign against an Identifier (or the write half of a compound
// assignment, already expanded by HIR into a plain store).
type MoveInstr struct {
	base
	Target *LocalSlot
	Src    Operand
}

func (*MoveInstr) instrNode() {}

// UnaryOpInstr applies Op to Operand, writing the result to Dst.
type UnaryOpInstr struct {
	base
	Dst     RegID
	Op      UnOp
	Operand Operand
	Type    types.Type
}

func (*UnaryOpInstr) instrNode() {}

// BinaryOpInstr applies Op to Left/Right, writing the result to Dst.
type BinaryOpInstr struct {
	base
	Dst   RegID
	Op    BinOp
	Left  Operand
	Right Operand
	Type  types.Type
}

func (*BinaryOpInstr) instrNode() {}

// CallInstr invokes Target (a statically resolved callee) or, when
// Target is nil, performs a dynamic dispatch by Name + len(Args) against
// the runtime's cached member-lookup table — the lowered form of a
// hir.Call whose Callee didn't resolve to a known hir.Function during
// HIR lowering (a method on Any, or an unknown receiver).
type CallInstr struct {
	base
	Dst    RegID
	Target *MirFunction
	Name   string // populated for a dynamic call, where Target is nil
	Args   []Operand
	Type   types.Type
}

func (*CallInstr) instrNode() {}

// AllocInstr constructs a new instance of Class, running its primary
// constructor over Args. Distinct from CallInstr because object
// construction also registers the instance's runtime type tag, which a
// plain function call result never carries.
type AllocInstr struct {
	base
	Dst   RegID
	Class types.Type
	Args  []Operand
}

func (*AllocInstr) instrNode() {}

// LoadKind distinguishes what a LoadInstr reads.
type LoadKind int

const (
	LoadField LoadKind = iota
	LoadIndex
)

// LoadInstr reads a property (LoadField, by Name) or an indexable
// element (LoadIndex, by Index) off Object into Dst.
type LoadInstr struct {
	base
	Dst    RegID
	Kind   LoadKind
	Object Operand
	Name   string
	Index  Operand
	Type   types.Type
}

func (*LoadInstr) instrNode() {}

// StoreInstr is LoadInstr's write-side counterpart.
type StoreInstr struct {
	base
	Kind   LoadKind
	Object Operand
	Name   string
	Index  Operand
	Value  Operand
}

func (*StoreInstr) instrNode() {}

// BoxRefInstr materializes a pointer to Slot's heap-allocated capture
// box into Dst; Slot.Captured must already be true (set by the capture
// analysis pass, see capture.go). Both the enclosing function's writes
// and a nested lambda's reads/writes to a captured `var` go through this
// pointer rather than Slot directly, so every closure over the same
// `var` observes the same cell.
type BoxRefInstr struct {
	base
	Dst  RegID
	Slot *LocalSlot
}

func (*BoxRefInstr) instrNode() {}

// UnboxRefInstr reads the current value out of the box Box points to.
type UnboxRefInstr struct {
	base
	Dst  RegID
	Box  Operand
	Type types.Type
}

func (*UnboxRefInstr) instrNode() {}

// BoxStoreInstr writes Value into the box Box points to.
type BoxStoreInstr struct {
	base
	Box   Operand
	Value Operand
}

func (*BoxStoreInstr) instrNode() {}

// TypeCheckInstr is a lowered `is`/`!is`, producing a Boolean into Dst.
type TypeCheckInstr struct {
	base
	Dst     RegID
	Negate  bool
	Operand Operand
	Target  types.Type
}

func (*TypeCheckInstr) instrNode() {}

// TypeCastInstr is a lowered `as`/`as?`. A failed Safe cast yields null
// into Dst; a failed non-Safe cast instead throws, so TypeCastInstr
// carries no explicit unwind edge of its own — it relies on the same
// implicit unwind-to-current-landing-pad every throwing instruction
// carries (see BasicBlock.HasLandingPad).
type TypeCastInstr struct {
	base
	Dst     RegID
	Operand Operand
	Target  types.Type
	Safe    bool
}

func (*TypeCastInstr) instrNode() {}

// CollKind mirrors hir.CollKind.
type CollKind int

const (
	ListColl CollKind = iota
	SetColl
	MapColl
)

// MakeCollectionInstr builds a list/set/map literal into Dst.
type MakeCollectionInstr struct {
	base
	Dst      RegID
	Kind     CollKind
	Elements []Operand
	Values   []Operand // parallel to Elements when Kind == MapColl
	Type     types.Type
}

func (*MakeCollectionInstr) instrNode() {}

// MakeClosureInstr builds a closure over Fn, realizing its transitive
// capture set (already computed by the capture pass) as Captures: one
// operand per free variable, in the same deterministic order Fn.Captures
// lists them.
type MakeClosureInstr struct {
	base
	Dst      RegID
	Fn       *MirFunction
	Captures []Operand
	Type     types.Type
}

func (*MakeClosureInstr) instrNode() {}
