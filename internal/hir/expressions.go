package hir

import "github.com/novalang/novac/internal/types"

// Identifier references a resolved local/property/class by name; MIR
// lowering maps Name to a LocalSlot using the scope side table the
// semantic package built.
type Identifier struct {
	base
	Name string
	Type types.Type
}

func (i *Identifier) exprNode()           {}
func (i *Identifier) ExprType() types.Type { return i.Type }
func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }

// LiteralKind mirrors ast.LiteralKind; HIR keeps its own copy so this
// package never imports internal/ast.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	LongLiteral
	DoubleLiteral
	FloatLiteral
	BooleanLiteral
	CharLiteral
	StringLiteral
	NullLiteral
)

// Literal is a constant value already decoded to its Go-typed payload.
// Source string interpolation with no embedded expressions lowers
// straight to a StringLiteral here rather than a degenerate one-part
// Call to String::build.
type Literal struct {
	base
	Kind  LiteralKind
	Value interface{}
	Type  types.Type
}

func (l *Literal) exprNode()           {}
func (l *Literal) ExprType() types.Type { return l.Type }
func (l *Literal) Accept(v Visitor)     { v.VisitLiteral(l) }

// Lambda is a lowered closure literal; MIR's closure-capture pass
// computes FreeVars's box/copy treatment, not this stage — Lambda only
// records the parameter/body shape lowering produced.
type Lambda struct {
	base
	Params []*Parameter
	Body   *Block
	Type   types.Type // the Function type this lambda was checked against
}

func (l *Lambda) exprNode()           {}
func (l *Lambda) ExprType() types.Type { return l.Type }
func (l *Lambda) Accept(v Visitor)     { v.VisitLambda(l) }

// Call invokes Callee with Args, already reordered to positional order
// with defaults filled in per "Named-argument call: reorder to
// positional + fill defaults" and "Lambda with default-arg: generate
// overload thunks" — Call never carries named arguments or an
// unresolved spread once lowering completes. ResolvedTarget is non-nil
// when Callee names a known Function (direct call); nil means a dynamic
// call resolved by the MIR call-lowering dispatch helper.
type Call struct {
	base
	Callee         Expr
	ResolvedTarget *Function
	Args           []Expr
	Spread         Expr // non-nil only when the argument count truly can't be known until runtime
	Type           types.Type
}

func (c *Call) exprNode()           {}
func (c *Call) ExprType() types.Type { return c.Type }
func (c *Call) Accept(v Visitor)     { v.VisitCall(c) }

// BinOp enumerates lowered binary operators; Op values that aren't
// built-in-primitive-applicable never reach MIR as a BinOp — they were
// rewritten to a Call against the overloaded operator method during
// lowering ("Operator symbols on non-builtin types become method
// calls").
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

// Binary is a built-in-primitive binary operator application.
type Binary struct {
	base
	Op    BinOp
	Left  Expr
	Right Expr
	Type  types.Type
}

func (b *Binary) exprNode()           {}
func (b *Binary) ExprType() types.Type { return b.Type }
func (b *Binary) Accept(v Visitor)     { v.VisitBinary(b) }

// UnOp enumerates lowered prefix operators (the language has no
// increment/decrement operators; ast.UnaryExpr.Postfix is reserved but
// unused by the parser today).
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

// Unary is a built-in-primitive unary operator application; `-a` on a
// non-builtin type lowers to Call(a.unaryMinus()) instead.
type Unary struct {
	base
	Op      UnOp
	Operand Expr
	Type    types.Type
}

func (u *Unary) exprNode()           {}
func (u *Unary) ExprType() types.Type { return u.Type }
func (u *Unary) Accept(v Visitor)     { v.VisitUnary(u) }

// Assign is a plain or compound assignment to a resolved lvalue
// (Identifier, MemberAccess, or an IndexSet target); compound operators
// (`+=`, ...) have already been expanded to `target = target op value`
// during lowering so MIR only ever sees a plain store.
type Assign struct {
	base
	Target Expr
	Value  Expr
	Type   types.Type
}

func (a *Assign) exprNode()           {}
func (a *Assign) ExprType() types.Type { return a.Type }
func (a *Assign) Accept(v Visitor)     { v.VisitAssign(a) }

// WhenBranch is one `value -> result` arm, or the else arm when
// Conditions is empty.
type WhenBranch struct {
	Conditions []Expr
	Result     Expr
}

// When is a lowered source-level `when` multi-way match. `expr?` error
// propagation does not produce this node; it lowers to a BlockExpr whose
// `if (t is Err) return t` statement precedes the result.
type When struct {
	base
	Subject  Expr // nil for a guard-chain when
	Branches []WhenBranch
	Type     types.Type
}

func (w *When) exprNode()           {}
func (w *When) ExprType() types.Type { return w.Type }
func (w *When) Accept(v Visitor)     { v.VisitWhen(w) }

// BlockExpr evaluates Stmts for their side effects, in order, then
// yields Result — the lowered shape of every "let t = ...; <use t>"
// desugaring (`?:`, `?.`, `if` used as an expression, `expr?`, `use`):
// each introduces synthetic LocalDecls in Stmts binding its temps, then
// references them from Result.
type BlockExpr struct {
	base
	Stmts  []Stmt
	Result Expr
	Type   types.Type
}

func (b *BlockExpr) exprNode()           {}
func (b *BlockExpr) ExprType() types.Type { return b.Type }
func (b *BlockExpr) Accept(v Visitor)     { v.VisitBlockExpr(b) }

// MemberAccess reads a resolved property or zero-arg method result off
// Target.
type MemberAccess struct {
	base
	Target Expr
	Name   string
	Type   types.Type
}

func (m *MemberAccess) exprNode()           {}
func (m *MemberAccess) ExprType() types.Type { return m.Type }
func (m *MemberAccess) Accept(v Visitor)     { v.VisitMemberAccess(m) }

// IndexGet is `target[index]` on a built-in indexable type (List, Map,
// array); the same syntax on a non-builtin type instead lowers to
// Call(target.get(index)).
type IndexGet struct {
	base
	Target Expr
	Index  Expr
	Type   types.Type
}

func (i *IndexGet) exprNode()           {}
func (i *IndexGet) ExprType() types.Type { return i.Type }
func (i *IndexGet) Accept(v Visitor)     { v.VisitIndexGet(i) }

// IndexSet is `target[index] = value` on a built-in indexable type; the
// non-builtin equivalent lowers to Call(target.set(index, value)).
type IndexSet struct {
	base
	Target Expr
	Index  Expr
	Value  Expr
	Type   types.Type
}

func (i *IndexSet) exprNode()           {}
func (i *IndexSet) ExprType() types.Type { return i.Type }
func (i *IndexSet) Accept(v Visitor)     { v.VisitIndexSet(i) }

// NotNullAssert throws at runtime if Operand evaluates to null.
type NotNullAssert struct {
	base
	Operand Expr
	Type    types.Type
}

func (n *NotNullAssert) exprNode()           {}
func (n *NotNullAssert) ExprType() types.Type { return n.Type }
func (n *NotNullAssert) Accept(v Visitor)     { v.VisitNotNullAssert(n) }

// This references the enclosing instance.
type This struct {
	base
	Type types.Type
}

func (t *This) exprNode()           {}
func (t *This) ExprType() types.Type { return t.Type }
func (t *This) Accept(v Visitor)     { v.VisitThis(t) }

// Super references the enclosing instance's supertype implementation,
// used to resolve the call target of an `override` body invoking the
// overridden method.
type Super struct {
	base
	Type types.Type
}

func (s *Super) exprNode()           {}
func (s *Super) ExprType() types.Type { return s.Type }
func (s *Super) Accept(v Visitor)     { v.VisitSuper(s) }

// TestKind mirrors ast.TypeTestKind.
type TestKind int

const (
	IsTest TestKind = iota
	NotIsTest
	AsCast
	AsSafeCast
)

// TypeTest is a lowered `is`/`!is`/`as`/`as?`.
type TypeTest struct {
	base
	Kind     TestKind
	Operand  Expr
	Target   types.Type
	Type     types.Type
}

func (t *TypeTest) exprNode()           {}
func (t *TypeTest) ExprType() types.Type { return t.Type }
func (t *TypeTest) Accept(v Visitor)     { v.VisitTypeTest(t) }

// CollKind mirrors ast.CollectionKind.
type CollKind int

const (
	ListColl CollKind = iota
	SetColl
	MapColl
)

// CollectionLiteral is a list/set/map literal; for MapColl, Elements[i]
// is the key and Values[i] its paired value.
type CollectionLiteral struct {
	base
	Kind     CollKind
	Elements []Expr
	Values   []Expr // parallel to Elements when Kind == MapColl, else nil
	Type     types.Type
}

func (c *CollectionLiteral) exprNode()            {}
func (c *CollectionLiteral) ExprType() types.Type  { return c.Type }
func (c *CollectionLiteral) Accept(v Visitor)      { v.VisitCollectionLiteral(c) }

// In is `value in iterable` on a built-in range/collection; the
// non-builtin equivalent lowers to Call(iterable.contains(value)),
// optionally wrapped in Unary{Op: OpNot} for `!in`.
type In struct {
	base
	Value    Expr
	Iterable Expr
	Type     types.Type
}

func (i *In) exprNode()           {}
func (i *In) ExprType() types.Type { return i.Type }
func (i *In) Accept(v Visitor)     { v.VisitIn(i) }
