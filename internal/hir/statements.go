package hir

import "github.com/novalang/novac/internal/types"

// Block is a `{ ... }` sequence; it owns no scope of its own once
// lowered to MIR (MIR scoping is entirely LocalSlot based), but still
// groups its statements for pass-level structural walks.
type Block struct {
	base
	Stmts []Stmt
}

func (b *Block) stmtNode()      {}
func (b *Block) Accept(v Visitor) { v.VisitBlock(b) }

// ExprStmt evaluates Expr for effect only.
type ExprStmt struct {
	base
	Expr Expr
}

func (e *ExprStmt) stmtNode()      {}
func (e *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(e) }

// LocalDecl binds Name to Init's value. Every AST-level destructuring
// pattern (`val (a, b) = p`, the Map-entry `val (k, v) = e` form) has
// already been expanded into one synthetic LocalDecl for the whole
// right-hand side plus one LocalDecl per bound name reading a
// component accessor off it; LocalDecl itself never carries a pattern.
type LocalDecl struct {
	base
	Name  string
	Type  types.Type
	IsVal bool
	Init  Expr
}

func (l *LocalDecl) stmtNode()      {}
func (l *LocalDecl) Accept(v Visitor) { v.VisitLocalDecl(l) }

// If is the unification of ast.IfStmt and ast.IfExpr: UsedAsExpression
// records which one it was lowered from, so a later pass or the MIR
// lowerer knows whether the join block needs a result slot. Else is nil
// for a statement-position `if` with no else clause.
type If struct {
	base
	Cond             Expr
	Then             *Block
	Else             *Block
	UsedAsExpression bool
	Type             types.Type // meaningful only when UsedAsExpression
}

func (i *If) stmtNode()      {}
func (i *If) Accept(v Visitor) { v.VisitIf(i) }

// While is a condition-first loop.
type While struct {
	base
	Label string
	Cond  Expr
	Body  *Block
}

func (w *While) stmtNode()      {}
func (w *While) Accept(v Visitor) { v.VisitWhile(w) }

// DoWhile is a condition-last loop: Body runs at least once.
type DoWhile struct {
	base
	Label string
	Body  *Block
	Cond  Expr
}

func (d *DoWhile) stmtNode()      {}
func (d *DoWhile) Accept(v Visitor) { v.VisitDoWhile(d) }

// For iterates Iter, binding each element to VarName for one run of
// Body. Lowering has already rewritten any destructuring VarName
// pattern (`for ((k, v) in map)`) into Body's leading LocalDecls.
type For struct {
	base
	Label   string
	VarName string
	Iter    Expr
	Body    *Block
}

func (f *For) stmtNode()      {}
func (f *For) Accept(v Visitor) { v.VisitFor(f) }

// Return optionally carries a value; nil Value is a bare `return`.
type Return struct {
	base
	Value Expr
}

func (r *Return) stmtNode()      {}
func (r *Return) Accept(v Visitor) { v.VisitReturn(r) }

// Break optionally targets an enclosing labeled loop's exit block.
type Break struct {
	base
	Label string
}

func (b *Break) stmtNode()      {}
func (b *Break) Accept(v Visitor) { v.VisitBreak(b) }

// Continue optionally targets an enclosing labeled loop's latch block.
type Continue struct {
	base
	Label string
}

func (c *Continue) stmtNode()      {}
func (c *Continue) Accept(v Visitor) { v.VisitContinue(c) }

// Throw raises Value as an exception.
type Throw struct {
	base
	Value Expr
}

func (t *Throw) stmtNode()      {}
func (t *Throw) Accept(v Visitor) { v.VisitThrow(t) }

// CatchClause binds a caught value under Name, filtered by Type (Any
// when the source catch had no type filter).
type CatchClause struct {
	Name  string
	Type  types.Type
	Body  *Block
}

// Try matches exceptions thrown inside Body against Catches in order.
// Finally, when present, is duplicated at every exit from the protected
// region during HIR->MIR lowering rather than being modeled as a shared
// subroutine here — Try itself still carries one copy, since the
// duplication is a basic-block-construction concern, not a tree shape
// concern.
type Try struct {
	base
	Body    *Block
	Catches []*CatchClause
	Finally *Block
}

func (t *Try) stmtNode()      {}
func (t *Try) Accept(v Visitor) { v.VisitTry(t) }
