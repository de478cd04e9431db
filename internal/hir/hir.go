// Package hir defines the desugared intermediate representation AST->HIR
// lowering produces : the source AST
// after `IfStmt`/`IfExpr` unify into one `HirIf`, sugar forms (`?:`,
// `?.`, the postfix `?` error-propagation operator, string
// interpolation, ranges, operator overloads, extension-function calls,
// destructuring) are rewritten to their desugared equivalents, and every
// expression node carries the types.Type the semantic package already
// computed for its originating AST node. HIR feeds the pass framework
// and the HIR->MIR lowerer; nothing downstream of this package looks at
// internal/ast again.
package hir

import (
	"github.com/novalang/novac/internal/token"
	"github.com/novalang/novac/internal/types"
)

// NodeID identifies a HIR node. Desugaring can introduce nodes with no
// single originating AST node (a synthesized temp binding, a generated
// overload thunk), so HIR mints its own ID space rather than reusing
// ast.NodeID; Span still carries the originating source location for
// diagnostics raised by a later pass.
type NodeID uint64

// IDGen hands out monotonically increasing NodeIDs; one Lowerer owns one
// generator for the whole compilation unit.
type IDGen struct{ next NodeID }

func (g *IDGen) Next() NodeID {
	g.next++
	return g.next
}

// Node is the base interface every HIR node implements.
type Node interface {
	ID() NodeID
	Span() token.Token
	Accept(v Visitor)
}

// Decl is a top-level or class-member declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is executed for effect inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is evaluated for a value; Type is the types.Type the semantic
// package inferred for the AST node this was lowered from (Unresolved
// for a node synthesized purely by desugaring with no typed counterpart,
// e.g. an internal temp whose type is filled in as soon as its
// initializer is known).
type Expr interface {
	Node
	exprNode()
	ExprType() types.Type
}

// base is embedded by every concrete node to supply ID/Span without
// repeating the boilerplate per type.
type base struct {
	NID   NodeID
	Token token.Token
}

func (b base) ID() NodeID      { return b.NID }
func (b base) Span() token.Token { return b.Token }
