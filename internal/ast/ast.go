// Package ast defines the NovaLang concrete syntax tree : a
// discriminated union of declaration/statement/expression/type-ref node
// kinds, arena-owned top-down (parent owns children; no back-pointers).
// Parent/scope relationships the analyzer needs — symbol -> declaration,
// `break` label -> target loop — live in side tables keyed by NodeID,
// built during semantic analysis, never inside the tree itself.
package ast

import "github.com/novalang/novac/internal/token"

// NodeID stably identifies a node across lowering for the side tables
// described above . IDs are assigned by
// the parser at construction time and never reused.
type NodeID uint64

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	ID() NodeID
}

// Declaration is a Node introducing a named (possibly synthetic) entity
// into scope.
type Declaration interface {
	Node
	declarationNode()
	GetToken() token.Token
	DeclName() string
}

// Statement is a Node executed for effect.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node evaluated for a value.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// TypeRef is the parser's transient type syntax; internal/semantic converts
// every TypeRef to a types.Type the moment its owning declaration enters
// scope , so no later stage depends on
// this package.
type TypeRef interface {
	Node
	typeRefNode()
	GetToken() token.Token
}

// Pattern is a destructuring target: `val (a, b) = pair`.
type Pattern interface {
	Node
	patternNode()
	GetToken() token.Token
}

// IDGen hands out monotonically increasing NodeIDs. A single compilation
// unit uses one IDGen so the IDs double as construction order.
type IDGen struct{ next NodeID }

// Next returns the next unused NodeID.
func (g *IDGen) Next() NodeID {
	g.next++
	return g.next
}

// NewIDGen constructs a fresh ID generator; the parser owns one per parse.
func NewIDGen() *IDGen { return &IDGen{} }

// CollectionKind tags a CollectionLiteral.
type CollectionKind int

const (
	ListKind CollectionKind = iota
	SetKind
	MapKind
)

func (k CollectionKind) String() string {
	switch k {
	case ListKind:
		return "LIST"
	case SetKind:
		return "SET"
	case MapKind:
		return "MAP"
	default:
		return "UNKNOWN"
	}
}

// Modifier is one bit of a ModifierSet.
type Modifier int

const (
	ModPublic Modifier = 1 << iota
	ModPrivate
	ModProtected
	ModInternal
	ModAbstract
	ModOpen
	ModFinal
	ModOverride
	ModInline
	ModStatic
)

// modifierGroups partitions modifiers into the mutually exclusive groups
// the parser validates against.
var modifierGroups = [][]Modifier{
	{ModPublic, ModPrivate, ModProtected, ModInternal}, // visibility
	{ModAbstract, ModOpen, ModFinal},                   // inheritance
	{ModOverride}, {ModInline}, {ModStatic},
}

var modifierNames = map[Modifier]string{
	ModPublic: "public", ModPrivate: "private", ModProtected: "protected",
	ModInternal: "internal", ModAbstract: "abstract", ModOpen: "open",
	ModFinal: "final", ModOverride: "override", ModInline: "inline", ModStatic: "static",
}

// ModifierSet is a bit-set over {public, private, protected, internal,
// abstract, open, final, override, inline, static}.
type ModifierSet struct {
	bits Modifier
}

// Add attempts to add m to the set. It returns the conflicting modifier
// name and false if m's group already has a member.
func (ms *ModifierSet) Add(m Modifier) (conflict Modifier, ok bool) {
	for _, group := range modifierGroups {
		inGroup := false
		for _, g := range group {
			if g == m {
				inGroup = true
				break
			}
		}
		if !inGroup {
			continue
		}
		for _, g := range group {
			if g != m && ms.bits&g != 0 {
				return g, false
			}
		}
		if ms.bits&m != 0 {
			return m, false
		}
	}
	ms.bits |= m
	return 0, true
}

func (ms ModifierSet) Has(m Modifier) bool { return ms.bits&m != 0 }

// String renders the modifier set in a canonical, re-parseable order
func (ms ModifierSet) String() string {
	order := []Modifier{ModPublic, ModPrivate, ModProtected, ModInternal,
		ModAbstract, ModOpen, ModFinal, ModOverride, ModInline, ModStatic}
	out := ""
	for _, m := range order {
		if ms.Has(m) {
			if out != "" {
				out += " "
			}
			out += modifierNames[m]
		}
	}
	return out
}

// NamedArg is one `name = expr` call argument.
type NamedArg struct {
	Name  string
	Value Expression
}

// ArgGroup tags how an argument was written, so CallExpr can preserve
// original token order across positional/named/spread groups for
// diagnostics.
type ArgGroup int

const (
	ArgPositional ArgGroup = iota
	ArgNamed
	ArgSpread
)

// ArgSlot records one call argument's original position and group.
type ArgSlot struct {
	Group ArgGroup
	Index int // index into Positional, Named, or Spread respectively
}
