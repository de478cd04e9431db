// Package semantic walks a parsed Program and produces the side tables
// later stages depend on: a resolved type for every expression, and
// diagnostics for every scoping, typing, and modifier violation a user can
// make. It never panics on a user error — only an internal invariant
// violation does that — and it never mutates the ast package's nodes
// directly, matching the side-table convention ast.go documents for
// NodeID-keyed data.
package semantic

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/token"
	"github.com/novalang/novac/internal/types"
)

// ScopeKind is one of the four lexical scope shapes the analyzer nests.
type ScopeKind int

const (
	FileScope ScopeKind = iota
	ClassScope
	FunctionScope
	BlockScope
)

func (k ScopeKind) String() string {
	switch k {
	case FileScope:
		return "file"
	case ClassScope:
		return "class"
	case FunctionScope:
		return "function"
	case BlockScope:
		return "block"
	default:
		return "unknown"
	}
}

// SymbolKind distinguishes what a name in scope actually names.
type SymbolKind int

const (
	ValueSymbol SymbolKind = iota
	FunctionSymbol
	ClassSymbol
	TypeParamSymbol
)

// Symbol is one name bound in a Scope.
type Symbol struct {
	Name  string
	Type  types.Type
	Kind  SymbolKind
	IsVal bool // only meaningful for ValueSymbol; a var is reassignable
	Node  ast.Node
	Token token.Token
}

// Scope is one link in the lexical chain the analyzer walks. Self is the
// enclosing class's type and is non-nil only for ClassScope and any scope
// nested inside one, letting `this`/`super` resolve without a separate
// stack.
type Scope struct {
	Kind    ScopeKind
	Parent  *Scope
	Self    types.Type
	symbols map[string]*Symbol
}

// NewScope builds a child of parent; Self is inherited from parent unless
// overridden by the caller after construction (ClassScope sets its own).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Parent: parent, symbols: map[string]*Symbol{}}
	if parent != nil {
		s.Self = parent.Self
	}
	return s
}

// Declare binds sym in s's own scope. If a symbol of the same name is
// already bound directly in s (not an outer scope), it returns that prior
// symbol and ok=false — the caller reports DuplicateDeclaration. Same-scope
// redeclaration is always an error; shadowing an outer scope is handled
// separately by Shadows, since the two have different severities.
func (s *Scope) Declare(sym *Symbol) (prev *Symbol, ok bool) {
	if existing, found := s.symbols[sym.Name]; found {
		return existing, false
	}
	s.symbols[sym.Name] = sym
	return nil, true
}

// Shadows reports whether name is already bound in some enclosing scope
// (not s itself), the condition the strict-mode shadow warning fires on.
func (s *Scope) Shadows(name string) bool {
	for p := s.Parent; p != nil; p = p.Parent {
		if _, ok := p.symbols[name]; ok {
			return true
		}
	}
	return false
}

// Lookup walks s and its ancestors outward, returning the first binding
// found.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal checks only s's own bindings, ignoring ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// enclosingOfKind walks outward to the nearest scope of kind (for example
// FunctionScope), used to
// find the active return-type context (e.g. for a lambda nested in a
// function).
func (s *Scope) enclosingOfKind(kind ScopeKind) *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == kind {
			return cur
		}
	}
	return nil
}
