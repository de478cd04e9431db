package ast

import "github.com/novalang/novac/internal/token"

// Program is the root node of every parse.
type Program struct {
	NID     NodeID
	File    string
	Imports []*ImportDecl
	Decls   []Declaration
}

func (p *Program) ID() NodeID           { return p.NID }
func (p *Program) Accept(v Visitor)     { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string { return "" }

// ImportDecl represents `import path.to.module [as alias]`.
type ImportDecl struct {
	NID   NodeID
	Token token.Token
	Path  string
	Alias string // "" if none
}

func (d *ImportDecl) ID() NodeID           { return d.NID }
func (d *ImportDecl) Accept(v Visitor)     { v.VisitImportDecl(d) }
func (d *ImportDecl) declarationNode()     {}
func (d *ImportDecl) TokenLiteral() string { return d.Token.Lexeme }
func (d *ImportDecl) DeclName() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Path
}
func (d *ImportDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// Parameter is one function/constructor parameter, possibly with a
// default value and/or vararg marker.
type Parameter struct {
	NID      NodeID
	Token    token.Token
	Name     string
	Type     TypeRef // nil if inferred from a lambda's expected functional type
	Default  Expression
	IsVararg bool
}

func (p *Parameter) ID() NodeID           { return p.NID }
func (p *Parameter) Accept(v Visitor)     { v.VisitParameter(p) }
func (p *Parameter) TokenLiteral() string { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// TypeParameterDecl is a generic parameter on a class/function/interface.
type TypeParameterDecl struct {
	NID      NodeID
	Token    token.Token
	Name     string
	Bound    TypeRef
	Variance string // "", "in", "out"
}

func (t *TypeParameterDecl) ID() NodeID           { return t.NID }
func (t *TypeParameterDecl) Accept(v Visitor)     { v.VisitTypeParameterDecl(t) }
func (t *TypeParameterDecl) TokenLiteral() string { return t.Token.Lexeme }
func (t *TypeParameterDecl) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}

// FunctionDecl has exactly one body form: ExprBody XOR BlockBody, never
// both.
type FunctionDecl struct {
	NID        NodeID
	Token      token.Token
	Modifiers  ModifierSet
	Name       string
	Receiver   TypeRef // non-nil for `fun T.name(...)` extension functions
	TypeParams []*TypeParameterDecl
	Params     []*Parameter
	ReturnType TypeRef // nil if inferred
	ExprBody   Expression
	BlockBody  *BlockStatement
}

func (f *FunctionDecl) ID() NodeID           { return f.NID }
func (f *FunctionDecl) Accept(v Visitor)     { v.VisitFunctionDecl(f) }
func (f *FunctionDecl) declarationNode()     {}
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionDecl) DeclName() string     { return f.Name }
func (f *FunctionDecl) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Token
}

// PropertyDecl is a val/var declaration, at class or file scope, with at
// most one getter and one setter.
type PropertyDecl struct {
	NID       NodeID
	Token     token.Token
	Modifiers ModifierSet
	IsVal     bool
	Name      string
	Type      TypeRef
	Init      Expression
	Getter    *FunctionDecl
	Setter    *FunctionDecl
}

func (p *PropertyDecl) ID() NodeID           { return p.NID }
func (p *PropertyDecl) Accept(v Visitor)     { v.VisitPropertyDecl(p) }
func (p *PropertyDecl) declarationNode()     {}
func (p *PropertyDecl) TokenLiteral() string { return p.Token.Lexeme }
func (p *PropertyDecl) DeclName() string     { return p.Name }
func (p *PropertyDecl) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// ClassKind distinguishes class/interface/object declarations, which share
// the same member layout.
type ClassKind int

const (
	RegularClass ClassKind = iota
	InterfaceClass
	ObjectClass // singleton: `object Name { ... }`
)

// ClassDecl covers class, interface, and object declarations.
type ClassDecl struct {
	NID         NodeID
	Token       token.Token
	Modifiers   ModifierSet
	Kind        ClassKind
	Name        string
	TypeParams  []*TypeParameterDecl
	PrimaryCtor []*Parameter
	SuperTypes  []TypeRef
	Properties  []*PropertyDecl
	Functions   []*FunctionDecl
	InitBlocks  []*InitBlock
}

func (c *ClassDecl) ID() NodeID           { return c.NID }
func (c *ClassDecl) Accept(v Visitor)     { v.VisitClassDecl(c) }
func (c *ClassDecl) declarationNode()     {}
func (c *ClassDecl) TokenLiteral() string { return c.Token.Lexeme }
func (c *ClassDecl) DeclName() string     { return c.Name }
func (c *ClassDecl) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// InitBlock is an `init { ... }` block; its synthetic declaration name is
// "<init-block>".
type InitBlock struct {
	NID   NodeID
	Token token.Token
	Body  *BlockStatement
}

func (i *InitBlock) ID() NodeID           { return i.NID }
func (i *InitBlock) Accept(v Visitor)     { v.VisitInitBlock(i) }
func (i *InitBlock) declarationNode()     {}
func (i *InitBlock) TokenLiteral() string { return i.Token.Lexeme }
func (i *InitBlock) DeclName() string     { return "<init-block>" }
func (i *InitBlock) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// EnumCase is one `CASE_NAME(args...)` entry of an EnumDecl.
type EnumCase struct {
	NID   NodeID
	Token token.Token
	Name  string
	Args  []Expression
}

func (c *EnumCase) ID() NodeID           { return c.NID }
func (c *EnumCase) Accept(v Visitor)     { v.VisitEnumCase(c) }
func (c *EnumCase) TokenLiteral() string { return c.Token.Lexeme }
func (c *EnumCase) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// EnumDecl declares an enum class and its cases.
type EnumDecl struct {
	NID       NodeID
	Token     token.Token
	Modifiers ModifierSet
	Name      string
	Cases     []*EnumCase
	Functions []*FunctionDecl
}

func (e *EnumDecl) ID() NodeID           { return e.NID }
func (e *EnumDecl) Accept(v Visitor)     { v.VisitEnumDecl(e) }
func (e *EnumDecl) declarationNode()     {}
func (e *EnumDecl) TokenLiteral() string { return e.Token.Lexeme }
func (e *EnumDecl) DeclName() string     { return e.Name }
func (e *EnumDecl) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}
