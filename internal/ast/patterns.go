package ast

import "github.com/novalang/novac/internal/token"

// NamePattern binds a single destructured component by position.
type NamePattern struct {
	NID   NodeID
	Token token.Token
	Name  string
}

func (n *NamePattern) ID() NodeID          { return n.NID }
func (n *NamePattern) Accept(v Visitor)     { v.VisitNamePattern(n) }
func (n *NamePattern) patternNode()         {}
func (n *NamePattern) TokenLiteral() string { return n.Token.Lexeme }
func (n *NamePattern) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Token
}

// TuplePattern is `(a, b, c)`, matched component-wise against a
// destructurable value's `component1()`, `component2()`, ... operators.
type TuplePattern struct {
	NID      NodeID
	Token    token.Token
	Elements []Pattern
}

func (t *TuplePattern) ID() NodeID          { return t.NID }
func (t *TuplePattern) Accept(v Visitor)     { v.VisitTuplePattern(t) }
func (t *TuplePattern) patternNode()         {}
func (t *TuplePattern) TokenLiteral() string { return t.Token.Lexeme }
func (t *TuplePattern) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
