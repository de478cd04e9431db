package ast

import "github.com/novalang/novac/internal/token"

// SimpleTypeRef names a type by qualified name plus optional generic
// arguments, e.g. `List<Int>`.
type SimpleTypeRef struct {
	NID      NodeID
	Token    token.Token
	Name     string
	TypeArgs []TypeRef
}

func (s *SimpleTypeRef) ID() NodeID          { return s.NID }
func (s *SimpleTypeRef) Accept(v Visitor)     { v.VisitSimpleTypeRef(s) }
func (s *SimpleTypeRef) typeRefNode()         {}
func (s *SimpleTypeRef) TokenLiteral() string { return s.Token.Lexeme }
func (s *SimpleTypeRef) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// NullableTypeRef is `T?`.
type NullableTypeRef struct {
	NID   NodeID
	Token token.Token
	Inner TypeRef
}

func (n *NullableTypeRef) ID() NodeID          { return n.NID }
func (n *NullableTypeRef) Accept(v Visitor)     { v.VisitNullableTypeRef(n) }
func (n *NullableTypeRef) typeRefNode()         {}
func (n *NullableTypeRef) TokenLiteral() string { return n.Token.Lexeme }
func (n *NullableTypeRef) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Token
}

// FunctionTypeRef is `(A, B) -> C`, with an optional extension receiver
// written `A.(B) -> C`.
type FunctionTypeRef struct {
	NID      NodeID
	Token    token.Token
	Receiver TypeRef
	Params   []TypeRef
	Return   TypeRef
}

func (f *FunctionTypeRef) ID() NodeID          { return f.NID }
func (f *FunctionTypeRef) Accept(v Visitor)     { v.VisitFunctionTypeRef(f) }
func (f *FunctionTypeRef) typeRefNode()         {}
func (f *FunctionTypeRef) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionTypeRef) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Token
}
