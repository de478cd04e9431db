package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

// startsType reports whether cur could begin a type reference: a plain
// name, the built-in Unit/Nothing types, or a function-type's opening
// paren.
func (p *Parser) startsType() bool {
	switch p.cur.Kind {
	case token.IDENT, token.UNIT_TYPE, token.NOTHING_TYPE, token.LPAREN:
		return true
	default:
		return false
	}
}

// parseTypeRef parses a type annotation, applying the nullable suffix and
// generic-argument list uniformly at the end.
func (p *Parser) parseTypeRef() ast.TypeRef {
	var base ast.TypeRef
	switch p.cur.Kind {
	case token.LPAREN:
		base = p.parseFunctionTypeRef(nil)
	case token.IDENT, token.UNIT_TYPE, token.NOTHING_TYPE:
		tok := p.cur
		name := p.cur.Lexeme
		ref := &ast.SimpleTypeRef{NID: p.next(), Token: tok, Name: name}
		if p.peekTokenIs(token.LT) {
			p.nextToken()
			ref.TypeArgs = p.parseTypeArgList()
		}
		base = ref
		if p.peekTokenIs(token.DOT) && p.peekIsFunctionTypeStart() {
			p.nextToken() // consume '.'
			p.nextToken() // move to '('
			base = p.parseFunctionTypeRef(base)
		}
	default:
		p.report(diagnostics.Expected(p.cur, "type"))
		return nil
	}

	for p.peekTokenIs(token.QUESTION) {
		p.nextToken()
		base = &ast.NullableTypeRef{NID: p.next(), Token: p.cur, Inner: base}
	}
	return base
}

// peekIsFunctionTypeStart is a one-token lookahead used only to decide
// whether `Receiver.` is about to introduce an extension function type
// `Receiver.(Params) -> Ret`; it does not consume input.
func (p *Parser) peekIsFunctionTypeStart() bool {
	i := p.pos
	return i < len(p.tokens) && p.tokens[i].Kind == token.LPAREN
}

// parseFunctionTypeRef parses `(A, B) -> C`, with an optional receiver
// already parsed by the caller for the `A.(B) -> C` extension-type form.
func (p *Parser) parseFunctionTypeRef(receiver ast.TypeRef) ast.TypeRef {
	tok := p.cur
	fn := &ast.FunctionTypeRef{NID: p.next(), Token: tok, Receiver: receiver}
	p.nextToken() // consume '('
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		fn.Params = append(fn.Params, p.parseTypeRef())
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.RPAREN)
	if !p.expectPeek(token.ARROW) {
		return fn
	}
	p.nextToken()
	fn.Return = p.parseTypeRef()
	return fn
}

func (p *Parser) parseTypeArgList() []ast.TypeRef {
	p.nextToken() // consume '<'
	var args []ast.TypeRef
	for !p.curTokenIs(token.GT) && !p.curTokenIs(token.EOF) {
		args = append(args, p.parseTypeRef())
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.GT)
	return args
}

// parseTypeParams parses a generic parameter list `<T, U: Bound, out V>`
// on a class/function/interface declaration.
func (p *Parser) parseTypeParams() []*ast.TypeParameterDecl {
	p.nextToken() // consume '<'
	var params []*ast.TypeParameterDecl
	for !p.curTokenIs(token.GT) && !p.curTokenIs(token.EOF) {
		tp := &ast.TypeParameterDecl{NID: p.next(), Token: p.cur}
		if p.curTokenIs(token.IN_KW) || p.curTokenIs(token.OUT_KW) {
			tp.Variance = p.cur.Lexeme
			p.nextToken()
		}
		tp.Name = p.cur.Lexeme
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			tp.Bound = p.parseTypeRef()
		}
		params = append(params, tp)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.GT)
	return params
}

// tryParseGenericCallArgs is the bounded-lookahead scan that disambiguates
// `Foo<A>(x)` (generic call) from `Foo < A > (x)` (two comparisons). It
// scans a type-argument list from peek == '<' and only commits if the
// list closes cleanly with '>' immediately followed by one of the tokens
// that can legally start a call's continuation.
func (p *Parser) tryParseGenericCallArgs() ([]ast.TypeRef, bool) {
	if !p.peekTokenIs(token.LT) {
		return nil, false
	}
	snap := p.snapshot()
	p.nextToken() // cur now '<'
	p.nextToken() // move to first type token

	var args []ast.TypeRef
	for {
		t := p.parseTypeRef()
		if t == nil {
			p.restore(snap)
			return nil, false
		}
		args = append(args, t)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.peekTokenIs(token.GT) {
		p.restore(snap)
		return nil, false
	}
	p.nextToken() // cur now '>'
	switch p.peek.Kind {
	case token.LPAREN, token.LBRACE, token.DOT, token.SAFE_CALL:
		return args, true
	default:
		p.restore(snap)
		return nil, false
	}
}
