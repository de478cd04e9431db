package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{NID: p.next(), Token: p.cur, Name: p.cur.Lexeme}
	return p.maybeAttachTrailingLambda(p.maybeGenericCall(ident))
}

// maybeGenericCall implements the `Foo<A>(x)`-vs-comparison disambiguation
// at the point where a name could be either a generic call's callee or the
// left operand of '<'. On a confirmed type-argument list it builds the
// CallExpr directly (or, with no parens at all, leaves TypeArgs attached
// for maybeAttachTrailingLambda's paren-less call form to fill in).
func (p *Parser) maybeGenericCall(callee ast.Expression) ast.Expression {
	typeArgs, ok := p.tryParseGenericCallArgs()
	if !ok {
		return callee
	}
	switch {
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		call := p.parseCallExpr(callee).(*ast.CallExpr)
		call.TypeArgs = typeArgs
		return call
	case p.peekTokenIs(token.LBRACE):
		// A generic paren-less trailing-lambda call, e.g. `make<Int> { 0 }`;
		// maybeAttachTrailingLambda fills in the lambda from here.
		return &ast.CallExpr{NID: p.next(), Token: callee.GetToken(), Callee: callee, TypeArgs: typeArgs}
	default:
		// '.' or '?.' continuing from a generic static reference, e.g.
		// `Box<Int>.empty()`: the type-argument list is dropped rather than
		// attached to a call that isn't actually being made here.
		return callee
	}
}

// maybeAttachTrailingLambda implements the paren-less call form `name { ... }`
// (e.g. `items.filter { it > 0 }`): a bare name or member access directly
// followed by '{' becomes a zero-paren CallExpr carrying only a trailing
// lambda, unless the surrounding context disallows it (e.g. an `if`
// condition, where '{' must start the then-block).
func (p *Parser) maybeAttachTrailingLambda(callee ast.Expression) ast.Expression {
	if p.disallowTrailingLambda || !p.peekTokenIs(token.LBRACE) {
		return callee
	}
	tok := p.peek
	p.nextToken()
	lambda := p.parseLambdaExpr().(*ast.LambdaExpr)
	if call, ok := callee.(*ast.CallExpr); ok && call.TrailingLambda == nil {
		call.TrailingLambda = lambda
		return call
	}
	return &ast.CallExpr{NID: p.next(), Token: tok, Callee: callee, TrailingLambda: lambda}
}

func (p *Parser) parseLiteral() ast.Expression {
	tok := p.cur
	var kind ast.LiteralKind
	var value interface{}
	switch tok.Kind {
	case token.INT:
		kind, value = ast.IntLiteral, tok.Literal
	case token.LONG:
		kind, value = ast.LongLiteral, tok.Literal
	case token.FLOAT:
		kind, value = ast.FloatLiteral, tok.Literal
	case token.DOUBLE:
		kind, value = ast.DoubleLiteral, tok.Literal
	case token.CHAR:
		kind, value = ast.CharLiteral, tok.Literal
	case token.TRUE:
		kind, value = ast.BooleanLiteral, true
	case token.FALSE:
		kind, value = ast.BooleanLiteral, false
	case token.NULL_KW:
		kind, value = ast.NullLiteral, nil
	}
	return &ast.Literal{NID: p.next(), Token: tok, Kind: kind, Value: value}
}

// parseStringLiteral assembles a StringInterpolation from the
// STRING_PART/INTERP_START/.../INTERP_END/STRING sub-stream the lexer
// produces for an interpolated string, or the single STRING token for a
// plain one.
func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	si := &ast.StringInterpolation{NID: p.next(), Token: tok}
	for {
		switch p.cur.Kind {
		case token.STRING:
			lit, _ := p.cur.Literal.(string)
			si.Parts = append(si.Parts, ast.StringPart{Literal: lit})
			return si
		case token.STRING_PART:
			lit, _ := p.cur.Literal.(string)
			si.Parts = append(si.Parts, ast.StringPart{Literal: lit})
			if !p.expectPeek(token.INTERP_START) {
				return si
			}
			p.nextToken() // move to the embedded expression's first token
			expr := p.parseExpression(LOWEST)
			si.Parts = append(si.Parts, ast.StringPart{Expr: expr})
			if !p.expectPeek(token.INTERP_END) {
				return si
			}
			p.nextToken() // move to the following STRING_PART/STRING
		default:
			p.report(diagnostics.Expected(p.cur, "string literal"))
			return si
		}
	}
}

func (p *Parser) parseThisExpr() ast.Expression {
	tok := p.cur
	t := &ast.ThisExpr{NID: p.next(), Token: tok}
	if p.peekTokenIs(token.AT) {
		p.nextToken()
		if p.expectPeek(token.IDENT) {
			t.Qualifier = p.cur.Lexeme
		}
	}
	return t
}

func (p *Parser) parseSuperExpr() ast.Expression {
	tok := p.cur
	s := &ast.SuperExpr{NID: p.next(), Token: tok}
	if p.peekTokenIs(token.AT) {
		p.nextToken()
		if p.expectPeek(token.IDENT) {
			s.Qualifier = p.cur.Lexeme
		}
	}
	return s
}

// parseListLiteral handles `[ ... ]`.
func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.CollectionLiteral{NID: p.next(), Token: tok, Kind: ast.ListKind}
	p.nextToken()
	for !p.curTokenIs(token.RBRACKET) && !p.curTokenIs(token.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.RBRACKET)
	return lit
}

// parseHashBraceLiteral handles `#{ ... }`: set-vs-map disambiguation per
// the first element's top-level separator, with every subsequent element
// required to agree.
func (p *Parser) parseHashBraceLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.CollectionLiteral{NID: p.next(), Token: tok}
	p.nextToken()

	if p.curTokenIs(token.RBRACE) {
		lit.Kind = ast.MapKind
		return lit
	}

	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.COLON) {
		lit.Kind = ast.MapKind
		p.nextToken() // ':'
		p.nextToken()
		lit.Elements = append(lit.Elements, first)
		lit.MapValues = append(lit.MapValues, p.parseExpression(LOWEST))
	} else {
		lit.Kind = ast.SetKind
		lit.Elements = append(lit.Elements, first)
	}

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if p.curTokenIs(token.RBRACE) {
			break
		}
		elem := p.parseExpression(LOWEST)
		if lit.Kind == ast.MapKind {
			if !p.expectPeek(token.COLON) {
				p.report(diagnostics.MixedCollectionSyntax(p.cur))
				break
			}
			p.nextToken()
			lit.Elements = append(lit.Elements, elem)
			lit.MapValues = append(lit.MapValues, p.parseExpression(LOWEST))
		} else {
			if p.peekTokenIs(token.COLON) {
				p.report(diagnostics.MixedCollectionSyntax(p.cur))
				p.nextToken()
				p.nextToken()
				p.parseExpression(LOWEST)
				continue
			}
			lit.Elements = append(lit.Elements, elem)
		}
	}
	p.expectPeek(token.RBRACE)
	return lit
}

// parseLambdaExpr handles `{ ... }` at expression position: a zero-arg
// lambda body unless a top-level `->` marks a declared parameter list.
func (p *Parser) parseLambdaExpr() ast.Expression {
	tok := p.cur
	lambda := &ast.LambdaExpr{NID: p.next(), Token: tok}

	snap := p.snapshot()
	p.nextToken() // move past '{'
	params, ok := p.tryParseLambdaParams()
	if ok {
		lambda.Params = params
		p.nextToken() // move past '->'
	} else {
		p.restore(snap)
		p.nextToken() // move past '{' again
	}
	lambda.Body = p.parseBlockBody(tok)
	return lambda
}

// tryParseLambdaParams attempts to read a comma-separated parameter list
// up to a top-level `->`, starting from cur (the first token after `{`).
// On any shape that isn't a clean parameter list it returns ok=false and
// leaves the parser position unspecified; callers must snapshot first.
func (p *Parser) tryParseLambdaParams() ([]*ast.Parameter, bool) {
	var params []*ast.Parameter
	for !p.curTokenIs(token.ARROW) {
		if !p.curTokenIs(token.IDENT) {
			return nil, false
		}
		param := &ast.Parameter{NID: p.next(), Token: p.cur, Name: p.cur.Lexeme}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeRef()
		}
		params = append(params, param)
		switch {
		case p.peekTokenIs(token.COMMA):
			p.nextToken()
			p.nextToken()
		case p.peekTokenIs(token.ARROW):
			p.nextToken()
		default:
			return nil, false
		}
	}
	return params, true
}

func (p *Parser) parseUseExpr() ast.Expression {
	tok := p.cur
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	resource := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseLambdaExpr().(*ast.LambdaExpr)
	return &ast.UseExpr{NID: p.next(), Token: tok, Resource: resource, Body: body}
}

func (p *Parser) parseIfExpr() ast.Expression {
	tok := p.cur
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	then := p.parseExpression(LOWEST)
	ifExpr := &ast.IfExpr{NID: p.next(), Token: tok, Cond: cond, Then: then}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		ifExpr.Else = p.parseExpression(LOWEST)
	}
	return ifExpr
}

func (p *Parser) parseWhenExpr() ast.Expression {
	tok := p.cur
	w := &ast.WhenExpr{NID: p.next(), Token: tok}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		w.Subject = p.parseExpression(LOWEST)
		p.expectPeek(token.RPAREN)
	}
	if !p.expectPeek(token.LBRACE) {
		return w
	}
	p.nextToken()
	p.skipNewlines()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		branch := p.parseWhenBranch()
		if branch != nil {
			w.Branches = append(w.Branches, branch)
		}
		p.skipNewlines()
	}
	if !p.curTokenIs(token.RBRACE) {
		p.report(diagnostics.Expected(p.cur, "'}'"))
	}
	return w
}

func (p *Parser) parseWhenBranch() *ast.WhenBranch {
	tok := p.cur
	branch := &ast.WhenBranch{NID: p.next(), Token: tok}
	if p.curTokenIs(token.ELSE) {
		p.nextToken()
	} else {
		branch.Conditions = append(branch.Conditions, p.parseExpression(LOWEST))
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			branch.Conditions = append(branch.Conditions, p.parseExpression(LOWEST))
		}
		p.nextToken()
	}
	if !p.curTokenIs(token.ARROW) {
		p.report(diagnostics.Expected(p.cur, "'->'"))
		return branch
	}
	p.nextToken()
	branch.Result = p.parseExpression(LOWEST)
	p.nextToken()
	return branch
}
