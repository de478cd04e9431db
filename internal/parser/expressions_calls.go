package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

// registerPrefixFns wires every token kind that can start an expression to
// the parse function for it.
func (p *Parser) registerPrefixFns() {
	p.prefixFns[token.IDENT] = p.parseIdentifier
	p.prefixFns[token.INT] = p.parseLiteral
	p.prefixFns[token.LONG] = p.parseLiteral
	p.prefixFns[token.FLOAT] = p.parseLiteral
	p.prefixFns[token.DOUBLE] = p.parseLiteral
	p.prefixFns[token.CHAR] = p.parseLiteral
	p.prefixFns[token.TRUE] = p.parseLiteral
	p.prefixFns[token.FALSE] = p.parseLiteral
	p.prefixFns[token.NULL_KW] = p.parseLiteral
	p.prefixFns[token.STRING] = p.parseStringLiteral
	p.prefixFns[token.STRING_PART] = p.parseStringLiteral
	p.prefixFns[token.THIS] = p.parseThisExpr
	p.prefixFns[token.SUPER] = p.parseSuperExpr
	p.prefixFns[token.LBRACKET] = p.parseListLiteral
	p.prefixFns[token.HASH_LBRACE] = p.parseHashBraceLiteral
	p.prefixFns[token.LBRACE] = p.parseLambdaExpr
	p.prefixFns[token.LPAREN] = p.parseGroupedExpression
	p.prefixFns[token.USE] = p.parseUseExpr
	p.prefixFns[token.IF] = p.parseIfExpr
	p.prefixFns[token.WHEN] = p.parseWhenExpr
	p.prefixFns[token.MINUS] = p.parseUnaryExpr
	p.prefixFns[token.NOT] = p.parseUnaryExpr
	p.prefixFns[token.PLUS] = p.parseUnaryExpr
}

// registerInfixFns wires every token kind that can continue an expression
// already in progress.
func (p *Parser) registerInfixFns() {
	p.infixFns[token.ASSIGN] = p.parseAssignExpr
	p.infixFns[token.PLUS_ASSIGN] = p.parseAssignExpr
	p.infixFns[token.MINUS_ASSIGN] = p.parseAssignExpr
	p.infixFns[token.STAR_ASSIGN] = p.parseAssignExpr
	p.infixFns[token.SLASH_ASSIGN] = p.parseAssignExpr
	p.infixFns[token.PERCENT_ASSIGN] = p.parseAssignExpr

	p.infixFns[token.ELVIS] = p.parseElvisExpr

	for _, k := range []token.Kind{
		token.OR_OR, token.AND_AND,
		token.AND_KW, token.OR_KW, token.XOR_KW, token.SHL_KW, token.SHR_KW,
		token.EQ, token.NOT_EQ, token.REF_EQ, token.REF_NEQ,
		token.LT, token.LE, token.GT, token.GE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
	} {
		p.infixFns[k] = p.parseBinaryExpr
	}

	p.infixFns[token.IS_KW] = p.parseIsExpr
	p.infixFns[token.AS_KW] = p.parseAsExpr
	p.infixFns[token.IN_KW] = p.parseInExpr
	p.infixFns[token.NOT] = p.parseNotContinuation

	p.infixFns[token.RANGE_INCL] = p.parseRangeExpr
	p.infixFns[token.RANGE_EXCL] = p.parseRangeExpr

	p.infixFns[token.DOT] = p.parseMemberAccess
	p.infixFns[token.SAFE_CALL] = p.parseSafeCall
	p.infixFns[token.LBRACKET] = p.parseIndexExpr
	p.infixFns[token.LPAREN] = p.parseCallExpr
	p.infixFns[token.DOUBLE_BANG] = p.parseNotNullAssert
	p.infixFns[token.QUESTION] = p.parseErrorPropagation
}

func (p *Parser) parseMemberAccess(left ast.Expression) ast.Expression {
	tok := p.cur // '.'
	if !p.expectPeek(token.IDENT) {
		return left
	}
	m := &ast.MemberAccessExpr{NID: p.next(), Token: tok, Target: left, Name: p.cur.Lexeme}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		return p.parseCallExpr(m)
	}
	return p.maybeAttachTrailingLambda(p.maybeGenericCall(m))
}

// parseSafeCall handles `?.`: the member-or-call expression that follows
// is wrapped as SafeCallExpr.Member.
func (p *Parser) parseSafeCall(left ast.Expression) ast.Expression {
	tok := p.cur // '?.'
	if !p.expectPeek(token.IDENT) {
		return left
	}
	member := &ast.MemberAccessExpr{NID: p.next(), Token: p.cur, Target: left, Name: p.cur.Lexeme}
	var memberExpr ast.Expression = member
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		memberExpr = p.parseCallExpr(member)
	}
	return &ast.SafeCallExpr{NID: p.next(), Token: tok, Target: left, Member: memberExpr}
}

func (p *Parser) parseIndexExpr(left ast.Expression) ast.Expression {
	tok := p.cur // '['
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return left
	}
	return &ast.IndexExpr{NID: p.next(), Token: tok, Target: left, Index: idx}
}

func (p *Parser) parseNotNullAssert(left ast.Expression) ast.Expression {
	tok := p.cur // '!!'
	return &ast.NotNullAssertExpr{NID: p.next(), Token: tok, Operand: left}
}

// parseErrorPropagation handles the postfix `expr?` form. It only binds
// when '?' is not instead the start of a nullable-type annotation, which
// never reaches here since type parsing has its own call path.
func (p *Parser) parseErrorPropagation(left ast.Expression) ast.Expression {
	tok := p.cur // '?'
	return &ast.ErrorPropagationExpr{NID: p.next(), Token: tok, Operand: left}
}

// parseCallExpr parses a call's argument list; cur is the opening '(' on
// entry. Arguments are classified positional/named/spread, with Order
// preserving their original left-to-right token sequence for diagnostics.
// A trailing `{ ... }` immediately after the closing ')' (or, with no
// parens at all, immediately after the callee) attaches as TrailingLambda,
// unless disallowTrailingLambda is set for the current context.
func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	tok := p.cur // '('
	call := &ast.CallExpr{NID: p.next(), Token: tok, Callee: callee}
	p.nextToken()

	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		switch {
		case p.curTokenIs(token.STAR):
			p.nextToken()
			call.Spread = p.parseExpression(LOWEST)
			call.Order = append(call.Order, ast.ArgSlot{Group: ast.ArgSpread, Index: 0})
		case p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN):
			// Named-argument vs. assignment-expression disambiguation: inside
			// a call's argument list, `name = expr` is always a named
			// argument, never an assignment — an assignment expression as an
			// argument would need its own parentheses, e.g. f((x = 1)).
			name := p.cur.Lexeme
			p.nextToken() // '='
			p.nextToken()
			val := p.parseExpression(LOWEST)
			call.Named = append(call.Named, ast.NamedArg{Name: name, Value: val})
			call.Order = append(call.Order, ast.ArgSlot{Group: ast.ArgNamed, Index: len(call.Named) - 1})
		default:
			val := p.parseExpression(LOWEST)
			call.Positional = append(call.Positional, val)
			call.Order = append(call.Order, ast.ArgSlot{Group: ast.ArgPositional, Index: len(call.Positional) - 1})
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}
	if !p.curTokenIs(token.RPAREN) {
		p.report(diagnostics.Expected(p.cur, "')'"))
	}

	if !p.disallowTrailingLambda && p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		call.TrailingLambda = p.parseLambdaExpr().(*ast.LambdaExpr)
	}
	return call
}
