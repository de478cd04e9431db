package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

// parseExpression is the core Pratt loop: a prefix parse produces a left
// operand, then infix/postfix operators extend it for as long as their
// precedence exceeds the caller's minimum.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		if !p.inRecursionRecovery {
			p.report(diagnostics.New(diagnostics.Error, diagnostics.KindParse, "P006", p.cur,
				"expression too complex: recursion depth limit exceeded"))
			p.inRecursionRecovery = true
		}
		if !p.inRepl {
			p.syncToStatementBoundary()
		}
		p.inRecursionRecovery = false
		return nil
	}

	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.report(diagnostics.Expected(p.cur, "expression"))
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.NEWLINE) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Kind]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	// A binary operator may continue on the next source line; peek past
	// NEWLINE tokens to see whether the statement keeps going.
	if p.peekTokenIs(token.NEWLINE) && precedence < LOWEST+1 && p.hasContinuationOperator() {
		for p.peekTokenIs(token.NEWLINE) {
			p.nextToken()
		}
		for precedence < p.peekPrecedence() {
			infix, ok := p.infixFns[p.peek.Kind]
			if !ok {
				break
			}
			p.nextToken()
			left = infix(left)
		}
	}

	return left
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	tok := p.cur
	op := p.cur.Kind
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpr{NID: p.next(), Token: tok, Op: op, Operand: operand}
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	op := p.cur.Kind
	prec := p.curPrecedence()
	p.nextToken()
	if rightAssoc[op] {
		prec--
	}
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{NID: p.next(), Token: tok, Op: op, Left: left, Right: right}
}

// parseAssignExpr handles `=` and compound-assignment infix operators;
// these are right-associative, so the recursive call uses precedence-1.
func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	op := p.cur.Kind
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1)
	return &ast.AssignExpr{NID: p.next(), Token: tok, Op: op, Target: left, Value: value}
}

func (p *Parser) parseElvisExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	fallback := p.parseExpression(ELVIS)
	return &ast.ElvisExpr{NID: p.next(), Token: tok, Left: left, Fallback: fallback}
}

func (p *Parser) parseRangeExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	inclusive := p.cur.Kind == token.RANGE_INCL
	p.nextToken()
	end := p.parseExpression(RANGE)
	r := &ast.RangeExpr{NID: p.next(), Token: tok, Start: left, End: end, Inclusive: inclusive}
	if p.peekTokenIs(token.IDENT) && p.peek.Lexeme == "step" {
		p.nextToken()
		p.nextToken()
		r.Step = p.parseExpression(RANGE)
	}
	return r
}

func (p *Parser) parseInExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	iter := p.parseExpression(TYPE_TEST)
	return &ast.InExpr{NID: p.next(), Token: tok, Value: left, Negated: false, Iterable: iter}
}

// parseNotContinuation handles the `!is` / `!in` two-token operators: cur
// is NOT, peek must be IS_KW or IN_KW for this to be a legal continuation.
func (p *Parser) parseNotContinuation(left ast.Expression) ast.Expression {
	tok := p.cur
	switch {
	case p.peekTokenIs(token.IS_KW):
		p.nextToken() // consume IS_KW, cur now IS_KW
		p.nextToken() // move to type
		typ := p.parseTypeRef()
		return &ast.TypeTestExpr{NID: p.next(), Token: tok, Kind: ast.NotIsTest, Operand: left, Type: typ}
	case p.peekTokenIs(token.IN_KW):
		p.nextToken()
		p.nextToken()
		iter := p.parseExpression(TYPE_TEST)
		return &ast.InExpr{NID: p.next(), Token: tok, Value: left, Negated: true, Iterable: iter}
	default:
		p.report(diagnostics.Expected(p.peek, "'is' or 'in'"))
		return left
	}
}

func (p *Parser) parseIsExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	typ := p.parseTypeRef()
	return &ast.TypeTestExpr{NID: p.next(), Token: tok, Kind: ast.IsTest, Operand: left, Type: typ}
}

func (p *Parser) parseAsExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	kind := ast.AsCast
	if p.peekTokenIs(token.QUESTION) {
		p.nextToken()
		kind = ast.AsSafeCast
	}
	p.nextToken()
	typ := p.parseTypeRef()
	return &ast.TypeTestExpr{NID: p.next(), Token: tok, Kind: kind, Operand: left, Type: typ}
}

// parseGroupedExpression handles `(expr)`. The surface grammar has no
// tuple-literal expression (only the destructuring pattern `val (a, b) =
// ...` uses parens with commas), so a comma found here is a parse error
// rather than a silently accepted tuple.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		p.syncToBoundary(token.RPAREN)
		if p.curTokenIs(token.RPAREN) {
			p.nextToken()
		}
		return nil
	}

	if p.peekTokenIs(token.COMMA) {
		p.report(diagnostics.Expected(p.peek, "')'"))
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			p.parseExpression(LOWEST)
		}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// syncToBoundary advances until cur is k, a statement sync point, or EOF.
func (p *Parser) syncToBoundary(k token.Kind) {
	for !p.curTokenIs(k) && !p.curTokenIs(token.EOF) &&
		!p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.RBRACE) {
		p.nextToken()
	}
}
