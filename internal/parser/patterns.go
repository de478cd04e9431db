package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/token"
)

// parsePattern parses a destructuring target: a bare name, or a
// parenthesized, possibly nested, comma-separated list of patterns.
func (p *Parser) parsePattern() ast.Pattern {
	if p.curTokenIs(token.LPAREN) {
		tok := p.cur
		p.nextToken()
		var elems []ast.Pattern
		for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
			elems = append(elems, p.parsePattern())
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		p.expectPeek(token.RPAREN)
		return &ast.TuplePattern{NID: p.next(), Token: tok, Elements: elems}
	}
	tok := p.cur
	name := p.cur.Lexeme
	return &ast.NamePattern{NID: p.next(), Token: tok, Name: name}
}
