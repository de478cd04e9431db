// Package parser implements the Pratt-style precedence parser that turns a
// token stream into a Program AST, following the bounded-lookahead
// disambiguation rules for the handful of genuinely ambiguous constructs in
// the surface grammar (generic calls, set/map literals, lambdas vs blocks,
// labels, property accessors, named arguments, extension receivers).
package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

// MaxRecursionDepth guards parseExpression against runaway left-recursion
// on deliberately pathological input; exceeding it reports once and skips
// to the next statement boundary instead of overflowing the Go stack.
const MaxRecursionDepth = 250

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser consumes a finite token stream (already EOF-terminated by the
// lexer) and produces a best-effort AST plus diagnostics reported through
// the shared Reporter.
type Parser struct {
	tokens []token.Token
	pos    int
	cur    token.Token
	peek   token.Token

	reporter *diagnostics.Reporter
	ids      *ast.IDGen
	file     string

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn

	depth               int
	inRecursionRecovery bool

	// disallowTrailingLambda suppresses the `ident { ... }` trailing-lambda
	// call form while parsing a context where `{` must instead start a
	// block or collection literal, e.g. the condition of an `if` statement.
	disallowTrailingLambda bool

	// inRepl disables error-recovery skipping; ParseREPLInput never
	// resynchronizes past an error.
	inRepl bool
}

// New constructs a Parser over tokens, reporting diagnostics to reporter
// and tagging them with file.
func New(tokens []token.Token, reporter *diagnostics.Reporter, file string) *Parser {
	p := &Parser{
		tokens:   tokens,
		reporter: reporter,
		ids:      ast.NewIDGen(),
		file:     file,
	}
	p.prefixFns = make(map[token.Kind]prefixParseFn)
	p.infixFns = make(map[token.Kind]infixParseFn)
	p.registerPrefixFns()
	p.registerInfixFns()
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) next() ast.NodeID { return p.ids.Next() }

func (p *Parser) nextToken() {
	p.cur = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else {
		p.peek = token.Token{Kind: token.EOF}
	}
}

type parserState struct {
	pos  int
	cur  token.Token
	peek token.Token
}

// snapshot/restore back bounded-lookahead disambiguation: a scan that
// turns out not to match its target shape rewinds the parser exactly as
// if it had never run.
func (p *Parser) snapshot() parserState { return parserState{p.pos, p.cur, p.peek} }

func (p *Parser) restore(s parserState) {
	p.pos, p.cur, p.peek = s.pos, s.cur, s.peek
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peek.Kind == k }

// expectPeek advances past peek if it matches k, else reports Expected and
// leaves the position unchanged.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.report(diagnostics.Expected(p.peek, k.String()))
	return false
}

func (p *Parser) report(d *diagnostics.Diagnostic) {
	d.File = p.file
	if p.reporter != nil {
		p.reporter.Report(d)
	}
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// hasContinuationOperator peeks past NEWLINE tokens to see whether the
// statement keeps going on the next line, e.g. a binary operator or a
// property accessor leading that next line.
func (p *Parser) hasContinuationOperator() bool {
	i := p.pos
	for i < len(p.tokens) && p.tokens[i].Kind == token.NEWLINE {
		i++
	}
	if i >= len(p.tokens) {
		return false
	}
	_, isInfix := precedences[p.tokens[i].Kind]
	return isInfix
}

// syncToStatementBoundary skips tokens until one of the statement sync
// points: ';', NEWLINE, '}', or a top-level keyword. Never called from
// ParseREPLInput.
func (p *Parser) syncToStatementBoundary() {
	for !p.curTokenIs(token.EOF) {
		switch p.cur.Kind {
		case token.SEMICOLON, token.NEWLINE, token.RBRACE,
			token.FUN, token.CLASS, token.VAL, token.VAR, token.IMPORT:
			return
		}
		p.nextToken()
	}
}

func (p *Parser) syncToTopLevel() {
	for !p.curTokenIs(token.EOF) {
		switch p.cur.Kind {
		case token.FUN, token.CLASS, token.INTERFACE, token.OBJECT, token.ENUM,
			token.VAL, token.VAR, token.IMPORT,
			token.PUBLIC, token.PRIVATE, token.PROTECTED, token.INTERNAL,
			token.ABSTRACT, token.OPEN, token.FINAL, token.OVERRIDE, token.INLINE:
			return
		}
		p.nextToken()
	}
}

// modifierNames mirrors ast's unexported naming table; the parser needs it
// only to render ConflictingModifier diagnostics.
var modifierNames = map[ast.Modifier]string{
	ast.ModPublic: "public", ast.ModPrivate: "private", ast.ModProtected: "protected",
	ast.ModInternal: "internal", ast.ModAbstract: "abstract", ast.ModOpen: "open",
	ast.ModFinal: "final", ast.ModOverride: "override", ast.ModInline: "inline",
	ast.ModStatic: "static",
}

func modifierKind(k token.Kind) (ast.Modifier, bool) {
	switch k {
	case token.PUBLIC:
		return ast.ModPublic, true
	case token.PRIVATE:
		return ast.ModPrivate, true
	case token.PROTECTED:
		return ast.ModProtected, true
	case token.INTERNAL:
		return ast.ModInternal, true
	case token.ABSTRACT:
		return ast.ModAbstract, true
	case token.OPEN:
		return ast.ModOpen, true
	case token.FINAL:
		return ast.ModFinal, true
	case token.OVERRIDE:
		return ast.ModOverride, true
	case token.INLINE:
		return ast.ModInline, true
	case token.STATIC:
		return ast.ModStatic, true
	default:
		return 0, false
	}
}

// parseModifiers consumes a run of modifier keywords, validating mutually
// exclusive groups through ast.ModifierSet.Add.
func (p *Parser) parseModifiers() ast.ModifierSet {
	var set ast.ModifierSet
	for {
		m, ok := modifierKind(p.cur.Kind)
		if !ok {
			return set
		}
		tok := p.cur
		if conflict, added := set.Add(m); !added {
			p.report(diagnostics.ConflictingModifier(tok, modifierNames[conflict], modifierNames[m]))
		}
		p.nextToken()
	}
}
