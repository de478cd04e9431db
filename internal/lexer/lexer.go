// Package lexer implements the NovaLang lexer : a single-pass,
// longest-match tokenizer that never fails silently — malformed input
// produces an ILLEGAL token plus a diagnostic and lexing continues so the
// parser can still synchronize.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/novalang/novac/internal/config"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

// mode tags what readToken should do next: ordinary source, or inside the
// text portion of an interpolated string literal.
type mode int

const (
	modeNormal mode = iota
	modeString
)

type frame struct {
	mode mode
	quote byte // the quote character this string frame was opened with

	// Fields below are only meaningful for mode == modeNormal frames that
	// were pushed to lex one interpolation segment of a string literal.
	braceDepth int  // unmatched '{' seen inside a `${ ... }` segment
	shorthand bool // true for a `$ident` segment (no braces at all)
	shorthandDone bool // true once the single identifier has been read
}

// Lexer tokenizes one source file into a finite token stream ending in EOF.
type Lexer struct {
	input string
	fileID token.FileID
	position int
	readPosition int
	ch rune
	line int
	column int

	modeStack []frame
	Errors    []*diagnostics.Diagnostic

	// pendingInterpEnd is set when a `$ident` interpolation segment has
	// just had its one identifier token read; the very next NextToken
	// call must close that segment with INTERP_END before doing anything
	// else, rather than continuing to lex normal-mode tokens.
	pendingInterpEnd bool
}

// New creates a Lexer over input, tagging every span with fileID.
func New(input string, fileID token.FileID) *Lexer {
	l := &Lexer{input: input, fileID: fileID, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(offset int) rune {
	pos := l.readPosition
	for i := 0; i < offset; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) span(start int) token.SourceSpan {
	startLine, startCol := l.lineColAt(start)
	return token.SourceSpan{
		FileID:      l.fileID,
		StartOffset: start,
		EndOffset:   l.position,
		StartLine:   startLine,
		StartColumn: startCol,
	}
}

// lineColAt maps a byte offset at or before the current position to its
// 1-based line and column by counting back from the incrementally tracked
// current line; internal/source.Buffer is the authoritative indexed
// version used once the whole file is available.
func (l *Lexer) lineColAt(offset int) (int, int) {
	if offset >= l.position {
		return l.line, l.column
	}
	line := l.line - strings.Count(l.input[offset:l.position], "\n")
	lineStart := strings.LastIndexByte(l.input[:offset], '\n') + 1
	return line, utf8.RuneCountInString(l.input[lineStart:offset]) + 1
}

func (l *Lexer) currentFrame() (frame, bool) {
	if len(l.modeStack) == 0 {
		return frame{}, false
	}
	return l.modeStack[len(l.modeStack)-1], true
}

// NextToken returns the next token in the stream. It never returns an
// error: malformed input yields token.ILLEGAL plus an entry in l.Errors,
// and scanning resumes at the next character.
func (l *Lexer) NextToken() token.Token {
	if l.pendingInterpEnd {
		l.pendingInterpEnd = false
		start := l.position
		l.modeStack = l.modeStack[:len(l.modeStack)-1]
		return token.Token{Kind: token.INTERP_END, Span: l.span(start)}
	}
	if f, ok := l.currentFrame(); ok && f.mode == modeString {
		return l.nextStringToken(f)
	}
	tok := l.nextNormalToken()
	if n := len(l.modeStack); n > 0 && l.modeStack[n-1].mode == modeNormal && l.modeStack[n-1].shorthand && !l.modeStack[n-1].shorthandDone {
		l.modeStack[n-1].shorthandDone = true
		l.pendingInterpEnd = true
	}
	return tok
}

func (l *Lexer) nextNormalToken() token.Token {
	l.skipWhitespaceAndComments()
	start := l.position

	if l.ch == 0 {
		return token.Token{Kind: token.EOF, Span: l.span(start)}
	}

	switch {
	case l.ch == '"':
		return l.beginString()
	case isDigit(l.ch):
		return l.readNumber()
	case isIdentStart(l.ch):
		return l.readIdentOrKeyword()
	}

	tok, ok := l.readOperator()
	if ok {
		return tok
	}

	ch := l.ch
	l.readChar()
	d := diagnostics.New(diagnostics.Error, diagnostics.KindLexical, "L001",
		token.Token{Span: l.span(start)}, "unexpected character "+strconv.QuoteRune(ch))
	l.Errors = append(l.Errors, d)
	return token.Token{Kind: token.ILLEGAL, Lexeme: string(ch), Span: l.span(start)}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment, handling nesting.
func (l *Lexer) skipBlockComment() {
	start := l.position
	depth := 0
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	depth = 1
	for depth > 0 {
		if l.ch == 0 {
			l.Errors = append(l.Errors, diagnostics.New(diagnostics.Error, diagnostics.KindLexical,
				"L002", token.Token{Span: l.span(start)}, "unclosed block comment"))
			return
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			depth++
			continue
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			depth--
			continue
		}
		l.readChar()
	}
}

func isDigit(ch rune) bool      { return ch >= '0' && ch <= '9' }
func isHexDigit(ch rune) bool   { return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') }
func isIdentStart(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) }
func isIdentPart(ch rune) bool  { return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) }

func (l *Lexer) readIdentOrKeyword() token.Token {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	kind := token.LookupIdent(lexeme)
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.span(start)}
}

// readNumber scans integer (decimal/0x/0b) and floating-point literals with
// the L/l (Long) and f/F (Float) suffixes.
func (l *Lexer) readNumber() token.Token {
	start := l.position

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.finishIntLiteral(start, 16)
	}
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar()
		l.readChar()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			l.readChar()
		}
		return l.finishIntLiteral(start, 2)
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if isFloat {
		return l.finishFloatLiteral(start)
	}

	if l.ch == 'L' || l.ch == 'l' {
		lexeme := l.input[start:l.position]
		l.readChar()
		v, _ := strconv.ParseInt(strings.ReplaceAll(lexeme, "_", ""), 10, 64)
		return token.Token{Kind: token.LONG, Lexeme: lexeme + "L", Literal: v, Span: l.span(start)}
	}

	return l.finishIntLiteral(start, 10)
}

func (l *Lexer) finishIntLiteral(start, base int) token.Token {
	lexeme := l.input[start:l.position]
	isLong := l.ch == 'L' || l.ch == 'l'
	clean := lexeme
	switch base {
	case 16:
		clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")
	case 2:
		clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0b"), "0B")
	}
	clean = strings.ReplaceAll(clean, "_", "")
	v, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		l.Errors = append(l.Errors, diagnostics.New(diagnostics.Error, diagnostics.KindLexical,
			"L003", token.Token{Span: l.span(start)}, "invalid numeric literal: "+lexeme))
	}
	if isLong {
		full := l.input[start:l.position] + "L"
		l.readChar()
		return token.Token{Kind: token.LONG, Lexeme: full, Literal: v, Span: l.span(start)}
	}
	return token.Token{Kind: token.INT, Lexeme: lexeme, Literal: v, Span: l.span(start)}
}

func (l *Lexer) finishFloatLiteral(start int) token.Token {
	lexeme := l.input[start:l.position]
	isFloat32 := l.ch == 'f' || l.ch == 'F'
	clean := strings.ReplaceAll(lexeme, "_", "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		l.Errors = append(l.Errors, diagnostics.New(diagnostics.Error, diagnostics.KindLexical,
			"L003", token.Token{Span: l.span(start)}, "invalid numeric literal: "+lexeme))
	}
	if isFloat32 {
		full := l.input[start:l.position] + "f"
		l.readChar()
		return token.Token{Kind: token.FLOAT, Lexeme: full, Literal: v, Span: l.span(start)}
	}
	return token.Token{Kind: token.DOUBLE, Lexeme: lexeme, Literal: v, Span: l.span(start)}
}

// beginString opens a double-quoted string literal and switches the lexer
// into modeString; the quote itself is not emitted as a token.
func (l *Lexer) beginString() token.Token {
	if len(l.modeStack) >= config.MaxInterpolationDepth {
		start := l.position
		l.Errors = append(l.Errors, diagnostics.New(diagnostics.Error, diagnostics.KindLexical,
			"L004", token.Token{Span: l.span(start)}, "string interpolation nested too deeply"))
		l.readChar()
		return token.Token{Kind: token.ILLEGAL, Span: l.span(start)}
	}
	l.readChar() // consume opening quote
	l.modeStack = append(l.modeStack, frame{mode: modeString, quote: '"'})
	return l.nextStringToken(l.modeStack[len(l.modeStack)-1])
}

// nextStringToken scans the text portion of a string literal up to the
// closing quote, a `$ident`/`${expr}` interpolation marker, or EOF.
func (l *Lexer) nextStringToken(f frame) token.Token {
	start := l.position
	var sb strings.Builder

	for {
		switch l.ch {
		case 0:
			l.Errors = append(l.Errors, diagnostics.New(diagnostics.Error, diagnostics.KindLexical,
				"L005", token.Token{Span: l.span(start)}, "unterminated string literal"))
			l.popStringFrame()
			return token.Token{Kind: token.STRING_PART, Lexeme: sb.String(), Literal: sb.String(), Span: l.span(start)}
		case '"':
			l.readChar()
			l.popStringFrame()
			return token.Token{Kind: token.STRING, Lexeme: sb.String(), Literal: sb.String(), Span: l.span(start)}
		case '\\':
			l.readChar()
			esc, ok := l.readEscape()
			if !ok {
				l.Errors = append(l.Errors, diagnostics.New(diagnostics.Error, diagnostics.KindLexical,
					"L006", token.Token{Span: l.span(start)}, "invalid escape sequence"))
			}
			sb.WriteRune(esc)
		case '$':
			if sb.Len() > 0 || l.peekChar() == '{' || isIdentStart(l.peekChar()) {
				if sb.Len() > 0 {
					return token.Token{Kind: token.STRING_PART, Lexeme: sb.String(), Literal: sb.String(), Span: l.span(start)}
				}
				return l.beginInterpolation()
			}
			sb.WriteRune(l.ch)
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) popStringFrame() {
	if len(l.modeStack) > 0 {
		l.modeStack = l.modeStack[:len(l.modeStack)-1]
	}
}

func (l *Lexer) readEscape() (rune, bool) {
	switch l.ch {
	case 'n':
		l.readChar()
		return '\n', true
	case 't':
		l.readChar()
		return '\t', true
	case 'r':
		l.readChar()
		return '\r', true
	case '\\':
		l.readChar()
		return '\\', true
	case '"':
		l.readChar()
		return '"', true
	case '$':
		l.readChar()
		return '$', true
	case '0':
		l.readChar()
		return 0, true
	default:
		ch := l.ch
		l.readChar()
		return ch, false
	}
}

// beginInterpolation emits INTERP_START and, for `${ expr }`, pops back to
// normal-mode lexing until the matching `}` (tracking inner brace depth so
// nested record/lambda literals inside the interpolation don't close it
// early); INTERP_END is emitted when that closing brace is consumed. For
// the `$ident` shorthand it returns just INTERP_START here and the parser's
// next NextToken call (still in normal mode, see below) reads the bare
// identifier followed by a synthetic INTERP_END.
func (l *Lexer) beginInterpolation() token.Token {
	start := l.position
	if l.peekChar() == '{' {
		l.readChar() // '$'
		l.readChar() // '{'
		l.modeStack = append(l.modeStack, frame{mode: modeNormal})
		return token.Token{Kind: token.INTERP_START, Span: l.span(start)}
	}
	// $ident shorthand: emit START, then let normal-mode lexing read one
	// identifier token, then NextToken forces an END before returning to
	// string mode (see the pendingInterpEnd handling above).
	l.readChar() // '$'
	l.modeStack = append(l.modeStack, frame{mode: modeNormal, shorthand: true})
	return token.Token{Kind: token.INTERP_START, Span: l.span(start)}
}

func (l *Lexer) readOperator() (token.Token, bool) {
	start := l.position
	ch := l.ch

	// Close an active interpolation if we're lexing its expression and hit
	// the terminating brace (or, for $ident, the lexer never reaches here
	// because NextToken closes that segment via pendingInterpEnd first).
	if n := len(l.modeStack); n > 0 && l.modeStack[n-1].mode == modeNormal && !l.modeStack[n-1].shorthand {
		if ch == '{' {
			l.modeStack[n-1].braceDepth++
		} else if ch == '}' {
			if l.modeStack[n-1].braceDepth == 0 {
				l.readChar()
				l.modeStack = l.modeStack[:n-1]
				return token.Token{Kind: token.INTERP_END, Span: l.span(start)}, true
			}
			l.modeStack[n-1].braceDepth--
		}
	}

	switch ch {
	case '\n':
		l.readChar()
		return token.Token{Kind: token.NEWLINE, Lexeme: "\n", Span: l.span(start)}, true
	case '(':
		l.readChar()
		return token.Token{Kind: token.LPAREN, Lexeme: "(", Span: l.span(start)}, true
	case ')':
		l.readChar()
		return token.Token{Kind: token.RPAREN, Lexeme: ")", Span: l.span(start)}, true
	case '{':
		l.readChar()
		return token.Token{Kind: token.LBRACE, Lexeme: "{", Span: l.span(start)}, true
	case '}':
		l.readChar()
		return token.Token{Kind: token.RBRACE, Lexeme: "}", Span: l.span(start)}, true
	case '[':
		l.readChar()
		return token.Token{Kind: token.LBRACKET, Lexeme: "[", Span: l.span(start)}, true
	case ']':
		l.readChar()
		return token.Token{Kind: token.RBRACKET, Lexeme: "]", Span: l.span(start)}, true
	case ',':
		l.readChar()
		return token.Token{Kind: token.COMMA, Lexeme: ",", Span: l.span(start)}, true
	case ';':
		l.readChar()
		return token.Token{Kind: token.SEMICOLON, Lexeme: ";", Span: l.span(start)}, true
	case '@':
		l.readChar()
		return token.Token{Kind: token.AT, Lexeme: "@", Span: l.span(start)}, true
	case '#':
		if l.peekChar() == '{' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.HASH_LBRACE, Lexeme: "#{", Span: l.span(start)}, true
		}
	case ':':
		l.readChar()
		return token.Token{Kind: token.COLON, Lexeme: ":", Span: l.span(start)}, true
	case '.':
		// longest match: ..< beats .. beats.
		if l.peekChar() == '.' {
			if l.peekCharAt(1) == '<' {
				l.readChar()
				l.readChar()
				l.readChar()
				return token.Token{Kind: token.RANGE_EXCL, Lexeme: "..<", Span: l.span(start)}, true
			}
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.RANGE_INCL, Lexeme: "..", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.DOT, Lexeme: ".", Span: l.span(start)}, true
	case '?':
		if l.peekChar() == ':' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.ELVIS, Lexeme: "?:", Span: l.span(start)}, true
		}
		if l.peekChar() == '.' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.SAFE_CALL, Lexeme: "?.", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.QUESTION, Lexeme: "?", Span: l.span(start)}, true
	case '!':
		// === beats == beats =; analogous triple/pair/single longest match
		// for !==, !=, !!, !.
		if l.peekChar() == '!' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.DOUBLE_BANG, Lexeme: "!!", Span: l.span(start)}, true
		}
		if l.peekChar() == '=' {
			if l.peekCharAt(1) == '=' {
				l.readChar()
				l.readChar()
				l.readChar()
				return token.Token{Kind: token.REF_NEQ, Lexeme: "!==", Span: l.span(start)}, true
			}
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.NOT_EQ, Lexeme: "!=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.NOT, Lexeme: "!", Span: l.span(start)}, true
	case '=':
		if l.peekChar() == '=' {
			if l.peekCharAt(1) == '=' {
				l.readChar()
				l.readChar()
				l.readChar()
				return token.Token{Kind: token.REF_EQ, Lexeme: "===", Span: l.span(start)}, true
			}
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.EQ, Lexeme: "==", Span: l.span(start)}, true
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.FAT_ARROW, Lexeme: "=>", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.ASSIGN, Lexeme: "=", Span: l.span(start)}, true
	case '+':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.PLUS_ASSIGN, Lexeme: "+=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.PLUS, Lexeme: "+", Span: l.span(start)}, true
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.ARROW, Lexeme: "->", Span: l.span(start)}, true
		}
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.MINUS_ASSIGN, Lexeme: "-=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.MINUS, Lexeme: "-", Span: l.span(start)}, true
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.STAR_ASSIGN, Lexeme: "*=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.STAR, Lexeme: "*", Span: l.span(start)}, true
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.SLASH_ASSIGN, Lexeme: "/=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.SLASH, Lexeme: "/", Span: l.span(start)}, true
	case '%':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.PERCENT_ASSIGN, Lexeme: "%=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.PERCENT, Lexeme: "%", Span: l.span(start)}, true
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.LE, Lexeme: "<=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.LT, Lexeme: "<", Span: l.span(start)}, true
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.GE, Lexeme: ">=", Span: l.span(start)}, true
		}
		l.readChar()
		return token.Token{Kind: token.GT, Lexeme: ">", Span: l.span(start)}, true
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.AND_AND, Lexeme: "&&", Span: l.span(start)}, true
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.OR_OR, Lexeme: "||", Span: l.span(start)}, true
		}
	case '\'':
		return l.readChar_(), true
	}
	return token.Token{}, false
}

// readChar_ reads a char literal 'x' (escapes allowed).
func (l *Lexer) readChar_() token.Token {
	start := l.position
	l.readChar() // consume opening '
	var r rune
	if l.ch == '\\' {
		l.readChar()
		esc, _ := l.readEscape()
		r = esc
	} else {
		r = l.ch
		l.readChar()
	}
	if l.ch == '\'' {
		l.readChar()
	} else {
		l.Errors = append(l.Errors, diagnostics.New(diagnostics.Error, diagnostics.KindLexical,
			"L007", token.Token{Span: l.span(start)}, "unterminated character literal"))
	}
	return token.Token{Kind: token.CHAR, Lexeme: l.input[start:l.position], Literal: int64(r), Span: l.span(start)}
}

// Lex runs the lexer to completion and returns the full token stream
func Lex(input string, fileID token.FileID) ([]token.Token, []*diagnostics.Diagnostic) {
	l := New(input, fileID)
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return toks, l.Errors
}
