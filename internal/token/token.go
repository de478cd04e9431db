// Package token defines the lexical token kinds and the Token/SourceSpan
// value types shared by every later compiler stage.
package token

import "fmt"

// FileID identifies a source file within a compilation (a multi-file build
// assigns one FileID per unit; a single compile_file call always uses 0).
type FileID int

// SourceSpan is an immutable, cheap-to-copy source range . A
// lowered IR node inherits the span of its primary syntactic origin, so
// SourceSpan deliberately carries no owning pointers.
type SourceSpan struct {
	FileID      FileID
	StartOffset int
	EndOffset int
	StartLine int
	StartColumn int
}

// String renders "line:col" for diagnostics; callers that need the
// file name resolve FileID through source.Set.
func (s SourceSpan) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartColumn)
}

// Join returns the smallest span covering both a and b. Both must belong to
// the same file; callers that merge spans across lowering boundaries are
// responsible for that invariant.
func Join(a, b SourceSpan) SourceSpan {
	start := a
	if b.StartOffset < a.StartOffset {
		start = b
	}
	end := a.EndOffset
	if b.EndOffset > end {
		end = b.EndOffset
	}
	return SourceSpan{
		FileID:      a.FileID,
		StartOffset: start.StartOffset,
		EndOffset:   end,
		StartLine:   start.StartLine,
		StartColumn: start.StartColumn,
	}
}

// Kind is the closed set of token kinds the lexer produces.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Identifiers and literals.
	IDENT
	INT
	LONG
	FLOAT
	DOUBLE
	CHAR
	STRING
	STRING_PART
	INTERP_START
	INTERP_END
	TRUE
	FALSE
	NULL_KW

	// Keywords.
	VAL
	VAR
	FUN
	CLASS
	INTERFACE
	OBJECT
	ENUM
	WHEN
	IF
	ELSE
	FOR
	WHILE
	DO
	RETURN
	BREAK
	CONTINUE
	THROW
	TRY
	CATCH
	FINALLY
	IMPORT
	STATIC
	PUBLIC
	PRIVATE
	PROTECTED
	INTERNAL
	ABSTRACT
	OPEN
	FINAL
	OVERRIDE
	INLINE
	IS_KW
	AS_KW
	IN_KW
	OUT_KW
	BY_KW
	INIT
	THIS
	SUPER
	UNIT_TYPE
	NOTHING_TYPE
	GET
	SET
	USE

	// Punctuation.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	HASH_LBRACE // #{
	COMMA
	COLON
	SEMICOLON
	DOT
	ARROW      // ->
	FAT_ARROW  // =>
	AT         // @
	QUESTION   // ?
	BANG       // !
	DOUBLE_BANG // !!

	// Operators.
	ASSIGN
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN

	EQ
	NOT_EQ
	REF_EQ  // ===
	REF_NEQ // !==
	LT
	LE
	GT
	GE

	AND_AND
	OR_OR
	NOT

	AND_KW // and (bitwise)
	OR_KW  // or
	XOR_KW // xor
	SHL_KW // shl
	SHR_KW // shr

	ELVIS      // ?:
	SAFE_CALL  // ?.
	RANGE_INCL // ..
	RANGE_EXCL // ..<

	LABEL_AT // identifier@ marker (parser synthesizes, lexer emits AT after IDENT)
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE",
	IDENT: "IDENT", INT: "INT", LONG: "LONG", FLOAT: "FLOAT", DOUBLE: "DOUBLE",
	CHAR: "CHAR", STRING: "STRING", STRING_PART: "STRING_PART",
	INTERP_START: "INTERP_START", INTERP_END: "INTERP_END",
	TRUE: "TRUE", FALSE: "FALSE", NULL_KW: "NULL",
	VAL: "VAL", VAR: "VAR", FUN: "FUN", CLASS: "CLASS", INTERFACE: "INTERFACE",
	OBJECT: "OBJECT", ENUM: "ENUM", WHEN: "WHEN", IF: "IF", ELSE: "ELSE",
	FOR: "FOR", WHILE: "WHILE", DO: "DO", RETURN: "RETURN", BREAK: "BREAK",
	CONTINUE: "CONTINUE", THROW: "THROW", TRY: "TRY", CATCH: "CATCH",
	FINALLY: "FINALLY", IMPORT: "IMPORT", STATIC: "STATIC", PUBLIC: "PUBLIC",
	PRIVATE: "PRIVATE", PROTECTED: "PROTECTED", INTERNAL: "INTERNAL",
	ABSTRACT: "ABSTRACT", OPEN: "OPEN", FINAL: "FINAL", OVERRIDE: "OVERRIDE",
	INLINE: "INLINE", IS_KW: "IS", AS_KW: "AS", IN_KW: "IN", OUT_KW: "OUT",
	BY_KW: "BY", INIT: "INIT", THIS: "THIS", SUPER: "SUPER",
	UNIT_TYPE: "UNIT", NOTHING_TYPE: "NOTHING", GET: "GET", SET: "SET", USE: "USE",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	HASH_LBRACE: "#{", COMMA: ",", COLON: ":", SEMICOLON: ";", DOT: ".",
	ARROW: "->", FAT_ARROW: "=>", AT: "@", QUESTION: "?", BANG: "!", DOUBLE_BANG: "!!",
	ASSIGN: "=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
	PERCENT_ASSIGN: "%=", EQ: "==", NOT_EQ: "!=", REF_EQ: "===", REF_NEQ: "!==",
	LT: "<", LE: "<=", GT: ">", GE: ">=", AND_AND: "&&", OR_OR: "||", NOT: "!",
	AND_KW: "and", OR_KW: "or", XOR_KW: "xor", SHL_KW: "shl", SHR_KW: "shr",
	ELVIS: "?:", SAFE_CALL: "?.", RANGE_INCL: "..", RANGE_EXCL: "..<",
	LABEL_AT: "@label",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Keywords maps reserved identifiers to their keyword kind.
var Keywords = map[string]Kind{
	"val": VAL, "var": VAR, "fun": FUN, "class": CLASS, "interface": INTERFACE,
	"object": OBJECT, "enum": ENUM, "when": WHEN, "if": IF, "else": ELSE,
	"for": FOR, "while": WHILE, "do": DO, "return": RETURN, "break": BREAK,
	"continue": CONTINUE, "throw": THROW, "try": TRY, "catch": CATCH,
	"finally": FINALLY, "import": IMPORT, "static": STATIC, "public": PUBLIC,
	"private": PRIVATE, "protected": PROTECTED, "internal": INTERNAL,
	"abstract": ABSTRACT, "open": OPEN, "final": FINAL, "override": OVERRIDE,
	"inline": INLINE, "is": IS_KW, "as": AS_KW, "in": IN_KW, "out": OUT_KW,
	"by": BY_KW, "init": INIT, "this": THIS, "super": SUPER, "true": TRUE,
	"false": FALSE, "null": NULL_KW, "Unit": UNIT_TYPE, "Nothing": NOTHING_TYPE,
	"get": GET, "set": SET, "use": USE,
	"and": AND_KW, "or": OR_KW, "xor": XOR_KW, "shl": SHL_KW, "shr": SHR_KW,
}

// LookupIdent classifies an identifier lexeme as a keyword or IDENT.
func LookupIdent(ident string) Kind {
	if kw, ok := Keywords[ident]; ok {
		return kw
	}
	return IDENT
}

// StringPart tags the pieces of an interpolated string literal: a plain
// text fragment, or the start/end markers bracketing a nested expression
// sub-stream.
type StringPart int

const (
	PartText StringPart = iota
	PartInterpStart
	PartInterpEnd
)

// Token is the tagged union produced by the lexer.
type Token struct {
	Kind    Kind
	Lexeme string
	Span    SourceSpan
	Literal any // int64, float64, string, rune, or nil
}

// GetSpan lets any stage treat a possibly-zero Token uniformly.
func (t Token) GetSpan() SourceSpan { return t.Span }

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}
