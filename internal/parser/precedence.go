package parser

import "github.com/novalang/novac/internal/token"

// Precedence levels, lowest to highest, matching the core contract:
// assignment (right-assoc) -> elvis -> logical-or -> logical-and ->
// bitwise -> equality -> relational -> is/!is/as/as? -> range ->
// additive -> multiplicative -> unary-prefix -> postfix.
//
// The surface grammar's bitwise keyword operators (and/or/xor/shl/shr)
// have no prescribed slot; they are placed between logical-and and
// equality, the conventional spot in languages that otherwise mirror this
// precedence table.
const (
	LOWEST int = iota
	ASSIGN
	ELVIS
	LOGIC_OR
	LOGIC_AND
	BITWISE
	EQUALITY
	RELATIONAL
	TYPE_TEST
	RANGE
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
)

var precedences = map[token.Kind]int{
	token.ASSIGN:         ASSIGN,
	token.PLUS_ASSIGN:    ASSIGN,
	token.MINUS_ASSIGN:   ASSIGN,
	token.STAR_ASSIGN:    ASSIGN,
	token.SLASH_ASSIGN:   ASSIGN,
	token.PERCENT_ASSIGN: ASSIGN,

	token.ELVIS: ELVIS,

	token.OR_OR:  LOGIC_OR,
	token.AND_AND: LOGIC_AND,

	token.AND_KW: BITWISE,
	token.OR_KW:  BITWISE,
	token.XOR_KW: BITWISE,
	token.SHL_KW: BITWISE,
	token.SHR_KW: BITWISE,

	token.EQ:      EQUALITY,
	token.NOT_EQ:  EQUALITY,
	token.REF_EQ:  EQUALITY,
	token.REF_NEQ: EQUALITY,

	token.LT: RELATIONAL,
	token.LE: RELATIONAL,
	token.GT: RELATIONAL,
	token.GE: RELATIONAL,

	token.IS_KW: TYPE_TEST,
	token.AS_KW: TYPE_TEST,
	token.IN_KW: TYPE_TEST,
	token.NOT:   TYPE_TEST, // lookahead for `!is` / `!in`

	token.RANGE_INCL: RANGE,
	token.RANGE_EXCL: RANGE,

	token.PLUS:  ADDITIVE,
	token.MINUS: ADDITIVE,

	token.STAR:    MULTIPLICATIVE,
	token.SLASH:   MULTIPLICATIVE,
	token.PERCENT: MULTIPLICATIVE,

	token.DOT:         POSTFIX,
	token.SAFE_CALL:   POSTFIX,
	token.LBRACKET:    POSTFIX,
	token.LPAREN:      POSTFIX,
	token.DOUBLE_BANG: POSTFIX,
	token.QUESTION:    POSTFIX, // postfix error-propagation `expr?`
}

// rightAssoc marks the operator kinds that bind right-to-left: only
// assignment.
var rightAssoc = map[token.Kind]bool{
	token.ASSIGN:         true,
	token.PLUS_ASSIGN:    true,
	token.MINUS_ASSIGN:   true,
	token.STAR_ASSIGN:    true,
	token.SLASH_ASSIGN:   true,
	token.PERCENT_ASSIGN: true,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}
