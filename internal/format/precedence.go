package format

import "github.com/novalang/novac/internal/token"

// Precedence levels mirror internal/parser's own table exactly (parser
// package keeps its copy unexported, keyed the same way, since the two
// packages consume it for different purposes: the parser to decide how
// far a Pratt loop climbs, the printer to decide when a subexpression
// needs parentheses to round-trip).
const (
	lowest int = iota
	assignPrec
	elvisPrec
	logicOrPrec
	logicAndPrec
	bitwisePrec
	equalityPrec
	relationalPrec
	typeTestPrec
	rangePrec
	additivePrec
	multiplicativePrec
	unaryPrec
	postfixPrec
)

var precedenceOf = map[token.Kind]int{
	token.ASSIGN:         assignPrec,
	token.PLUS_ASSIGN:    assignPrec,
	token.MINUS_ASSIGN:   assignPrec,
	token.STAR_ASSIGN:    assignPrec,
	token.SLASH_ASSIGN:   assignPrec,
	token.PERCENT_ASSIGN: assignPrec,

	token.ELVIS: elvisPrec,

	token.OR_OR:   logicOrPrec,
	token.AND_AND: logicAndPrec,

	token.AND_KW: bitwisePrec,
	token.OR_KW:  bitwisePrec,
	token.XOR_KW: bitwisePrec,
	token.SHL_KW: bitwisePrec,
	token.SHR_KW: bitwisePrec,

	token.EQ:      equalityPrec,
	token.NOT_EQ:  equalityPrec,
	token.REF_EQ:  equalityPrec,
	token.REF_NEQ: equalityPrec,

	token.LT: relationalPrec,
	token.LE: relationalPrec,
	token.GT: relationalPrec,
	token.GE: relationalPrec,

	token.RANGE_INCL: rangePrec,
	token.RANGE_EXCL: rangePrec,

	token.PLUS:  additivePrec,
	token.MINUS: additivePrec,

	token.STAR:    multiplicativePrec,
	token.SLASH:   multiplicativePrec,
	token.PERCENT: multiplicativePrec,
}

// rightAssociative marks the one operator family that groups right to
// left: assignment, so `a = b = c` round-trips as `a = (b = c)` without
// printing a redundant paren (assignment is handled outside the generic
// binary-op path; see printExpr's *ast.AssignExpr case).
var rightAssociative = map[token.Kind]bool{
	token.ASSIGN:         true,
	token.PLUS_ASSIGN:    true,
	token.MINUS_ASSIGN:   true,
	token.STAR_ASSIGN:    true,
	token.SLASH_ASSIGN:   true,
	token.PERCENT_ASSIGN: true,
}

func precedenceOfOp(k token.Kind) int {
	if pr, ok := precedenceOf[k]; ok {
		return pr
	}
	return lowest
}
