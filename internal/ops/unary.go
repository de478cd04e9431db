package ops

import "github.com/novalang/novac/internal/mir"

// UnaryOps evaluates a builtin unary operator. As with BinaryOps, a
// unary minus on a non-builtin operand was already rewritten to a
// `unaryMinus()` call during HIR lowering, so Operand here is always a
// builtin numeric or Boolean value.
func UnaryOps(op mir.UnOp, v Value) (Value, error) {
	switch op {
	case mir.OpNeg:
		if !v.isNumeric() {
			return Value{}, &Error{Op: "-", Left: v.Tag, Right: v.Tag}
		}
		if isFloatTag(v.Tag) {
			return Value{Tag: v.Tag, Float: -v.Float}, nil
		}
		return Value{Tag: v.Tag, Int: -v.Int}, nil
	case mir.OpNot:
		if v.Tag != BooleanTag {
			return Value{}, &Error{Op: "!", Left: v.Tag, Right: v.Tag}
		}
		return Bool(!v.Bool), nil
	}
	return Value{}, &Error{Op: "?", Left: v.Tag, Right: v.Tag}
}
