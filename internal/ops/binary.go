package ops

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"

	"github.com/novalang/novac/internal/mir"
)

// Error is a runtime operator failure (division by zero, an operand pair
// no rule covers) — distinct from a compiler diagnostic, since this
// package runs inside both back ends, after compilation has already
// succeeded.
type Error struct {
	Op      string
	Left    Tag
	Right   Tag
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unsupported operand types for %s: %s and %s", e.Op, e.Left, e.Right)
}

// rank orders the numeric tags along the promotion ladder the arithmetic
// fast path widens along: Int -> Long -> Float -> Double. Only a pair
// both inside this ladder reaches numericArith; anything else falls to
// the per-operator slow path (string concatenation, structural/reference
// equality) or errors.
func rank(t Tag) int {
	switch t {
	case IntTag:
		return 0
	case LongTag:
		return 1
	case FloatTag:
		return 2
	case DoubleTag:
		return 3
	default:
		return -1
	}
}

func isFloatTag(t Tag) bool { return t == FloatTag || t == DoubleTag }

// BinaryOps evaluates a builtin binary operator. By the time a
// BinaryOpInstr reaches here, HIR lowering has already rewritten every
// non-builtin operand's +/-/*//when/% into a method call (see
// hir.isBuiltinOperand), and MIR lowering has already turned &&/|| into
// a short-circuiting branch rather than a BinaryOpInstr — so op is
// never mir.OpAnd/mir.OpOr here, and l/r are always one of the builtin
// numeric/Boolean/Char/String/null/Object shapes.
func BinaryOps(op mir.BinOp, l, r Value) (Value, error) {
	switch op {
	case mir.OpAdd:
		return arithOrConcat(op, l, r)
	case mir.OpSub, mir.OpMul, mir.OpDiv, mir.OpMod:
		return arith(op, l, r)
	case mir.OpEq:
		return Bool(equal(l, r)), nil
	case mir.OpNotEq:
		return Bool(!equal(l, r)), nil
	case mir.OpRefEq:
		return Bool(refEqual(l, r)), nil
	case mir.OpRefNotEq:
		return Bool(!refEqual(l, r)), nil
	case mir.OpLt, mir.OpLe, mir.OpGt, mir.OpGe:
		return compare(op, l, r)
	case mir.OpBitAnd, mir.OpBitOr, mir.OpBitXor, mir.OpShl, mir.OpShr:
		return bitwise(op, l, r)
	}
	return Value{}, &Error{Op: opName(op), Left: l.Tag, Right: r.Tag}
}

func arithOrConcat(op mir.BinOp, l, r Value) (Value, error) {
	if l.Tag == StringTag || r.Tag == StringTag {
		return Str(l.String() + r.String()), nil
	}
	return arith(op, l, r)
}

func arith(op mir.BinOp, l, r Value) (Value, error) {
	if !l.isNumeric() || !r.isNumeric() {
		return Value{}, &Error{Op: opName(op), Left: l.Tag, Right: r.Tag}
	}
	widened := l.Tag
	if rank(r.Tag) > rank(widened) {
		widened = r.Tag
	}
	if isFloatTag(widened) {
		result, err := arithFloat(op, toFloat(l), toFloat(r))
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: widened, Float: result}, nil
	}
	result, err := arithInt(op, l.Int, r.Int)
	if err != nil {
		return Value{}, err
	}
	return Value{Tag: widened, Int: result}, nil
}

// arithFloat and arithInt are the same generic promotion-ladder
// arithmetic instantiated once per underlying Go numeric type, rather
// than duplicated per NovaLang numeric tag — Int and Long share the
// int64 instantiation, Float and Double share the float64 one.
func arithFloat(op mir.BinOp, a, b float64) (float64, error) {
	return applyArith(op, a, b)
}

func arithInt(op mir.BinOp, a, b int64) (int64, error) {
	if (op == mir.OpDiv || op == mir.OpMod) && b == 0 {
		return 0, &Error{Op: opName(op), Message: "division by zero"}
	}
	return applyArith(op, a, b)
}

func applyArith[T constraints.Integer | constraints.Float](op mir.BinOp, a, b T) (T, error) {
	switch op {
	case mir.OpAdd:
		return a + b, nil
	case mir.OpSub:
		return a - b, nil
	case mir.OpMul:
		return a * b, nil
	case mir.OpDiv:
		return a / b, nil
	case mir.OpMod:
		return a - (a/b)*b, nil
	}
	return 0, &Error{Op: opName(op), Message: "not an arithmetic operator"}
}

func compare(op mir.BinOp, l, r Value) (Value, error) {
	var less, equalV bool
	switch {
	case l.isNumeric() && r.isNumeric():
		a, b := toFloat(l), toFloat(r)
		less, equalV = a < b, a == b
	case l.Tag == StringTag && r.Tag == StringTag:
		less, equalV = l.Str < r.Str, l.Str == r.Str
	case l.Tag == CharTag && r.Tag == CharTag:
		less, equalV = l.Int < r.Int, l.Int == r.Int
	default:
		return Value{}, &Error{Op: opName(op), Left: l.Tag, Right: r.Tag}
	}
	switch op {
	case mir.OpLt:
		return Bool(less), nil
	case mir.OpLe:
		return Bool(less || equalV), nil
	case mir.OpGt:
		return Bool(!less && !equalV), nil
	case mir.OpGe:
		return Bool(!less), nil
	}
	return Value{}, &Error{Op: opName(op), Message: "not a comparison operator"}
}

func bitwise(op mir.BinOp, l, r Value) (Value, error) {
	if (l.Tag != IntTag && l.Tag != LongTag) || (r.Tag != IntTag && r.Tag != LongTag) {
		return Value{}, &Error{Op: opName(op), Left: l.Tag, Right: r.Tag}
	}
	widened := l.Tag
	if r.Tag == LongTag {
		widened = LongTag
	}
	var result int64
	switch op {
	case mir.OpBitAnd:
		result = l.Int & r.Int
	case mir.OpBitOr:
		result = l.Int | r.Int
	case mir.OpBitXor:
		result = l.Int ^ r.Int
	case mir.OpShl:
		result = l.Int << uint(r.Int)
	case mir.OpShr:
		result = l.Int >> uint(r.Int)
	}
	return Value{Tag: widened, Int: result}, nil
}

// equal is NovaLang's structural `==`: numeric pairs widen the same way
// arith does before comparing, primitives compare by value, and an
// Object pair falls back to a deep structural comparison of the
// backend-owned payload (a List/Set/Map's elements, for instance),
// mirroring a tree-walker's areObjectsEqual fallback once no operator
// overload claimed the comparison upstream.
func equal(l, r Value) bool {
	if l.Tag == NullTag || r.Tag == NullTag {
		return l.Tag == r.Tag
	}
	if l.isNumeric() && r.isNumeric() {
		return toFloat(l) == toFloat(r)
	}
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case BooleanTag:
		return l.Bool == r.Bool
	case CharTag:
		return l.Int == r.Int
	case StringTag:
		return l.Str == r.Str
	default:
		return reflect.DeepEqual(l.Obj, r.Obj)
	}
}

// refEqual is `===`: identity for an Object (pointer/slice-header
// equality on the backend's payload), value equality for anything
// primitive-shaped since two primitive Values with the same bits have
// no separate identity to distinguish.
func refEqual(l, r Value) bool {
	if l.Tag == ObjectTag && r.Tag == ObjectTag {
		return l.Obj == r.Obj
	}
	return equal(l, r)
}

func toFloat(v Value) float64 {
	if isFloatTag(v.Tag) {
		return v.Float
	}
	return float64(v.Int)
}

func opName(op mir.BinOp) string {
	names := [...]string{
		"+", "-", "*", "/", "%", "==", "!=", "===", "!==",
		"<", "<=", ">", ">=", "&&", "||", "and", "or", "xor", "shl", "shr",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}
