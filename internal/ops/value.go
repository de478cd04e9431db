// Package ops is the single place arithmetic, comparison, and
// is/as-check semantics live, shared by both back ends (internal/backend's
// emitter and evaluator) so neither one carries its own copy of operator
// dispatch.
package ops

import (
	"fmt"
	"strconv"

	"github.com/novalang/novac/internal/types"
)

// Tag is the runtime type tag a Value carries, distinct from
// types.PrimitiveKind because a Value also needs to represent null and
// an opaque class instance, neither of which is a primitive kind.
type Tag int

const (
	IntTag Tag = iota
	LongTag
	FloatTag
	DoubleTag
	BooleanTag
	CharTag
	StringTag
	NullTag
	ObjectTag // instance of a user class/enum/collection; Obj carries the runtime payload
)

func (t Tag) String() string {
	switch t {
	case IntTag:
		return "Int"
	case LongTag:
		return "Long"
	case FloatTag:
		return "Float"
	case DoubleTag:
		return "Double"
	case BooleanTag:
		return "Boolean"
	case CharTag:
		return "Char"
	case StringTag:
		return "String"
	case NullTag:
		return "null"
	default:
		return "Object"
	}
}

// Value is a tagged union covering every value a NovaLang program can
// produce at runtime. Only one of the numeric/Bool/Char/Str/Obj fields is
// meaningful at a time, selected by Tag — flattened into one struct
// (rather than an interface per kind) so BinaryOps/UnaryOps can dispatch
// on a pair of small integer tags instead of a pair of dynamic type
// assertions.
type Value struct {
	Tag   Tag
	Int   int64       // IntTag, LongTag, CharTag (rune value)
	Float float64     // FloatTag, DoubleTag
	Bool  bool        // BooleanTag
	Str   string      // StringTag
	Obj   interface{} // ObjectTag: the runtime class instance / collection the backend owns
	Class types.Type  // ObjectTag: the instance's runtime class, for InstanceOf checks
}

func Int(v int64) Value     { return Value{Tag: IntTag, Int: v} }
func Long(v int64) Value    { return Value{Tag: LongTag, Int: v} }
func Float32(v float64) Value { return Value{Tag: FloatTag, Float: v} }
func Double(v float64) Value  { return Value{Tag: DoubleTag, Float: v} }
func Bool(v bool) Value     { return Value{Tag: BooleanTag, Bool: v} }
func Char(v rune) Value     { return Value{Tag: CharTag, Int: int64(v)} }
func Str(v string) Value    { return Value{Tag: StringTag, Str: v} }
func Null() Value           { return Value{Tag: NullTag} }
func Object(class types.Type, payload interface{}) Value {
	return Value{Tag: ObjectTag, Class: class, Obj: payload}
}

// IsNull reports whether v is the null sentinel.
func (v Value) IsNull() bool { return v.Tag == NullTag }

func (v Value) isNumeric() bool {
	switch v.Tag {
	case IntTag, LongTag, FloatTag, DoubleTag:
		return true
	default:
		return false
	}
}

// String renders v the way `toString`/string interpolation does for a
// built-in value; class instances defer to the backend's own toString
// dispatch and are not handled here.
func (v Value) String() string {
	switch v.Tag {
	case IntTag, LongTag:
		return strconv.FormatInt(v.Int, 10)
	case FloatTag, DoubleTag:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case BooleanTag:
		return strconv.FormatBool(v.Bool)
	case CharTag:
		return string(rune(v.Int))
	case StringTag:
		return v.Str
	case NullTag:
		return "null"
	default:
		return fmt.Sprintf("%v", v.Obj)
	}
}
