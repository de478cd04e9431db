package ops

import "github.com/novalang/novac/internal/types"

// InstanceChecker answers `is`/`as` questions ops itself can't: whether
// a runtime Object's class is, or transitively inherits from, a given
// class/interface type. Implemented by the backend, which owns the
// class-layout table; ops only knows the builtin primitive/null shapes.
type InstanceChecker interface {
	InstanceOf(v Value, t types.Type) bool
}

// TypeCheck implements `is`/`!is`. A Nullable target accepts null in
// addition to whatever its unwrapped inner type accepts; Any accepts
// everything including null, since Any is the universal supertype.
func TypeCheck(v Value, target types.Type, checker InstanceChecker) bool {
	if n, ok := target.(types.Nullable); ok {
		if v.IsNull() {
			return true
		}
		return TypeCheck(v, n.Inner, checker)
	}
	if prim, ok := types.Unwrap(target).(types.Primitive); ok {
		if prim.Kind == types.Any {
			return true
		}
		if v.IsNull() {
			return false
		}
		return matchesPrimitive(v, prim.Kind)
	}
	if v.IsNull() {
		return false
	}
	if v.Tag != ObjectTag {
		return false
	}
	return checker.InstanceOf(v, target)
}

func matchesPrimitive(v Value, kind types.PrimitiveKind) bool {
	switch kind {
	case types.Int:
		return v.Tag == IntTag
	case types.Long:
		return v.Tag == LongTag
	case types.Float:
		return v.Tag == FloatTag
	case types.Double:
		return v.Tag == DoubleTag
	case types.Boolean:
		return v.Tag == BooleanTag
	case types.Char:
		return v.Tag == CharTag
	case types.String:
		return v.Tag == StringTag
	case types.Unit, types.Nothing:
		return false
	default:
		return false
	}
}

// CastError is a failed non-Safe `as` cast, the runtime error a
// TypeCastInstr with Safe == false throws when TypeCheck rejects the
// value — it unwinds to the current landing pad exactly like any other
// thrown exception.
type CastError struct {
	Target types.Type
	Actual Tag
}

func (e *CastError) Error() string {
	return "cannot cast " + e.Actual.String() + " to " + e.Target.String()
}

// Cast implements `as`/`as?`. A Safe cast that fails yields null rather
// than erroring, matching `as?`'s documented fallback-to-null semantics;
// a non-Safe cast that fails returns CastError for the caller to throw.
func Cast(v Value, target types.Type, safe bool, checker InstanceChecker) (Value, error) {
	if TypeCheck(v, target, checker) {
		return v, nil
	}
	if safe {
		return Null(), nil
	}
	return Value{}, &CastError{Target: target, Actual: v.Tag}
}
