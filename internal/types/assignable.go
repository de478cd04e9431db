package types

// numericRank orders the implicit widening ladder Int -> Long -> Float -> Double
// used by both the analyzer's assignability check and the shared
// arithmetic module in internal/ops.
var numericRank = map[PrimitiveKind]int{Int: 0, Long: 1, Float: 2, Double: 3}

// IsNumeric reports whether t is one of Nova's numeric primitives.
func IsNumeric(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	_, ok = numericRank[p.Kind]
	return ok
}

// WidensTo reports whether numeric primitive `from` implicitly widens to
// `to` (Int -> Long -> Float -> Double, never narrowing).
func WidensTo(from, to Primitive) bool {
	fr, fok := numericRank[from.Kind]
	tr, tok := numericRank[to.Kind]
	return fok && tok && fr <= tr
}

// Assignable reports whether a value of type `from` may be assigned where
// `to` is expected . Nothing is the bottom type and is
// assignable to anything; Any is the top type and accepts anything;
// Nullable(T) accepts both T and Nothing-typed null; a Union source is
// assignable when every member is.
func Assignable(from, to Type) bool {
	if from.Equal(to) {
		return true
	}
	if _, ok := from.(Unresolved); ok {
		return true // let the analyzer report the unresolved name itself
	}
	if p, ok := from.(Primitive); ok && p.Kind == Nothing {
		return true
	}
	if p, ok := to.(Primitive); ok && p.Kind == Any {
		return true
	}
	if u, ok := from.(Union); ok {
		for _, m := range u.Members {
			if !Assignable(m, to) {
				return false
			}
		}
		return true
	}
	if toN, ok := to.(Nullable); ok {
		if fromP, ok := from.(Primitive); ok && fromP.Kind == Nothing {
			return true
		}
		return Assignable(from, toN.Inner) || Assignable(Unwrap(from), toN.Inner)
	}
	if fromP, fok := from.(Primitive); fok {
		if toP, tok := to.(Primitive); tok {
			return WidensTo(fromP, toP)
		}
	}
	if fromC, fok := from.(Class); fok {
		if toC, tok := to.(Class); tok && fromC.QualifiedName == toC.QualifiedName {
			if len(fromC.TypeArgs) != len(toC.TypeArgs) {
				return false
			}
			for i := range fromC.TypeArgs {
				if !fromC.TypeArgs[i].Equal(toC.TypeArgs[i]) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// LeastUpperBound computes the join of a `when`-expression's branch types
// . Identical branches collapse to one type; numeric branches
// join to the widest rank; otherwise the branches join to a normalized
// Union.
func LeastUpperBound(branches []Type) Type {
	if len(branches) == 0 {
		return TUnit
	}
	result := branches[0]
	for _, b := range branches[1:] {
		result = join2(result, b)
	}
	return result
}

func join2(a, b Type) Type {
	if a.Equal(b) {
		return a
	}
	if ap, aok := a.(Primitive); aok && ap.Kind == Nothing {
		return b
	}
	if bp, bok := b.(Primitive); bok && bp.Kind == Nothing {
		return a
	}
	if ap, aok := a.(Primitive); aok {
		if bp, bok := b.(Primitive); bok {
			if _, anum := numericRank[ap.Kind]; anum {
				if _, bnum := numericRank[bp.Kind]; bnum {
					if WidensTo(ap, bp) {
						return b
					}
					if WidensTo(bp, ap) {
						return a
					}
				}
			}
		}
	}
	return NewUnion([]Type{a, b})
}
