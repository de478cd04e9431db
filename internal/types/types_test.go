package types

import "testing"

func TestWidensToFollowsNumericLadder(t *testing.T) {
	if !WidensTo(TInt, TLong) {
		t.Errorf("expected Int to widen to Long")
	}
	if !WidensTo(TInt, TDouble) {
		t.Errorf("expected Int to widen to Double")
	}
	if WidensTo(TDouble, TInt) {
		t.Errorf("expected Double not to narrow to Int")
	}
	if !WidensTo(TInt, TInt) {
		t.Errorf("expected a type to widen to itself")
	}
}

func TestAssignableAcceptsNothingAndAny(t *testing.T) {
	if !Assignable(TNothing, TString) {
		t.Errorf("expected Nothing to be assignable to any type")
	}
	if !Assignable(TInt, TAny) {
		t.Errorf("expected any type to be assignable to Any")
	}
}

func TestAssignableRejectsMismatchedPrimitives(t *testing.T) {
	if Assignable(TString, TInt) {
		t.Errorf("expected String not to be assignable to Int")
	}
	if Assignable(TBoolean, TString) {
		t.Errorf("expected Boolean not to be assignable to String")
	}
}

func TestAssignableHandlesNullable(t *testing.T) {
	nullableInt := Nullable{Inner: TInt}
	if !Assignable(TInt, nullableInt) {
		t.Errorf("expected Int assignable to Int?")
	}
	if !Assignable(TNothing, nullableInt) {
		t.Errorf("expected Nothing (null) assignable to Int?")
	}
	if Assignable(TString, nullableInt) {
		t.Errorf("expected String not assignable to Int?")
	}
}

func TestAssignableMatchesClassByQualifiedNameAndTypeArgs(t *testing.T) {
	listOfInt := Class{QualifiedName: "List", TypeArgs: []Type{TInt}}
	listOfIntAgain := Class{QualifiedName: "List", TypeArgs: []Type{TInt}}
	listOfString := Class{QualifiedName: "List", TypeArgs: []Type{TString}}

	if !Assignable(listOfInt, listOfIntAgain) {
		t.Errorf("expected List<Int> assignable to List<Int>")
	}
	if Assignable(listOfInt, listOfString) {
		t.Errorf("expected List<Int> not assignable to List<String>")
	}
}

func TestAssignableUnionRequiresEveryMember(t *testing.T) {
	u := Union{Members: []Type{TInt, TLong}}
	if !Assignable(u, TDouble) {
		t.Errorf("expected a Union of numeric members to be assignable where every member widens")
	}
	u2 := Union{Members: []Type{TInt, TString}}
	if Assignable(u2, TInt) {
		t.Errorf("expected a Union with a non-widening member not to be assignable")
	}
}

func TestLeastUpperBoundJoinsNumericBranches(t *testing.T) {
	lub := LeastUpperBound([]Type{TInt, TDouble})
	if !lub.Equal(TDouble) {
		t.Errorf("expected LUB(Int, Double) = Double, got %s", lub.String())
	}
}

func TestLeastUpperBoundOfSingleTypeIsItself(t *testing.T) {
	lub := LeastUpperBound([]Type{TString})
	if !lub.Equal(TString) {
		t.Errorf("expected LUB of one branch to be that branch, got %s", lub.String())
	}
}

func TestLeastUpperBoundOfEmptyIsUnit(t *testing.T) {
	lub := LeastUpperBound(nil)
	if !lub.Equal(TUnit) {
		t.Errorf("expected LUB of no branches to be Unit, got %s", lub.String())
	}
}

func TestLeastUpperBoundOfUnrelatedTypesFormsUnion(t *testing.T) {
	lub := LeastUpperBound([]Type{TString, TBoolean})
	if _, ok := lub.(Union); !ok {
		t.Errorf("expected LUB(String, Boolean) to form a Union, got %T", lub)
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric(TLong) {
		t.Errorf("expected Long to be numeric")
	}
	if IsNumeric(TString) {
		t.Errorf("expected String not to be numeric")
	}
}
