package stdlib

import "testing"

func TestLookupExactArity(t *testing.T) {
	c := Builtin()
	r, ok := c.Lookup("lib/math", "sqrt", 1)
	if !ok {
		t.Fatalf("expected lib/math.sqrt/1 to be registered")
	}
	if r.Method != "Sqrt" {
		t.Errorf("wrong method. got=%s, want=Sqrt", r.Method)
	}
}

func TestLookupVariadic(t *testing.T) {
	c := Builtin()
	for _, argc := range []int{0, 1, 5} {
		if _, ok := c.Lookup("lib/collections", "setOf", argc); !ok {
			t.Errorf("expected variadic setOf to match argCount=%d", argc)
		}
	}
}

func TestLookupMiss(t *testing.T) {
	c := Builtin()
	if _, ok := c.Lookup("lib/math", "sqrt", 2); ok {
		t.Errorf("expected sqrt/2 to miss, exact-arity registrations must not match the wrong count")
	}
	if _, ok := c.Lookup("lib/nonexistent", "whatever", 0); ok {
		t.Errorf("expected lookup against an unregistered owner to miss")
	}
}

func TestRegisterOverridesSameKey(t *testing.T) {
	c := NewCatalog()
	c.Register(Registration{Name: "f", Arity: 1, Owner: "lib/test", Method: "First"})
	c.Register(Registration{Name: "f", Arity: 1, Owner: "lib/test", Method: "Second"})

	r, ok := c.Lookup("lib/test", "f", 1)
	if !ok {
		t.Fatalf("expected lib/test.f/1 to be registered")
	}
	if r.Method != "Second" {
		t.Errorf("expected the later registration to win. got=%s, want=Second", r.Method)
	}
	if members := c.Members("lib/test"); len(members) != 1 {
		t.Errorf("expected exactly one member after override, got %d", len(members))
	}
}

func TestOwnersSorted(t *testing.T) {
	c := Builtin()
	owners := c.Owners()
	for i := 1; i < len(owners); i++ {
		if owners[i-1] > owners[i] {
			t.Fatalf("Owners() not sorted: %v", owners)
		}
	}
}
