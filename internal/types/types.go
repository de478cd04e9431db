// Package types implements NovaType : the single sum-type
// representation of every source-visible type, used unchanged from
// semantic analysis through HIR, MIR and both back ends . ast.TypeRef is a transient parser output
// only — internal/semantic converts it to a types.Type the moment a
// declaration enters scope. The one other stage that reads TypeRefs is
// the HIR lowerer: it takes supertype names off them and resolves the
// rest through semantic's ResolveType.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every NovaType variant implements.
type Type interface {
	String() string
	// Apply performs capture-avoiding substitution of type parameters.
	Apply(Subst) Type
	// Equal is structural equality.
	Equal(Type) bool
}

// Primitive enumerates the built-in scalar/sentinel types.
type PrimitiveKind int

const (
	Int PrimitiveKind = iota
	Long
	Double
	Float
	Boolean
	Char
	String
	Unit
	Nothing
	Any
)

var primitiveNames = [...]string{"Int", "Long", "Double", "Float", "Boolean", "Char", "String", "Unit", "Nothing", "Any"}

func (p PrimitiveKind) String() string { return primitiveNames[p] }

// Primitive is a built-in scalar or sentinel type.
type Primitive struct{ Kind PrimitiveKind }

func (p Primitive) String() string      { return p.Kind.String() }
func (p Primitive) Apply(Subst) Type    { return p }
func (p Primitive) Equal(o Type) bool {
	op, ok := o.(Primitive)
	return ok && op.Kind == p.Kind
}

// Convenience constructors for the built-in primitive types.
var (
	TInt     = Primitive{Int}
	TLong    = Primitive{Long}
	TDouble  = Primitive{Double}
	TFloat   = Primitive{Float}
	TBoolean = Primitive{Boolean}
	TChar    = Primitive{Char}
	TString  = Primitive{String}
	TUnit    = Primitive{Unit}
	TNothing = Primitive{Nothing}
	TAny     = Primitive{Any}
)

// Class is a named class/interface type, optionally generic.
type Class struct {
	QualifiedName string
	TypeArgs      []Type
}

func (c Class) String() string {
	if len(c.TypeArgs) == 0 {
		return c.QualifiedName
	}
	parts := make([]string, len(c.TypeArgs))
	for i, a := range c.TypeArgs {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", c.QualifiedName, strings.Join(parts, ", "))
}

func (c Class) Apply(s Subst) Type {
	if len(c.TypeArgs) == 0 {
		return c
	}
	args := make([]Type, len(c.TypeArgs))
	for i, a := range c.TypeArgs {
		args[i] = a.Apply(s)
	}
	return Class{QualifiedName: c.QualifiedName, TypeArgs: args}
}

func (c Class) Equal(o Type) bool {
	oc, ok := o.(Class)
	if !ok || oc.QualifiedName != c.QualifiedName || len(oc.TypeArgs) != len(c.TypeArgs) {
		return false
	}
	for i := range c.TypeArgs {
		if !c.TypeArgs[i].Equal(oc.TypeArgs[i]) {
			return false
		}
	}
	return true
}

// Function is a function type, with an optional extension receiver.
type Function struct {
	Params   []Type
	Return   Type
	Receiver Type // nil unless this is an extension-function type
}

func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	sig := fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Return.String())
	if f.Receiver != nil {
		return f.Receiver.String() + "." + sig
	}
	return sig
}

func (f Function) Apply(s Subst) Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Apply(s)
	}
	var recv Type
	if f.Receiver != nil {
		recv = f.Receiver.Apply(s)
	}
	return Function{Params: params, Return: f.Return.Apply(s), Receiver: recv}
}

func (f Function) Equal(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(of.Params) != len(f.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(of.Params[i]) {
			return false
		}
	}
	if (f.Receiver == nil) != (of.Receiver == nil) {
		return false
	}
	if f.Receiver != nil && !f.Receiver.Equal(of.Receiver) {
		return false
	}
	return f.Return.Equal(of.Return)
}

// Nullable wraps a type to admit null. Nullable(Nullable(T)) always
// simplifies to Nullable(T) — enforced by the NewNullable constructor
// rather than by callers remembering to flatten.
type Nullable struct{ Inner Type }

// NewNullable builds a Nullable type, flattening nested Nullables.
func NewNullable(inner Type) Type {
	if n, ok := inner.(Nullable); ok {
		return n
	}
	return Nullable{Inner: inner}
}

func (n Nullable) String() string   { return n.Inner.String() + "?" }
func (n Nullable) Apply(s Subst) Type {
	return NewNullable(n.Inner.Apply(s))
}
func (n Nullable) Equal(o Type) bool {
	on, ok := o.(Nullable)
	return ok && n.Inner.Equal(on.Inner)
}

// IsNullable reports whether t admits null, directly or as Any/Nothing
// special-cased by the caller (Nothing is the bottom type and assignable
// to every Nullable(T); that rule lives in assignable.go, not here).
func IsNullable(t Type) bool {
	_, ok := t.(Nullable)
	return ok
}

// Unwrap returns the non-nullable inner type, or t itself if not Nullable.
func Unwrap(t Type) Type {
	if n, ok := t.(Nullable); ok {
		return n.Inner
	}
	return t
}

// TypeParameter is a generic parameter, e.g. <T> or <T: Comparable>.
type TypeParameter struct {
	Name string
	Bound Type // nil if unbounded
}

func (tp TypeParameter) String() string {
	if tp.Bound != nil {
		return tp.Name + ": " + tp.Bound.String()
	}
	return tp.Name
}

func (tp TypeParameter) Apply(s Subst) Type {
	if repl, ok := s[tp.Name]; ok {
		return repl
	}
	return tp
}

func (tp TypeParameter) Equal(o Type) bool {
	otp, ok := o.(TypeParameter)
	return ok && otp.Name == tp.Name
}

// Union is used only internally during inference to represent
// the set of candidate types before a `when`-expression join collapses it.
// A Union of one member collapses to that member; duplicate members
// collapse away — enforced by NewUnion.
type Union struct{ Members []Type }

// NewUnion builds a normalized Union: flattened, deduplicated, and
// collapsed to a single member when only one remains.
func NewUnion(members []Type) Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		if u, ok := m.(Union); ok {
			flat = append(flat, u.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	uniq := make([]Type, 0, len(flat))
	for _, m := range flat {
		dup := false
		for _, u := range uniq {
			if u.Equal(m) {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, m)
		}
	}
	if len(uniq) == 1 {
		return uniq[0]
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].String() < uniq[j].String() })
	return Union{Members: uniq}
}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

func (u Union) Apply(s Subst) Type {
	members := make([]Type, len(u.Members))
	for i, m := range u.Members {
		members[i] = m.Apply(s)
	}
	return NewUnion(members)
}

func (u Union) Equal(o Type) bool {
	ou, ok := o.(Union)
	if !ok || len(ou.Members) != len(u.Members) {
		return false
	}
	for i := range u.Members {
		if !u.Members[i].Equal(ou.Members[i]) {
			return false
		}
	}
	return true
}

// Unresolved is a placeholder name that must not reach code generation
// ; the back end refuses to emit a function whose HIR/MIR still
// references one.
type Unresolved struct{ Name string }

func (u Unresolved) String() string    { return "<unresolved:" + u.Name + ">" }
func (u Unresolved) Apply(Subst) Type  { return u }
func (u Unresolved) Equal(o Type) bool { ou, ok := o.(Unresolved); return ok && ou.Name == u.Name }

// Subst maps type-parameter names to their substituted Type.
type Subst map[string]Type

// Compose combines two substitutions so that applying the result is
// equivalent to applying s2 then s1.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Subst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}
