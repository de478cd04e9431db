// Package backend implements the two execution back ends sharing MIR:
// an Evaluator that walks MirFunction blocks directly, and an Emitter
// that compiles each MirFunction to a linear bytecode artifact and runs
// it with a flat program-counter loop over the same registers and local
// slots the Evaluator uses; it is not a stack machine and keeps no
// operand stack. Both call into internal/ops for every
// arithmetic/comparison/type-check decision, so neither carries its own
// copy of operator semantics.
package backend

import (
	"fmt"
	"strings"

	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/ops"
	"github.com/novalang/novac/internal/types"
)

// Instance is a runtime object built by AllocInstr: an array of field
// values ordered per its ClassLayout, plus the layout itself for
// LoadInstr/StoreInstr-by-name and InstanceOf walks.
type Instance struct {
	Layout *mir.ClassLayout
	Fields []ops.Value
}

func (i *Instance) fieldIndex(name string) int {
	for idx, f := range i.Layout.Fields {
		if f.Name == name {
			return idx
		}
	}
	return -1
}

// List is the runtime payload behind a MakeCollectionInstr{Kind:
// ListColl} value. Strings are not Lists: they are ops.StringTag values.
type List struct {
	Elements []ops.Value
}

// Set is linear rather than hash-bucketed — membership and insertion
// both walk Elements comparing through ops's own equality rule, so a
// Set's semantics always agree with `==` regardless of what shape the
// elements are, at the cost of O(n) operations. Fine for a reference
// interpreter; a production runtime would hash by a canonical key.
type Set struct {
	Elements []ops.Value
}

func (s *Set) contains(v ops.Value) bool {
	for _, e := range s.Elements {
		if valuesEqual(e, v) {
			return true
		}
	}
	return false
}

// MapObj keeps parallel Keys/Values slices for the same reason Set is
// linear: ops.Value isn't a Go-hashable key in general (Obj may be a
// pointer to an uncomparable struct), so lookup walks Keys with the
// same equality rule every other builtin operation uses.
type MapObj struct {
	Keys   []ops.Value
	Values []ops.Value
}

func (m *MapObj) index(key ops.Value) int {
	for i, k := range m.Keys {
		if valuesEqual(k, key) {
			return i
		}
	}
	return -1
}

// Closure is a MakeClosureInstr result: the function to invoke plus the
// captured values realized at closure-creation time, in Fn.Captures
// order.
type Closure struct {
	Fn       *mir.MirFunction
	Captures []ops.Value
}

// NativeException wraps a division-by-zero, bad-cast, or other fault
// internal/ops surfaces as an *ops.Error/*ops.CastError into a thrown
// runtime value. It carries no class layout (ops has no notion of the
// exception hierarchy, which lives entirely in the class table), so it
// is only catchable by a catch clause typed Any — a narrower catch
// clause never matches it. Mapping specific native faults onto specific
// declared exception classes would need ops to know about class
// layouts, which would undo the separation InstanceChecker exists for.
type NativeException struct {
	Message string
}

func nativeException(message string) ops.Value {
	return ops.Object(types.TAny, &NativeException{Message: message})
}

// Box is the heap cell BoxRefInstr points a reference at; a captured
// `var`'s enclosing function and every lambda closing over it share the
// same *Box so a write through one is visible through the other.
type Box struct {
	Value ops.Value
}

func valuesEqual(a, b ops.Value) bool {
	r, err := ops.BinaryOps(mir.OpEq, a, b)
	if err != nil {
		return false
	}
	return r.Bool
}

// render implements NovaLang's toString/string-interpolation formatting
// for the runtime shapes ops.Value.String can't reach on its own
// (List/Set/Map/Instance/Closure all live behind Value.Obj as opaque
// interface{} payloads).
func render(v ops.Value) string {
	if v.Tag != ops.ObjectTag {
		return v.String()
	}
	switch obj := v.Obj.(type) {
	case *List:
		if isCharList(obj) {
			var sb strings.Builder
			for _, e := range obj.Elements {
				sb.WriteRune(rune(e.Int))
			}
			return sb.String()
		}
		parts := make([]string, len(obj.Elements))
		for i, e := range obj.Elements {
			parts[i] = render(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Set:
		parts := make([]string, len(obj.Elements))
		for i, e := range obj.Elements {
			parts[i] = render(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *MapObj:
		parts := make([]string, len(obj.Keys))
		for i := range obj.Keys {
			parts[i] = render(obj.Keys[i]) + ": " + render(obj.Values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Instance:
		return obj.Layout.Name + "(...)"
	case *Closure:
		return fmt.Sprintf("<function %s>", obj.Fn.Name)
	case *NativeException:
		return obj.Message
	default:
		return fmt.Sprintf("%v", obj)
	}
}

func isCharList(l *List) bool {
	for _, e := range l.Elements {
		if e.Tag != ops.CharTag {
			return false
		}
	}
	return true
}

// classChecker implements ops.InstanceChecker against the program's
// class-layout table, walking SuperNames since a Nova class can extend
// or implement several supertypes transitively.
type classChecker struct {
	byName map[string]*mir.ClassLayout
}

func newClassChecker(classes []*mir.ClassLayout) *classChecker {
	c := &classChecker{byName: make(map[string]*mir.ClassLayout, len(classes))}
	for _, cl := range classes {
		c.byName[cl.Name] = cl
	}
	return c
}

func (c *classChecker) InstanceOf(v ops.Value, t types.Type) bool {
	inst, ok := v.Obj.(*Instance)
	if !ok {
		return false
	}
	target := typeName(t)
	return c.layoutIsA(inst.Layout, target)
}

func (c *classChecker) layoutIsA(layout *mir.ClassLayout, target string) bool {
	if layout == nil {
		return false
	}
	if layout.Name == target {
		return true
	}
	for _, super := range layout.SuperNames {
		if super == target {
			return true
		}
		if c.layoutIsA(c.byName[super], target) {
			return true
		}
	}
	return false
}

func typeName(t types.Type) string {
	if cl, ok := types.Unwrap(t).(types.Class); ok {
		return cl.QualifiedName
	}
	return t.String()
}
