package semantic

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/types"
)

// checkOverride reports whether decl, marked `override` inside owner,
// actually overrides a same-named, same-arity function somewhere in
// owner's supertype chain. Supertypes not found among the file's declared
// classes are skipped rather than flagged — an override of a function
// inherited from outside this compilation unit is a legitimate case this
// single-file walk simply can't verify, so it favors a false negative
// over a false positive here.
func (a *Analyzer) checkOverride(decl *ast.FunctionDecl, owner *ast.ClassDecl, sig types.Function) bool {
	var search func(c *ast.ClassDecl, depth int) bool
	search = func(c *ast.ClassDecl, depth int) bool {
		if depth > 32 {
			return false // cyclic supertype chain; treat as unresolved rather than loop forever
		}
		for _, st := range c.SuperTypes {
			name := typeRefName(st)
			super, ok := a.classes[name]
			if !ok {
				continue
			}
			for _, fn := range super.Functions {
				if fn.Name == decl.Name && len(fn.Params) == len(decl.Params) {
					return true
				}
			}
			if search(super, depth+1) {
				return true
			}
		}
		return false
	}
	return search(owner, 0)
}

// typeRefName extracts the plain name from a TypeRef written as a
// supertype, ignoring any generic arguments — override/member lookup in
// this analyzer matches on name only, not full generic instantiation.
func typeRefName(tr ast.TypeRef) string {
	switch t := tr.(type) {
	case *ast.SimpleTypeRef:
		return t.Name
	case *ast.NullableTypeRef:
		return typeRefName(t.Inner)
	default:
		return ""
	}
}

// classMember looks up a property or zero-arg-callable function named
// name on the class qualifiedName, searching its declared supertypes when
// not found directly.
func (a *Analyzer) classMember(qualifiedName, name string) (types.Type, bool) {
	visited := map[string]bool{}
	var search func(className string) (types.Type, bool)
	search = func(className string) (types.Type, bool) {
		if visited[className] {
			return nil, false
		}
		visited[className] = true
		class, ok := a.classes[className]
		if !ok {
			return nil, false
		}
		for _, p := range class.Properties {
			if p.Name == name {
				if p.Type != nil {
					return a.resolveTypeRef(p.Type), true
				}
				return types.Unresolved{Name: name}, true
			}
		}
		for _, fn := range class.Functions {
			if fn.Name == name {
				return a.functionType(fn), true
			}
		}
		for _, st := range class.SuperTypes {
			if t, ok := search(typeRefName(st)); ok {
				return t, true
			}
		}
		return nil, false
	}
	return search(qualifiedName)
}

// checkArity validates a call's argument list against a function's
// declared parameters: every non-default, non-vararg parameter must be
// covered by a positional or named argument, named arguments must name a
// real parameter exactly once, and a bare spread argument is assumed to
// supply the remaining positional slots (its element count isn't known
// until MIR lowering, so it's accepted without a count check here).
func (a *Analyzer) checkArity(call *ast.CallExpr, params []*ast.Parameter) {
	if call.Spread != nil {
		return
	}
	covered := make([]bool, len(params))
	for i := range call.Positional {
		if i < len(params) {
			covered[i] = true
		}
	}
	if len(call.Positional) > len(params) && (len(params) == 0 || !params[len(params)-1].IsVararg) {
		a.report(diagnostics.ArityMismatch(call.Token, len(params), len(call.Positional)))
		return
	}
	seen := map[string]bool{}
	for _, na := range call.Named {
		idx := -1
		for i, p := range params {
			if p.Name == na.Name {
				idx = i
				break
			}
		}
		if idx == -1 {
			a.report(diagnostics.UnknownMember(call.Token, "this call's parameters", na.Name))
			continue
		}
		if seen[na.Name] || covered[idx] {
			a.report(diagnostics.DuplicateDeclaration(call.Token, na.Name))
			continue
		}
		seen[na.Name] = true
		covered[idx] = true
	}
	missing := 0
	for i, p := range params {
		if !covered[i] && p.Default == nil && !p.IsVararg {
			missing++
		}
	}
	if missing > 0 {
		a.report(diagnostics.ArityMismatch(call.Token, len(params), len(params)-missing))
	}
}

// checkExhaustiveness warns on a sealed-hierarchy when with no exhaustive
// match: this analyzer has no sum-type/sealed tagging in its simple
// nominal type system, so it approximates the check as "a subject-ed
// when with no else branch is worth a warning" — a conservative
// stand-in that never misses a truly non-exhaustive when at the cost of
// also flagging ones a full sealed-hierarchy check would clear.
func (a *Analyzer) checkExhaustiveness(w *ast.WhenExpr) {
	if w.Subject == nil {
		return
	}
	for _, b := range w.Branches {
		if len(b.Conditions) == 0 {
			return // has an else branch
		}
	}
	a.report(diagnostics.NonExhaustiveWhen(w.Token))
}
