package semantic

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/types"
)

// checkCallExpr resolves call.Callee to a function signature (and, where
// available, the declared ast.Parameter list arity checking needs), then
// checks every argument against it.
func (a *Analyzer) checkCallExpr(call *ast.CallExpr) types.Type {
	fnType, params, declFound := a.resolveCallTarget(call)
	if declFound {
		a.CallTargets[call.ID()] = params
	}

	for i, arg := range call.Positional {
		var expected types.Type
		if i < len(params) {
			expected = paramType(fnType, i)
		}
		a.checkArgExpr(arg, expected)
	}
	for _, na := range call.Named {
		var expected types.Type
		for i, p := range params {
			if p.Name == na.Name {
				expected = paramType(fnType, i)
				break
			}
		}
		a.checkArgExpr(na.Value, expected)
	}
	if call.Spread != nil {
		a.checkExpr(call.Spread)
	}
	if call.TrailingLambda != nil {
		var expected *types.Function
		if len(fnType.Params) > 0 {
			if fn, ok := fnType.Params[len(fnType.Params)-1].(types.Function); ok {
				expected = &fn
			}
		}
		a.checkLambdaExpr(call.TrailingLambda, expected)
	}

	if declFound {
		a.checkArity(call, params)
	}
	if fnType.Return == nil {
		return types.Unresolved{}
	}
	return fnType.Return
}

// checkArgExpr checks one call argument, passing expected through to
// lambda parameter inference when the argument is itself a lambda
// literal.
func (a *Analyzer) checkArgExpr(e ast.Expression, expected types.Type) types.Type {
	if l, ok := e.(*ast.LambdaExpr); ok {
		if fn, ok := expected.(types.Function); ok {
			return a.recordType(e, a.checkLambdaExpr(l, &fn))
		}
	}
	return a.checkExpr(e)
}

func paramType(fn types.Function, i int) types.Type {
	if i >= len(fn.Params) {
		if len(fn.Params) > 0 {
			return fn.Params[len(fn.Params)-1] // vararg tail: every extra positional shares the last param's type
		}
		return nil
	}
	return fn.Params[i]
}

// resolveCallTarget figures out what is being called and returns both its
// signature and, when known, its declared parameter list (needed for
// default/vararg-aware arity checking, which a bare types.Function can't
// express).
func (a *Analyzer) resolveCallTarget(call *ast.CallExpr) (types.Function, []*ast.Parameter, bool) {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		sym, ok := a.scope.Lookup(callee.Name)
		if !ok {
			a.report(diagnostics.UnresolvedName(callee.Token, callee.Name))
			return types.Function{Return: types.Unresolved{}}, nil, false
		}
		a.recordType(callee, sym.Type)
		if decl, ok := sym.Node.(*ast.FunctionDecl); ok {
			return a.functionType(decl), decl.Params, true
		}
		if cls, ok := sym.Node.(*ast.ClassDecl); ok {
			return types.Function{Return: sym.Type}, cls.PrimaryCtor, true
		}
		if fn, ok := sym.Type.(types.Function); ok {
			return fn, nil, false
		}
		a.report(diagnostics.NotAFunction(callee.Token, sym.Type.String()))
		return types.Function{Return: types.Unresolved{}}, nil, false

	case *ast.MemberAccessExpr:
		target := a.checkExpr(callee.Target)
		if types.IsNullable(target) && !a.suppressNullCheck {
			a.report(diagnostics.NullDereference(callee.Token, callee.Name))
		}
		class, ok := types.Unwrap(target).(types.Class)
		if !ok {
			return types.Function{Return: types.Unresolved{}}, nil, false
		}
		decl, found := a.resolveMethodDecl(class.QualifiedName, callee.Name)
		if !found {
			if _, isClass := a.classes[class.QualifiedName]; isClass {
				a.report(diagnostics.UnknownMember(callee.Token, class.QualifiedName, callee.Name))
			}
			return types.Function{Return: types.Unresolved{}}, nil, false
		}
		return a.functionType(decl), decl.Params, true

	default:
		calleeType := a.checkExpr(call.Callee)
		if fn, ok := calleeType.(types.Function); ok {
			return fn, nil, false
		}
		a.report(diagnostics.NotAFunction(call.Callee.GetToken(), calleeType.String()))
		return types.Function{Return: types.Unresolved{}}, nil, false
	}
}

// resolveMethodDecl searches className and its declared supertypes for a
// function member named name.
func (a *Analyzer) resolveMethodDecl(className, name string) (*ast.FunctionDecl, bool) {
	visited := map[string]bool{}
	var search func(string) (*ast.FunctionDecl, bool)
	search = func(cn string) (*ast.FunctionDecl, bool) {
		if visited[cn] {
			return nil, false
		}
		visited[cn] = true
		class, ok := a.classes[cn]
		if !ok {
			return nil, false
		}
		for _, fn := range class.Functions {
			if fn.Name == name {
				return fn, true
			}
		}
		for _, st := range class.SuperTypes {
			if decl, ok := search(typeRefName(st)); ok {
				return decl, true
			}
		}
		return nil, false
	}
	return search(className)
}
