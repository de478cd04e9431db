package semantic

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
	"github.com/novalang/novac/internal/types"
)

// checkExpr infers e's type, records it in TypeMap, and reports every
// diagnostic that falls out of doing so (unresolved names, type
// mismatches, nullability, mutability). It never returns nil; an
// unresolvable expression types as types.Unresolved so callers can keep
// walking instead of special-casing a missing result everywhere.
func (a *Analyzer) checkExpr(e ast.Expression) types.Type {
	switch expr := e.(type) {
	case *ast.Identifier:
		sym, ok := a.scope.Lookup(expr.Name)
		if !ok {
			a.report(diagnostics.UnresolvedName(expr.Token, expr.Name))
			return a.recordType(e, types.Unresolved{Name: expr.Name})
		}
		return a.recordType(e, sym.Type)

	case *ast.Literal:
		return a.recordType(e, literalType(expr))

	case *ast.StringInterpolation:
		for _, part := range expr.Parts {
			if part.Expr != nil {
				a.checkExpr(part.Expr)
			}
		}
		return a.recordType(e, types.TString)

	case *ast.CollectionLiteral:
		return a.recordType(e, a.checkCollectionLiteral(expr))

	case *ast.LambdaExpr:
		return a.recordType(e, a.checkLambdaExpr(expr, nil))

	case *ast.CallExpr:
		return a.recordType(e, a.checkCallExpr(expr))

	case *ast.BinaryExpr:
		return a.recordType(e, a.checkBinaryExpr(expr))

	case *ast.UnaryExpr:
		operand := a.checkExpr(expr.Operand)
		return a.recordType(e, operand)

	case *ast.AssignExpr:
		return a.recordType(e, a.checkAssignExpr(expr))

	case *ast.IfExpr:
		cond := a.checkExpr(expr.Cond)
		if !types.Assignable(cond, types.TBoolean) {
			a.report(diagnostics.TypeMismatch(expr.Cond.GetToken(), "Boolean", cond.String()))
		}
		thenType := a.checkExpr(expr.Then)
		if expr.Else == nil {
			return a.recordType(e, types.TUnit)
		}
		elseType := a.checkExpr(expr.Else)
		return a.recordType(e, types.LeastUpperBound([]types.Type{thenType, elseType}))

	case *ast.WhenExpr:
		return a.recordType(e, a.checkWhenExpr(expr))

	case *ast.RangeExpr:
		startType := a.checkExpr(expr.Start)
		a.checkExpr(expr.End)
		if expr.Step != nil {
			a.checkExpr(expr.Step)
		}
		return a.recordType(e, types.Class{QualifiedName: "Range", TypeArgs: []types.Type{startType}})

	case *ast.ElvisExpr:
		left := a.checkExpr(expr.Left)
		fallback := a.checkExpr(expr.Fallback)
		return a.recordType(e, types.LeastUpperBound([]types.Type{types.Unwrap(left), fallback}))

	case *ast.SafeCallExpr:
		target := a.checkExpr(expr.Target)
		if !types.IsNullable(target) {
			// Not an error: `a?.b` on a non-nullable a is redundant but
			// harmless; nullability only needs checking at an unguarded
			// dereference.
		}
		prevSuppress := a.suppressNullCheck
		a.suppressNullCheck = true
		member := a.checkExpr(expr.Member)
		a.suppressNullCheck = prevSuppress
		return a.recordType(e, types.NewNullable(member))

	case *ast.ErrorPropagationExpr:
		operand := a.checkExpr(expr.Operand)
		return a.recordType(e, types.Unwrap(operand))

	case *ast.NotNullAssertExpr:
		operand := a.checkExpr(expr.Operand)
		return a.recordType(e, types.Unwrap(operand))

	case *ast.MemberAccessExpr:
		return a.recordType(e, a.checkMemberAccess(expr))

	case *ast.IndexExpr:
		target := a.checkExpr(expr.Target)
		a.checkExpr(expr.Index)
		if class, ok := types.Unwrap(target).(types.Class); ok && len(class.TypeArgs) > 0 {
			return a.recordType(e, class.TypeArgs[len(class.TypeArgs)-1])
		}
		return a.recordType(e, types.Unresolved{})

	case *ast.TypeTestExpr:
		return a.recordType(e, a.checkTypeTestExpr(expr))

	case *ast.InExpr:
		a.checkExpr(expr.Value)
		a.checkExpr(expr.Iterable)
		return a.recordType(e, types.TBoolean)

	case *ast.ThisExpr:
		if a.scope.Self == nil {
			a.report(diagnostics.NotInClassContext(expr.Token, "'this'"))
			return a.recordType(e, types.Unresolved{})
		}
		return a.recordType(e, a.scope.Self)

	case *ast.SuperExpr:
		if a.scope.Self == nil {
			a.report(diagnostics.NotInClassContext(expr.Token, "'super'"))
			return a.recordType(e, types.Unresolved{})
		}
		return a.recordType(e, a.scope.Self)

	case *ast.UseExpr:
		resource := a.checkExpr(expr.Resource)
		fn := types.Function{Params: []types.Type{resource}, Return: types.Unresolved{}}
		return a.recordType(e, a.checkLambdaExpr(expr.Body, &fn))

	default:
		return types.Unresolved{}
	}
}

func literalType(l *ast.Literal) types.Type {
	switch l.Kind {
	case ast.IntLiteral:
		return types.TInt
	case ast.LongLiteral:
		return types.TLong
	case ast.FloatLiteral:
		return types.TFloat
	case ast.DoubleLiteral:
		return types.TDouble
	case ast.BooleanLiteral:
		return types.TBoolean
	case ast.CharLiteral:
		return types.TChar
	case ast.NullLiteral:
		return types.NewNullable(types.TNothing)
	default:
		return types.Unresolved{}
	}
}

func (a *Analyzer) checkCollectionLiteral(lit *ast.CollectionLiteral) types.Type {
	var elemTypes []types.Type
	for _, el := range lit.Elements {
		elemTypes = append(elemTypes, a.checkExpr(el))
	}
	elem := types.Type(types.TAny)
	if len(elemTypes) > 0 {
		elem = types.LeastUpperBound(elemTypes)
	}
	switch lit.Kind {
	case ast.MapKind:
		var valTypes []types.Type
		for _, v := range lit.MapValues {
			valTypes = append(valTypes, a.checkExpr(v))
		}
		val := types.Type(types.TAny)
		if len(valTypes) > 0 {
			val = types.LeastUpperBound(valTypes)
		}
		return types.Class{QualifiedName: "Map", TypeArgs: []types.Type{elem, val}}
	case ast.SetKind:
		return types.Class{QualifiedName: "Set", TypeArgs: []types.Type{elem}}
	default:
		return types.Class{QualifiedName: "List", TypeArgs: []types.Type{elem}}
	}
}

// checkLambdaExpr checks a lambda body in a fresh function scope. When
// expected names a functional type, an untyped parameter (Param.Type ==
// nil) infers its type positionally from expected.Params instead of
// falling back to Unresolved.
func (a *Analyzer) checkLambdaExpr(l *ast.LambdaExpr, expected *types.Function) types.Type {
	pop := a.pushScope(FunctionScope)
	defer pop()
	a.fn = &funcContext{Name: "<lambda>", ReturnType: types.Unresolved{}, Parent: a.fn}
	defer func() { a.fn = a.fn.Parent }()

	paramTypes := make([]types.Type, len(l.Params))
	for i, p := range l.Params {
		switch {
		case p.Type != nil:
			paramTypes[i] = a.resolveTypeRef(p.Type)
		case expected != nil && i < len(expected.Params):
			paramTypes[i] = expected.Params[i]
		default:
			paramTypes[i] = types.Unresolved{Name: p.Name}
		}
		a.declare(&Symbol{Name: p.Name, Type: paramTypes[i], Kind: ValueSymbol, IsVal: true, Node: p, Token: p.Token})
		a.ParamTypes[p.ID()] = paramTypes[i]
	}
	if len(l.Params) == 0 && expected != nil && len(expected.Params) == 1 {
		// A single-param lambda with no declared params binds the
		// implicit `it`.
		a.declare(&Symbol{Name: "it", Type: expected.Params[0], Kind: ValueSymbol, IsVal: true, Token: l.Token})
		paramTypes = []types.Type{expected.Params[0]}
	}

	var resultType types.Type = types.TUnit
	for i, stmt := range l.Body.Stmts {
		if es, ok := stmt.(*ast.ExpressionStatement); ok && i == len(l.Body.Stmts)-1 {
			resultType = a.checkExpr(es.Expr)
			continue
		}
		a.checkStmt(stmt)
	}
	return types.Function{Params: paramTypes, Return: resultType}
}

func (a *Analyzer) checkBinaryExpr(b *ast.BinaryExpr) types.Type {
	left := a.checkExpr(b.Left)
	right := a.checkExpr(b.Right)
	switch b.Op {
	case token.EQ, token.NOT_EQ, token.REF_EQ, token.REF_NEQ,
		token.LT, token.LE, token.GT, token.GE,
		token.AND_AND, token.OR_OR, token.AND_KW, token.OR_KW, token.XOR_KW:
		return types.TBoolean
	default:
		if types.IsNumeric(left) && types.IsNumeric(right) {
			if types.WidensTo(left.(types.Primitive), right.(types.Primitive)) {
				return right
			}
			return left
		}
		if left.Equal(types.TString) || right.Equal(types.TString) {
			return types.TString
		}
		return left
	}
}

func (a *Analyzer) checkAssignExpr(assign *ast.AssignExpr) types.Type {
	target := a.checkExpr(assign.Target)
	value := a.checkExpr(assign.Value)
	if ident, ok := assign.Target.(*ast.Identifier); ok {
		if sym, found := a.scope.Lookup(ident.Name); found && sym.Kind == ValueSymbol && sym.IsVal {
			a.report(diagnostics.ImmutableAssignment(assign.Token, ident.Name))
		}
	}
	if !types.Assignable(value, target) {
		a.report(diagnostics.TypeMismatch(assign.Value.GetToken(), target.String(), value.String()))
	}
	return target
}

func (a *Analyzer) checkWhenExpr(w *ast.WhenExpr) types.Type {
	var subjectType types.Type
	if w.Subject != nil {
		subjectType = a.checkExpr(w.Subject)
	}
	var branchTypes []types.Type
	for _, branch := range w.Branches {
		for _, cond := range branch.Conditions {
			condType := a.checkExpr(cond)
			if w.Subject == nil && !types.Assignable(condType, types.TBoolean) {
				a.report(diagnostics.TypeMismatch(cond.GetToken(), "Boolean", condType.String()))
			} else if w.Subject != nil && !types.Assignable(condType, subjectType) && !types.Assignable(subjectType, condType) {
				a.report(diagnostics.TypeMismatch(cond.GetToken(), subjectType.String(), condType.String()))
			}
		}
		branchTypes = append(branchTypes, a.checkExpr(branch.Result))
	}
	a.checkExhaustiveness(w)
	return types.LeastUpperBound(branchTypes)
}

func (a *Analyzer) checkTypeTestExpr(t *ast.TypeTestExpr) types.Type {
	a.checkExpr(t.Operand)
	target := a.resolveTypeRef(t.Type)
	if _, unresolved := target.(types.Unresolved); unresolved {
		a.report(diagnostics.InvalidTypeTest(t.Token, "unknown type "+t.Type.GetToken().Lexeme))
	}
	switch t.Kind {
	case ast.IsTest, ast.NotIsTest:
		return types.TBoolean
	case ast.AsSafeCast:
		return types.NewNullable(target)
	default: // AsCast
		return target
	}
}

// checkMemberAccess resolves m.Name against m.Target's class, reporting a
// null-dereference when Target is nullable and this access isn't guarded
// by a SafeCallExpr (suppressNullCheck), and UnknownMember when Target's
// class doesn't declare a matching property or method.
func (a *Analyzer) checkMemberAccess(m *ast.MemberAccessExpr) types.Type {
	target := a.checkExpr(m.Target)
	if types.IsNullable(target) && !a.suppressNullCheck {
		a.report(diagnostics.NullDereference(m.Token, m.Name))
	}
	class, ok := types.Unwrap(target).(types.Class)
	if !ok {
		return types.Unresolved{Name: m.Name}
	}
	if memberType, found := a.classMember(class.QualifiedName, m.Name); found {
		return memberType
	}
	if _, isClass := a.classes[class.QualifiedName]; isClass {
		a.report(diagnostics.UnknownMember(m.Token, class.QualifiedName, m.Name))
	}
	return types.Unresolved{Name: m.Name}
}
