package semantic

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/types"
)

// checkBlock checks block in a fresh BlockScope.
func (a *Analyzer) checkBlock(block *ast.BlockStatement) {
	pop := a.pushScope(BlockScope)
	defer pop()
	for _, stmt := range block.Stmts {
		a.checkStmt(stmt)
	}
}

func (a *Analyzer) checkStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.LocalVarDecl:
		a.checkLocalVarDecl(stmt)

	case *ast.IfStmt:
		cond := a.checkExpr(stmt.Cond)
		if !types.Assignable(cond, types.TBoolean) {
			a.report(diagnostics.TypeMismatch(stmt.Cond.GetToken(), "Boolean", cond.String()))
		}
		a.checkBlock(stmt.Then)
		if stmt.Else != nil {
			a.checkStmt(stmt.Else)
		}

	case *ast.ForStmt:
		iterType := a.checkExpr(stmt.Iter)
		pop := a.pushScope(BlockScope)
		elem := iterableElementType(iterType)
		if stmt.Pattern != nil {
			a.declarePattern(stmt.Pattern, elem)
		} else if stmt.VarName != "" {
			a.declare(&Symbol{Name: stmt.VarName, Type: elem, Kind: ValueSymbol, IsVal: true, Token: stmt.Token})
		}
		for _, inner := range stmt.Body.Stmts {
			a.checkStmt(inner)
		}
		pop()

	case *ast.WhileStmt:
		cond := a.checkExpr(stmt.Cond)
		if !types.Assignable(cond, types.TBoolean) {
			a.report(diagnostics.TypeMismatch(stmt.Cond.GetToken(), "Boolean", cond.String()))
		}
		a.checkBlock(stmt.Body)

	case *ast.DoWhileStmt:
		a.checkBlock(stmt.Body)
		a.checkExpr(stmt.Cond)

	case *ast.ReturnStmt:
		if stmt.Value == nil {
			return
		}
		valueType := a.checkExpr(stmt.Value)
		if a.fn != nil {
			if _, unresolved := a.fn.ReturnType.(types.Unresolved); !unresolved && !types.Assignable(valueType, a.fn.ReturnType) {
				a.report(diagnostics.TypeMismatch(stmt.Value.GetToken(), a.fn.ReturnType.String(), valueType.String()))
			}
		}

	case *ast.BreakStmt, *ast.ContinueStmt:
		// Label existence against an enclosing loop is validated by the
		// parser's label syntax; no further semantic check applies.

	case *ast.ThrowStmt:
		a.checkExpr(stmt.Value)

	case *ast.TryStmt:
		a.checkBlock(stmt.Body)
		for _, c := range stmt.Catches {
			pop := a.pushScope(BlockScope)
			var t types.Type = types.TAny
			if c.Type != nil {
				t = a.resolveTypeRef(c.Type)
			}
			a.declare(&Symbol{Name: c.Name, Type: t, Kind: ValueSymbol, IsVal: true, Token: c.Token})
			for _, inner := range c.Body.Stmts {
				a.checkStmt(inner)
			}
			pop()
		}
		if stmt.Finally != nil {
			a.checkBlock(stmt.Finally)
		}

	case *ast.BlockStatement:
		a.checkBlock(stmt)

	case *ast.ExpressionStatement:
		a.checkExpr(stmt.Expr)
	}
}

func (a *Analyzer) checkLocalVarDecl(l *ast.LocalVarDecl) {
	var declaredType types.Type
	if l.Type != nil {
		declaredType = a.resolveTypeRef(l.Type)
	}
	var initType types.Type
	if l.Init != nil {
		initType = a.checkExpr(l.Init)
		if declaredType != nil && !types.Assignable(initType, declaredType) {
			a.report(diagnostics.TypeMismatch(l.Init.GetToken(), declaredType.String(), initType.String()))
		}
	}
	boundType := declaredType
	if boundType == nil {
		boundType = initType
	}
	if boundType == nil {
		boundType = types.Unresolved{Name: l.Name}
	}

	if l.Pattern != nil {
		a.declarePattern(l.Pattern, boundType)
		return
	}
	a.declare(&Symbol{Name: l.Name, Type: boundType, Kind: ValueSymbol, IsVal: l.IsVal, Token: l.Token})
}

// declarePattern binds every NamePattern leaf in p to componentType. A
// tuple component's individual type isn't tracked without a destructuring
// operator's own signature (`component1()`, `component2()`, ...), so every
// leaf shares the whole pattern's element type — a documented
// simplification until the stdlib's destructuring operators are modeled.
func (a *Analyzer) declarePattern(p ast.Pattern, componentType types.Type) {
	switch pat := p.(type) {
	case *ast.NamePattern:
		a.declare(&Symbol{Name: pat.Name, Type: componentType, Kind: ValueSymbol, IsVal: true, Token: pat.Token})
	case *ast.TuplePattern:
		for _, el := range pat.Elements {
			a.declarePattern(el, componentType)
		}
	}
}

// iterableElementType returns the element type of a `for`-loop iterable:
// the single type argument of a List/Set/Range-shaped Class, or Any when
// the iterable's shape isn't known to this walk.
func iterableElementType(t types.Type) types.Type {
	if class, ok := types.Unwrap(t).(types.Class); ok && len(class.TypeArgs) > 0 {
		return class.TypeArgs[0]
	}
	return types.TAny
}
