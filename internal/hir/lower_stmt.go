package hir

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/types"
)

func (l *Lowerer) lowerBlock(b *ast.BlockStatement) *Block {
	if b == nil {
		return &Block{base: base{NID: l.next()}}
	}
	out := &Block{base: base{NID: l.next(), Token: b.Token}}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, l.lowerStmts(s)...)
	}
	return out
}

// lowerStmts lowers one ast.Statement to one or more hir.Stmt: most map
// 1:1, but a destructuring LocalVarDecl expands to a temp binding plus
// one LocalDecl per component, so the caller must splice a slice rather
// than append a single result.
func (l *Lowerer) lowerStmts(s ast.Statement) []Stmt {
	switch st := s.(type) {
	case *ast.BlockStatement:
		return []Stmt{l.lowerBlock(st)}
	case *ast.ExpressionStatement:
		return []Stmt{&ExprStmt{base: base{NID: l.next(), Token: st.Token}, Expr: l.lowerExpr(st.Expr)}}
	case *ast.LocalVarDecl:
		return l.lowerLocalVarDecl(st)
	case *ast.IfStmt:
		return []Stmt{l.lowerIfStmt(st)}
	case *ast.WhileStmt:
		return []Stmt{&While{base: base{NID: l.next(), Token: st.Token}, Label: st.Label, Cond: l.lowerExpr(st.Cond), Body: l.lowerBlock(st.Body)}}
	case *ast.DoWhileStmt:
		return []Stmt{&DoWhile{base: base{NID: l.next(), Token: st.Token}, Label: st.Label, Body: l.lowerBlock(st.Body), Cond: l.lowerExpr(st.Cond)}}
	case *ast.ForStmt:
		return l.lowerForStmt(st)
	case *ast.ReturnStmt:
		var v Expr
		if st.Value != nil {
			v = l.lowerExpr(st.Value)
		}
		return []Stmt{&Return{base: base{NID: l.next(), Token: st.Token}, Value: v}}
	case *ast.BreakStmt:
		return []Stmt{&Break{base: base{NID: l.next(), Token: st.Token}, Label: st.Label}}
	case *ast.ContinueStmt:
		return []Stmt{&Continue{base: base{NID: l.next(), Token: st.Token}, Label: st.Label}}
	case *ast.ThrowStmt:
		return []Stmt{&Throw{base: base{NID: l.next(), Token: st.Token}, Value: l.lowerExpr(st.Value)}}
	case *ast.TryStmt:
		return []Stmt{l.lowerTryStmt(st)}
	default:
		l.invariant(s.GetToken(), "unhandled statement kind")
		return nil
	}
}

// lowerLocalVarDecl expands "val (a, b) = pair" into "let t = p; let a =
// t.component1(); let b = t.component2()" (and the Map-entry special
// case "let a = t.key; let b = t.value" when the pattern destructures a
// Map.Entry-typed initializer).
func (l *Lowerer) lowerLocalVarDecl(st *ast.LocalVarDecl) []Stmt {
	if st.Pattern == nil {
		return []Stmt{&LocalDecl{
			base:  base{NID: l.next(), Token: st.Token},
			Name:  st.Name,
			Type:  l.typeOf(st.Init),
			IsVal: st.IsVal,
			Init:  l.lowerExpr(st.Init),
		}}
	}
	tuple, ok := st.Pattern.(*ast.TuplePattern)
	if !ok {
		l.invariant(st.Token, "unsupported destructuring pattern")
		return nil
	}
	initType := l.typeOf(st.Init)
	temp := l.nextTemp("destr")
	out := []Stmt{&LocalDecl{
		base:  base{NID: l.next(), Token: st.Token},
		Name:  temp,
		Type:  initType,
		IsVal: true,
		Init:  l.lowerExpr(st.Init),
	}}
	isMapEntry := false
	if cls, ok := types.Unwrap(initType).(types.Class); ok && cls.QualifiedName == "Map.Entry" {
		isMapEntry = true
	}
	for i, elem := range tuple.Elements {
		name, ok := elem.(*ast.NamePattern)
		if !ok {
			l.invariant(st.Token, "nested destructuring patterns are not supported")
			continue
		}
		tempRef := &Identifier{base: base{NID: l.next(), Token: st.Token}, Name: temp, Type: initType}
		var componentExpr Expr
		if isMapEntry && i < 2 {
			member := "key"
			if i == 1 {
				member = "value"
			}
			componentExpr = &MemberAccess{base: base{NID: l.next(), Token: st.Token}, Target: tempRef, Name: member}
		} else {
			componentExpr = &Call{
				base:   base{NID: l.next(), Token: st.Token},
				Callee: &MemberAccess{base: base{NID: l.next(), Token: st.Token}, Target: tempRef, Name: componentName(i)},
			}
		}
		out = append(out, &LocalDecl{
			base:  base{NID: l.next(), Token: st.Token},
			Name:  name.Name,
			IsVal: st.IsVal,
			Init:  componentExpr,
		})
	}
	return out
}

func componentName(i int) string {
	names := [...]string{"component1", "component2", "component3", "component4", "component5"}
	if i < len(names) {
		return names[i]
	}
	return "component1"
}

// lowerIfStmt unifies IfStmt into If with UsedAsExpression false. An
// `else if` chain (Else holding a nested *ast.IfStmt rather than a
// block) gets its nested If wrapped in a single-statement Block, since
// HirIf.Else is itself a *Block.
func (l *Lowerer) lowerIfStmt(st *ast.IfStmt) *If {
	out := &If{
		base: base{NID: l.next(), Token: st.Token},
		Cond: l.lowerExpr(st.Cond),
		Then: l.lowerBlock(st.Then),
		Type: types.TUnit,
	}
	switch e := st.Else.(type) {
	case nil:
	case *ast.BlockStatement:
		out.Else = l.lowerBlock(e)
	case *ast.IfStmt:
		nested := l.lowerIfStmt(e)
		out.Else = &Block{base: base{NID: l.next(), Token: e.Token}, Stmts: []Stmt{nested}}
	default:
		l.invariant(st.Token, "unsupported if-else shape")
	}
	return out
}

// lowerForStmt lowers `for (x in iter)` / `for ((k, v) in map)` to a For
// over a single bound name, splicing a destructuring prelude into the
// body when Pattern is used in place of VarName.
func (l *Lowerer) lowerForStmt(st *ast.ForStmt) []Stmt {
	body := l.lowerBlock(st.Body)
	varName := st.VarName
	if st.Pattern != nil {
		tuple, ok := st.Pattern.(*ast.TuplePattern)
		if !ok {
			l.invariant(st.Token, "unsupported for-loop destructuring pattern")
			return nil
		}
		varName = l.nextTemp("iter")
		tempRef := &Identifier{base: base{NID: l.next(), Token: st.Token}, Name: varName}
		var prelude []Stmt
		for i, elem := range tuple.Elements {
			name, ok := elem.(*ast.NamePattern)
			if !ok {
				l.invariant(st.Token, "nested destructuring patterns are not supported")
				continue
			}
			member := "key"
			if i == 1 {
				member = "value"
			}
			prelude = append(prelude, &LocalDecl{
				base: base{NID: l.next(), Token: st.Token}, Name: name.Name, IsVal: true,
				Init: &MemberAccess{base: base{NID: l.next(), Token: st.Token}, Target: tempRef, Name: member},
			})
		}
		body.Stmts = append(prelude, body.Stmts...)
	}
	return []Stmt{&For{
		base:    base{NID: l.next(), Token: st.Token},
		Label:   st.Label,
		VarName: varName,
		Iter:    l.lowerExpr(st.Iter),
		Body:    body,
	}}
}

// lowerTryStmt lowers a user-written try/catch/finally directly; the
// use-expression-as-try-with-close desugaring lives in lower_expr.go
// alongside UseExpr.
func (l *Lowerer) lowerTryStmt(st *ast.TryStmt) *Try {
	out := &Try{base: base{NID: l.next(), Token: st.Token}, Body: l.lowerBlock(st.Body)}
	for _, c := range st.Catches {
		t := types.Type(types.TAny)
		if c.Type != nil {
			t = l.typeOfRef(c.Type)
		}
		out.Catches = append(out.Catches, &CatchClause{Name: c.Name, Type: t, Body: l.lowerBlock(c.Body)})
	}
	if st.Finally != nil {
		out.Finally = l.lowerBlock(st.Finally)
	}
	return out
}
