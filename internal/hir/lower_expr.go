package hir

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/token"
	"github.com/novalang/novac/internal/types"
)

func (l *Lowerer) lowerExpr(e ast.Expression) Expr {
	if e == nil {
		return nil
	}
	switch expr := e.(type) {
	case *ast.Identifier:
		return &Identifier{base: base{NID: l.next(), Token: expr.Token}, Name: expr.Name, Type: l.typeOf(e)}
	case *ast.Literal:
		return l.lowerLiteral(expr)
	case *ast.StringInterpolation:
		return l.lowerStringInterpolation(expr)
	case *ast.CollectionLiteral:
		return l.lowerCollectionLiteral(expr)
	case *ast.LambdaExpr:
		return l.lowerLambdaExpr(expr)
	case *ast.CallExpr:
		return l.lowerCallExpr(expr)
	case *ast.BinaryExpr:
		return l.lowerBinaryExpr(expr)
	case *ast.UnaryExpr:
		return l.lowerUnaryExpr(expr)
	case *ast.AssignExpr:
		return l.lowerAssignExpr(expr)
	case *ast.IfExpr:
		return l.lowerIfExpr(expr)
	case *ast.WhenExpr:
		return l.lowerWhenExpr(expr)
	case *ast.RangeExpr:
		return l.lowerRangeExpr(expr)
	case *ast.ElvisExpr:
		return l.lowerElvisExpr(expr)
	case *ast.SafeCallExpr:
		return l.lowerSafeCallExpr(expr)
	case *ast.ErrorPropagationExpr:
		return l.lowerErrorPropagationExpr(expr)
	case *ast.NotNullAssertExpr:
		return &NotNullAssert{base: base{NID: l.next(), Token: expr.Token}, Operand: l.lowerExpr(expr.Operand), Type: l.typeOf(e)}
	case *ast.MemberAccessExpr:
		return &MemberAccess{base: base{NID: l.next(), Token: expr.Token}, Target: l.lowerExpr(expr.Target), Name: expr.Name, Type: l.typeOf(e)}
	case *ast.IndexExpr:
		return l.lowerIndexGet(expr)
	case *ast.TypeTestExpr:
		return l.lowerTypeTestExpr(expr)
	case *ast.InExpr:
		return l.lowerInExpr(expr)
	case *ast.ThisExpr:
		return &This{base: base{NID: l.next(), Token: expr.Token}, Type: l.typeOf(e)}
	case *ast.SuperExpr:
		return &Super{base: base{NID: l.next(), Token: expr.Token}, Type: l.typeOf(e)}
	case *ast.UseExpr:
		return l.lowerUseExpr(expr)
	default:
		l.invariant(e.GetToken(), "unhandled expression kind")
		return nil
	}
}

func (l *Lowerer) lowerLiteral(lit *ast.Literal) Expr {
	kind := map[ast.LiteralKind]LiteralKind{
		ast.IntLiteral: IntLiteral, ast.LongLiteral: LongLiteral, ast.DoubleLiteral: DoubleLiteral,
		ast.FloatLiteral: FloatLiteral, ast.BooleanLiteral: BooleanLiteral, ast.CharLiteral: CharLiteral,
		ast.NullLiteral: NullLiteral,
	}[lit.Kind]
	return &Literal{base: base{NID: l.next(), Token: lit.Token}, Kind: kind, Value: lit.Value, Type: l.typeOf(lit)}
}

// lowerStringInterpolation folds a no-interpolation string straight to a
// StringLiteral; otherwise "...${x}..." -> HirCall(String::build, parts).
func (l *Lowerer) lowerStringInterpolation(s *ast.StringInterpolation) Expr {
	if len(s.Parts) == 1 && s.Parts[0].Expr == nil {
		return &Literal{base: base{NID: l.next(), Token: s.Token}, Kind: StringLiteral, Value: s.Parts[0].Literal, Type: types.TString}
	}
	args := make([]Expr, 0, len(s.Parts))
	for _, p := range s.Parts {
		if p.Expr != nil {
			args = append(args, l.lowerExpr(p.Expr))
		} else {
			args = append(args, &Literal{base: base{NID: l.next(), Token: s.Token}, Kind: StringLiteral, Value: p.Literal, Type: types.TString})
		}
	}
	return &Call{
		base:   base{NID: l.next(), Token: s.Token},
		Callee: &MemberAccess{base: base{NID: l.next(), Token: s.Token}, Target: &Identifier{base: base{NID: l.next(), Token: s.Token}, Name: "String"}, Name: "build"},
		Args:   args,
		Type:   types.TString,
	}
}

func (l *Lowerer) lowerCollectionLiteral(c *ast.CollectionLiteral) Expr {
	out := &CollectionLiteral{base: base{NID: l.next(), Token: c.Token}, Type: l.typeOf(c)}
	switch c.Kind {
	case ast.ListKind:
		out.Kind = ListColl
	case ast.SetKind:
		out.Kind = SetColl
	case ast.MapKind:
		out.Kind = MapColl
	}
	for _, e := range c.Elements {
		out.Elements = append(out.Elements, l.lowerExpr(e))
	}
	for _, v := range c.MapValues {
		out.Values = append(out.Values, l.lowerExpr(v))
	}
	return out
}

// lowerLambdaExpr lowers a closure literal directly; a defaulted lambda
// parameter is left with its Default expression in place (filled in
// positionally at the call site the same way a named argument is,
// rather than generating a standalone overload thunk the way a named
// `fun` declaration does) since an anonymous lambda has no declared name
// for a second arity to hang off of.
func (l *Lowerer) lowerLambdaExpr(le *ast.LambdaExpr) Expr {
	return &Lambda{base: base{NID: l.next(), Token: le.Token}, Params: l.lowerParams(le.Params), Body: l.lowerBlock(le.Body), Type: l.typeOf(le)}
}

func (l *Lowerer) lowerCallExpr(c *ast.CallExpr) Expr {
	args, spread := l.lowerCallArgs(c)
	return &Call{base: base{NID: l.next(), Token: c.Token}, Callee: l.lowerExpr(c.Callee), Args: args, Spread: spread, Type: l.typeOf(c)}
}

func findNamed(named []ast.NamedArg, name string) (ast.Expression, bool) {
	for _, na := range named {
		if na.Name == name {
			return na.Value, true
		}
	}
	return nil, false
}

// lowerCallArgs implements "Named-argument call: reorder to positional +
// fill defaults": positional arguments keep their order, then every
// remaining declared parameter (beyond the positional prefix) is filled
// either from a matching named argument or from its own default
// expression, in declaration order. When the callee's declaration isn't
// known (a dynamic call target), named arguments fall back to source
// order since there is no declared parameter list to reorder against.
func (l *Lowerer) lowerCallArgs(call *ast.CallExpr) ([]Expr, Expr) {
	args := make([]Expr, 0, len(call.Positional)+len(call.Named)+1)
	for _, p := range call.Positional {
		args = append(args, l.lowerExpr(p))
	}
	targetParams, hasTarget := l.sem.CallTargets[call.ID()]
	switch {
	case hasTarget:
		for i := len(call.Positional); i < len(targetParams); i++ {
			p := targetParams[i]
			if v, ok := findNamed(call.Named, p.Name); ok {
				args = append(args, l.lowerExpr(v))
			} else if p.Default != nil {
				args = append(args, l.lowerExpr(p.Default))
			}
		}
	case len(call.Named) > 0:
		for _, na := range call.Named {
			args = append(args, l.lowerExpr(na.Value))
		}
	}
	if call.TrailingLambda != nil {
		args = append(args, l.lowerLambdaExpr(call.TrailingLambda))
	}
	var spread Expr
	if call.Spread != nil {
		spread = l.lowerExpr(call.Spread)
	}
	return args, spread
}

// operatorMethodName names the overload method PLUS/MINUS/STAR/SLASH/
// PERCENT desugar to on a non-builtin operand. Comparison, equality, and
// bitwise-keyword operators are left as Binary regardless of operand
// type: only arithmetic and index/unary rewriting get an overload-method
// form, and built-in Boolean/Int/Long already cover the rest.
func operatorMethodName(op token.Kind) (string, bool) {
	switch op {
	case token.PLUS:
		return "plus", true
	case token.MINUS:
		return "minus", true
	case token.STAR:
		return "times", true
	case token.SLASH:
		return "div", true
	case token.PERCENT:
		return "rem", true
	default:
		return "", false
	}
}

func binOpFromToken(op token.Kind) (BinOp, bool) {
	switch op {
	case token.PLUS:
		return OpAdd, true
	case token.MINUS:
		return OpSub, true
	case token.STAR:
		return OpMul, true
	case token.SLASH:
		return OpDiv, true
	case token.PERCENT:
		return OpMod, true
	case token.EQ:
		return OpEq, true
	case token.NOT_EQ:
		return OpNotEq, true
	case token.REF_EQ:
		return OpRefEq, true
	case token.REF_NEQ:
		return OpRefNotEq, true
	case token.LT:
		return OpLt, true
	case token.LE:
		return OpLe, true
	case token.GT:
		return OpGt, true
	case token.GE:
		return OpGe, true
	case token.AND_AND:
		return OpAnd, true
	case token.OR_OR:
		return OpOr, true
	case token.AND_KW:
		return OpBitAnd, true
	case token.OR_KW:
		return OpBitOr, true
	case token.XOR_KW:
		return OpBitXor, true
	case token.SHL_KW:
		return OpShl, true
	case token.SHR_KW:
		return OpShr, true
	default:
		return 0, false
	}
}

// compoundBinOp maps a compound-assignment token to the binary operator
// its right-hand side expands against, per "compound ops already
// expanded before HIR" (documented on hir.Assign).
func compoundBinOp(op token.Kind) (BinOp, bool) {
	switch op {
	case token.PLUS_ASSIGN:
		return OpAdd, true
	case token.MINUS_ASSIGN:
		return OpSub, true
	case token.STAR_ASSIGN:
		return OpMul, true
	case token.SLASH_ASSIGN:
		return OpDiv, true
	case token.PERCENT_ASSIGN:
		return OpMod, true
	default:
		return 0, false
	}
}

func (l *Lowerer) lowerBinaryExpr(b *ast.BinaryExpr) Expr {
	resultType := l.typeOf(b)
	leftType := l.typeOf(b.Left)
	if method, ok := operatorMethodName(b.Op); ok && !isBuiltinOperand(leftType) {
		return &Call{
			base:   base{NID: l.next(), Token: b.Token},
			Callee: &MemberAccess{base: base{NID: l.next(), Token: b.Token}, Target: l.lowerExpr(b.Left), Name: method},
			Args:   []Expr{l.lowerExpr(b.Right)},
			Type:   resultType,
		}
	}
	op, ok := binOpFromToken(b.Op)
	if !ok {
		l.invariant(b.Token, "unsupported binary operator")
	}
	return &Binary{base: base{NID: l.next(), Token: b.Token}, Op: op, Left: l.lowerExpr(b.Left), Right: l.lowerExpr(b.Right), Type: resultType}
}

func (l *Lowerer) lowerUnaryExpr(u *ast.UnaryExpr) Expr {
	resultType := l.typeOf(u)
	operandType := l.typeOf(u.Operand)
	if u.Op == token.MINUS && !isBuiltinOperand(operandType) {
		return &Call{
			base:   base{NID: l.next(), Token: u.Token},
			Callee: &MemberAccess{base: base{NID: l.next(), Token: u.Token}, Target: l.lowerExpr(u.Operand), Name: "unaryMinus"},
			Type:   resultType,
		}
	}
	var op UnOp
	switch u.Op {
	case token.MINUS:
		op = OpNeg
	case token.BANG, token.NOT:
		op = OpNot
	default:
		l.invariant(u.Token, "unsupported unary operator")
	}
	return &Unary{base: base{NID: l.next(), Token: u.Token}, Op: op, Operand: l.lowerExpr(u.Operand), Type: resultType}
}

func (l *Lowerer) lowerAssignExpr(a *ast.AssignExpr) Expr {
	resultType := l.typeOf(a)
	value := l.lowerExpr(a.Value)
	if a.Op != token.ASSIGN {
		op, ok := compoundBinOp(a.Op)
		if !ok {
			l.invariant(a.Token, "unsupported compound assignment operator")
		}
		value = &Binary{base: base{NID: l.next(), Token: a.Token}, Op: op, Left: l.lowerExpr(a.Target), Right: value, Type: resultType}
	}
	return l.lowerAssignTo(a.Target, value, resultType, a.Token)
}

// lowerAssignTo builds the lowered lvalue-store for target. An IndexExpr
// target rewrites to IndexSet on a built-in indexable type, or a `.set`
// call otherwise, mirroring lowerIndexGet's read-side split.
func (l *Lowerer) lowerAssignTo(target ast.Expression, value Expr, t types.Type, tok token.Token) Expr {
	idx, ok := target.(*ast.IndexExpr)
	if !ok {
		return &Assign{base: base{NID: l.next(), Token: tok}, Target: l.lowerExpr(target), Value: value, Type: t}
	}
	targetType := l.typeOf(idx.Target)
	if isBuiltinOperand(targetType) {
		return &IndexSet{base: base{NID: l.next(), Token: tok}, Target: l.lowerExpr(idx.Target), Index: l.lowerExpr(idx.Index), Value: value, Type: t}
	}
	return &Call{
		base:   base{NID: l.next(), Token: tok},
		Callee: &MemberAccess{base: base{NID: l.next(), Token: tok}, Target: l.lowerExpr(idx.Target), Name: "set"},
		Args:   []Expr{l.lowerExpr(idx.Index), value},
		Type:   t,
	}
}

// lowerTernary builds the "declare a var, assign it from whichever
// branch of an If runs, read it back" shape that every value-producing
// conditional (IfExpr, Elvis, SafeCall) reduces to, since hir.If is a
// Stmt and can't itself stand in as a BlockExpr's Result.
func (l *Lowerer) lowerTernary(cond, thenE, elseE Expr, t types.Type, tok token.Token) *BlockExpr {
	temp := l.nextTemp("if")
	assign := func(e Expr) Stmt {
		return &ExprStmt{base: base{NID: l.next(), Token: tok}, Expr: &Assign{
			base:   base{NID: l.next(), Token: tok},
			Target: &Identifier{base: base{NID: l.next(), Token: tok}, Name: temp, Type: t},
			Value:  e, Type: t,
		}}
	}
	return &BlockExpr{
		base: base{NID: l.next(), Token: tok},
		Stmts: []Stmt{
			&LocalDecl{base: base{NID: l.next(), Token: tok}, Name: temp, Type: t, IsVal: false},
			&If{
				base: base{NID: l.next(), Token: tok}, Cond: cond,
				Then:             &Block{base: base{NID: l.next(), Token: tok}, Stmts: []Stmt{assign(thenE)}},
				Else:             &Block{base: base{NID: l.next(), Token: tok}, Stmts: []Stmt{assign(elseE)}},
				UsedAsExpression: true, Type: t,
			},
		},
		Result: &Identifier{base: base{NID: l.next(), Token: tok}, Name: temp, Type: t},
		Type:   t,
	}
}

func (l *Lowerer) lowerIfExpr(e *ast.IfExpr) Expr {
	t := l.typeOf(e)
	thenE := l.lowerExpr(e.Then)
	var elseE Expr
	if e.Else != nil {
		elseE = l.lowerExpr(e.Else)
	} else {
		elseE = &Literal{base: base{NID: l.next(), Token: e.Token}, Kind: NullLiteral, Type: types.TUnit}
	}
	return l.lowerTernary(l.lowerExpr(e.Cond), thenE, elseE, t, e.Token)
}

func (l *Lowerer) lowerWhenExpr(w *ast.WhenExpr) Expr {
	out := &When{base: base{NID: l.next(), Token: w.Token}, Type: l.typeOf(w)}
	if w.Subject != nil {
		out.Subject = l.lowerExpr(w.Subject)
	}
	for _, b := range w.Branches {
		branch := WhenBranch{Result: l.lowerExpr(b.Result)}
		for _, c := range b.Conditions {
			branch.Conditions = append(branch.Conditions, l.lowerExpr(c))
		}
		out.Branches = append(out.Branches, branch)
	}
	return out
}

// lowerRangeExpr implements "a..b"/"a..<b" -> HirCall(Range::new, a, b,
// inclusive).
func (l *Lowerer) lowerRangeExpr(r *ast.RangeExpr) Expr {
	args := []Expr{
		l.lowerExpr(r.Start), l.lowerExpr(r.End),
		&Literal{base: base{NID: l.next(), Token: r.Token}, Kind: BooleanLiteral, Value: r.Inclusive, Type: types.TBoolean},
	}
	if r.Step != nil {
		args = append(args, l.lowerExpr(r.Step))
	}
	return &Call{
		base:   base{NID: l.next(), Token: r.Token},
		Callee: &MemberAccess{base: base{NID: l.next(), Token: r.Token}, Target: &Identifier{base: base{NID: l.next(), Token: r.Token}, Name: "Range"}, Name: "new"},
		Args:   args,
		Type:   l.typeOf(r),
	}
}

// lowerElvisExpr implements "a ?: b" -> "let t = a; if (t != null) t
// else b".
func (l *Lowerer) lowerElvisExpr(e *ast.ElvisExpr) Expr {
	t := l.typeOf(e)
	leftType := l.typeOf(e.Left)
	temp := l.nextTemp("elvis")
	ref := func() *Identifier { return &Identifier{base: base{NID: l.next(), Token: e.Token}, Name: temp, Type: leftType} }
	cond := &Binary{base: base{NID: l.next(), Token: e.Token}, Op: OpNotEq, Left: ref(), Right: &Literal{base: base{NID: l.next(), Token: e.Token}, Kind: NullLiteral}, Type: types.TBoolean}
	ternary := l.lowerTernary(cond, ref(), l.lowerExpr(e.Fallback), t, e.Token)
	return &BlockExpr{
		base:   base{NID: l.next(), Token: e.Token},
		Stmts:  []Stmt{&LocalDecl{base: base{NID: l.next(), Token: e.Token}, Name: temp, Type: leftType, IsVal: true, Init: l.lowerExpr(e.Left)}},
		Result: ternary,
		Type:   t,
	}
}

// lowerSafeCallExpr implements "a?.m(x)" -> "let t = a; if (t != null)
// t.m(x) else null".
func (l *Lowerer) lowerSafeCallExpr(e *ast.SafeCallExpr) Expr {
	t := l.typeOf(e)
	targetType := l.typeOf(e.Target)
	temp := l.nextTemp("safe")
	ref := func() *Identifier { return &Identifier{base: base{NID: l.next(), Token: e.Token}, Name: temp, Type: targetType} }
	cond := &Binary{base: base{NID: l.next(), Token: e.Token}, Op: OpNotEq, Left: ref(), Right: &Literal{base: base{NID: l.next(), Token: e.Token}, Kind: NullLiteral}, Type: types.TBoolean}
	ternary := l.lowerTernary(cond, l.lowerSafeMember(ref(), e.Member, t), &Literal{base: base{NID: l.next(), Token: e.Token}, Kind: NullLiteral, Type: t}, t, e.Token)
	return &BlockExpr{
		base:   base{NID: l.next(), Token: e.Token},
		Stmts:  []Stmt{&LocalDecl{base: base{NID: l.next(), Token: e.Token}, Name: temp, Type: targetType, IsVal: true, Init: l.lowerExpr(e.Target)}},
		Result: ternary,
		Type:   t,
	}
}

// lowerSafeMember rebuilds the member access/call named by member
// (written without its own target in source, since `?.` supplies one)
// against the already-null-checked temp reference target.
func (l *Lowerer) lowerSafeMember(target *Identifier, member ast.Expression, t types.Type) Expr {
	switch m := member.(type) {
	case *ast.Identifier:
		return &MemberAccess{base: base{NID: l.next(), Token: m.Token}, Target: target, Name: m.Name, Type: t}
	case *ast.CallExpr:
		name := ""
		if id, ok := m.Callee.(*ast.Identifier); ok {
			name = id.Name
		}
		args := make([]Expr, 0, len(m.Positional))
		for _, a := range m.Positional {
			args = append(args, l.lowerExpr(a))
		}
		return &Call{base: base{NID: l.next(), Token: m.Token}, Callee: &MemberAccess{base: base{NID: l.next(), Token: m.Token}, Target: target, Name: name}, Args: args, Type: t}
	default:
		l.invariant(member.GetToken(), "unsupported safe-call member shape")
		return nil
	}
}

// lowerErrorPropagationExpr implements the postfix `expr?`. A proper
// Ok(v)/Err(e) case match is approximated as an is-Err early return plus
// a direct success-payload read, since hir.When's branches are condition
// expressions rather than binding patterns and can't destructure a
// case's payload by themselves.
func (l *Lowerer) lowerErrorPropagationExpr(e *ast.ErrorPropagationExpr) Expr {
	t := l.typeOf(e)
	operandType := l.typeOf(e.Operand)
	temp := l.nextTemp("try")
	ref := func() *Identifier { return &Identifier{base: base{NID: l.next(), Token: e.Token}, Name: temp, Type: operandType} }
	isErr := &TypeTest{base: base{NID: l.next(), Token: e.Token}, Kind: IsTest, Operand: ref(), Target: types.Class{QualifiedName: "Err"}, Type: types.TBoolean}
	earlyReturn := &If{
		base: base{NID: l.next(), Token: e.Token}, Cond: isErr,
		Then: &Block{base: base{NID: l.next(), Token: e.Token}, Stmts: []Stmt{&Return{base: base{NID: l.next(), Token: e.Token}, Value: ref()}}},
	}
	return &BlockExpr{
		base: base{NID: l.next(), Token: e.Token},
		Stmts: []Stmt{
			&LocalDecl{base: base{NID: l.next(), Token: e.Token}, Name: temp, Type: operandType, IsVal: true, Init: l.lowerExpr(e.Operand)},
			earlyReturn,
		},
		Result: &MemberAccess{base: base{NID: l.next(), Token: e.Token}, Target: ref(), Name: "value", Type: t},
		Type:   t,
	}
}

// lowerIndexGet implements `a[i]` -> IndexGet on a built-in indexable
// type, or Call(a.get(i)) otherwise.
func (l *Lowerer) lowerIndexGet(i *ast.IndexExpr) Expr {
	t := l.typeOf(i)
	targetType := l.typeOf(i.Target)
	if isBuiltinOperand(targetType) {
		return &IndexGet{base: base{NID: l.next(), Token: i.Token}, Target: l.lowerExpr(i.Target), Index: l.lowerExpr(i.Index), Type: t}
	}
	return &Call{
		base:   base{NID: l.next(), Token: i.Token},
		Callee: &MemberAccess{base: base{NID: l.next(), Token: i.Token}, Target: l.lowerExpr(i.Target), Name: "get"},
		Args:   []Expr{l.lowerExpr(i.Index)},
		Type:   t,
	}
}

func (l *Lowerer) lowerTypeTestExpr(t *ast.TypeTestExpr) Expr {
	var kind TestKind
	switch t.Kind {
	case ast.IsTest:
		kind = IsTest
	case ast.NotIsTest:
		kind = NotIsTest
	case ast.AsCast:
		kind = AsCast
	case ast.AsSafeCast:
		kind = AsSafeCast
	}
	return &TypeTest{base: base{NID: l.next(), Token: t.Token}, Kind: kind, Operand: l.lowerExpr(t.Operand), Target: l.typeOfRef(t.Type), Type: l.typeOf(t)}
}

// lowerInExpr implements `value in iterable` on a built-in range/
// collection directly; a non-builtin iterable instead lowers to
// Call(iterable.contains(value)), optionally negated.
func (l *Lowerer) lowerInExpr(i *ast.InExpr) Expr {
	iterableType := l.typeOf(i.Iterable)
	var result Expr
	if isBuiltinOperand(iterableType) {
		result = &In{base: base{NID: l.next(), Token: i.Token}, Value: l.lowerExpr(i.Value), Iterable: l.lowerExpr(i.Iterable), Type: types.TBoolean}
	} else {
		result = &Call{
			base:   base{NID: l.next(), Token: i.Token},
			Callee: &MemberAccess{base: base{NID: l.next(), Token: i.Token}, Target: l.lowerExpr(i.Iterable), Name: "contains"},
			Args:   []Expr{l.lowerExpr(i.Value)},
			Type:   types.TBoolean,
		}
	}
	if i.Negated {
		return &Unary{base: base{NID: l.next(), Token: i.Token}, Op: OpNot, Operand: result, Type: types.TBoolean}
	}
	return result
}

// lowerUseExpr implements "use (r) { body }" -> "try { body } finally {
// r.close() }", binding the resource under the lambda's own parameter
// name so the body sees the same name it was written with.
func (l *Lowerer) lowerUseExpr(u *ast.UseExpr) Expr {
	t := l.typeOf(u)
	resourceType := l.typeOf(u.Resource)
	resName := l.nextTemp("res")
	if len(u.Body.Params) > 0 {
		resName = u.Body.Params[0].Name
	}
	resultTemp := l.nextTemp("use")
	body := l.lowerBlockAsValue(u.Body.Body, resultTemp, t)
	closeCall := &ExprStmt{base: base{NID: l.next(), Token: u.Token}, Expr: &Call{
		base:   base{NID: l.next(), Token: u.Token},
		Callee: &MemberAccess{base: base{NID: l.next(), Token: u.Token}, Target: &Identifier{base: base{NID: l.next(), Token: u.Token}, Name: resName, Type: resourceType}, Name: "close"},
		Type:   types.TUnit,
	}}
	return &BlockExpr{
		base: base{NID: l.next(), Token: u.Token},
		Stmts: []Stmt{
			&LocalDecl{base: base{NID: l.next(), Token: u.Token}, Name: resName, Type: resourceType, IsVal: true, Init: l.lowerExpr(u.Resource)},
			&LocalDecl{base: base{NID: l.next(), Token: u.Token}, Name: resultTemp, Type: t, IsVal: false},
			&Try{base: base{NID: l.next(), Token: u.Token}, Body: body, Finally: &Block{base: base{NID: l.next(), Token: u.Token}, Stmts: []Stmt{closeCall}}},
		},
		Result: &Identifier{base: base{NID: l.next(), Token: u.Token}, Name: resultTemp, Type: t},
		Type:   t,
	}
}

// lowerBlockAsValue lowers b like lowerBlock, except a trailing
// ExpressionStatement becomes an assignment into resultTemp instead of a
// plain ExprStmt, giving a block its value the same way an expression
// body's last statement would.
func (l *Lowerer) lowerBlockAsValue(b *ast.BlockStatement, resultTemp string, t types.Type) *Block {
	out := &Block{base: base{NID: l.next(), Token: b.Token}}
	for i, s := range b.Stmts {
		if i == len(b.Stmts)-1 {
			if es, ok := s.(*ast.ExpressionStatement); ok {
				out.Stmts = append(out.Stmts, &ExprStmt{base: base{NID: l.next(), Token: es.Token}, Expr: &Assign{
					base:   base{NID: l.next(), Token: es.Token},
					Target: &Identifier{base: base{NID: l.next(), Token: es.Token}, Name: resultTemp, Type: t},
					Value:  l.lowerExpr(es.Expr), Type: t,
				}})
				continue
			}
		}
		out.Stmts = append(out.Stmts, l.lowerStmts(s)...)
	}
	return out
}
