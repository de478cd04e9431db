package mir

import "github.com/novalang/novac/internal/hir"

func (fb *funcBuilder) lowerExpr(e hir.Expr) Operand {
	switch ex := e.(type) {
	case *hir.Identifier:
		return fb.lowerIdentifier(ex)
	case *hir.Literal:
		return ConstOperand{Value: ex.Value, Type: ex.Type}
	case *hir.Lambda:
		return fb.lowerLambda(ex)
	case *hir.Call:
		return fb.lowerCall(ex)
	case *hir.Binary:
		if ex.Op == hir.OpAnd || ex.Op == hir.OpOr {
			return fb.lowerShortCircuit(ex)
		}
		left := fb.lowerExpr(ex.Left)
		right := fb.lowerExpr(ex.Right)
		dst := fb.b.FreshReg()
		fb.b.Emit(&BinaryOpInstr{Dst: dst, Op: BinOp(ex.Op), Left: left, Right: right, Type: ex.Type})
		return RegOperand{Reg: dst, Type: ex.Type}
	case *hir.Unary:
		v := fb.lowerExpr(ex.Operand)
		dst := fb.b.FreshReg()
		fb.b.Emit(&UnaryOpInstr{Dst: dst, Op: UnOp(ex.Op), Operand: v, Type: ex.Type})
		return RegOperand{Reg: dst, Type: ex.Type}
	case *hir.Assign:
		return fb.lowerAssign(ex)
	case *hir.BlockExpr:
		return fb.lowerBlockExpr(ex)
	case *hir.MemberAccess:
		obj := fb.lowerExpr(ex.Target)
		dst := fb.b.FreshReg()
		fb.b.Emit(&LoadInstr{Dst: dst, Kind: LoadField, Object: obj, Name: ex.Name, Type: ex.Type})
		return RegOperand{Reg: dst, Type: ex.Type}
	case *hir.IndexGet:
		obj := fb.lowerExpr(ex.Target)
		idx := fb.lowerExpr(ex.Index)
		dst := fb.b.FreshReg()
		fb.b.Emit(&LoadInstr{Dst: dst, Kind: LoadIndex, Object: obj, Index: idx, Type: ex.Type})
		return RegOperand{Reg: dst, Type: ex.Type}
	case *hir.IndexSet:
		obj := fb.lowerExpr(ex.Target)
		idx := fb.lowerExpr(ex.Index)
		val := fb.lowerExpr(ex.Value)
		fb.b.Emit(&StoreInstr{Kind: LoadIndex, Object: obj, Index: idx, Value: val})
		return val
	case *hir.NotNullAssert:
		v := fb.lowerExpr(ex.Operand)
		dst := fb.b.FreshReg()
		fb.b.Emit(&TypeCastInstr{Dst: dst, Operand: v, Target: ex.Type, Safe: false})
		return RegOperand{Reg: dst, Type: ex.Type}
	case *hir.This:
		slot, ok := fb.b.Resolve("this")
		if !ok {
			fb.l.invariant(ex.Span(), "this referenced outside a method body")
		}
		return fb.readSlot(slot)
	case *hir.Super:
		slot, ok := fb.b.Resolve("this")
		if !ok {
			fb.l.invariant(ex.Span(), "super referenced outside a method body")
		}
		return fb.readSlot(slot)
	case *hir.TypeTest:
		return fb.lowerTypeTest(ex)
	case *hir.In:
		v := fb.lowerExpr(ex.Value)
		it := fb.lowerExpr(ex.Iterable)
		dst := fb.b.FreshReg()
		fb.b.Emit(&CallInstr{Dst: dst, Name: "contains", Args: []Operand{it, v}, Type: ex.Type})
		return RegOperand{Reg: dst, Type: ex.Type}
	case *hir.When:
		return fb.lowerWhen(ex)
	case *hir.CollectionLiteral:
		return fb.lowerCollectionLiteral(ex)
	}
	fb.l.invariant(e.Span(), "unhandled expression kind reached MIR lowering")
	return nil
}

// lowerShortCircuit lowers `&&`/`||`, which must not evaluate their right
// operand when the left already determines the result. Built the same
// way hir's lowerTernary builds a value-producing conditional: a result slot
// written from whichever side actually runs, read back at the join.
func (fb *funcBuilder) lowerShortCircuit(ex *hir.Binary) Operand {
	result := fb.b.FreshLocal("$logical", ex.Type, false)
	left := fb.lowerExpr(ex.Left)
	fb.writeSlot(result, left)

	rhsID := fb.b.NewBlock("logical.rhs")
	joinID := fb.b.NewBlock("logical.join")
	if ex.Op == hir.OpAnd {
		fb.b.Terminate(BranchTerm{Cond: left, Then: rhsID, Else: joinID})
	} else {
		fb.b.Terminate(BranchTerm{Cond: left, Then: joinID, Else: rhsID})
	}

	fb.b.SetCurrent(rhsID)
	right := fb.lowerExpr(ex.Right)
	fb.writeSlot(result, right)
	if !fb.terminated() {
		fb.b.Terminate(JumpTerm{Target: joinID})
	}

	fb.b.SetCurrent(joinID)
	return fb.readSlot(result)
}

func (fb *funcBuilder) lowerIdentifier(id *hir.Identifier) Operand {
	if slot, ok := fb.b.Resolve(id.Name); ok {
		return fb.readSlot(slot)
	}
	// Not a local: a bare reference to a top-level function or enum
	// case, resolved by name at the call site / collection-build site
	// that actually consumes it rather than here.
	return ConstOperand{Value: id.Name, Type: id.Type}
}

func (fb *funcBuilder) lowerAssign(a *hir.Assign) Operand {
	val := fb.lowerExpr(a.Value)
	switch target := a.Target.(type) {
	case *hir.Identifier:
		slot, ok := fb.b.Resolve(target.Name)
		if !ok {
			fb.l.invariant(a.Span(), "assignment to unresolved name "+target.Name)
		}
		fb.writeSlot(slot, val)
	case *hir.MemberAccess:
		obj := fb.lowerExpr(target.Target)
		fb.b.Emit(&StoreInstr{Kind: LoadField, Object: obj, Name: target.Name, Value: val})
	default:
		fb.l.invariant(a.Span(), "assignment to an unresolved lvalue shape")
	}
	return val
}

func (fb *funcBuilder) lowerBlockExpr(be *hir.BlockExpr) Operand {
	fb.b.PushScope()
	defer fb.b.PopScope()
	for _, s := range be.Stmts {
		if fb.terminated() {
			return ConstOperand{Value: nil, Type: be.Type}
		}
		fb.lowerStmt(s)
	}
	return fb.lowerExpr(be.Result)
}

func (fb *funcBuilder) lowerTypeTest(t *hir.TypeTest) Operand {
	v := fb.lowerExpr(t.Operand)
	dst := fb.b.FreshReg()
	switch t.Kind {
	case hir.IsTest:
		fb.b.Emit(&TypeCheckInstr{Dst: dst, Operand: v, Target: t.Target})
	case hir.NotIsTest:
		fb.b.Emit(&TypeCheckInstr{Dst: dst, Negate: true, Operand: v, Target: t.Target})
	case hir.AsCast:
		fb.b.Emit(&TypeCastInstr{Dst: dst, Operand: v, Target: t.Target, Safe: false})
	case hir.AsSafeCast:
		fb.b.Emit(&TypeCastInstr{Dst: dst, Operand: v, Target: t.Target, Safe: true})
	}
	return RegOperand{Reg: dst, Type: t.Type}
}

// lowerWhen lowers a branch-chain `when` (hir.When's branches are
// arbitrary boolean conditions, not constant-equality arms — see
// SwitchTerm's doc comment) to a cascade of BranchTerm blocks, each
// testing one branch's Conditions in order and joining on a shared
// result slot exactly the way lowerTernary's HIR-level desugaring
// already does for `if`-as-expression.
func (fb *funcBuilder) lowerWhen(w *hir.When) Operand {
	join := fb.b.NewBlock("when.join")
	result := fb.b.FreshLocal("$when", w.Type, false)

	var subject Operand
	if w.Subject != nil {
		subject = fb.lowerExpr(w.Subject)
	}

	for _, br := range w.Branches {
		if len(br.Conditions) == 0 {
			fb.writeSlot(result, fb.lowerExpr(br.Result))
			if !fb.terminated() {
				fb.b.Terminate(JumpTerm{Target: join})
			}
			fb.b.SetCurrent(join)
			return fb.readSlot(result)
		}
		match := fb.b.NewBlock("when.match")
		next := fb.b.NewBlock("when.next")
		for ci, c := range br.Conditions {
			test := fb.lowerExpr(c)
			if w.Subject != nil {
				dst := fb.b.FreshReg()
				fb.b.Emit(&BinaryOpInstr{Dst: dst, Op: OpEq, Left: subject, Right: test})
				test = RegOperand{Reg: dst}
			}
			if ci == len(br.Conditions)-1 {
				fb.b.Terminate(BranchTerm{Cond: test, Then: match, Else: next})
			} else {
				more := fb.b.NewBlock("when.cond")
				fb.b.Terminate(BranchTerm{Cond: test, Then: match, Else: more})
				fb.b.SetCurrent(more)
			}
		}

		fb.b.SetCurrent(match)
		fb.writeSlot(result, fb.lowerExpr(br.Result))
		if !fb.terminated() {
			fb.b.Terminate(JumpTerm{Target: join})
		}

		fb.b.SetCurrent(next)
	}
	// No else branch matched: fall through with result left at its
	// zero value, mirroring a non-exhaustive `when` reaching the end
	// without a match (checkExhaustiveness already warned upstream).
	fb.b.Terminate(JumpTerm{Target: join})
	fb.b.SetCurrent(join)
	return fb.readSlot(result)
}

func (fb *funcBuilder) lowerCollectionLiteral(c *hir.CollectionLiteral) Operand {
	elems := make([]Operand, len(c.Elements))
	for i, e := range c.Elements {
		elems[i] = fb.lowerExpr(e)
	}
	var vals []Operand
	if c.Kind == hir.MapColl {
		vals = make([]Operand, len(c.Values))
		for i, v := range c.Values {
			vals[i] = fb.lowerExpr(v)
		}
	}
	dst := fb.b.FreshReg()
	fb.b.Emit(&MakeCollectionInstr{Dst: dst, Kind: CollKind(c.Kind), Elements: elems, Values: vals, Type: c.Type})
	return RegOperand{Reg: dst, Type: c.Type}
}

// lowerCall lowers a direct call (ResolvedTarget known, statically
// dispatched) or a dynamic call (by Name + arity against the runtime's
// cached member table) and its argument list. Args has already been
// reordered to positional order and had its spread/default handling
// resolved by HIR lowering, so MIR only ever needs to evaluate Args left
// to right.
func (fb *funcBuilder) lowerCall(c *hir.Call) Operand {
	args := make([]Operand, len(c.Args))
	for i, a := range c.Args {
		args[i] = fb.lowerExpr(a)
	}
	dst := fb.b.FreshReg()
	if c.ResolvedTarget != nil {
		target := fb.l.declareFunction(c.ResolvedTarget)
		fb.b.Emit(&CallInstr{Dst: dst, Target: target, Args: args, Type: c.Type})
		return RegOperand{Reg: dst, Type: c.Type}
	}
	name, ok := calleeName(c.Callee)
	if !ok {
		fb.l.invariant(c.Span(), "dynamic call with no resolvable member name")
	}
	if ma, ok := c.Callee.(*hir.MemberAccess); ok {
		recv := fb.lowerExpr(ma.Target)
		args = append([]Operand{recv}, args...)
	}
	fb.b.Emit(&CallInstr{Dst: dst, Name: name, Args: args, Type: c.Type})
	return RegOperand{Reg: dst, Type: c.Type}
}

func calleeName(e hir.Expr) (string, bool) {
	switch c := e.(type) {
	case *hir.Identifier:
		return c.Name, true
	case *hir.MemberAccess:
		return c.Name, true
	}
	return "", false
}

// lowerLambda builds the lambda's body as its own MirFunction, realizes
// its free-variable set (computed once, see FreeVariables) as shared
// *LocalSlot pointers with the enclosing function, and emits
// MakeClosureInstr binding the two together. A captured name always
// already has LocalSlot.Captured set by computeCaptures before this
// function's own body started lowering, so BoxRefInstr against it here
// and inside the lambda body both resolve to the same cell.
func (fb *funcBuilder) lowerLambda(lam *hir.Lambda) Operand {
	freeNames := FreeVariables(lam)
	var captures []*LocalSlot
	var captureOps []Operand
	for _, name := range freeNames {
		slot, ok := fb.b.Resolve(name)
		if !ok {
			continue // a top-level function/enum-case reference, not a captured local
		}
		slot.Captured = true
		captures = append(captures, slot)
		ptr := fb.b.FreshReg()
		fb.b.Emit(&BoxRefInstr{Dst: ptr, Slot: slot})
		captureOps = append(captureOps, RegOperand{Reg: ptr})
	}

	params := make([]*LocalSlot, len(lam.Params))
	for i, p := range lam.Params {
		params[i] = NewLocalSlot(p.Name, p.Type, false)
	}
	lamB := NewBuilder("lambda", params, nil)
	for _, slot := range captures {
		lamB.Declare(slot)
	}
	lamFB := &funcBuilder{l: fb.l, b: lamB, capturedNames: computeCaptures(lam.Params, lam.Body)}
	lamFB.lowerBlock(lam.Body)
	if lamB.cur.Term == nil {
		lamB.Terminate(ReturnTerm{})
	}
	lamFn := lamB.Finish()
	lamFn.Captures = captures
	fb.l.prog.Functions = append(fb.l.prog.Functions, lamFn)

	dst := fb.b.FreshReg()
	fb.b.Emit(&MakeClosureInstr{Dst: dst, Fn: lamFn, Captures: captureOps, Type: lam.Type})
	return RegOperand{Reg: dst, Type: lam.Type}
}
