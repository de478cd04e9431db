package mir

import "github.com/novalang/novac/internal/hir"

// terminated reports whether the block the builder is currently
// appending to already has its one terminator set — lowering a
// statement after a Return/Throw/Break/Continue in the same hir.Block
// produces unreachable code, and this lets lowerBlock simply stop
// instead of appending past a terminator.
func (fb *funcBuilder) terminated() bool {
	return fb.b.cur.Term != nil
}

func (fb *funcBuilder) lowerBlock(blk *hir.Block) {
	if blk == nil {
		return
	}
	for _, s := range blk.Stmts {
		if fb.terminated() {
			return
		}
		fb.lowerStmt(s)
	}
}

func (fb *funcBuilder) lowerStmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.LocalDecl:
		fb.lowerLocalDecl(st)
	case *hir.ExprStmt:
		fb.lowerExpr(st.Expr)
	case *hir.Return:
		fb.b.EmitFinallyCopies()
		var v Operand
		if st.Value != nil {
			v = fb.lowerExpr(st.Value)
		}
		fb.b.Terminate(ReturnTerm{Value: v})
	case *hir.Throw:
		v := fb.lowerExpr(st.Value)
		fb.b.Terminate(ThrowTerm{Value: v})
	case *hir.Break:
		target, ok := fb.b.BreakTarget(st.Label)
		if !ok {
			fb.l.invariant(st.Span(), "break outside a loop")
		}
		fb.b.EmitFinallyCopies()
		fb.b.Terminate(JumpTerm{Target: target})
	case *hir.Continue:
		target, ok := fb.b.ContinueTarget(st.Label)
		if !ok {
			fb.l.invariant(st.Span(), "continue outside a loop")
		}
		fb.b.EmitFinallyCopies()
		fb.b.Terminate(JumpTerm{Target: target})
	case *hir.If:
		fb.lowerIf(st)
	case *hir.While:
		fb.lowerWhile(st)
	case *hir.DoWhile:
		fb.lowerDoWhile(st)
	case *hir.For:
		fb.lowerFor(st)
	case *hir.Try:
		fb.lowerTry(st)
	}
}

func (fb *funcBuilder) lowerLocalDecl(st *hir.LocalDecl) {
	var init Operand
	if st.Init != nil {
		init = fb.lowerExpr(st.Init)
	}
	slot := fb.b.FreshLocal(st.Name, st.Type, st.IsVal)
	if fb.capturedNames[st.Name] {
		slot.Captured = true
	}
	if init != nil {
		fb.writeSlot(slot, init)
	}
}

func (fb *funcBuilder) lowerIf(st *hir.If) {
	cond := fb.lowerExpr(st.Cond)
	thenID := fb.b.NewBlock("if.then")
	joinID := fb.b.NewBlock("if.join")
	elseID := joinID
	if st.Else != nil {
		elseID = fb.b.NewBlock("if.else")
	}
	fb.b.Terminate(BranchTerm{Cond: cond, Then: thenID, Else: elseID})

	fb.b.SetCurrent(thenID)
	fb.b.PushScope()
	fb.lowerBlock(st.Then)
	fb.b.PopScope()
	if !fb.terminated() {
		fb.b.Terminate(JumpTerm{Target: joinID})
	}

	if st.Else != nil {
		fb.b.SetCurrent(elseID)
		fb.b.PushScope()
		fb.lowerBlock(st.Else)
		fb.b.PopScope()
		if !fb.terminated() {
			fb.b.Terminate(JumpTerm{Target: joinID})
		}
	}

	fb.b.SetCurrent(joinID)
}

func (fb *funcBuilder) lowerWhile(st *hir.While) {
	header := fb.b.NewBlock("while.header")
	body := fb.b.NewBlock("while.body")
	exit := fb.b.NewBlock("while.exit")
	fb.b.Terminate(JumpTerm{Target: header})

	fb.b.SetCurrent(header)
	cond := fb.lowerExpr(st.Cond)
	fb.b.Terminate(BranchTerm{Cond: cond, Then: body, Else: exit})

	fb.b.SetCurrent(body)
	fb.b.PushLoop(st.Label, header, exit)
	fb.b.PushScope()
	fb.lowerBlock(st.Body)
	fb.b.PopScope()
	fb.b.PopLoop()
	if !fb.terminated() {
		fb.b.Terminate(JumpTerm{Target: header})
	}

	fb.b.SetCurrent(exit)
}

func (fb *funcBuilder) lowerDoWhile(st *hir.DoWhile) {
	body := fb.b.NewBlock("dowhile.body")
	latch := fb.b.NewBlock("dowhile.latch")
	exit := fb.b.NewBlock("dowhile.exit")
	fb.b.Terminate(JumpTerm{Target: body})

	fb.b.SetCurrent(body)
	fb.b.PushLoop(st.Label, latch, exit)
	fb.b.PushScope()
	fb.lowerBlock(st.Body)
	fb.b.PopScope()
	fb.b.PopLoop()
	if !fb.terminated() {
		fb.b.Terminate(JumpTerm{Target: latch})
	}

	fb.b.SetCurrent(latch)
	cond := fb.lowerExpr(st.Cond)
	fb.b.Terminate(BranchTerm{Cond: cond, Then: body, Else: exit})

	fb.b.SetCurrent(exit)
}

// lowerFor lowers a `for` loop over a collection/range to the
// hasNext/next dispatch pair every iterable in this language exposes,
// rather than special-casing arrays vs ranges vs user Iterable
// implementations at the MIR level — one dynamic-call shape covers all
// three, and a later pass can specialize the array/range cases once a
// type is statically known to be one of them.
func (fb *funcBuilder) lowerFor(st *hir.For) {
	iterSrc := fb.lowerExpr(st.Iter)
	iterReg := fb.b.FreshReg()
	fb.b.Emit(&CallInstr{Dst: iterReg, Name: "iterator", Args: []Operand{iterSrc}})
	iterVal := RegOperand{Reg: iterReg, Type: st.Iter.ExprType()}

	header := fb.b.NewBlock("for.header")
	body := fb.b.NewBlock("for.body")
	latch := fb.b.NewBlock("for.latch")
	exit := fb.b.NewBlock("for.exit")
	fb.b.Terminate(JumpTerm{Target: header})

	fb.b.SetCurrent(header)
	hasNextReg := fb.b.FreshReg()
	fb.b.Emit(&CallInstr{Dst: hasNextReg, Name: "hasNext", Args: []Operand{iterVal}})
	fb.b.Terminate(BranchTerm{Cond: RegOperand{Reg: hasNextReg}, Then: body, Else: exit})

	fb.b.SetCurrent(body)
	fb.b.PushScope()
	nextReg := fb.b.FreshReg()
	fb.b.Emit(&CallInstr{Dst: nextReg, Name: "next", Args: []Operand{iterVal}})
	elemSlot := fb.b.FreshLocal(st.VarName, nil, true)
	if fb.capturedNames[st.VarName] {
		elemSlot.Captured = true
	}
	fb.writeSlot(elemSlot, RegOperand{Reg: nextReg})
	fb.b.PushLoop(st.Label, latch, exit)
	fb.lowerBlock(st.Body)
	fb.b.PopLoop()
	fb.b.PopScope()
	if !fb.terminated() {
		fb.b.Terminate(JumpTerm{Target: latch})
	}

	fb.b.SetCurrent(latch)
	fb.b.Terminate(JumpTerm{Target: header})

	fb.b.SetCurrent(exit)
}

// lowerTry builds the landing-pad block every potentially-throwing
// instruction inside Body implicitly unwinds to, and duplicates Finally
// at each of the region's exits: normal fall-through (here), and
// return/break/continue (via EmitFinallyCopies from lowerStmt). The
// in-flight exception, once control reaches the landing pad, is the
// runtime contract's single convention: it's already stored into
// excSlot before the landing pad block's first instruction runs.
func (fb *funcBuilder) lowerTry(st *hir.Try) {
	landingPad := fb.b.NewBlock("try.landingpad")
	body := fb.b.NewBlock("try.body")
	after := fb.b.NewBlock("try.after")
	fb.b.Terminate(JumpTerm{Target: body})

	finallyEmit := func(b *Builder) {
		if st.Finally != nil {
			fb.lowerBlock(st.Finally)
		}
	}

	fb.b.SetCurrent(body)
	fb.b.PushTry(landingPad, finallyEmit)
	fb.b.PushScope()
	fb.lowerBlock(st.Body)
	fb.b.PopScope()
	bodyFellThrough := !fb.terminated()
	fb.b.PopTry()
	if bodyFellThrough {
		finallyEmit(fb.b)
		fb.b.Terminate(JumpTerm{Target: after})
	}

	fb.b.SetCurrent(landingPad)
	excSlot := fb.b.FreshLocal("$exc", nil, false)
	fb.lowerCatchChain(st.Catches, 0, excSlot, finallyEmit, after)

	fb.b.SetCurrent(after)
}

func (fb *funcBuilder) lowerCatchChain(catches []*hir.CatchClause, i int, excSlot *LocalSlot, finallyEmit func(*Builder), after BlockID) {
	if i >= len(catches) {
		finallyEmit(fb.b)
		if pad, ok := fb.b.InLandingPad(); ok {
			fb.b.Terminate(UnwindTerm{LandingPad: pad})
		} else {
			fb.b.Terminate(ThrowTerm{Value: LocalOperand{Slot: excSlot}})
		}
		return
	}
	c := catches[i]
	matchReg := fb.b.FreshReg()
	fb.b.Emit(&TypeCheckInstr{Dst: matchReg, Operand: LocalOperand{Slot: excSlot}, Target: c.Type})
	handler := fb.b.NewBlock("catch.handler")
	next := fb.b.NewBlock("catch.next")
	fb.b.Terminate(BranchTerm{Cond: RegOperand{Reg: matchReg}, Then: handler, Else: next})

	fb.b.SetCurrent(handler)
	fb.b.PushScope()
	caughtSlot := fb.b.FreshLocal(c.Name, c.Type, true)
	fb.writeSlot(caughtSlot, LocalOperand{Slot: excSlot})
	fb.lowerBlock(c.Body)
	fb.b.PopScope()
	if !fb.terminated() {
		finallyEmit(fb.b)
		fb.b.Terminate(JumpTerm{Target: after})
	}

	fb.b.SetCurrent(next)
	fb.lowerCatchChain(catches, i+1, excSlot, finallyEmit, after)
}
