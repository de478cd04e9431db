package mir

import (
	"sort"

	"github.com/novalang/novac/internal/hir"
)

// freeVarWalker collects every Identifier a lambda body reads or writes
// that isn't bound by one of the lambda's own parameters or locals —
// its free variables, the set a closure over the lambda must capture.
// Grounded on a bytecode compiler's resolveUpvalue walk: there, an
// unresolved name climbs the enclosing-function chain one frame at a
// time, marking the first enclosing local that resolves it IsCaptured;
// here, the walk instead runs once per lambda body ahead of lowering and
// produces a plain name set, since this package builds real blocks
// rather than patching an upvalue index table as it goes.
type freeVarWalker struct {
	bound map[string]bool
	free  map[string]bool
}

func newFreeVarWalker(params []*hir.Parameter) *freeVarWalker {
	w := &freeVarWalker{bound: map[string]bool{}, free: map[string]bool{}}
	for _, p := range params {
		w.bound[p.Name] = true
	}
	return w
}

// FreeVariables returns the names a lambda's body reads or assigns that
// its own parameter list and local declarations don't bind, sorted by
// name so the capture order is deterministic.
func FreeVariables(lambda *hir.Lambda) []string {
	w := newFreeVarWalker(lambda.Params)
	w.walkBlock(lambda.Body)
	names := make([]string, 0, len(w.free))
	for n := range w.free {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (w *freeVarWalker) walkBlock(b *hir.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		w.walkStmt(s)
	}
}

func (w *freeVarWalker) walkStmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.LocalDecl:
		if st.Init != nil {
			w.walkExpr(st.Init)
		}
		w.bound[st.Name] = true
	case *hir.ExprStmt:
		w.walkExpr(st.Expr)
	case *hir.Return:
		if st.Value != nil {
			w.walkExpr(st.Value)
		}
	case *hir.If:
		w.walkExpr(st.Cond)
		w.withShadow(func() { w.walkBlock(st.Then) })
		w.withShadow(func() { w.walkBlock(st.Else) })
	case *hir.While:
		w.walkExpr(st.Cond)
		w.withShadow(func() { w.walkBlock(st.Body) })
	case *hir.DoWhile:
		w.withShadow(func() { w.walkBlock(st.Body) })
		w.walkExpr(st.Cond)
	case *hir.For:
		w.walkExpr(st.Iter)
		w.withShadow(func() {
			w.bound[st.VarName] = true
			w.walkBlock(st.Body)
		})
	case *hir.Try:
		w.withShadow(func() { w.walkBlock(st.Body) })
		for _, c := range st.Catches {
			w.withShadow(func() {
				w.bound[c.Name] = true
				w.walkBlock(c.Body)
			})
		}
		if st.Finally != nil {
			w.withShadow(func() { w.walkBlock(st.Finally) })
		}
	case *hir.Throw:
		w.walkExpr(st.Value)
	case *hir.Break, *hir.Continue:
		// no children
	}
}

// withShadow runs fn against a copy of the current bound set so names
// declared inside a nested block (a loop's induction variable, a
// catch's bound exception) don't leak back out and mask a sibling
// block's free-variable reads of the same source name.
func (w *freeVarWalker) withShadow(fn func()) {
	saved := make(map[string]bool, len(w.bound))
	for k, v := range w.bound {
		saved[k] = v
	}
	fn()
	w.bound = saved
}

func (w *freeVarWalker) walkExpr(e hir.Expr) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *hir.Identifier:
		if !w.bound[ex.Name] {
			w.free[ex.Name] = true
		}
	case *hir.Assign:
		if id, ok := ex.Target.(*hir.Identifier); ok && !w.bound[id.Name] {
			w.free[id.Name] = true
		}
		w.walkExpr(ex.Value)
	case *hir.Call:
		w.walkExpr(ex.Callee)
		for _, a := range ex.Args {
			w.walkExpr(a)
		}
	case *hir.Binary:
		w.walkExpr(ex.Left)
		w.walkExpr(ex.Right)
	case *hir.Unary:
		w.walkExpr(ex.Operand)
	case *hir.MemberAccess:
		w.walkExpr(ex.Target)
	case *hir.IndexGet:
		w.walkExpr(ex.Target)
		w.walkExpr(ex.Index)
	case *hir.IndexSet:
		w.walkExpr(ex.Target)
		w.walkExpr(ex.Index)
		w.walkExpr(ex.Value)
	case *hir.NotNullAssert:
		w.walkExpr(ex.Operand)
	case *hir.TypeTest:
		w.walkExpr(ex.Operand)
	case *hir.In:
		w.walkExpr(ex.Value)
		w.walkExpr(ex.Iterable)
	case *hir.BlockExpr:
		w.withShadow(func() {
			for _, s := range ex.Stmts {
				w.walkStmt(s)
			}
			w.walkExpr(ex.Result)
		})
	case *hir.When:
		if ex.Subject != nil {
			w.walkExpr(ex.Subject)
		}
		for _, br := range ex.Branches {
			for _, c := range br.Conditions {
				w.walkExpr(c)
			}
			w.walkExpr(br.Result)
		}
	case *hir.CollectionLiteral:
		for _, el := range ex.Elements {
			w.walkExpr(el)
		}
		for _, v := range ex.Values {
			w.walkExpr(v)
		}
	case *hir.Lambda:
		// A nested lambda's own free variables that aren't bound by
		// its own parameters flow through to this one too — transitive
		// capture, the deeply-nested-closures case.
		inner := FreeVariables(ex)
		for _, n := range inner {
			if !w.bound[n] {
				w.free[n] = true
			}
		}
	}
}

// computeCaptures finds which of params/body's own parameters and
// locals are captured by reference by some lambda nested anywhere in
// body (directly, or transitively through an intermediate closure) —
// the set Builder needs to mark LocalSlot.Captured for before lowering
// a single statement of the body, since a captured slot's reads/writes
// take the box-indirected path from the very first assignment, not only
// from the point a nested lambda is created. Used both for a top-level
// hir.Function's body and for a hir.Lambda's own body (a lambda nested
// inside another lambda has exactly the same capture-analysis shape).
func computeCaptures(params []*hir.Parameter, body *hir.Block) map[string]bool {
	declared := map[string]bool{}
	for _, p := range params {
		declared[p.Name] = true
	}
	collectDeclaredNames(body, declared)

	captured := map[string]bool{}
	forEachLambda(body, func(lam *hir.Lambda) {
		for _, n := range FreeVariables(lam) {
			if declared[n] {
				captured[n] = true
			}
		}
	})
	return captured
}

func collectDeclaredNames(b *hir.Block, out map[string]bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		collectDeclaredNamesStmt(s, out)
	}
}

func collectDeclaredNamesStmt(s hir.Stmt, out map[string]bool) {
	switch st := s.(type) {
	case *hir.LocalDecl:
		out[st.Name] = true
		collectDeclaredNamesExpr(st.Init, out)
	case *hir.ExprStmt:
		collectDeclaredNamesExpr(st.Expr, out)
	case *hir.Return:
		collectDeclaredNamesExpr(st.Value, out)
	case *hir.Throw:
		collectDeclaredNamesExpr(st.Value, out)
	case *hir.If:
		collectDeclaredNamesExpr(st.Cond, out)
		collectDeclaredNames(st.Then, out)
		collectDeclaredNames(st.Else, out)
	case *hir.While:
		collectDeclaredNamesExpr(st.Cond, out)
		collectDeclaredNames(st.Body, out)
	case *hir.DoWhile:
		collectDeclaredNames(st.Body, out)
		collectDeclaredNamesExpr(st.Cond, out)
	case *hir.For:
		collectDeclaredNamesExpr(st.Iter, out)
		out[st.VarName] = true
		collectDeclaredNames(st.Body, out)
	case *hir.Try:
		collectDeclaredNames(st.Body, out)
		for _, c := range st.Catches {
			out[c.Name] = true
			collectDeclaredNames(c.Body, out)
		}
		collectDeclaredNames(st.Finally, out)
	}
}

func collectDeclaredNamesExpr(e hir.Expr, out map[string]bool) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *hir.Assign:
		collectDeclaredNamesExpr(ex.Value, out)
	case *hir.Call:
		collectDeclaredNamesExpr(ex.Callee, out)
		for _, a := range ex.Args {
			collectDeclaredNamesExpr(a, out)
		}
	case *hir.Binary:
		collectDeclaredNamesExpr(ex.Left, out)
		collectDeclaredNamesExpr(ex.Right, out)
	case *hir.Unary:
		collectDeclaredNamesExpr(ex.Operand, out)
	case *hir.MemberAccess:
		collectDeclaredNamesExpr(ex.Target, out)
	case *hir.IndexGet:
		collectDeclaredNamesExpr(ex.Target, out)
		collectDeclaredNamesExpr(ex.Index, out)
	case *hir.IndexSet:
		collectDeclaredNamesExpr(ex.Target, out)
		collectDeclaredNamesExpr(ex.Index, out)
		collectDeclaredNamesExpr(ex.Value, out)
	case *hir.NotNullAssert:
		collectDeclaredNamesExpr(ex.Operand, out)
	case *hir.TypeTest:
		collectDeclaredNamesExpr(ex.Operand, out)
	case *hir.In:
		collectDeclaredNamesExpr(ex.Value, out)
		collectDeclaredNamesExpr(ex.Iterable, out)
	case *hir.BlockExpr:
		for _, s := range ex.Stmts {
			collectDeclaredNamesStmt(s, out)
		}
		collectDeclaredNamesExpr(ex.Result, out)
	case *hir.When:
		collectDeclaredNamesExpr(ex.Subject, out)
		for _, br := range ex.Branches {
			for _, c := range br.Conditions {
				collectDeclaredNamesExpr(c, out)
			}
			collectDeclaredNamesExpr(br.Result, out)
		}
	case *hir.CollectionLiteral:
		for _, el := range ex.Elements {
			collectDeclaredNamesExpr(el, out)
		}
		for _, v := range ex.Values {
			collectDeclaredNamesExpr(v, out)
		}
	case *hir.Lambda:
		for _, p := range ex.Params {
			out[p.Name] = true
		}
		collectDeclaredNames(ex.Body, out)
	}
}

func forEachLambda(b *hir.Block, visit func(*hir.Lambda)) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		forEachLambdaStmt(s, visit)
	}
}

func forEachLambdaStmt(s hir.Stmt, visit func(*hir.Lambda)) {
	switch st := s.(type) {
	case *hir.LocalDecl:
		forEachLambdaExpr(st.Init, visit)
	case *hir.ExprStmt:
		forEachLambdaExpr(st.Expr, visit)
	case *hir.Return:
		forEachLambdaExpr(st.Value, visit)
	case *hir.Throw:
		forEachLambdaExpr(st.Value, visit)
	case *hir.If:
		forEachLambdaExpr(st.Cond, visit)
		forEachLambda(st.Then, visit)
		forEachLambda(st.Else, visit)
	case *hir.While:
		forEachLambdaExpr(st.Cond, visit)
		forEachLambda(st.Body, visit)
	case *hir.DoWhile:
		forEachLambda(st.Body, visit)
		forEachLambdaExpr(st.Cond, visit)
	case *hir.For:
		forEachLambdaExpr(st.Iter, visit)
		forEachLambda(st.Body, visit)
	case *hir.Try:
		forEachLambda(st.Body, visit)
		for _, c := range st.Catches {
			forEachLambda(c.Body, visit)
		}
		forEachLambda(st.Finally, visit)
	}
}

func forEachLambdaExpr(e hir.Expr, visit func(*hir.Lambda)) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *hir.Assign:
		forEachLambdaExpr(ex.Value, visit)
	case *hir.Call:
		forEachLambdaExpr(ex.Callee, visit)
		for _, a := range ex.Args {
			forEachLambdaExpr(a, visit)
		}
	case *hir.Binary:
		forEachLambdaExpr(ex.Left, visit)
		forEachLambdaExpr(ex.Right, visit)
	case *hir.Unary:
		forEachLambdaExpr(ex.Operand, visit)
	case *hir.MemberAccess:
		forEachLambdaExpr(ex.Target, visit)
	case *hir.IndexGet:
		forEachLambdaExpr(ex.Target, visit)
		forEachLambdaExpr(ex.Index, visit)
	case *hir.IndexSet:
		forEachLambdaExpr(ex.Target, visit)
		forEachLambdaExpr(ex.Index, visit)
		forEachLambdaExpr(ex.Value, visit)
	case *hir.NotNullAssert:
		forEachLambdaExpr(ex.Operand, visit)
	case *hir.TypeTest:
		forEachLambdaExpr(ex.Operand, visit)
	case *hir.In:
		forEachLambdaExpr(ex.Value, visit)
		forEachLambdaExpr(ex.Iterable, visit)
	case *hir.BlockExpr:
		for _, s := range ex.Stmts {
			forEachLambdaStmt(s, visit)
		}
		forEachLambdaExpr(ex.Result, visit)
	case *hir.When:
		forEachLambdaExpr(ex.Subject, visit)
		for _, br := range ex.Branches {
			for _, c := range br.Conditions {
				forEachLambdaExpr(c, visit)
			}
			forEachLambdaExpr(br.Result, visit)
		}
	case *hir.CollectionLiteral:
		for _, el := range ex.Elements {
			forEachLambdaExpr(el, visit)
		}
		for _, v := range ex.Values {
			forEachLambdaExpr(v, visit)
		}
	case *hir.Lambda:
		visit(ex)
		forEachLambda(ex.Body, visit)
	}
}
