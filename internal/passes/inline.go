package passes

import "github.com/novalang/novac/internal/hir"

// InlineExpansion replaces a direct call to a function marked `inline`
// with a copy of that function's body, substituting its parameters for
// the call's argument expressions. MaxDepth bounds recursive inlining
// (an inline function calling another inline function) so a cycle of
// mutually `inline`-marked functions can't expand forever.
type InlineExpansion struct {
	MaxDepth int
}

func (p *InlineExpansion) Name() string          { return "inline-expansion" }
func (p *InlineExpansion) Mutates() bool          { return true }
func (p *InlineExpansion) Invalidates() []string  { return []string{"cfg"} }

func (p *InlineExpansion) RunHIR(prog *hir.Program, _ *Cache) (*hir.Program, error) {
	ix := &inliner{maxDepth: p.MaxDepth}
	for _, d := range prog.Decls {
		ix.rewriteDecl(d)
	}
	return prog, nil
}

type inliner struct {
	maxDepth int
}

func (ix *inliner) rewriteDecl(d hir.Decl) {
	switch decl := d.(type) {
	case *hir.Function:
		ix.rewriteFunction(decl, 0)
	case *hir.Class:
		for _, fn := range decl.Functions {
			ix.rewriteFunction(fn, 0)
		}
	case *hir.Enum:
		for _, fn := range decl.Functions {
			ix.rewriteFunction(fn, 0)
		}
	}
}

func (ix *inliner) rewriteFunction(fn *hir.Function, depth int) {
	if fn.Body == nil {
		return
	}
	ix.rewriteBlock(fn.Body, depth)
	for _, o := range fn.Overloads {
		ix.rewriteFunction(o, depth)
	}
}

func (ix *inliner) rewriteBlock(b *hir.Block, depth int) {
	if b == nil {
		return
	}
	for i, s := range b.Stmts {
		b.Stmts[i] = ix.rewriteStmt(s, depth)
	}
}

func (ix *inliner) rewriteStmt(s hir.Stmt, depth int) hir.Stmt {
	switch st := s.(type) {
	case *hir.ExprStmt:
		st.Expr = ix.rewriteExpr(st.Expr, depth)
	case *hir.LocalDecl:
		if st.Init != nil {
			st.Init = ix.rewriteExpr(st.Init, depth)
		}
	case *hir.Return:
		if st.Value != nil {
			st.Value = ix.rewriteExpr(st.Value, depth)
		}
	case *hir.Throw:
		st.Value = ix.rewriteExpr(st.Value, depth)
	case *hir.If:
		st.Cond = ix.rewriteExpr(st.Cond, depth)
		ix.rewriteBlock(st.Then, depth)
		ix.rewriteBlock(st.Else, depth)
	case *hir.While:
		st.Cond = ix.rewriteExpr(st.Cond, depth)
		ix.rewriteBlock(st.Body, depth)
	case *hir.DoWhile:
		ix.rewriteBlock(st.Body, depth)
		st.Cond = ix.rewriteExpr(st.Cond, depth)
	case *hir.For:
		st.Iter = ix.rewriteExpr(st.Iter, depth)
		ix.rewriteBlock(st.Body, depth)
	case *hir.Try:
		ix.rewriteBlock(st.Body, depth)
		for _, c := range st.Catches {
			ix.rewriteBlock(c.Body, depth)
		}
		ix.rewriteBlock(st.Finally, depth)
	}
	return s
}

// rewriteExpr walks e looking for an inlineable *hir.Call, replacing it
// with a BlockExpr that binds each parameter to its argument once (so
// an argument with a side effect still runs exactly once) and yields the
// callee body's Return value.
func (ix *inliner) rewriteExpr(e hir.Expr, depth int) hir.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *hir.Call:
		for i, a := range ex.Args {
			ex.Args[i] = ix.rewriteExpr(a, depth)
		}
		if inlined := ix.tryInline(ex, depth); inlined != nil {
			return inlined
		}
		return ex
	case *hir.Binary:
		ex.Left = ix.rewriteExpr(ex.Left, depth)
		ex.Right = ix.rewriteExpr(ex.Right, depth)
	case *hir.Unary:
		ex.Operand = ix.rewriteExpr(ex.Operand, depth)
	case *hir.Assign:
		ex.Value = ix.rewriteExpr(ex.Value, depth)
	case *hir.MemberAccess:
		ex.Target = ix.rewriteExpr(ex.Target, depth)
	case *hir.IndexGet:
		ex.Target = ix.rewriteExpr(ex.Target, depth)
		ex.Index = ix.rewriteExpr(ex.Index, depth)
	case *hir.IndexSet:
		ex.Target = ix.rewriteExpr(ex.Target, depth)
		ex.Index = ix.rewriteExpr(ex.Index, depth)
		ex.Value = ix.rewriteExpr(ex.Value, depth)
	case *hir.NotNullAssert:
		ex.Operand = ix.rewriteExpr(ex.Operand, depth)
	case *hir.BlockExpr:
		ix.rewriteBlock(&hir.Block{Stmts: ex.Stmts}, depth)
		ex.Result = ix.rewriteExpr(ex.Result, depth)
	case *hir.When:
		if ex.Subject != nil {
			ex.Subject = ix.rewriteExpr(ex.Subject, depth)
		}
		for i := range ex.Branches {
			for j, c := range ex.Branches[i].Conditions {
				ex.Branches[i].Conditions[j] = ix.rewriteExpr(c, depth)
			}
			ex.Branches[i].Result = ix.rewriteExpr(ex.Branches[i].Result, depth)
		}
	case *hir.CollectionLiteral:
		for i, el := range ex.Elements {
			ex.Elements[i] = ix.rewriteExpr(el, depth)
		}
		for i, v := range ex.Values {
			ex.Values[i] = ix.rewriteExpr(v, depth)
		}
	}
	return e
}

// tryInline returns the inlined replacement for call, or nil if call
// isn't a candidate (not a direct call, target not `inline`, body isn't
// the single-statement shape inlining knows how to splice, or the depth
// budget is exhausted).
func (ix *inliner) tryInline(call *hir.Call, depth int) hir.Expr {
	if depth >= ix.maxDepth || call.ResolvedTarget == nil || !call.ResolvedTarget.Inline {
		return nil
	}
	target := call.ResolvedTarget
	if target.Body == nil || len(target.Body.Stmts) != 1 {
		return nil
	}
	ret, ok := target.Body.Stmts[0].(*hir.Return)
	if !ok || ret.Value == nil {
		return nil
	}
	subst := map[string]hir.Expr{}
	for i, p := range target.Params {
		if i < len(call.Args) {
			subst[p.Name] = call.Args[i]
		}
	}
	body := substituteExpr(ret.Value, subst)
	return ix.rewriteExpr(body, depth+1)
}

// substituteExpr returns a copy of e with every *hir.Identifier bound in
// subst replaced by its argument expression. Shallow per node (each
// visited node is copied before mutation) so the substitution never
// mutates the callee's own original body, which may still be inlined
// again at another call site.
func substituteExpr(e hir.Expr, subst map[string]hir.Expr) hir.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *hir.Identifier:
		if repl, ok := subst[ex.Name]; ok {
			return repl
		}
		return ex
	case *hir.Binary:
		cp := *ex
		cp.Left = substituteExpr(ex.Left, subst)
		cp.Right = substituteExpr(ex.Right, subst)
		return &cp
	case *hir.Unary:
		cp := *ex
		cp.Operand = substituteExpr(ex.Operand, subst)
		return &cp
	case *hir.MemberAccess:
		cp := *ex
		cp.Target = substituteExpr(ex.Target, subst)
		return &cp
	case *hir.IndexGet:
		cp := *ex
		cp.Target = substituteExpr(ex.Target, subst)
		cp.Index = substituteExpr(ex.Index, subst)
		return &cp
	case *hir.Call:
		cp := *ex
		cp.Args = make([]hir.Expr, len(ex.Args))
		for i, a := range ex.Args {
			cp.Args[i] = substituteExpr(a, subst)
		}
		if cp.Callee != nil {
			cp.Callee = substituteExpr(ex.Callee, subst)
		}
		return &cp
	default:
		return e
	}
}
