package passes

import (
	"github.com/novalang/novac/internal/hir"
	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/ops"
	"github.com/novalang/novac/internal/types"
)

// ConstantFolding replaces a Binary/Unary applied to Literal operands
// with the single Literal their evaluation produces, reusing ops's
// arithmetic/comparison dispatch instead of carrying a second copy of
// it here. Short-circuit `&&`/`||` fold directly (two constants have no
// side effect to preserve order of), everything else goes through
// ops.BinaryOps/UnaryOps exactly as the back end would evaluate it.
type ConstantFolding struct{}

func (p *ConstantFolding) Name() string         { return "constant-folding" }
func (p *ConstantFolding) Mutates() bool         { return true }
func (p *ConstantFolding) Invalidates() []string { return nil }

func (p *ConstantFolding) RunHIR(prog *hir.Program, _ *Cache) (*hir.Program, error) {
	cf := &constFolder{}
	for _, d := range prog.Decls {
		cf.foldDecl(d)
	}
	return prog, nil
}

type constFolder struct{}

func (cf *constFolder) foldDecl(d hir.Decl) {
	switch decl := d.(type) {
	case *hir.Function:
		cf.foldFunction(decl)
	case *hir.Class:
		for _, fn := range decl.Functions {
			cf.foldFunction(fn)
		}
		for _, p := range decl.Properties {
			if p.Init != nil {
				p.Init = cf.foldExpr(p.Init)
			}
		}
	case *hir.Enum:
		for _, fn := range decl.Functions {
			cf.foldFunction(fn)
		}
	}
}

func (cf *constFolder) foldFunction(fn *hir.Function) {
	if fn.Body == nil {
		return
	}
	cf.foldBlock(fn.Body)
	for _, o := range fn.Overloads {
		cf.foldFunction(o)
	}
}

func (cf *constFolder) foldBlock(b *hir.Block) {
	if b == nil {
		return
	}
	for i, s := range b.Stmts {
		b.Stmts[i] = cf.foldStmt(s)
	}
}

func (cf *constFolder) foldStmt(s hir.Stmt) hir.Stmt {
	switch st := s.(type) {
	case *hir.ExprStmt:
		st.Expr = cf.foldExpr(st.Expr)
	case *hir.LocalDecl:
		if st.Init != nil {
			st.Init = cf.foldExpr(st.Init)
		}
	case *hir.Return:
		if st.Value != nil {
			st.Value = cf.foldExpr(st.Value)
		}
	case *hir.Throw:
		st.Value = cf.foldExpr(st.Value)
	case *hir.If:
		st.Cond = cf.foldExpr(st.Cond)
		cf.foldBlock(st.Then)
		cf.foldBlock(st.Else)
	case *hir.While:
		st.Cond = cf.foldExpr(st.Cond)
		cf.foldBlock(st.Body)
	case *hir.DoWhile:
		cf.foldBlock(st.Body)
		st.Cond = cf.foldExpr(st.Cond)
	case *hir.For:
		st.Iter = cf.foldExpr(st.Iter)
		cf.foldBlock(st.Body)
	case *hir.Try:
		cf.foldBlock(st.Body)
		for _, c := range st.Catches {
			cf.foldBlock(c.Body)
		}
		cf.foldBlock(st.Finally)
	}
	return s
}

func (cf *constFolder) foldExpr(e hir.Expr) hir.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *hir.Binary:
		ex.Left = cf.foldExpr(ex.Left)
		ex.Right = cf.foldExpr(ex.Right)
		if folded := cf.tryFoldBinary(ex); folded != nil {
			return folded
		}
		return ex
	case *hir.Unary:
		ex.Operand = cf.foldExpr(ex.Operand)
		if folded := cf.tryFoldUnary(ex); folded != nil {
			return folded
		}
		return ex
	case *hir.Assign:
		ex.Value = cf.foldExpr(ex.Value)
	case *hir.Call:
		for i, a := range ex.Args {
			ex.Args[i] = cf.foldExpr(a)
		}
	case *hir.MemberAccess:
		ex.Target = cf.foldExpr(ex.Target)
	case *hir.IndexGet:
		ex.Target = cf.foldExpr(ex.Target)
		ex.Index = cf.foldExpr(ex.Index)
	case *hir.IndexSet:
		ex.Target = cf.foldExpr(ex.Target)
		ex.Index = cf.foldExpr(ex.Index)
		ex.Value = cf.foldExpr(ex.Value)
	case *hir.NotNullAssert:
		ex.Operand = cf.foldExpr(ex.Operand)
	case *hir.BlockExpr:
		cf.foldBlock(&hir.Block{Stmts: ex.Stmts})
		ex.Result = cf.foldExpr(ex.Result)
	case *hir.When:
		if ex.Subject != nil {
			ex.Subject = cf.foldExpr(ex.Subject)
		}
		for i := range ex.Branches {
			for j, c := range ex.Branches[i].Conditions {
				ex.Branches[i].Conditions[j] = cf.foldExpr(c)
			}
			ex.Branches[i].Result = cf.foldExpr(ex.Branches[i].Result)
		}
	case *hir.CollectionLiteral:
		for i, el := range ex.Elements {
			ex.Elements[i] = cf.foldExpr(el)
		}
		for i, v := range ex.Values {
			ex.Values[i] = cf.foldExpr(v)
		}
	}
	return e
}

func (cf *constFolder) tryFoldBinary(ex *hir.Binary) hir.Expr {
	l, lok := ex.Left.(*hir.Literal)
	r, rok := ex.Right.(*hir.Literal)
	if !lok || !rok {
		return nil
	}
	if ex.Op == hir.OpAnd || ex.Op == hir.OpOr {
		lb, ok1 := l.Value.(bool)
		rb, ok2 := r.Value.(bool)
		if !ok1 || !ok2 {
			return nil
		}
		var result bool
		if ex.Op == hir.OpAnd {
			result = lb && rb
		} else {
			result = lb || rb
		}
		return &hir.Literal{Kind: hir.BooleanLiteral, Value: result, Type: ex.Type}
	}
	lv, ok := literalToValue(l)
	if !ok {
		return nil
	}
	rv, ok := literalToValue(r)
	if !ok {
		return nil
	}
	mirOp, ok := binOpToMir(ex.Op)
	if !ok {
		return nil
	}
	result, err := ops.BinaryOps(mirOp, lv, rv)
	if err != nil {
		return nil
	}
	return valueToLiteral(result, ex.Type)
}

func (cf *constFolder) tryFoldUnary(ex *hir.Unary) hir.Expr {
	lit, ok := ex.Operand.(*hir.Literal)
	if !ok {
		return nil
	}
	v, ok := literalToValue(lit)
	if !ok {
		return nil
	}
	var mirOp mir.UnOp
	switch ex.Op {
	case hir.OpNeg:
		mirOp = mir.OpNeg
	case hir.OpNot:
		mirOp = mir.OpNot
	default:
		return nil
	}
	result, err := ops.UnaryOps(mirOp, v)
	if err != nil {
		return nil
	}
	return valueToLiteral(result, ex.Type)
}

func binOpToMir(op hir.BinOp) (mir.BinOp, bool) {
	switch op {
	case hir.OpAdd:
		return mir.OpAdd, true
	case hir.OpSub:
		return mir.OpSub, true
	case hir.OpMul:
		return mir.OpMul, true
	case hir.OpDiv:
		return mir.OpDiv, true
	case hir.OpMod:
		return mir.OpMod, true
	case hir.OpEq:
		return mir.OpEq, true
	case hir.OpNotEq:
		return mir.OpNotEq, true
	case hir.OpRefEq:
		return mir.OpRefEq, true
	case hir.OpRefNotEq:
		return mir.OpRefNotEq, true
	case hir.OpLt:
		return mir.OpLt, true
	case hir.OpLe:
		return mir.OpLe, true
	case hir.OpGt:
		return mir.OpGt, true
	case hir.OpGe:
		return mir.OpGe, true
	case hir.OpBitAnd:
		return mir.OpBitAnd, true
	case hir.OpBitOr:
		return mir.OpBitOr, true
	case hir.OpBitXor:
		return mir.OpBitXor, true
	case hir.OpShl:
		return mir.OpShl, true
	case hir.OpShr:
		return mir.OpShr, true
	default:
		return 0, false
	}
}

// literalToValue converts a Literal's decoded payload to the tagged
// ops.Value BinaryOps/UnaryOps dispatch on; ok is false for a literal
// kind folding doesn't cover (currently none, but a future literal kind
// added here without a case below should skip folding, not panic).
func literalToValue(l *hir.Literal) (ops.Value, bool) {
	switch l.Kind {
	case hir.IntLiteral:
		v, ok := l.Value.(int64)
		return ops.Int(v), ok
	case hir.LongLiteral:
		v, ok := l.Value.(int64)
		return ops.Long(v), ok
	case hir.FloatLiteral:
		v, ok := l.Value.(float64)
		return ops.Float32(v), ok
	case hir.DoubleLiteral:
		v, ok := l.Value.(float64)
		return ops.Double(v), ok
	case hir.BooleanLiteral:
		v, ok := l.Value.(bool)
		return ops.Bool(v), ok
	case hir.CharLiteral:
		v, ok := l.Value.(rune)
		return ops.Char(v), ok
	case hir.StringLiteral:
		v, ok := l.Value.(string)
		return ops.Str(v), ok
	case hir.NullLiteral:
		return ops.Null(), true
	default:
		return ops.Value{}, false
	}
}

// valueToLiteral rebuilds a Literal from a folded ops.Value, keeping the
// Binary/Unary node's own checked Type rather than re-deriving one from
// the Value's tag — the two always agree since the original operands
// were already checked against that same Type.
func valueToLiteral(v ops.Value, t types.Type) hir.Expr {
	switch v.Tag {
	case ops.IntTag:
		return &hir.Literal{Kind: hir.IntLiteral, Value: v.Int, Type: t}
	case ops.LongTag:
		return &hir.Literal{Kind: hir.LongLiteral, Value: v.Int, Type: t}
	case ops.FloatTag:
		return &hir.Literal{Kind: hir.FloatLiteral, Value: v.Float, Type: t}
	case ops.DoubleTag:
		return &hir.Literal{Kind: hir.DoubleLiteral, Value: v.Float, Type: t}
	case ops.BooleanTag:
		return &hir.Literal{Kind: hir.BooleanLiteral, Value: v.Bool, Type: t}
	case ops.CharTag:
		return &hir.Literal{Kind: hir.CharLiteral, Value: rune(v.Int), Type: t}
	case ops.StringTag:
		return &hir.Literal{Kind: hir.StringLiteral, Value: v.Str, Type: t}
	case ops.NullTag:
		return &hir.Literal{Kind: hir.NullLiteral, Value: nil, Type: t}
	default:
		return nil
	}
}
