package passes

import (
	"testing"

	"github.com/novalang/novac/internal/hir"
	"github.com/novalang/novac/internal/types"
)

func lit(v interface{}, kind hir.LiteralKind, t types.Type) *hir.Literal {
	return &hir.Literal{Kind: kind, Value: v, Type: t}
}

func TestConstantFoldingFoldsLiteralBinary(t *testing.T) {
	fn := &hir.Function{
		Name: "sum",
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.Return{Value: &hir.Binary{
				Op:    hir.OpAdd,
				Left:  lit(int64(2), hir.IntLiteral, types.TInt),
				Right: lit(int64(3), hir.IntLiteral, types.TInt),
				Type:  types.TInt,
			}},
		}},
	}
	prog := &hir.Program{Decls: []hir.Decl{fn}}

	cf := &ConstantFolding{}
	if _, err := cf.RunHIR(prog, newCache()); err != nil {
		t.Fatalf("RunHIR: %v", err)
	}

	ret, ok := fn.Body.Stmts[0].(*hir.Return)
	if !ok {
		t.Fatalf("expected *hir.Return, got %T", fn.Body.Stmts[0])
	}
	folded, ok := ret.Value.(*hir.Literal)
	if !ok {
		t.Fatalf("expected folded Binary to become a Literal, got %T", ret.Value)
	}
	if folded.Value.(int64) != 5 {
		t.Fatalf("expected folded value 5, got %v", folded.Value)
	}
}

func TestConstantFoldingLeavesNonLiteralOperandsAlone(t *testing.T) {
	fn := &hir.Function{
		Name:   "sum",
		Params: []*hir.Parameter{{Name: "x", Type: types.TInt}, {Name: "y", Type: types.TInt}},
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.Return{Value: &hir.Binary{
				Op:    hir.OpAdd,
				Left:  &hir.Identifier{Name: "x", Type: types.TInt},
				Right: &hir.Identifier{Name: "y", Type: types.TInt},
				Type:  types.TInt,
			}},
		}},
	}
	prog := &hir.Program{Decls: []hir.Decl{fn}}

	cf := &ConstantFolding{}
	if _, err := cf.RunHIR(prog, newCache()); err != nil {
		t.Fatalf("RunHIR: %v", err)
	}

	ret := fn.Body.Stmts[0].(*hir.Return)
	if _, ok := ret.Value.(*hir.Binary); !ok {
		t.Fatalf("expected a parameter-operand Binary to survive folding untouched, got %T", ret.Value)
	}
}

func TestDeadCodeEliminationTrimsStatementsAfterReturn(t *testing.T) {
	fn := &hir.Function{
		Name: "early",
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.Return{Value: lit(int64(1), hir.IntLiteral, types.TInt)},
			&hir.ExprStmt{Expr: lit(int64(2), hir.IntLiteral, types.TInt)},
		}},
	}
	prog := &hir.Program{Decls: []hir.Decl{fn}}

	dc := &DeadCodeElimination{}
	if _, err := dc.RunHIR(prog, newCache()); err != nil {
		t.Fatalf("RunHIR: %v", err)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected the statement after Return to be trimmed, got %d statements", len(fn.Body.Stmts))
	}
}

func TestDeadCodeEliminationKeepsReachableStatements(t *testing.T) {
	fn := &hir.Function{
		Name: "straightLine",
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.ExprStmt{Expr: lit(int64(1), hir.IntLiteral, types.TInt)},
			&hir.Return{Value: lit(int64(2), hir.IntLiteral, types.TInt)},
		}},
	}
	prog := &hir.Program{Decls: []hir.Decl{fn}}

	dc := &DeadCodeElimination{}
	if _, err := dc.RunHIR(prog, newCache()); err != nil {
		t.Fatalf("RunHIR: %v", err)
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected both statements to survive, got %d", len(fn.Body.Stmts))
	}
}

func TestDefaultRegistryRunsHIRPassesInOrder(t *testing.T) {
	fn := &hir.Function{
		Name: "constSum",
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.Return{Value: &hir.Binary{
				Op:    hir.OpAdd,
				Left:  lit(int64(2), hir.IntLiteral, types.TInt),
				Right: lit(int64(3), hir.IntLiteral, types.TInt),
				Type:  types.TInt,
			}},
			&hir.ExprStmt{Expr: lit(int64(0), hir.IntLiteral, types.TInt)},
		}},
	}
	prog := &hir.Program{Decls: []hir.Decl{fn}}

	r := Default()
	next, err := r.RunHIR(prog)
	if err != nil {
		t.Fatalf("RunHIR: %v", err)
	}

	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected dead-code-elimination to trim the statement after the folded Return, got %d statements", len(fn.Body.Stmts))
	}
	ret := fn.Body.Stmts[0].(*hir.Return)
	if folded, ok := ret.Value.(*hir.Literal); !ok || folded.Value.(int64) != 5 {
		t.Fatalf("expected constant-folding to have run before dead-code-elimination, got %#v", ret.Value)
	}
	if next != prog {
		t.Fatalf("expected RunHIR to return the same *hir.Program it mutated in place")
	}
}

func TestCacheInvalidateClearsCFG(t *testing.T) {
	// Confirms only that the Cache's own CFG bookkeeping resets on
	// invalidation; DeadBlockElimination itself is not run here.
	c := newCache()
	c.invalidate([]string{"cfg"})
	if len(c.cfg) != 0 {
		t.Fatalf("expected invalidate(\"cfg\") to clear the cache, got %d entries", len(c.cfg))
	}
}
