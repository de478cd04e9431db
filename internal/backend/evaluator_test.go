package backend

import (
	"context"
	"testing"

	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/ops"
	"github.com/novalang/novac/internal/types"
)

// constOf builds a ConstOperand for one of the Go-typed payloads
// constToValue recognizes.
func constOf(v interface{}, t types.Type) mir.Operand {
	return mir.ConstOperand{Value: v, Type: t}
}

// addFn builds a two-parameter function returning Left + Right, the
// smallest MirFunction that exercises params, a BinaryOpInstr, and a
// ReturnTerm.
func addFn() *mir.MirFunction {
	left := mir.NewLocalSlot("left", types.TInt, true)
	right := mir.NewLocalSlot("right", types.TInt, true)
	block := &mir.BasicBlock{
		ID: 0,
		Instrs: []mir.Instr{
			&mir.BinaryOpInstr{
				Dst:   1,
				Op:    mir.OpAdd,
				Left:  mir.LocalOperand{Slot: left},
				Right: mir.LocalOperand{Slot: right},
				Type:  types.TInt,
			},
		},
		Term: mir.ReturnTerm{Value: mir.RegOperand{Reg: 1, Type: types.TInt}},
	}
	return &mir.MirFunction{
		Name:       "add",
		Params:     []*mir.LocalSlot{left, right},
		Locals:     []*mir.LocalSlot{left, right},
		ReturnType: types.TInt,
		Blocks:     []*mir.BasicBlock{block},
		Entry:      0,
	}
}

func testInt(t *testing.T, v ops.Value, want int64) {
	t.Helper()
	if v.Tag != ops.IntTag {
		t.Fatalf("value is not Int. got=%v", v)
	}
	if v.Int != want {
		t.Errorf("wrong int value. got=%d, want=%d", v.Int, want)
	}
}

func testBool(t *testing.T, v ops.Value, want bool) {
	t.Helper()
	if v.Tag != ops.BooleanTag {
		t.Fatalf("value is not Boolean. got=%v", v)
	}
	if v.Bool != want {
		t.Errorf("wrong bool value. got=%t, want=%t", v.Bool, want)
	}
}

func runBoth(t *testing.T, prog *mir.Program, entry *mir.MirFunction, args []ops.Value) (ops.Value, ops.Value) {
	t.Helper()
	evalResult, err := NewEvaluator().Run(context.Background(), prog, entry, args)
	if err != nil {
		t.Fatalf("evaluator error: %s", err)
	}
	emitResult, err := NewEmitter().Run(context.Background(), prog, entry, args)
	if err != nil {
		t.Fatalf("emitter error: %s", err)
	}
	return evalResult, emitResult
}

func TestBinaryArithmetic(t *testing.T) {
	fn := addFn()
	prog := &mir.Program{Functions: []*mir.MirFunction{fn}}

	tests := []struct {
		left, right int64
		want        int64
	}{
		{2, 3, 5},
		{10, -4, 6},
		{0, 0, 0},
	}
	for _, tt := range tests {
		args := []ops.Value{ops.Int(tt.left), ops.Int(tt.right)}
		evalResult, emitResult := runBoth(t, prog, fn, args)
		testInt(t, evalResult, tt.want)
		testInt(t, emitResult, tt.want)
	}
}

// branchFn returns true when its single parameter is greater than 10,
// exercising BranchTerm and a comparison BinaryOpInstr.
func branchFn() *mir.MirFunction {
	n := mir.NewLocalSlot("n", types.TInt, true)
	entry := &mir.BasicBlock{
		ID: 0,
		Instrs: []mir.Instr{
			&mir.BinaryOpInstr{
				Dst:   1,
				Op:    mir.OpGt,
				Left:  mir.LocalOperand{Slot: n},
				Right: constOf(int64(10), types.TInt),
				Type:  types.TBoolean,
			},
		},
		Term: mir.BranchTerm{Cond: mir.RegOperand{Reg: 1, Type: types.TBoolean}, Then: 1, Else: 2},
	}
	thenBlock := &mir.BasicBlock{ID: 1, Term: mir.ReturnTerm{Value: constOf(true, types.TBoolean)}}
	elseBlock := &mir.BasicBlock{ID: 2, Term: mir.ReturnTerm{Value: constOf(false, types.TBoolean)}}
	return &mir.MirFunction{
		Name:       "isBig",
		Params:     []*mir.LocalSlot{n},
		Locals:     []*mir.LocalSlot{n},
		ReturnType: types.TBoolean,
		Blocks:     []*mir.BasicBlock{entry, thenBlock, elseBlock},
		Entry:      0,
	}
}

func TestBranchTerm(t *testing.T) {
	fn := branchFn()
	prog := &mir.Program{Functions: []*mir.MirFunction{fn}}

	tests := []struct {
		n    int64
		want bool
	}{
		{20, true},
		{5, false},
		{10, false},
	}
	for _, tt := range tests {
		evalResult, emitResult := runBoth(t, prog, fn, []ops.Value{ops.Int(tt.n)})
		testBool(t, evalResult, tt.want)
		testBool(t, emitResult, tt.want)
	}
}

// divFn divides its two parameters through the ops division path; with a
// zero divisor and no landing pad, the resulting *ops.Error surfaces from
// Run as an uncaught *RuntimeError.
func divFn() *mir.MirFunction {
	a := mir.NewLocalSlot("a", types.TInt, true)
	b := mir.NewLocalSlot("b", types.TInt, true)
	block := &mir.BasicBlock{
		ID: 0,
		Instrs: []mir.Instr{
			&mir.BinaryOpInstr{
				Dst:   1,
				Op:    mir.OpDiv,
				Left:  mir.LocalOperand{Slot: a},
				Right: mir.LocalOperand{Slot: b},
				Type:  types.TInt,
			},
		},
		Term: mir.ReturnTerm{Value: mir.RegOperand{Reg: 1, Type: types.TInt}},
	}
	return &mir.MirFunction{
		Name:       "div",
		Params:     []*mir.LocalSlot{a, b},
		Locals:     []*mir.LocalSlot{a, b},
		ReturnType: types.TInt,
		Blocks:     []*mir.BasicBlock{block},
		Entry:      0,
	}
}

func TestDivisionByZeroIsUncaughtRuntimeError(t *testing.T) {
	fn := divFn()
	prog := &mir.Program{Functions: []*mir.MirFunction{fn}}
	args := []ops.Value{ops.Int(1), ops.Int(0)}

	_, err := NewEvaluator().Run(context.Background(), prog, fn, args)
	if err == nil {
		t.Fatalf("expected a runtime error, got none")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	if rerr.Value.Obj == nil {
		t.Fatalf("expected a NativeException payload, got %v", rerr.Value)
	}
	if _, ok := rerr.Value.Obj.(*NativeException); !ok {
		t.Fatalf("expected *NativeException, got %T", rerr.Value.Obj)
	}

	_, err = NewEmitter().Run(context.Background(), prog, fn, args)
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("emitter expected *RuntimeError too, got %T: %v", err, err)
	}
}

// tryCatchFn wraps a throwing block in a landing pad that binds the
// propagated exception into a "$exc" slot and returns its message,
// exercising raiseInto/excSlotOf directly.
func tryCatchFn() *mir.MirFunction {
	excSlot := mir.NewLocalSlot("$exc", types.TAny, true)
	protected := &mir.BasicBlock{
		ID:            0,
		Term:          mir.ThrowTerm{Value: constOf("boom", types.TString)},
		HasLandingPad: true,
		LandingPad:    1,
	}
	handler := &mir.BasicBlock{
		ID: 1,
		Instrs: []mir.Instr{
			&mir.MoveInstr{Target: excSlot, Src: mir.LocalOperand{Slot: excSlot}},
		},
		Term: mir.ReturnTerm{Value: mir.LocalOperand{Slot: excSlot}},
	}
	return &mir.MirFunction{
		Name:       "caught",
		Locals:     []*mir.LocalSlot{excSlot},
		ReturnType: types.TAny,
		Blocks:     []*mir.BasicBlock{protected, handler},
		Entry:      0,
	}
}

func TestTryCatchBindsExceptionSlot(t *testing.T) {
	fn := tryCatchFn()
	prog := &mir.Program{Functions: []*mir.MirFunction{fn}}

	evalResult, emitResult := runBoth(t, prog, fn, nil)
	if evalResult.Tag != ops.StringTag || evalResult.Str != "boom" {
		t.Errorf("evaluator: expected caught value \"boom\", got %v", evalResult)
	}
	if emitResult.Tag != ops.StringTag || emitResult.Str != "boom" {
		t.Errorf("emitter: expected caught value \"boom\", got %v", emitResult)
	}
}

// callerFn invokes addFn statically, exercising CallInstr dispatch and
// cross-function register/local handling.
func callerFn(callee *mir.MirFunction) *mir.MirFunction {
	block := &mir.BasicBlock{
		ID: 0,
		Instrs: []mir.Instr{
			&mir.CallInstr{
				Dst:    1,
				Target: callee,
				Args:   []mir.Operand{constOf(int64(4), types.TInt), constOf(int64(5), types.TInt)},
				Type:   types.TInt,
			},
		},
		Term: mir.ReturnTerm{Value: mir.RegOperand{Reg: 1, Type: types.TInt}},
	}
	return &mir.MirFunction{
		Name:       "callAdd",
		ReturnType: types.TInt,
		Blocks:     []*mir.BasicBlock{block},
		Entry:      0,
	}
}

func TestStaticCall(t *testing.T) {
	addFunc := addFn()
	caller := callerFn(addFunc)
	prog := &mir.Program{Functions: []*mir.MirFunction{addFunc, caller}}

	evalResult, emitResult := runBoth(t, prog, caller, nil)
	testInt(t, evalResult, 9)
	testInt(t, emitResult, 9)
}
