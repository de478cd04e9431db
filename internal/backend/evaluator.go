package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/ops"
	"github.com/novalang/novac/internal/types"
)

// Evaluator is the canonical back end: it walks a MirFunction's blocks
// directly, one instruction at a time, rather than compiling them to any
// intermediate artifact first. Its results are what the Emitter's
// compiled-and-run path is checked against.
type Evaluator struct{}

func NewEvaluator() *Evaluator { return &Evaluator{} }

func (e *Evaluator) Name() string { return "evaluator" }

func (e *Evaluator) Run(ctx context.Context, prog *mir.Program, entry *mir.MirFunction, args []ops.Value) (ops.Value, error) {
	ec := &execCtx{
		ctx:     ctx,
		prog:    prog,
		checker: newClassChecker(prog.Classes),
		funcs:   indexFunctions(prog),
	}
	return ec.callFunction(entry, args)
}

func indexFunctions(prog *mir.Program) map[string]*mir.MirFunction {
	byName := make(map[string]*mir.MirFunction, len(prog.Functions))
	for _, fn := range prog.Functions {
		byName[fn.Name] = fn
	}
	return byName
}

// execCtx is shared read-only state across every frame in one Run call;
// frame is what's pushed and popped per active call.
type execCtx struct {
	ctx        context.Context
	prog       *mir.Program
	checker    *classChecker
	funcs      map[string]*mir.MirFunction
	instrCount int
}

// frame is one active call's register file, local-slot values, and
// capture boxes — a call-frame record scaled down because MIR already
// gives block-structured control flow instead of a flat bytecode stream
// needing its own instruction pointer.
type frame struct {
	fn         *mir.MirFunction
	regs       map[mir.RegID]ops.Value
	locals     map[*mir.LocalSlot]ops.Value
	boxes      map[*mir.LocalSlot]*Box
	pendingExc *ops.Value
}

func newFrame(fn *mir.MirFunction, args []ops.Value) *frame {
	fr := &frame{
		fn:     fn,
		regs:   make(map[mir.RegID]ops.Value),
		locals: make(map[*mir.LocalSlot]ops.Value, len(fn.Locals)),
		boxes:  make(map[*mir.LocalSlot]*Box),
	}
	for _, slot := range fn.Locals {
		fr.locals[slot] = ops.Null()
	}
	for i, p := range fn.Params {
		if i < len(args) {
			fr.locals[p] = args[i]
		}
	}
	return fr
}

func (fr *frame) boxFor(slot *mir.LocalSlot) *Box {
	b, ok := fr.boxes[slot]
	if !ok {
		b = &Box{Value: fr.locals[slot]}
		fr.boxes[slot] = b
	}
	return b
}

// callFunction runs fn to completion against args, stepping block by
// block: a JumpTerm/BranchTerm/SwitchTerm just picks the next BlockID,
// an UnwindTerm or a thrown value from within the current block routes
// to that block's LandingPad (if any) instead of ending the call.
func (ec *execCtx) callFunction(fn *mir.MirFunction, args []ops.Value) (ops.Value, error) {
	fr := newFrame(fn, args)
	curID := fn.Entry
	for {
		block := fn.Block(curID)
		landed := false
		for _, instr := range block.Instrs {
			ec.instrCount++
			if ec.instrCount%checkInterval == 0 {
				select {
				case <-ec.ctx.Done():
					return ops.Value{}, ec.ctx.Err()
				default:
				}
			}
			val, thrown, err := ec.execInstr(fn, fr, instr)
			if err != nil {
				return ops.Value{}, err
			}
			if thrown != nil {
				target, ok := ec.raiseInto(fn, fr, block, *thrown)
				if !ok {
					return ops.Value{}, &RuntimeError{Value: *thrown}
				}
				curID = target
				landed = true
				break
			}
			if dst, ok := instrDst(instr); ok {
				fr.regs[dst] = val
			}
		}
		if landed {
			continue
		}

		switch term := block.Term.(type) {
		case mir.ReturnTerm:
			if term.Value == nil {
				return ops.Null(), nil
			}
			return ec.evalOperand(fr, term.Value), nil
		case mir.JumpTerm:
			curID = term.Target
		case mir.BranchTerm:
			if ec.evalOperand(fr, term.Cond).Bool {
				curID = term.Then
			} else {
				curID = term.Else
			}
		case mir.SwitchTerm:
			v := ec.evalOperand(fr, term.Value)
			curID = term.Default
			for _, c := range term.Cases {
				if valuesEqual(v, ec.evalOperand(fr, c.Value)) {
					curID = c.Target
					break
				}
			}
		case mir.ThrowTerm:
			val := ec.evalOperand(fr, term.Value)
			target, ok := ec.raiseInto(fn, fr, block, val)
			if !ok {
				return ops.Value{}, &RuntimeError{Value: val}
			}
			curID = target
		case mir.UnwindTerm:
			if fr.pendingExc == nil {
				return ops.Value{}, errors.New("backend: unwind reached with no propagating exception")
			}
			target := fn.Block(term.LandingPad)
			if slot := excSlotOf(target); slot != nil {
				fr.locals[slot] = *fr.pendingExc
			}
			curID = term.LandingPad
		default:
			return ops.Value{}, fmt.Errorf("backend: block %d has no terminator", block.ID)
		}
	}
}

// raiseInto records val as the frame's propagating exception and, if
// block is protected, binds it into the landing pad's "$exc" slot and
// returns that block to jump to. ok is false when nothing in this frame
// catches val, meaning the caller must propagate it as a Go error.
func (ec *execCtx) raiseInto(fn *mir.MirFunction, fr *frame, block *mir.BasicBlock, val ops.Value) (mir.BlockID, bool) {
	fr.pendingExc = &val
	if !block.HasLandingPad {
		return 0, false
	}
	target := fn.Block(block.LandingPad)
	if slot := excSlotOf(target); slot != nil {
		fr.locals[slot] = val
	}
	return block.LandingPad, true
}

// execInstr runs one instruction, returning (result, nil, nil) on
// success, (_, &excValue, nil) when it raised a catchable Nova
// exception (a native fault from ops, a failed non-Safe cast, or a
// callee's own uncaught throw propagating through this CallInstr), or
// (_, nil, err) only for a backend-level fault that isn't meaningful for
// a well-typed program to ever observe (an unresolved dynamic call).
func (ec *execCtx) execInstr(fn *mir.MirFunction, fr *frame, instr mir.Instr) (ops.Value, *ops.Value, error) {
	switch i := instr.(type) {
	case *mir.ConstInstr:
		return constToValue(i.Value, i.Type), nil, nil

	case *mir.MoveInstr:
		fr.locals[i.Target] = ec.evalOperand(fr, i.Src)
		return ops.Value{}, nil, nil

	case *mir.UnaryOpInstr:
		v := ec.evalOperand(fr, i.Operand)
		r, err := ops.UnaryOps(i.Op, v)
		if err != nil {
			exc := nativeException(err.Error())
			return ops.Value{}, &exc, nil
		}
		return r, nil, nil

	case *mir.BinaryOpInstr:
		l := ec.evalOperand(fr, i.Left)
		r := ec.evalOperand(fr, i.Right)
		result, err := ops.BinaryOps(i.Op, l, r)
		if err != nil {
			exc := nativeException(err.Error())
			return ops.Value{}, &exc, nil
		}
		return result, nil, nil

	case *mir.CallInstr:
		return ec.execCall(fn, fr, i)

	case *mir.AllocInstr:
		return ec.execAlloc(fr, i)

	case *mir.LoadInstr:
		return ec.execLoad(fr, i)

	case *mir.StoreInstr:
		thrown, err := ec.execStore(fr, i)
		return ops.Value{}, thrown, err

	case *mir.BoxRefInstr:
		return ops.Object(nil, fr.boxFor(i.Slot)), nil, nil

	case *mir.UnboxRefInstr:
		box := ec.evalOperand(fr, i.Box).Obj.(*Box)
		return box.Value, nil, nil

	case *mir.BoxStoreInstr:
		box := ec.evalOperand(fr, i.Box).Obj.(*Box)
		box.Value = ec.evalOperand(fr, i.Value)
		return ops.Value{}, nil, nil

	case *mir.TypeCheckInstr:
		v := ec.evalOperand(fr, i.Operand)
		result := ops.TypeCheck(v, i.Target, ec.checker)
		if i.Negate {
			result = !result
		}
		return ops.Bool(result), nil, nil

	case *mir.TypeCastInstr:
		v := ec.evalOperand(fr, i.Operand)
		result, err := ops.Cast(v, i.Target, i.Safe, ec.checker)
		if err != nil {
			exc := nativeException(err.Error())
			return ops.Value{}, &exc, nil
		}
		return result, nil, nil

	case *mir.MakeCollectionInstr:
		return ec.execMakeCollection(fr, i), nil, nil

	case *mir.MakeClosureInstr:
		captures := make([]ops.Value, len(i.Captures))
		for idx, c := range i.Captures {
			captures[idx] = ec.evalOperand(fr, c)
		}
		return ops.Object(i.Type, &Closure{Fn: i.Fn, Captures: captures}), nil, nil

	default:
		return ops.Value{}, nil, fmt.Errorf("backend: unhandled instruction %T", instr)
	}
}

func (ec *execCtx) execCall(fn *mir.MirFunction, fr *frame, i *mir.CallInstr) (ops.Value, *ops.Value, error) {
	args := make([]ops.Value, len(i.Args))
	for idx, a := range i.Args {
		args[idx] = ec.evalOperand(fr, a)
	}

	target := i.Target
	if target == nil {
		resolved, err := ec.resolveDynamic(i.Name, args)
		if err != nil {
			return ops.Value{}, nil, err
		}
		target = resolved
	}

	result, err := ec.callFunction(target, args)
	if err != nil {
		var rerr *RuntimeError
		if errors.As(err, &rerr) {
			return ops.Value{}, &rerr.Value, nil
		}
		return ops.Value{}, nil, err
	}
	return result, nil, nil
}

// resolveDynamic picks the callee for a CallInstr whose Target didn't
// resolve statically: either invoking a first-class closure value
// (Args[0] is a *Closure, captures are prepended ahead of the explicit
// arguments) or dispatching by name+arity against the receiver's class
// hierarchy (Args[0] is an *Instance), matching how mir's lowerFor already
// relies on an untyped "iterator"/"hasNext"/"next" dynamic CallInstr for
// every iterable shape.
func (ec *execCtx) resolveDynamic(name string, args []ops.Value) (*mir.MirFunction, error) {
	if len(args) > 0 && args[0].Tag == ops.ObjectTag {
		if cl, ok := args[0].Obj.(*Closure); ok && name == "" {
			return cl.Fn, nil
		}
		if inst, ok := args[0].Obj.(*Instance); ok {
			if m := findMethod(inst.Layout, name, len(args)-1, ec.checker.byName); m != nil {
				return m, nil
			}
		}
	}
	if fn, ok := ec.funcs[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("backend: no function or method named %q for %d argument(s)", name, len(args))
}

func findMethod(layout *mir.ClassLayout, name string, arity int, byName map[string]*mir.ClassLayout) *mir.MirFunction {
	if layout == nil {
		return nil
	}
	for _, m := range layout.Methods {
		if m.Name == name && len(m.Params) == arity {
			return m
		}
	}
	for _, super := range layout.SuperNames {
		if m := findMethod(byName[super], name, arity, byName); m != nil {
			return m
		}
	}
	return nil
}

// execAlloc builds an Instance and assigns AllocInstr's Args positionally
// to the class's leading fields. mir's class lowering (internal/mir's
// Lower, see lower.go) records a ClassLayout's field order and method
// table but does not lower primary-constructor property promotion, field
// initializer expressions, or `init` blocks into any MirFunction — so
// this assigns exactly what AllocInstr carries (the primary constructor's
// arguments) and leaves every other field at its zero value. Running
// declared initializers/init blocks needs that mir-side lowering first.
func (ec *execCtx) execAlloc(fr *frame, i *mir.AllocInstr) (ops.Value, *ops.Value, error) {
	layout := ec.checker.byName[typeName(i.Class)]
	if layout == nil {
		return ops.Value{}, nil, fmt.Errorf("backend: unknown class %s", typeName(i.Class))
	}
	inst := &Instance{Layout: layout, Fields: make([]ops.Value, len(layout.Fields))}
	for idx, f := range layout.Fields {
		inst.Fields[idx] = zeroValue(f.Type)
	}
	for idx, a := range i.Args {
		if idx >= len(inst.Fields) {
			break
		}
		inst.Fields[idx] = ec.evalOperand(fr, a)
	}
	return ops.Object(i.Class, inst), nil, nil
}

func zeroValue(t types.Type) ops.Value {
	prim, ok := types.Unwrap(t).(types.Primitive)
	if !ok {
		return ops.Null()
	}
	switch prim.Kind {
	case types.Int:
		return ops.Int(0)
	case types.Long:
		return ops.Long(0)
	case types.Float:
		return ops.Float32(0)
	case types.Double:
		return ops.Double(0)
	case types.Boolean:
		return ops.Bool(false)
	case types.String:
		return ops.Str("")
	default:
		return ops.Null()
	}
}

func (ec *execCtx) execLoad(fr *frame, i *mir.LoadInstr) (ops.Value, *ops.Value, error) {
	obj := ec.evalOperand(fr, i.Object)
	switch i.Kind {
	case mir.LoadField:
		inst, ok := obj.Obj.(*Instance)
		if !ok {
			return ops.Value{}, nil, fmt.Errorf("backend: load field %q on non-instance", i.Name)
		}
		idx := inst.fieldIndex(i.Name)
		if idx < 0 {
			return ops.Value{}, nil, fmt.Errorf("backend: unknown field %q on %s", i.Name, inst.Layout.Name)
		}
		return inst.Fields[idx], nil, nil
	case mir.LoadIndex:
		idxVal := ec.evalOperand(fr, i.Index)
		return ec.loadIndex(obj, idxVal)
	default:
		return ops.Value{}, nil, fmt.Errorf("backend: unknown load kind %d", i.Kind)
	}
}

func (ec *execCtx) loadIndex(obj, idxVal ops.Value) (ops.Value, *ops.Value, error) {
	switch coll := obj.Obj.(type) {
	case *List:
		idx := int(idxVal.Int)
		if idx < 0 || idx >= len(coll.Elements) {
			exc := nativeException("index out of bounds")
			return ops.Value{}, &exc, nil
		}
		return coll.Elements[idx], nil, nil
	case *MapObj:
		at := coll.index(idxVal)
		if at < 0 {
			exc := nativeException("key not found")
			return ops.Value{}, &exc, nil
		}
		return coll.Values[at], nil, nil
	default:
		return ops.Value{}, nil, fmt.Errorf("backend: index-get on non-indexable value")
	}
}

// execStore mirrors execLoad/loadIndex's split between a catchable thrown
// value and a hard Go error: an out-of-bounds index or unknown field is a
// fault a well-typed Nova program can still hit at runtime (bad arithmetic
// on a user-supplied index), so it's raised the same way the read side
// raises it rather than aborting the whole Run call.
func (ec *execCtx) execStore(fr *frame, i *mir.StoreInstr) (*ops.Value, error) {
	obj := ec.evalOperand(fr, i.Object)
	val := ec.evalOperand(fr, i.Value)
	switch i.Kind {
	case mir.LoadField:
		inst, ok := obj.Obj.(*Instance)
		if !ok {
			return nil, fmt.Errorf("backend: store field %q on non-instance", i.Name)
		}
		idx := inst.fieldIndex(i.Name)
		if idx < 0 {
			return nil, fmt.Errorf("backend: unknown field %q on %s", i.Name, inst.Layout.Name)
		}
		inst.Fields[idx] = val
		return nil, nil
	case mir.LoadIndex:
		idxVal := ec.evalOperand(fr, i.Index)
		switch coll := obj.Obj.(type) {
		case *List:
			idx := int(idxVal.Int)
			if idx < 0 || idx >= len(coll.Elements) {
				exc := nativeException("index out of bounds")
				return &exc, nil
			}
			coll.Elements[idx] = val
			return nil, nil
		case *MapObj:
			if at := coll.index(idxVal); at >= 0 {
				coll.Values[at] = val
				return nil, nil
			}
			coll.Keys = append(coll.Keys, idxVal)
			coll.Values = append(coll.Values, val)
			return nil, nil
		default:
			return nil, fmt.Errorf("backend: index-set on non-indexable value")
		}
	default:
		return nil, fmt.Errorf("backend: unknown store kind %d", i.Kind)
	}
}

func (ec *execCtx) execMakeCollection(fr *frame, i *mir.MakeCollectionInstr) ops.Value {
	switch i.Kind {
	case mir.ListColl:
		elems := make([]ops.Value, len(i.Elements))
		for idx, e := range i.Elements {
			elems[idx] = ec.evalOperand(fr, e)
		}
		return ops.Object(i.Type, &List{Elements: elems})
	case mir.SetColl:
		s := &Set{}
		for _, e := range i.Elements {
			v := ec.evalOperand(fr, e)
			if !s.contains(v) {
				s.Elements = append(s.Elements, v)
			}
		}
		return ops.Object(i.Type, s)
	case mir.MapColl:
		m := &MapObj{}
		for idx := range i.Elements {
			k := ec.evalOperand(fr, i.Elements[idx])
			v := ec.evalOperand(fr, i.Values[idx])
			if at := m.index(k); at >= 0 {
				m.Values[at] = v
				continue
			}
			m.Keys = append(m.Keys, k)
			m.Values = append(m.Values, v)
		}
		return ops.Object(i.Type, m)
	default:
		return ops.Null()
	}
}

func (ec *execCtx) evalOperand(fr *frame, op mir.Operand) ops.Value {
	switch o := op.(type) {
	case mir.ConstOperand:
		return constToValue(o.Value, o.Type)
	case mir.RegOperand:
		return fr.regs[o.Reg]
	case mir.LocalOperand:
		return fr.locals[o.Slot]
	default:
		return ops.Null()
	}
}

func constToValue(raw interface{}, t types.Type) ops.Value {
	switch v := raw.(type) {
	case int64:
		if prim, ok := types.Unwrap(t).(types.Primitive); ok && prim.Kind == types.Long {
			return ops.Long(v)
		}
		return ops.Int(v)
	case float64:
		if prim, ok := types.Unwrap(t).(types.Primitive); ok && prim.Kind == types.Float {
			return ops.Float32(v)
		}
		return ops.Double(v)
	case bool:
		return ops.Bool(v)
	case rune:
		return ops.Char(v)
	case string:
		return ops.Str(v)
	default:
		return ops.Null()
	}
}

// instrDst reports the destination register an instruction writes, if
// any — MoveInstr/StoreInstr/BoxStoreInstr write through a LocalSlot or
// object field instead and have no Dst.
func instrDst(instr mir.Instr) (mir.RegID, bool) {
	switch i := instr.(type) {
	case *mir.ConstInstr:
		return i.Dst, true
	case *mir.UnaryOpInstr:
		return i.Dst, true
	case *mir.BinaryOpInstr:
		return i.Dst, true
	case *mir.CallInstr:
		return i.Dst, true
	case *mir.AllocInstr:
		return i.Dst, true
	case *mir.LoadInstr:
		return i.Dst, true
	case *mir.BoxRefInstr:
		return i.Dst, true
	case *mir.UnboxRefInstr:
		return i.Dst, true
	case *mir.TypeCheckInstr:
		return i.Dst, true
	case *mir.TypeCastInstr:
		return i.Dst, true
	case *mir.MakeCollectionInstr:
		return i.Dst, true
	case *mir.MakeClosureInstr:
		return i.Dst, true
	default:
		return 0, false
	}
}

// excSlotOf finds the "$exc" LocalSlot a landing pad block binds its
// in-flight exception into, by scanning the operands the block's own
// instructions/terminator reference — mir's try/catch lowering never
// records this association directly, only implicitly by being the first
// slot read inside the pad it built (see mir.funcBuilder.lowerTry).
func excSlotOf(b *mir.BasicBlock) *mir.LocalSlot {
	for _, instr := range b.Instrs {
		if slot := firstExcSlot(instrOperands(instr)); slot != nil {
			return slot
		}
	}
	return firstExcSlot(termOperands(b.Term))
}

func firstExcSlot(operands []mir.Operand) *mir.LocalSlot {
	for _, o := range operands {
		if lo, ok := o.(mir.LocalOperand); ok && lo.Slot.Name == "$exc" {
			return lo.Slot
		}
	}
	return nil
}

func instrOperands(instr mir.Instr) []mir.Operand {
	switch i := instr.(type) {
	case *mir.MoveInstr:
		return []mir.Operand{i.Src}
	case *mir.UnaryOpInstr:
		return []mir.Operand{i.Operand}
	case *mir.BinaryOpInstr:
		return []mir.Operand{i.Left, i.Right}
	case *mir.CallInstr:
		return i.Args
	case *mir.AllocInstr:
		return i.Args
	case *mir.LoadInstr:
		operands := []mir.Operand{i.Object}
		if i.Index != nil {
			operands = append(operands, i.Index)
		}
		return operands
	case *mir.StoreInstr:
		operands := []mir.Operand{i.Object, i.Value}
		if i.Index != nil {
			operands = append(operands, i.Index)
		}
		return operands
	case *mir.UnboxRefInstr:
		return []mir.Operand{i.Box}
	case *mir.BoxStoreInstr:
		return []mir.Operand{i.Box, i.Value}
	case *mir.TypeCheckInstr:
		return []mir.Operand{i.Operand}
	case *mir.TypeCastInstr:
		return []mir.Operand{i.Operand}
	case *mir.MakeCollectionInstr:
		combined := append([]mir.Operand{}, i.Elements...)
		return append(combined, i.Values...)
	case *mir.MakeClosureInstr:
		return i.Captures
	default:
		return nil
	}
}

func termOperands(t mir.Terminator) []mir.Operand {
	switch term := t.(type) {
	case mir.ReturnTerm:
		if term.Value != nil {
			return []mir.Operand{term.Value}
		}
	case mir.BranchTerm:
		return []mir.Operand{term.Cond}
	case mir.ThrowTerm:
		return []mir.Operand{term.Value}
	case mir.SwitchTerm:
		combined := []mir.Operand{term.Value}
		for _, c := range term.Cases {
			combined = append(combined, c.Value)
		}
		return combined
	}
	return nil
}
