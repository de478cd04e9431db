package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/ops"
)

// Op tags one entry of a CodeObject's flattened bytecode_sequence. Every
// tag but opJump/opBranch/opSwitch/opUnwind carries a *mir.Instr the
// runner executes through the same execCtx.execInstr the Evaluator
// uses; the control-flow tags instead carry resolved offsets into Code,
// translating a BasicBlock's BlockID-addressed terminator into the
// "addressable by block offsets" shape a linear artifact needs.
type Op int

const (
	opInstr Op = iota
	opReturn
	opJump
	opBranch
	opSwitch
	opThrow
	opUnwind
)

// CodeOp is one step of a CodeObject's bytecode_sequence.
type CodeOp struct {
	Op     Op
	Instr  mir.Instr  // opInstr
	Value  mir.Operand // opReturn (may be nil)/opBranch cond/opThrow/opSwitch subject
	Then   int         // opBranch/opJump/opSwitch default: resolved Code index
	Else   int         // opBranch: resolved Code index
	Cases  []caseEdge  // opSwitch
	Target int         // opUnwind: resolved Code index of the landing pad's first op
}

type caseEdge struct {
	Value mir.Operand
	Then  int
}

// Descriptor is one parameter or field slot's declared name and type,
// kept only for the compiled artifact's descriptor_table — the
// executor itself reads types off the MirFunction/ClassLayout directly,
// never off this table.
type Descriptor struct {
	Name string
	Type string
}

// CodeObject is the emitter's compiled artifact for one MirFunction: a
// {descriptor_table, constant_pool, bytecode_sequence} triple.
// QualifiedName follows Nova's addressing convention: a class's
// fully-qualified name with every "." replaced by "/".
type CodeObject struct {
	QualifiedName string
	Descriptors   []Descriptor
	ConstantPool  []interface{}
	Code          []CodeOp
	blockOffset   map[mir.BlockID]int
}

func qualify(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// emitFunction flattens fn's basic blocks into one linear Code slice in
// Blocks order, recording each block's starting offset so terminators
// can resolve their BlockID targets to a Code index — an artifact
// addressable by block offsets rather than by BlockID directly.
func emitFunction(fn *mir.MirFunction) *CodeObject {
	co := &CodeObject{
		QualifiedName: qualify(fn.Name),
		blockOffset:   make(map[mir.BlockID]int, len(fn.Blocks)),
	}
	for _, p := range fn.Params {
		co.Descriptors = append(co.Descriptors, Descriptor{Name: p.Name, Type: p.Type.String()})
	}
	for _, b := range fn.Blocks {
		co.blockOffset[b.ID] = len(co.Code)
		for _, instr := range b.Instrs {
			co.Code = append(co.Code, CodeOp{Op: opInstr, Instr: instr})
			if c, ok := instr.(*mir.ConstInstr); ok {
				co.ConstantPool = append(co.ConstantPool, c.Value)
			}
		}
		co.Code = append(co.Code, CodeOp{}) // placeholder, patched below once offsets are final
	}
	// A terminator may jump to a block that hasn't been emitted yet (a
	// backward edge is fine since blockOffset is already complete, but a
	// forward edge needs every block's offset recorded first), so
	// terminators are resolved in a second pass over the now-complete
	// offset table.
	i := 0
	for _, b := range fn.Blocks {
		i += len(b.Instrs)
		co.Code[i] = resolveTerm(b.Term, co.blockOffset)
		i++
	}
	return co
}

// EmitProgram compiles every function in prog — top-level functions and
// every class's methods — into a CodeObject, keyed by its fully
// qualified name: a method's class name and its own name joined by ".",
// then qualified the same way a bare top-level function's name already
// is. This is compile_file's codegen step, producing one code object per
// lowered function addressed the way a class's members are addressed.
func EmitProgram(prog *mir.Program) map[string]*CodeObject {
	inClass := make(map[*mir.MirFunction]bool)
	objects := make(map[string]*CodeObject, len(prog.Functions))
	for _, c := range prog.Classes {
		for _, m := range c.Methods {
			inClass[m] = true
			objects[qualify(c.Name+"."+m.Name)] = emitFunction(m)
		}
	}
	for _, fn := range prog.Functions {
		if inClass[fn] {
			continue
		}
		objects[qualify(fn.Name)] = emitFunction(fn)
	}
	return objects
}

func resolveTerm(term mir.Terminator, offsets map[mir.BlockID]int) CodeOp {
	switch t := term.(type) {
	case mir.ReturnTerm:
		return CodeOp{Op: opReturn, Value: t.Value}
	case mir.JumpTerm:
		return CodeOp{Op: opJump, Then: offsets[t.Target]}
	case mir.BranchTerm:
		return CodeOp{Op: opBranch, Value: t.Cond, Then: offsets[t.Then], Else: offsets[t.Else]}
	case mir.SwitchTerm:
		cases := make([]caseEdge, len(t.Cases))
		for i, c := range t.Cases {
			cases[i] = caseEdge{Value: c.Value, Then: offsets[c.Target]}
		}
		return CodeOp{Op: opSwitch, Value: t.Value, Then: offsets[t.Default], Cases: cases}
	case mir.ThrowTerm:
		return CodeOp{Op: opThrow, Value: t.Value}
	case mir.UnwindTerm:
		return CodeOp{Op: opUnwind, Target: offsets[t.LandingPad]}
	default:
		return CodeOp{Op: opReturn}
	}
}

// Emitter compiles each MirFunction to a CodeObject and runs it on a
// flat program-counter loop instead of walking mir.BasicBlocks directly.
// It still calls execCtx.execInstr/raiseInto for every instruction and
// exception edge — the same code the Evaluator runs — so the two back
// ends can only diverge in how they address the next step, never in
// what an instruction computes.
type Emitter struct{}

func NewEmitter() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string { return "emitter" }

func (e *Emitter) Run(ctx context.Context, prog *mir.Program, entry *mir.MirFunction, args []ops.Value) (ops.Value, error) {
	ec := &execCtx{
		ctx:     ctx,
		prog:    prog,
		checker: newClassChecker(prog.Classes),
		funcs:   indexFunctions(prog),
	}
	objects := make(map[*mir.MirFunction]*CodeObject, len(prog.Functions))
	for _, fn := range prog.Functions {
		objects[fn] = emitFunction(fn)
	}
	for _, c := range prog.Classes {
		for _, m := range c.Methods {
			objects[m] = emitFunction(m)
		}
	}
	return ec.runCompiled(entry, objects, args)
}

// runCompiled is callFunction's flat-PC counterpart: the CodeObject
// supplies Code/blockOffset, but landing-pad resolution still goes
// through the original *mir.MirFunction/BasicBlock (the compiled
// artifact's byte format is secondary — only its addressing, not its
// semantics, differs from the Evaluator's).
func (ec *execCtx) runCompiled(fn *mir.MirFunction, objects map[*mir.MirFunction]*CodeObject, args []ops.Value) (ops.Value, error) {
	co, ok := objects[fn]
	if !ok {
		co = emitFunction(fn)
		objects[fn] = co
	}
	fr := newFrame(fn, args)
	blockOf := blockIndexFromOffsets(fn, co)
	pc := 0
	for pc < len(co.Code) {
		op := co.Code[pc]
		switch op.Op {
		case opInstr:
			ec.instrCount++
			if ec.instrCount%checkInterval == 0 {
				select {
				case <-ec.ctx.Done():
					return ops.Value{}, ec.ctx.Err()
				default:
				}
			}
			val, thrown, err := ec.execCompiledInstr(fn, fr, op.Instr, objects)
			if err != nil {
				return ops.Value{}, err
			}
			if thrown != nil {
				block := blockOf(pc)
				target, ok := ec.raiseInto(fn, fr, block, *thrown)
				if !ok {
					return ops.Value{}, &RuntimeError{Value: *thrown}
				}
				pc = co.blockOffset[target]
				continue
			}
			if dst, ok := instrDst(op.Instr); ok {
				fr.regs[dst] = val
			}
			pc++
		case opReturn:
			if op.Value == nil {
				return ops.Null(), nil
			}
			return ec.evalOperand(fr, op.Value), nil
		case opJump:
			pc = op.Then
		case opBranch:
			if ec.evalOperand(fr, op.Value).Bool {
				pc = op.Then
			} else {
				pc = op.Else
			}
		case opSwitch:
			v := ec.evalOperand(fr, op.Value)
			pc = op.Then
			for _, c := range op.Cases {
				if valuesEqual(v, ec.evalOperand(fr, c.Value)) {
					pc = c.Then
					break
				}
			}
		case opThrow:
			val := ec.evalOperand(fr, op.Value)
			block := blockOf(pc)
			target, ok := ec.raiseInto(fn, fr, block, val)
			if !ok {
				return ops.Value{}, &RuntimeError{Value: val}
			}
			pc = co.blockOffset[target]
		case opUnwind:
			if fr.pendingExc == nil {
				return ops.Value{}, errUnwindWithNoPending
			}
			target := blockAtOffset(fn, op.Target, co)
			if slot := excSlotOf(target); slot != nil {
				fr.locals[slot] = *fr.pendingExc
			}
			pc = op.Target
		}
	}
	return ops.Null(), nil
}

// execCompiledInstr is execInstr with one addition: a CallInstr's
// callee also runs through runCompiled (so a compiled program never
// drops back to block-walking mid-call), recursing with the same
// already-emitted CodeObject cache.
func (ec *execCtx) execCompiledInstr(fn *mir.MirFunction, fr *frame, instr mir.Instr, objects map[*mir.MirFunction]*CodeObject) (ops.Value, *ops.Value, error) {
	call, ok := instr.(*mir.CallInstr)
	if !ok {
		return ec.execInstr(fn, fr, instr)
	}
	args := make([]ops.Value, len(call.Args))
	for idx, a := range call.Args {
		args[idx] = ec.evalOperand(fr, a)
	}
	target := call.Target
	if target == nil {
		resolved, err := ec.resolveDynamic(call.Name, args)
		if err != nil {
			return ops.Value{}, nil, err
		}
		target = resolved
	}
	result, err := ec.runCompiled(target, objects, args)
	if err != nil {
		if rerr, ok := asRuntimeError(err); ok {
			return ops.Value{}, &rerr.Value, nil
		}
		return ops.Value{}, nil, err
	}
	return result, nil, nil
}

func asRuntimeError(err error) (*RuntimeError, bool) {
	rerr, ok := err.(*RuntimeError)
	return rerr, ok
}

// blockIndexFromOffsets returns a function mapping a Code index back to
// the BasicBlock it falls within, needed to find a throwing op's
// enclosing block (and thus its LandingPad) without re-walking fn.Blocks
// on every single exception.
func blockIndexFromOffsets(fn *mir.MirFunction, co *CodeObject) func(pc int) *mir.BasicBlock {
	starts := make([]int, 0, len(fn.Blocks))
	byStart := make(map[int]*mir.BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		off := co.blockOffset[b.ID]
		starts = append(starts, off)
		byStart[off] = b
	}
	return func(pc int) *mir.BasicBlock {
		best := -1
		for _, s := range starts {
			if s <= pc && s > best {
				best = s
			}
		}
		return byStart[best]
	}
}

func blockAtOffset(fn *mir.MirFunction, pc int, co *CodeObject) *mir.BasicBlock {
	for _, b := range fn.Blocks {
		if co.blockOffset[b.ID] == pc {
			return b
		}
	}
	return nil
}

var errUnwindWithNoPending = errors.New("backend: unwind reached with no propagating exception")
