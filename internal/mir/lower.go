package mir

import (
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/hir"
	"github.com/novalang/novac/internal/token"
)

// internalInvariant is the panic payload Lower recovers, mirroring
// hir.Lowerer's own internalInvariant: a block-construction shape this
// pass doesn't understand (a break with no enclosing loop, a label that
// resolves to nothing) aborts the whole unit rather than emitting a
// malformed MirFunction for a later pass to choke on.
type internalInvariant struct {
	tok    token.Token
	detail string
}

// Lowerer turns one hir.Program into a mir.Program: every hir.Function
// becomes a MirFunction with its body expanded into basic blocks, every
// hir.Class becomes a ClassLayout recording its field order and method
// table. Mirrors the two-pass declare-then-build shape the hir.Lowerer
// itself uses (and semantic.Analyzer before that): functions are
// registered by identity before any body is lowered, so a call to a
// function declared later in the same file still resolves to a real
// *MirFunction instead of falling back to a dynamic dispatch.
type Lowerer struct {
	reporter *diagnostics.Reporter
	prog     *Program
	funcs    map[*hir.Function]*MirFunction
	classes  map[string]*ClassLayout
}

// New constructs a Lowerer reporting through reporter.
func New(reporter *diagnostics.Reporter) *Lowerer {
	return &Lowerer{
		reporter: reporter,
		prog:     &Program{},
		funcs:    map[*hir.Function]*MirFunction{},
		classes:  map[string]*ClassLayout{},
	}
}

func (l *Lowerer) invariant(tok token.Token, detail string) {
	panic(internalInvariant{tok: tok, detail: detail})
}

// Lower runs the full HIR->MIR pass over prog.
func (l *Lowerer) Lower(prog *hir.Program) (result *Program) {
	defer func() {
		if r := recover(); r != nil {
			if inv, ok := r.(internalInvariant); ok {
				l.reporter.Report(diagnostics.InternalInvariant(inv.tok, inv.detail))
				result = nil
				return
			}
			panic(r)
		}
	}()

	for _, d := range prog.Decls {
		l.declare(d)
	}
	for _, d := range prog.Decls {
		l.lowerDecl(d)
	}
	return l.prog
}

func (l *Lowerer) declare(d hir.Decl) {
	switch decl := d.(type) {
	case *hir.Function:
		l.declareFunction(decl)
	case *hir.Class:
		layout := &ClassLayout{Name: decl.Name}
		for i, p := range decl.Properties {
			layout.Fields = append(layout.Fields, FieldLayout{Name: p.Name, Type: p.Type, Index: i})
		}
		for _, st := range decl.SuperTypes {
			layout.SuperNames = append(layout.SuperNames, st.String())
		}
		l.classes[decl.Name] = layout
		l.prog.Classes = append(l.prog.Classes, layout)
		for _, fn := range decl.Functions {
			l.declareFunction(fn)
		}
	case *hir.Enum:
		for _, fn := range decl.Functions {
			l.declareFunction(fn)
		}
	}
}

func (l *Lowerer) declareFunction(fn *hir.Function) *MirFunction {
	if mf, ok := l.funcs[fn]; ok {
		return mf
	}
	mf := &MirFunction{Name: fn.Name, ReturnType: fn.Return}
	l.funcs[fn] = mf
	l.prog.Functions = append(l.prog.Functions, mf)
	for _, o := range fn.Overloads {
		l.declareFunction(o)
	}
	return mf
}

func (l *Lowerer) lowerDecl(d hir.Decl) {
	switch decl := d.(type) {
	case *hir.Function:
		l.lowerFunction(decl)
	case *hir.Class:
		layout := l.classes[decl.Name]
		for _, fn := range decl.Functions {
			layout.Methods = append(layout.Methods, l.lowerFunction(fn))
		}
	case *hir.Enum:
		for _, fn := range decl.Functions {
			l.lowerFunction(fn)
		}
	}
}

// lowerFunction builds fn's body into the MirFunction declared for it in
// the declare pass, in place, so earlier-recorded *MirFunction pointers
// (recorded as a Call's ResolvedTarget by other functions' bodies) stay
// valid.
func (l *Lowerer) lowerFunction(fn *hir.Function) *MirFunction {
	mf := l.funcs[fn]
	for _, o := range fn.Overloads {
		l.lowerFunction(o)
	}
	if fn.Body == nil {
		return mf
	}
	params := make([]*LocalSlot, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = NewLocalSlot(p.Name, p.Type, false)
	}
	b := NewBuilder(fn.Name, params, fn.Return)
	fb := &funcBuilder{l: l, b: b, capturedNames: computeCaptures(fn.Params, fn.Body)}
	for i, p := range fn.Params {
		if fb.capturedNames[p.Name] {
			params[i].Captured = true
		}
	}
	fb.lowerBlock(fn.Body)
	if b.cur.Term == nil {
		b.Terminate(ReturnTerm{})
	}
	*mf = *b.Finish()
	mf.Params = params
	return mf
}

// funcBuilder pairs a Builder with the enclosing Lowerer, so statement
// and expression lowering (lower_stmt.go, lower_expr.go) can both emit
// blocks/instructions and resolve Call targets / class layouts.
// capturedNames holds every one of this function's own parameter/local
// names that some lambda nested in its body captures by reference,
// computed once up front (computeCaptures in capture.go) so a captured
// slot's very first assignment already takes the box-indirected path
// rather than only from the point the closure is created.
type funcBuilder struct {
	l             *Lowerer
	b             *Builder
	capturedNames map[string]bool
}

// readSlot produces the Operand reading slot's current value: a direct
// LocalOperand for a plain slot, or a BoxRef+UnboxRef pair for one
// shared with a closure, since a captured slot's stored content is the
// box pointer rather than the value itself (see BoxRefInstr).
func (fb *funcBuilder) readSlot(slot *LocalSlot) Operand {
	if !slot.Captured {
		return LocalOperand{Slot: slot}
	}
	ptr := fb.b.FreshReg()
	fb.b.Emit(&BoxRefInstr{Dst: ptr, Slot: slot})
	val := fb.b.FreshReg()
	fb.b.Emit(&UnboxRefInstr{Dst: val, Box: RegOperand{Reg: ptr}, Type: slot.Type})
	return RegOperand{Reg: val, Type: slot.Type}
}

// writeSlot is readSlot's write-side counterpart.
func (fb *funcBuilder) writeSlot(slot *LocalSlot, value Operand) {
	if !slot.Captured {
		fb.b.Emit(&MoveInstr{Target: slot, Src: value})
		return
	}
	ptr := fb.b.FreshReg()
	fb.b.Emit(&BoxRefInstr{Dst: ptr, Slot: slot})
	fb.b.Emit(&BoxStoreInstr{Box: RegOperand{Reg: ptr}, Value: value})
}
