package hir

import (
	"fmt"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/semantic"
	"github.com/novalang/novac/internal/token"
	"github.com/novalang/novac/internal/types"
)

// internalInvariant is the panic payload Lower recovers: a lowering-stage
// internal-invariant violation aborts the whole unit rather than letting
// the lowerer continue on a tree shape it doesn't understand.
type internalInvariant struct {
	tok    token.Token
	detail string
}

// Lowerer turns a type-annotated AST into HIR. One Lowerer instance is
// good for one compilation unit; construct with New and call Lower once.
// It reads every type straight from the semantic.Analyzer that already
// walked this unit and never re-infers one itself.
type Lowerer struct {
	ids      IDGen
	sem      *semantic.Analyzer
	reporter *diagnostics.Reporter
	file     string

	tempSeq  int
	fnResult types.Type // current function's result type, for `expr?` desugaring's early return
}

// New constructs a Lowerer over sem, the semantic.Analyzer that already
// annotated prog.
func New(reporter *diagnostics.Reporter, sem *semantic.Analyzer, file string) *Lowerer {
	return &Lowerer{reporter: reporter, sem: sem, file: file}
}

func (l *Lowerer) next() NodeID { return l.ids.Next() }

// nextTemp names a synthetic local introduced by a desugaring rule
// (the `t` in "let t = a; ..."); suffixing with a sequence number keeps
// every temp unique within the unit even when a rule fires more than
// once in the same scope.
func (l *Lowerer) nextTemp(hint string) string {
	l.tempSeq++
	return fmt.Sprintf("$%s%d", hint, l.tempSeq)
}

func (l *Lowerer) typeOf(e ast.Expression) types.Type {
	if e == nil {
		return types.Unresolved{}
	}
	if t, ok := l.sem.TypeMap[e.ID()]; ok {
		return t
	}
	return types.Unresolved{}
}

func (l *Lowerer) paramType(p *ast.Parameter) types.Type {
	if t, ok := l.sem.ParamTypes[p.ID()]; ok {
		return t
	}
	return types.Unresolved{Name: p.Name}
}

// typeOfRef resolves a TypeRef not already captured by one of the
// semantic side tables, such as a catch clause's filter type.
func (l *Lowerer) typeOfRef(tr ast.TypeRef) types.Type {
	return l.sem.ResolveType(tr)
}

// invariant aborts the current unit: unlike every earlier stage, the
// lowerer does not continue past an internal-invariant violation. Lower
// recovers the panic and turns it back into a reported diagnostic plus a
// nil result.
func (l *Lowerer) invariant(tok token.Token, detail string) {
	panic(internalInvariant{tok: tok, detail: detail})
}

// isBuiltinOperand reports whether t is a type the back end implements
// operators on natively, as opposed to a user class/interface whose `+`,
// `[]`, etc. lower to a method call instead (see operatorMethodName).
func isBuiltinOperand(t types.Type) bool {
	switch v := types.Unwrap(t).(type) {
	case types.Primitive:
		return true
	case types.Class:
		switch v.QualifiedName {
		case "List", "Set", "Map", "Range", "String", "Array":
			return true
		}
		return false
	default:
		return false
	}
}

// Lower runs the AST->HIR desugaring pass over prog. It returns nil and
// reports an InternalInvariant diagnostic if an unrecoverable shape is
// found; otherwise it returns a complete Program.
func (l *Lowerer) Lower(prog *ast.Program) (result *Program) {
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

	decls := make([]Decl, 0, len(prog.Decls))
	for _, d := range prog.Decls {
		decls = append(decls, l.lowerTopDecl(d))
	}
	return &Program{base: base{NID: l.next()}, File: prog.File, Decls: decls}
}
