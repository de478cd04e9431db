package semantic

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/config"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/stdlib"
	"github.com/novalang/novac/internal/types"
)

// StrictWarnings lists the diagnostic codes config.StrictMode promotes from
// Warning to Error. Every other warning the analyzer reports stays a
// warning regardless of the switch.
var StrictWarnings = map[string]bool{
	"S008": true, // shadowed declaration
	"S009": true, // non-exhaustive when
}

// funcContext tracks the innermost function/lambda body being checked, so
// ReturnStmt and ErrorPropagationExpr can see the expected return type.
type funcContext struct {
	Name       string
	ReturnType types.Type
	Parent     *funcContext
}

// Analyzer is a one-shot walker: construct with New, call Analyze once per
// Program, then read TypeMap.
type Analyzer struct {
	reporter *diagnostics.Reporter

	scope   *Scope
	classes map[string]*ast.ClassDecl
	enums   map[string]*ast.EnumDecl
	fn      *funcContext

	// suppressNullCheck is set while checking the Member side of a
	// SafeCallExpr, so a nullable target there doesn't also raise the
	// plain dereference diagnostic SafeCallExpr exists to avoid.
	suppressNullCheck bool

	// TypeMap records the resolved type of every expression node visited,
	// keyed by NodeID per the side-table convention ast.go documents.
	// Later stages (HIR lowering) read this instead of re-inferring.
	TypeMap map[ast.NodeID]types.Type

	// FuncSigs and PropTypes extend the same side-table convention to
	// declarations, whose own NodeID never passes through recordType
	// since only expressions do: a FunctionDecl's resolved signature
	// (with its return type refined from an expression body when none was
	// declared) and a PropertyDecl's declared-or-inferred type both need
	// a home the Lowerer can read without re-resolving TypeRefs itself.
	FuncSigs  map[ast.NodeID]types.Function
	PropTypes map[ast.NodeID]types.Type

	// ParamTypes records the resolved type of every ast.Parameter node
	// (function/lambda/primary-constructor params alike) the same way,
	// since a Parameter is neither an Expression nor separately present
	// in FuncSigs' per-index Params slice once the Lowerer wants to
	// rebuild one specific node's type without re-walking the signature.
	ParamTypes map[ast.NodeID]types.Type

	// CallTargets records, for a CallExpr whose callee resolved to a
	// concrete declaration, that declaration's own Parameter list: named
	// arguments and defaulted trailing arguments can only be reordered
	// into position by the Lowerer once it knows the callee's declared
	// parameter names, which checkCallExpr already resolves and a bare
	// types.Function return value can't carry.
	CallTargets map[ast.NodeID][]*ast.Parameter

	// externalClasses and externalEnums hold declarations from other
	// compilation units in the same build, seeded via SeedExternalClasses
	// before Analyze runs. They resolve the same way a same-unit
	// ClassDecl/EnumDecl does but are never themselves type-checked here —
	// each belongs to whichever unit declared it.
	externalClasses map[string]*ast.ClassDecl
	externalEnums   map[string]*ast.EnumDecl

	// catalog is the built-in registration catalog an ImportDecl resolves
	// against: importing "lib.list" brings every stdlib.Registration owned
	// by "lib/list" into file scope as an ordinary FunctionSymbol, typed
	// by its Signature, so a call against it type-checks the same way a
	// call to a same-unit function does.
	catalog *stdlib.Catalog
}

// SeedExternalClasses makes classes and enums declared in other
// compilation units of the same build resolvable from this unit, without
// re-checking their bodies. Call before Analyze.
func (a *Analyzer) SeedExternalClasses(classes map[string]*ast.ClassDecl, enums map[string]*ast.EnumDecl) {
	a.externalClasses = classes
	a.externalEnums = enums
}

// New builds an Analyzer reporting through reporter.
func New(reporter *diagnostics.Reporter) *Analyzer {
	return &Analyzer{
		reporter:  reporter,
		classes:   map[string]*ast.ClassDecl{},
		enums:     map[string]*ast.EnumDecl{},
		TypeMap:   map[ast.NodeID]types.Type{},
		FuncSigs:    map[ast.NodeID]types.Function{},
		PropTypes:   map[ast.NodeID]types.Type{},
		ParamTypes:  map[ast.NodeID]types.Type{},
		CallTargets: map[ast.NodeID][]*ast.Parameter{},
		catalog:     stdlib.Builtin(),
	}
}

// Analyze runs the two-pass walk over prog: declareTopLevel hoists every
// top-level name into file scope so forward references resolve, then
// checkTopLevel walks bodies with that complete scope already in place.
func (a *Analyzer) Analyze(prog *ast.Program) {
	a.scope = NewScope(FileScope, nil)
	a.declareImports(prog)
	a.declareTopLevel(prog)
	a.checkTopLevel(prog)
}

// report files d, promoting a StrictWarnings-listed warning to an error
// when config.StrictMode is on. This is the single path every check in
// the package reports through.
func (a *Analyzer) report(d *diagnostics.Diagnostic) {
	if d.Severity == diagnostics.Warning && config.StrictMode && StrictWarnings[d.Code] {
		promoted := *d
		promoted.Severity = diagnostics.Error
		a.reporter.Report(&promoted)
		return
	}
	a.reporter.Report(d)
}

// pushScope enters a child scope of the given kind and returns a function
// that restores the prior scope; callers defer it.
func (a *Analyzer) pushScope(kind ScopeKind) func() {
	prev := a.scope
	a.scope = NewScope(kind, prev)
	return func() { a.scope = prev }
}

// declare binds sym in the current scope, reporting DuplicateDeclaration
// on a same-scope collision and the (possibly strict-promoted)
// ShadowedDeclaration warning when sym merely shadows an outer binding.
func (a *Analyzer) declare(sym *Symbol) {
	if prev, ok := a.scope.Declare(sym); !ok {
		_ = prev
		a.report(diagnostics.DuplicateDeclaration(sym.Token, sym.Name))
		return
	}
	if a.scope.Shadows(sym.Name) {
		a.report(diagnostics.ShadowedDeclaration(sym.Token, sym.Name))
	}
}

// recordType stores t in TypeMap under e's NodeID and returns t, so call
// sites can write `return a.recordType(e, t)`.
func (a *Analyzer) recordType(e ast.Expression, t types.Type) types.Type {
	a.TypeMap[e.ID()] = t
	return t
}

// Classes exposes the file's declared classes by name, for the Lowerer
// to tell a user-defined operand from a built-in one when desugaring an
// overloaded operator.
func (a *Analyzer) Classes() map[string]*ast.ClassDecl { return a.classes }

// Enums exposes the file's declared enums by name.
func (a *Analyzer) Enums() map[string]*ast.EnumDecl { return a.enums }

// ResolveType exposes resolveTypeRef for the Lowerer, which needs to turn
// a handful of TypeRefs not already captured in TypeMap/ParamTypes/
// PropTypes/FuncSigs (a catch clause's filter type, a supertype list
// entry) into the same types.Type every other stage shares.
func (a *Analyzer) ResolveType(tr ast.TypeRef) types.Type { return a.resolveTypeRef(tr) }
