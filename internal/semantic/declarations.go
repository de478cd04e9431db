package semantic

import (
	"strings"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/types"
)

// declareImports brings every built-in registered under an imported
// artifact's owner path into file scope, ahead of declareTopLevel so a
// top-level declaration that collides with an imported name reports the
// same DuplicateDeclaration a same-unit collision would, rather than
// silently shadowing the built-in. "import lib.list" resolves
// against the stdlib catalog's "lib/list" owner (import paths are
// dot-separated; registration owners are slash-separated, matching a
// filesystem-style artifact path); an optional "@version" pin is stripped
// first since the catalog has no notion of built-in versioning.
func (a *Analyzer) declareImports(prog *ast.Program) {
	if a.catalog == nil {
		return
	}
	for _, imp := range prog.Imports {
		path := imp.Path
		if at := strings.LastIndex(path, "@"); at >= 0 {
			path = path[:at]
		}
		owner := strings.ReplaceAll(path, ".", "/")
		for _, r := range a.catalog.Members(owner) {
			a.declare(&Symbol{Name: r.Name, Type: r.Signature, Kind: FunctionSymbol, IsVal: true, Token: imp.Token})
		}
	}
}

// declareTopLevel hoists every top-level name into file scope before any
// body is checked, so a function can call another declared later in the
// same file and a class can reference a supertype declared after it.
func (a *Analyzer) declareTopLevel(prog *ast.Program) {
	a.declareExternal()
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			a.declare(&Symbol{Name: decl.Name, Type: a.functionType(decl), Kind: FunctionSymbol, Node: decl, Token: decl.Token})
		case *ast.PropertyDecl:
			a.declare(&Symbol{Name: decl.Name, Type: a.propertyDeclaredType(decl), Kind: ValueSymbol, IsVal: decl.IsVal, Node: decl, Token: decl.Token})
		case *ast.ClassDecl:
			a.classes[decl.Name] = decl
			a.declare(&Symbol{Name: decl.Name, Type: types.Class{QualifiedName: decl.Name}, Kind: ClassSymbol, IsVal: true, Node: decl, Token: decl.Token})
		case *ast.EnumDecl:
			a.enums[decl.Name] = decl
			a.declare(&Symbol{Name: decl.Name, Type: types.Class{QualifiedName: decl.Name}, Kind: ClassSymbol, IsVal: true, Node: decl, Token: decl.Token})
			for _, c := range decl.Cases {
				a.declare(&Symbol{Name: c.Name, Type: types.Class{QualifiedName: decl.Name}, Kind: ValueSymbol, IsVal: true, Node: c, Token: c.Token})
			}
		}
	}
}

// declareExternal declares classes and enums seeded from other units of
// the same build into file scope, the same way a same-unit declaration
// would be, so a type reference to either resolves regardless of which
// unit it came from.
func (a *Analyzer) declareExternal() {
	for name, decl := range a.externalClasses {
		a.classes[name] = decl
		a.declare(&Symbol{Name: name, Type: types.Class{QualifiedName: name}, Kind: ClassSymbol, IsVal: true, Node: decl, Token: decl.Token})
	}
	for name, decl := range a.externalEnums {
		a.enums[name] = decl
		a.declare(&Symbol{Name: name, Type: types.Class{QualifiedName: name}, Kind: ClassSymbol, IsVal: true, Node: decl, Token: decl.Token})
		for _, c := range decl.Cases {
			a.declare(&Symbol{Name: c.Name, Type: types.Class{QualifiedName: name}, Kind: ValueSymbol, IsVal: true, Node: c, Token: c.Token})
		}
	}
}

// functionType builds the types.Function signature of decl from its
// parameter and return-type annotations. An omitted return type resolves
// to Unit here and is refined to the expression body's inferred type once
// checkFunctionDecl runs, matching "declared-or-inferred" typing for
// function results the same way it applies to properties.
func (a *Analyzer) functionType(decl *ast.FunctionDecl) types.Function {
	params := make([]types.Type, len(decl.Params))
	for i, p := range decl.Params {
		if p.Type != nil {
			params[i] = a.resolveTypeRef(p.Type)
		} else {
			params[i] = types.Unresolved{Name: p.Name}
		}
	}
	ret := types.Type(types.TUnit)
	if decl.ReturnType != nil {
		ret = a.resolveTypeRef(decl.ReturnType)
	}
	var recv types.Type
	if decl.Receiver != nil {
		recv = a.resolveTypeRef(decl.Receiver)
	}
	return types.Function{Params: params, Return: ret, Receiver: recv}
}

func (a *Analyzer) propertyDeclaredType(decl *ast.PropertyDecl) types.Type {
	if decl.Type != nil {
		return a.resolveTypeRef(decl.Type)
	}
	return types.Unresolved{Name: decl.Name}
}

// checkTopLevel walks every top-level declaration's body now that the
// whole file's names are in scope.
func (a *Analyzer) checkTopLevel(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			a.checkFunctionDecl(decl, nil)
		case *ast.PropertyDecl:
			a.checkPropertyDecl(decl)
		case *ast.ClassDecl:
			a.checkClassDecl(decl)
		case *ast.EnumDecl:
			a.checkEnumDecl(decl)
		}
	}
}

// checkFunctionDecl checks one function/method body. owner is the
// enclosing ClassDecl, or nil for a top-level or extension function.
func (a *Analyzer) checkFunctionDecl(decl *ast.FunctionDecl, owner *ast.ClassDecl) {
	sig := a.functionType(decl)
	if owner != nil && decl.Modifiers.Has(ast.ModOverride) {
		if !a.checkOverride(decl, owner, sig) {
			a.report(diagnostics.InvalidOverride(decl.Token, decl.Name))
		}
	}

	pop := a.pushScope(FunctionScope)
	defer pop()
	a.fn = &funcContext{Name: decl.Name, ReturnType: sig.Return, Parent: a.fn}
	defer func() { a.fn = a.fn.Parent }()

	for _, tp := range decl.TypeParams {
		var bound types.Type
		if tp.Bound != nil {
			bound = a.resolveTypeRef(tp.Bound)
		}
		a.declare(&Symbol{Name: tp.Name, Type: types.TypeParameter{Name: tp.Name, Bound: bound}, Kind: TypeParamSymbol, IsVal: true, Token: tp.Token})
	}
	for i, p := range decl.Params {
		a.declare(&Symbol{Name: p.Name, Type: sig.Params[i], Kind: ValueSymbol, IsVal: true, Node: p, Token: p.Token})
		a.ParamTypes[p.ID()] = sig.Params[i]
	}

	switch {
	case decl.ExprBody != nil:
		bodyType := a.checkExpr(decl.ExprBody)
		if decl.ReturnType == nil {
			a.fn.ReturnType = bodyType
			sig.Return = bodyType
		} else if !types.Assignable(bodyType, sig.Return) {
			a.report(diagnostics.TypeMismatch(decl.ExprBody.GetToken(), sig.Return.String(), bodyType.String()))
		}
	case decl.BlockBody != nil:
		a.checkBlock(decl.BlockBody)
	}
	a.FuncSigs[decl.ID()] = sig
}

func (a *Analyzer) checkPropertyDecl(decl *ast.PropertyDecl) {
	declared := decl.Type
	var declaredType types.Type
	if declared != nil {
		declaredType = a.resolveTypeRef(declared)
	}
	if decl.Init != nil {
		initType := a.checkExpr(decl.Init)
		if declaredType == nil {
			declaredType = initType
			if sym, ok := a.scope.LookupLocal(decl.Name); ok {
				sym.Type = initType
			}
		} else if !types.Assignable(initType, declaredType) {
			a.report(diagnostics.TypeMismatch(decl.Init.GetToken(), declaredType.String(), initType.String()))
		}
	}
	if decl.Getter != nil {
		a.checkFunctionDecl(decl.Getter, nil)
	}
	if decl.Setter != nil {
		a.checkFunctionDecl(decl.Setter, nil)
	}
	if declaredType != nil {
		a.PropTypes[decl.ID()] = declaredType
	} else {
		a.PropTypes[decl.ID()] = types.Unresolved{Name: decl.Name}
	}
}

func (a *Analyzer) checkClassDecl(decl *ast.ClassDecl) {
	pop := a.pushScope(ClassScope)
	defer pop()
	a.scope.Self = types.Class{QualifiedName: decl.Name}

	for _, tp := range decl.TypeParams {
		a.declare(&Symbol{Name: tp.Name, Type: types.TypeParameter{Name: tp.Name}, Kind: TypeParamSymbol, IsVal: true, Token: tp.Token})
	}
	for _, p := range decl.PrimaryCtor {
		var t types.Type = types.Unresolved{Name: p.Name}
		if p.Type != nil {
			t = a.resolveTypeRef(p.Type)
		}
		a.declare(&Symbol{Name: p.Name, Type: t, Kind: ValueSymbol, IsVal: true, Node: p, Token: p.Token})
		a.ParamTypes[p.ID()] = t
	}
	for _, st := range decl.SuperTypes {
		a.resolveTypeRef(st) // surfaces no diagnostic itself; used by override/member lookup
	}
	// Declare every member name before checking any body, so one method
	// can call a sibling declared later in the same class, and a property
	// initializer can reference another property by its bare name rather
	// than needing an explicit `this.`.
	for _, prop := range decl.Properties {
		a.declare(&Symbol{Name: prop.Name, Type: a.propertyDeclaredType(prop), Kind: ValueSymbol, IsVal: prop.IsVal, Node: prop, Token: prop.Token})
	}
	for _, fn := range decl.Functions {
		a.declare(&Symbol{Name: fn.Name, Type: a.functionType(fn), Kind: FunctionSymbol, Node: fn, Token: fn.Token})
	}
	for _, prop := range decl.Properties {
		a.checkPropertyDecl(prop)
	}
	for _, fn := range decl.Functions {
		a.checkFunctionDecl(fn, decl)
	}
	for _, ib := range decl.InitBlocks {
		a.checkBlock(ib.Body)
	}
}

func (a *Analyzer) checkEnumDecl(decl *ast.EnumDecl) {
	pop := a.pushScope(ClassScope)
	defer pop()
	a.scope.Self = types.Class{QualifiedName: decl.Name}
	for _, c := range decl.Cases {
		for _, arg := range c.Args {
			a.checkExpr(arg)
		}
	}
	for _, fn := range decl.Functions {
		a.declare(&Symbol{Name: fn.Name, Type: a.functionType(fn), Kind: FunctionSymbol, Node: fn, Token: fn.Token})
	}
	for _, fn := range decl.Functions {
		a.checkFunctionDecl(fn, nil)
	}
}
