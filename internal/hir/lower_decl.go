package hir

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/types"
)

func (l *Lowerer) lowerTopDecl(d ast.Declaration) Decl {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		return l.lowerFunction(decl)
	case *ast.PropertyDecl:
		return l.lowerProperty(decl)
	case *ast.ClassDecl:
		return l.lowerClass(decl)
	case *ast.EnumDecl:
		return l.lowerEnum(decl)
	default:
		l.invariant(d.GetToken(), "unhandled top-level declaration kind")
		return nil
	}
}

func (l *Lowerer) lowerParams(params []*ast.Parameter) []*Parameter {
	out := make([]*Parameter, len(params))
	for i, p := range params {
		var def Expr
		if p.Default != nil {
			def = l.lowerExpr(p.Default)
		}
		out[i] = &Parameter{Name: p.Name, Type: l.paramType(p), Default: def}
	}
	return out
}

func (l *Lowerer) lowerTypeParams(tps []*ast.TypeParameterDecl) []*TypeParameter {
	out := make([]*TypeParameter, len(tps))
	for i, tp := range tps {
		out[i] = &TypeParameter{Name: tp.Name}
	}
	return out
}

// lowerFunction lowers one method/top-level function. A default-valued
// trailing parameter run generates one overload thunk per default,
// "Lambda with default-arg: generate overload thunks" extended from
// lambdas to every default-param function: each thunk has the
// corresponding defaulted parameters trimmed from its signature and
// forwards to the full function, supplying the literal default
// expressions positionally for the trimmed tail.
func (l *Lowerer) lowerFunction(decl *ast.FunctionDecl) *Function {
	sig, ok := l.sem.FuncSigs[decl.ID()]
	if !ok {
		sig = types.Function{Return: types.TUnit}
	}
	fn := &Function{
		base:       base{NID: l.next(), Token: decl.Token},
		Name:       decl.Name,
		TypeParams: l.lowerTypeParams(decl.TypeParams),
		Params:     l.lowerParams(decl.Params),
		Return:     sig.Return,
		Inline:     decl.Modifiers.Has(ast.ModInline),
	}
	if decl.Receiver != nil {
		// "fun T.foo(x) = body" -> "HirFunction foo(receiver: T, x) = body[this/receiver]":
		// the receiver becomes an ordinary leading parameter named "this",
		// so every later stage sees an extension method exactly like a
		// regular one.
		fn.Receiver = types.Class{QualifiedName: decl.Receiver.GetToken().Lexeme}
		fn.Params = append([]*Parameter{{Name: "this", Type: fn.Receiver}}, fn.Params...)
	}

	prevResult := l.fnResult
	l.fnResult = fn.Return
	switch {
	case decl.ExprBody != nil:
		result := l.lowerExpr(decl.ExprBody)
		fn.Body = &Block{base: base{NID: l.next(), Token: decl.Token}, Stmts: []Stmt{&Return{base: base{NID: l.next(), Token: decl.Token}, Value: result}}}
	case decl.BlockBody != nil:
		fn.Body = l.lowerBlock(decl.BlockBody)
	default:
		fn.Body = &Block{base: base{NID: l.next(), Token: decl.Token}}
	}
	l.fnResult = prevResult

	fn.Overloads = l.generateDefaultOverloads(decl, fn)
	return fn
}

// generateDefaultOverloads builds one thunk per defaulted trailing
// parameter, from the first defaulted parameter through the last.
func (l *Lowerer) generateDefaultOverloads(decl *ast.FunctionDecl, full *Function) []*Function {
	firstDefault := -1
	for i, p := range decl.Params {
		if p.Default != nil {
			firstDefault = i
			break
		}
	}
	if firstDefault == -1 {
		return nil
	}
	var thunks []*Function
	// full.Params may lead with a receiver "this" that decl.Params lacks.
	offset := len(full.Params) - len(decl.Params)
	for cut := firstDefault + offset; cut < len(full.Params); cut++ {
		args := make([]Expr, 0, len(full.Params))
		for i, p := range full.Params {
			if i < cut {
				args = append(args, &Identifier{base: base{NID: l.next(), Token: decl.Token}, Name: p.Name, Type: p.Type})
			} else {
				args = append(args, p.Default)
			}
		}
		thunks = append(thunks, &Function{
			base:   base{NID: l.next(), Token: decl.Token},
			Name:   full.Name,
			Params: full.Params[:cut],
			Return: full.Return,
			Body: &Block{base: base{NID: l.next(), Token: decl.Token}, Stmts: []Stmt{&Return{
				base:  base{NID: l.next(), Token: decl.Token},
				Value: &Call{base: base{NID: l.next(), Token: decl.Token}, Callee: &Identifier{base: base{NID: l.next(), Token: decl.Token}, Name: full.Name, Type: full.Return}, ResolvedTarget: full, Args: args, Type: full.Return},
			}}},
		})
	}
	return thunks
}

func (l *Lowerer) lowerProperty(decl *ast.PropertyDecl) *Property {
	t, ok := l.sem.PropTypes[decl.ID()]
	if !ok {
		t = types.Unresolved{Name: decl.Name}
	}
	prop := &Property{
		base:  base{NID: l.next(), Token: decl.Token},
		Name:  decl.Name,
		Type:  t,
		IsVal: decl.IsVal,
	}
	if decl.Init != nil {
		prop.Init = l.lowerExpr(decl.Init)
	}
	if decl.Getter != nil {
		prop.Getter = l.lowerFunction(decl.Getter)
	}
	if decl.Setter != nil {
		prop.Setter = l.lowerFunction(decl.Setter)
	}
	return prop
}

func (l *Lowerer) lowerClass(decl *ast.ClassDecl) *Class {
	c := &Class{
		base:       base{NID: l.next(), Token: decl.Token},
		Name:       decl.Name,
		Kind:       int(decl.Kind),
		TypeParams: l.lowerTypeParams(decl.TypeParams),
	}
	ctor := make([]*Parameter, len(decl.PrimaryCtor))
	for i, p := range decl.PrimaryCtor {
		ctor[i] = &Parameter{Name: p.Name, Type: l.paramType(p)}
	}
	c.PrimaryCtor = ctor

	for _, st := range decl.SuperTypes {
		c.SuperTypes = append(c.SuperTypes, types.Class{QualifiedName: typeRefName(st)})
	}
	for _, p := range decl.Properties {
		c.Properties = append(c.Properties, l.lowerProperty(p))
	}
	for _, fn := range decl.Functions {
		c.Functions = append(c.Functions, l.lowerFunction(fn))
	}
	for _, ib := range decl.InitBlocks {
		c.InitBlocks = append(c.InitBlocks, &InitBlock{base: base{NID: l.next(), Token: ib.Token}, Body: l.lowerBlock(ib.Body)})
	}
	return c
}

func (l *Lowerer) lowerEnum(decl *ast.EnumDecl) *Enum {
	e := &Enum{base: base{NID: l.next(), Token: decl.Token}, Name: decl.Name}
	for _, c := range decl.Cases {
		ec := &EnumCase{base: base{NID: l.next(), Token: c.Token}, Name: c.Name}
		for _, a := range c.Args {
			ec.Args = append(ec.Args, l.lowerExpr(a))
		}
		e.Cases = append(e.Cases, ec)
	}
	for _, fn := range decl.Functions {
		e.Functions = append(e.Functions, l.lowerFunction(fn))
	}
	return e
}

// typeRefName extracts the bare name off a supertype TypeRef, matching
// internal/semantic's own helper of the same purpose.
func typeRefName(tr ast.TypeRef) string {
	switch t := tr.(type) {
	case *ast.SimpleTypeRef:
		return t.Name
	case *ast.NullableTypeRef:
		return typeRefName(t.Inner)
	default:
		return ""
	}
}
