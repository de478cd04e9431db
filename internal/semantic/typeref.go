package semantic

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/types"
)

// primitiveNames maps the lexical name of each built-in type to its
// types.Primitive constructor, so resolveTypeRef never builds a Class for
// one of these by mistake.
var primitiveNames = map[string]types.Type{
	"Int": types.TInt, "Long": types.TLong, "Double": types.TDouble,
	"Float": types.TFloat, "Boolean": types.TBoolean, "Char": types.TChar,
	"String": types.TString, "Unit": types.TUnit, "Nothing": types.TNothing,
	"Any": types.TAny,
}

// resolveTypeRef converts the parser's transient TypeRef syntax into a
// types.Type, the point at which a declaration's type annotation stops
// being ast-shaped and becomes the sum type every later stage shares.
// A name that resolves to an in-scope TypeParamSymbol becomes a
// TypeParameter; any other capitalized name becomes a Class, resolved or
// not — an unresolved class name surfaces as an UnresolvedName diagnostic
// only at the point it's actually used (a call, a member access), not
// here, since a forward reference to a not-yet-declared class is legal.
func (a *Analyzer) resolveTypeRef(tr ast.TypeRef) types.Type {
	if tr == nil {
		return types.Unresolved{}
	}
	switch t := tr.(type) {
	case *ast.SimpleTypeRef:
		if sym, ok := a.scope.Lookup(t.Name); ok && sym.Kind == TypeParamSymbol {
			return sym.Type
		}
		if prim, ok := primitiveNames[t.Name]; ok && len(t.TypeArgs) == 0 {
			return prim
		}
		args := make([]types.Type, len(t.TypeArgs))
		for i, arg := range t.TypeArgs {
			args[i] = a.resolveTypeRef(arg)
		}
		return types.Class{QualifiedName: t.Name, TypeArgs: args}
	case *ast.NullableTypeRef:
		return types.NewNullable(a.resolveTypeRef(t.Inner))
	case *ast.FunctionTypeRef:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = a.resolveTypeRef(p)
		}
		var recv types.Type
		if t.Receiver != nil {
			recv = a.resolveTypeRef(t.Receiver)
		}
		return types.Function{Params: params, Return: a.resolveTypeRef(t.Return), Receiver: recv}
	default:
		return types.Unresolved{}
	}
}
