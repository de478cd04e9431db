package stdlib

import "github.com/novalang/novac/internal/types"

// listOfAny/setOfAny/mapOfAny are the generic-ish placeholder types the built-in
// registrations below declare their signatures in. The catalog only needs
// enough type information for a descriptor string and a Nova-visible
// function type — it is not itself a type-inference engine, so a collection
// element type is always Any here rather than a real type parameter; the
// semantic analyzer's own generics (§3.4) refine a specific call site.
var (
	listOfAny = types.Class{QualifiedName: "nova.List", TypeArgs: []types.Type{types.TAny}}
	setOfAny  = types.Class{QualifiedName: "nova.Set", TypeArgs: []types.Type{types.TAny}}
	mapOfAny  = types.Class{QualifiedName: "nova.Map", TypeArgs: []types.Type{types.TAny, types.TAny}}
)

func fn(params []types.Type, ret types.Type) types.Function {
	return types.Function{Params: params, Return: ret}
}

// Builtin returns the catalog populated with the built-in lib/list,
// lib/string, lib/math, and lib/collections artifacts — the registration
// metadata side of the runtime's library surface. The runtime
// implementations these entries address are out of scope for the core
// (§1); the core only ever emits a StaticCall against the Owner/Method
// pair, per the registration interface (§6.4).
func Builtin() *Catalog {
	c := NewCatalog()
	for _, r := range listRegistrations() {
		c.Register(r)
	}
	for _, r := range stringRegistrations() {
		c.Register(r)
	}
	for _, r := range mathRegistrations() {
		c.Register(r)
	}
	for _, r := range collectionRegistrations() {
		c.Register(r)
	}
	return c
}

func listRegistrations() []Registration {
	const owner = "lib/list"
	return []Registration{
		{Name: "head", Arity: 1, Owner: owner, Method: "Head", Descriptor: "(List)Any", Signature: fn([]types.Type{listOfAny}, types.TAny)},
		{Name: "tail", Arity: 1, Owner: owner, Method: "Tail", Descriptor: "(List)List", Signature: fn([]types.Type{listOfAny}, listOfAny)},
		{Name: "length", Arity: 1, Owner: owner, Method: "Length", Descriptor: "(List)Int", Signature: fn([]types.Type{listOfAny}, types.TInt)},
		{Name: "contains", Arity: 2, Owner: owner, Method: "Contains", Descriptor: "(List,Any)Boolean", Signature: fn([]types.Type{listOfAny, types.TAny}, types.TBoolean)},
		{Name: "reverse", Arity: 1, Owner: owner, Method: "Reverse", Descriptor: "(List)List", Signature: fn([]types.Type{listOfAny}, listOfAny)},
		{Name: "sort", Arity: 1, Owner: owner, Method: "Sort", Descriptor: "(List)List", Signature: fn([]types.Type{listOfAny}, listOfAny)},
		{
			Name: "map", Arity: 2, Owner: owner, Method: "Map", Descriptor: "(Function,List)List",
			Signature: fn([]types.Type{types.Function{Params: []types.Type{types.TAny}, Return: types.TAny}, listOfAny}, listOfAny),
		},
		{
			Name: "filter", Arity: 2, Owner: owner, Method: "Filter", Descriptor: "(Function,List)List",
			Signature: fn([]types.Type{types.Function{Params: []types.Type{types.TAny}, Return: types.TBoolean}, listOfAny}, listOfAny),
		},
		{
			Name: "foldl", Arity: 3, Owner: owner, Method: "FoldLeft", Descriptor: "(Function,Any,List)Any",
			Signature: fn([]types.Type{types.Function{Params: []types.Type{types.TAny, types.TAny}, Return: types.TAny}, types.TAny, listOfAny}, types.TAny),
		},
	}
}

func stringRegistrations() []Registration {
	const owner = "lib/string"
	str := types.TString
	return []Registration{
		{Name: "split", Arity: 2, Owner: owner, Method: "Split", Descriptor: "(String,String)List", Signature: fn([]types.Type{str, str}, listOfAny)},
		{Name: "join", Arity: 2, Owner: owner, Method: "Join", Descriptor: "(List,String)String", Signature: fn([]types.Type{listOfAny, str}, str)},
		{Name: "trim", Arity: 1, Owner: owner, Method: "Trim", Descriptor: "(String)String", Signature: fn([]types.Type{str}, str)},
		{Name: "toUpper", Arity: 1, Owner: owner, Method: "ToUpper", Descriptor: "(String)String", Signature: fn([]types.Type{str}, str)},
		{Name: "toLower", Arity: 1, Owner: owner, Method: "ToLower", Descriptor: "(String)String", Signature: fn([]types.Type{str}, str)},
		{Name: "replace", Arity: 3, Owner: owner, Method: "Replace", Descriptor: "(String,String,String)String", Signature: fn([]types.Type{str, str, str}, str)},
		{Name: "startsWith", Arity: 2, Owner: owner, Method: "StartsWith", Descriptor: "(String,String)Boolean", Signature: fn([]types.Type{str, str}, types.TBoolean)},
		{Name: "endsWith", Arity: 2, Owner: owner, Method: "EndsWith", Descriptor: "(String,String)Boolean", Signature: fn([]types.Type{str, str}, types.TBoolean)},
		{Name: "repeat", Arity: 2, Owner: owner, Method: "Repeat", Descriptor: "(String,Int)String", Signature: fn([]types.Type{str, types.TInt}, str)},
	}
}

func mathRegistrations() []Registration {
	const owner = "lib/math"
	d := types.TDouble
	i := types.TInt
	return []Registration{
		{Name: "abs", Arity: 1, Owner: owner, Method: "Abs", Descriptor: "(Double)Double", Signature: fn([]types.Type{d}, d)},
		{Name: "min", Arity: 2, Owner: owner, Method: "Min", Descriptor: "(Double,Double)Double", Signature: fn([]types.Type{d, d}, d)},
		{Name: "max", Arity: 2, Owner: owner, Method: "Max", Descriptor: "(Double,Double)Double", Signature: fn([]types.Type{d, d}, d)},
		{Name: "floor", Arity: 1, Owner: owner, Method: "Floor", Descriptor: "(Double)Int", Signature: fn([]types.Type{d}, i)},
		{Name: "ceil", Arity: 1, Owner: owner, Method: "Ceil", Descriptor: "(Double)Int", Signature: fn([]types.Type{d}, i)},
		{Name: "sqrt", Arity: 1, Owner: owner, Method: "Sqrt", Descriptor: "(Double)Double", Signature: fn([]types.Type{d}, d)},
		{Name: "pow", Arity: 2, Owner: owner, Method: "Pow", Descriptor: "(Double,Double)Double", Signature: fn([]types.Type{d, d}, d)},
		{Name: "pi", Arity: 0, Owner: owner, Method: "Pi", Descriptor: "()Double", Signature: fn(nil, d)},
	}
}

func collectionRegistrations() []Registration {
	const owner = "lib/collections"
	return []Registration{
		{Name: "setOf", Arity: -1, Owner: owner, Method: "SetOf", Descriptor: "(Any...)Set", Signature: fn([]types.Type{types.TAny}, setOfAny)},
		{Name: "mapOf", Arity: -1, Owner: owner, Method: "MapOf", Descriptor: "(Any...)Map", Signature: fn([]types.Type{types.TAny}, mapOfAny)},
	}
}
