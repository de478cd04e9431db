package hir

import "github.com/novalang/novac/internal/types"

// Parameter is one lowered function/lambda/constructor parameter.
type Parameter struct {
	Name    string
	Type    types.Type
	Default Expr // nil if none; a default triggers overload-thunk generation, see Function.Overloads
}

// TypeParameter is a lowered generic parameter.
type TypeParameter struct {
	Name  string
	Bound types.Type
}

// Function is a lowered method/top-level function/lambda body. Receiver
// is non-nil for what was an extension function (`fun T.name(...)`);
// lowering has already inserted it as Params[0] named "this", so
// Receiver here only records the original receiver type for diagnostics
// and is not re-consulted by MIR lowering.
type Function struct {
	base
	Name       string
	Receiver   types.Type
	TypeParams []*TypeParameter
	Params     []*Parameter
	Return     types.Type
	Body       *Block
	Inline     bool // carried from the `inline` modifier, for the HIR-level inline-expansion pass

	// Overloads holds the generated thunks for a function with default
	// parameters (the "Lambda with default-arg: generate overload thunks"
	// desugaring extended to every default-param function, not only
	// lambdas): each thunk has the default-tail trimmed off and forwards
	// to Function with the literal defaults supplied positionally.
	Overloads []*Function
}

func (f *Function) declNode()      {}
func (f *Function) Accept(v Visitor) { v.VisitFunction(f) }

// Property is a lowered val/var with its resolved getter/setter, if any.
type Property struct {
	base
	Name   string
	Type   types.Type
	IsVal  bool
	Init   Expr
	Getter *Function
	Setter *Function
}

func (p *Property) declNode()      {}
func (p *Property) Accept(v Visitor) { v.VisitProperty(p) }

// InitBlock is a class's `init { ... }` block, run in declaration order
// interleaved with property initializers during construction.
type InitBlock struct {
	base
	Body *Block
}

func (i *InitBlock) declNode()      {}
func (i *InitBlock) Accept(v Visitor) { v.VisitInitBlock(i) }

// Class is a lowered class/interface/object; Kind mirrors ast.ClassKind.
type Class struct {
	base
	Name        string
	Kind        int
	TypeParams  []*TypeParameter
	PrimaryCtor []*Parameter
	SuperTypes  []types.Type
	Properties  []*Property
	Functions   []*Function
	InitBlocks  []*InitBlock
}

func (c *Class) declNode()      {}
func (c *Class) Accept(v Visitor) { v.VisitClass(c) }

// EnumCase is one case of a lowered enum; Args are evaluated once at
// enum initialization to build the singleton case instance.
type EnumCase struct {
	base
	Name string
	Args []Expr
}

func (e *EnumCase) Accept(v Visitor) { v.VisitEnumCase(e) }

// Enum is a lowered enum class and its cases.
type Enum struct {
	base
	Name      string
	Cases     []*EnumCase
	Functions []*Function
}

func (e *Enum) declNode()      {}
func (e *Enum) Accept(v Visitor) { v.VisitEnum(e) }

// Program is the root of one lowered compilation unit.
type Program struct {
	base
	File  string
	Decls []Decl
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
