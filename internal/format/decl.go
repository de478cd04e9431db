package format

import "github.com/novalang/novac/internal/ast"

func (p *Printer) VisitProgram(n *ast.Program) {
	for _, imp := range n.Imports {
		imp.Accept(p)
	}
	if len(n.Imports) > 0 && len(n.Decls) > 0 {
		p.newline()
	}
	for i, d := range n.Decls {
		if i > 0 {
			p.newline()
		}
		d.Accept(p)
	}
}

func (p *Printer) VisitImportDecl(n *ast.ImportDecl) {
	p.writeIndent()
	p.write("import ")
	p.write(n.Path)
	if n.Alias != "" {
		p.write(" as ")
		p.write(n.Alias)
	}
	p.newline()
}

func (p *Printer) VisitParameter(n *ast.Parameter) {
	if n.IsVararg {
		p.write("*")
	}
	p.write(n.Name)
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Default != nil {
		p.write(" = ")
		p.printExpr(n.Default, lowest)
	}
}

func (p *Printer) writeParams(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		param.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitTypeParameterDecl(n *ast.TypeParameterDecl) {
	if n.Variance != "" {
		p.write(n.Variance)
		p.write(" ")
	}
	p.write(n.Name)
	if n.Bound != nil {
		p.write(": ")
		n.Bound.Accept(p)
	}
}

func (p *Printer) writeTypeParams(params []*ast.TypeParameterDecl) {
	if len(params) == 0 {
		return
	}
	p.write("<")
	for i, tp := range params {
		if i > 0 {
			p.write(", ")
		}
		tp.Accept(p)
	}
	p.write(">")
}

func (p *Printer) VisitFunctionDecl(n *ast.FunctionDecl) {
	p.writeIndent()
	p.write(modifierPrefix(n.Modifiers))
	p.write("fun ")
	p.writeTypeParams(n.TypeParams)
	if n.Receiver != nil {
		n.Receiver.Accept(p)
		p.write(".")
	}
	p.write(n.Name)
	p.writeParams(n.Params)
	if n.ReturnType != nil {
		p.write(": ")
		n.ReturnType.Accept(p)
	}
	switch {
	case n.ExprBody != nil:
		p.write(" = ")
		p.printExpr(n.ExprBody, lowest)
		p.newline()
	case n.BlockBody != nil:
		p.write(" ")
		n.BlockBody.Accept(p)
		p.newline()
	default:
		p.newline()
	}
}

func (p *Printer) VisitPropertyDecl(n *ast.PropertyDecl) {
	p.writeIndent()
	p.write(modifierPrefix(n.Modifiers))
	if n.IsVal {
		p.write("val ")
	} else {
		p.write("var ")
	}
	p.write(n.Name)
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Init != nil {
		p.write(" = ")
		p.printExpr(n.Init, lowest)
	}
	p.newline()
	if n.Getter != nil {
		p.indent++
		p.writeIndent()
		p.write("get")
		if n.Getter.BlockBody != nil {
			p.write("() ")
			n.Getter.BlockBody.Accept(p)
			p.newline()
		} else if n.Getter.ExprBody != nil {
			p.write("() = ")
			p.printExpr(n.Getter.ExprBody, lowest)
			p.newline()
		} else {
			p.newline()
		}
		p.indent--
	}
	if n.Setter != nil {
		p.indent++
		p.writeIndent()
		p.write("set")
		p.writeParams(n.Setter.Params)
		if n.Setter.BlockBody != nil {
			p.write(" ")
			n.Setter.BlockBody.Accept(p)
			p.newline()
		} else if n.Setter.ExprBody != nil {
			p.write(" = ")
			p.printExpr(n.Setter.ExprBody, lowest)
			p.newline()
		} else {
			p.newline()
		}
		p.indent--
	}
}

func (p *Printer) classKeyword(k ast.ClassKind) string {
	switch k {
	case ast.InterfaceClass:
		return "interface"
	case ast.ObjectClass:
		return "object"
	default:
		return "class"
	}
}

func (p *Printer) VisitClassDecl(n *ast.ClassDecl) {
	p.writeIndent()
	p.write(modifierPrefix(n.Modifiers))
	p.write(p.classKeyword(n.Kind))
	p.write(" ")
	p.write(n.Name)
	p.writeTypeParams(n.TypeParams)
	if n.Kind != ast.ObjectClass && n.PrimaryCtor != nil {
		p.writeParams(n.PrimaryCtor)
	}
	if len(n.SuperTypes) > 0 {
		p.write(" : ")
		for i, st := range n.SuperTypes {
			if i > 0 {
				p.write(", ")
			}
			st.Accept(p)
		}
	}

	hasBody := len(n.Properties) > 0 || len(n.Functions) > 0 || len(n.InitBlocks) > 0
	if !hasBody {
		p.newline()
		return
	}

	p.write(" {")
	p.newline()
	p.indent++
	for _, ib := range n.InitBlocks {
		ib.Accept(p)
	}
	for _, prop := range n.Properties {
		prop.Accept(p)
	}
	for _, fn := range n.Functions {
		fn.Accept(p)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
	p.newline()
}

func (p *Printer) VisitInitBlock(n *ast.InitBlock) {
	p.writeIndent()
	p.write("init ")
	n.Body.Accept(p)
	p.newline()
}

func (p *Printer) VisitEnumCase(n *ast.EnumCase) {
	p.write(n.Name)
	if len(n.Args) > 0 {
		p.write("(")
		for i, a := range n.Args {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(a, lowest)
		}
		p.write(")")
	}
}

func (p *Printer) VisitEnumDecl(n *ast.EnumDecl) {
	p.writeIndent()
	p.write(modifierPrefix(n.Modifiers))
	p.write("enum ")
	p.write(n.Name)
	p.write(" {")
	p.newline()
	p.indent++
	p.writeIndent()
	for i, c := range n.Cases {
		if i > 0 {
			p.write(", ")
		}
		c.Accept(p)
	}
	p.newline()
	for _, fn := range n.Functions {
		fn.Accept(p)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
	p.newline()
}
