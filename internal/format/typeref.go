package format

import "github.com/novalang/novac/internal/ast"

func (p *Printer) VisitSimpleTypeRef(n *ast.SimpleTypeRef) {
	p.write(n.Name)
	if len(n.TypeArgs) > 0 {
		p.write("<")
		for i, ta := range n.TypeArgs {
			if i > 0 {
				p.write(", ")
			}
			ta.Accept(p)
		}
		p.write(">")
	}
}

func (p *Printer) VisitNullableTypeRef(n *ast.NullableTypeRef) {
	n.Inner.Accept(p)
	p.write("?")
}

func (p *Printer) VisitFunctionTypeRef(n *ast.FunctionTypeRef) {
	if n.Receiver != nil {
		n.Receiver.Accept(p)
		p.write(".")
	}
	p.write("(")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		param.Accept(p)
	}
	p.write(") -> ")
	n.Return.Accept(p)
}
