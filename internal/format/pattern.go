package format

import "github.com/novalang/novac/internal/ast"

func (p *Printer) VisitNamePattern(n *ast.NamePattern) {
	p.write(n.Name)
}

func (p *Printer) VisitTuplePattern(n *ast.TuplePattern) {
	p.write("(")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		el.Accept(p)
	}
	p.write(")")
}
