package format

import "github.com/novalang/novac/internal/ast"

func (p *Printer) VisitBlockStatement(n *ast.BlockStatement) {
	p.write("{")
	p.newline()
	p.indent++
	for _, s := range n.Stmts {
		s.Accept(p)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.writeIndent()
	p.printExpr(n.Expr, lowest)
	p.newline()
}

func (p *Printer) VisitLocalVarDecl(n *ast.LocalVarDecl) {
	p.writeIndent()
	if n.IsVal {
		p.write("val ")
	} else {
		p.write("var ")
	}
	if n.Pattern != nil {
		n.Pattern.Accept(p)
	} else {
		p.write(n.Name)
	}
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Init != nil {
		p.write(" = ")
		p.printExpr(n.Init, lowest)
	}
	p.newline()
}

func (p *Printer) VisitIfStmt(n *ast.IfStmt) {
	p.writeIndent()
	p.write("if (")
	p.printExpr(n.Cond, lowest)
	p.write(") ")
	n.Then.Accept(p)
	if n.Else != nil {
		p.write(" else ")
		switch e := n.Else.(type) {
		case *ast.IfStmt:
			p.write("if (")
			p.printExpr(e.Cond, lowest)
			p.write(") ")
			e.Then.Accept(p)
			if e.Else != nil {
				p.write(" else ")
				e.Else.Accept(p)
			}
		default:
			n.Else.Accept(p)
		}
	}
	p.newline()
}

func (p *Printer) writeLabel(label string) {
	if label != "" {
		p.write(label)
		p.write("@")
	}
}

func (p *Printer) VisitForStmt(n *ast.ForStmt) {
	p.writeIndent()
	p.writeLabel(n.Label)
	p.write("for (")
	if n.Pattern != nil {
		n.Pattern.Accept(p)
	} else {
		p.write(n.VarName)
	}
	p.write(" in ")
	p.printExpr(n.Iter, lowest)
	p.write(") ")
	n.Body.Accept(p)
	p.newline()
}

func (p *Printer) VisitWhileStmt(n *ast.WhileStmt) {
	p.writeIndent()
	p.writeLabel(n.Label)
	p.write("while (")
	p.printExpr(n.Cond, lowest)
	p.write(") ")
	n.Body.Accept(p)
	p.newline()
}

func (p *Printer) VisitDoWhileStmt(n *ast.DoWhileStmt) {
	p.writeIndent()
	p.writeLabel(n.Label)
	p.write("do ")
	n.Body.Accept(p)
	p.write(" while (")
	p.printExpr(n.Cond, lowest)
	p.write(")")
	p.newline()
}

func (p *Printer) VisitReturnStmt(n *ast.ReturnStmt) {
	p.writeIndent()
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, lowest)
	}
	p.newline()
}

func (p *Printer) VisitBreakStmt(n *ast.BreakStmt) {
	p.writeIndent()
	p.write("break")
	if n.Label != "" {
		p.write("@")
		p.write(n.Label)
	}
	p.newline()
}

func (p *Printer) VisitContinueStmt(n *ast.ContinueStmt) {
	p.writeIndent()
	p.write("continue")
	if n.Label != "" {
		p.write("@")
		p.write(n.Label)
	}
	p.newline()
}

func (p *Printer) VisitThrowStmt(n *ast.ThrowStmt) {
	p.writeIndent()
	p.write("throw ")
	p.printExpr(n.Value, lowest)
	p.newline()
}

func (p *Printer) VisitCatchClause(n *ast.CatchClause) {
	p.write("catch (")
	p.write(n.Name)
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	p.write(") ")
	n.Body.Accept(p)
}

func (p *Printer) VisitTryStmt(n *ast.TryStmt) {
	p.writeIndent()
	p.write("try ")
	n.Body.Accept(p)
	for _, c := range n.Catches {
		p.write(" ")
		c.Accept(p)
	}
	if n.Finally != nil {
		p.write(" finally ")
		n.Finally.Accept(p)
	}
	p.newline()
}
