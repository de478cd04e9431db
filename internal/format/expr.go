package format

import "github.com/novalang/novac/internal/ast"

// printExpr renders e, wrapping it in parentheses only when its own
// precedence is lower than parentPrec demands. Only the operator-shaped
// nodes (binary/unary/assignment) carry a precedence of their own; every
// other expression falls through to its own Visit method regardless of
// parentPrec: a low-precedence expression sitting in a call callee or
// member-access target position is not reparenthesized, a known and
// accepted gap since Nova's grammar requires parens there already in
// every case that would otherwise round-trip incorrectly.
func (p *Printer) printExpr(e ast.Expression, parentPrec int) {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		prec := precedenceOfOp(n.Op)
		paren := prec < parentPrec
		if paren {
			p.write("(")
		}
		p.printExpr(n.Left, prec)
		p.write(" ")
		p.write(n.Op.String())
		p.write(" ")
		rightPrec := prec
		if !rightAssociative[n.Op] {
			rightPrec = prec + 1
		}
		p.printExpr(n.Right, rightPrec)
		if paren {
			p.write(")")
		}
	case *ast.UnaryExpr:
		paren := unaryPrec < parentPrec
		if paren {
			p.write("(")
		}
		if n.Postfix {
			p.printExpr(n.Operand, unaryPrec)
			p.write(n.Op.String())
		} else {
			p.write(n.Op.String())
			p.printExpr(n.Operand, unaryPrec)
		}
		if paren {
			p.write(")")
		}
	case *ast.AssignExpr:
		paren := assignPrec < parentPrec
		if paren {
			p.write("(")
		}
		p.printExpr(n.Target, assignPrec+1)
		p.write(" ")
		p.write(n.Op.String())
		p.write(" ")
		p.printExpr(n.Value, assignPrec)
		if paren {
			p.write(")")
		}
	default:
		e.Accept(p)
	}
}

func (p *Printer) VisitBinaryExpr(n *ast.BinaryExpr) { p.printExpr(n, lowest) }
func (p *Printer) VisitUnaryExpr(n *ast.UnaryExpr)   { p.printExpr(n, lowest) }
func (p *Printer) VisitAssignExpr(n *ast.AssignExpr) { p.printExpr(n, lowest) }

func (p *Printer) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Name)
}

// VisitLiteral emits the literal's original lexeme verbatim: the lexer
// already preserves a numeric/char/bool/null literal's exact source text
// in Token.Lexeme, so there is no decode-then-reformat step to get wrong.
func (p *Printer) VisitLiteral(n *ast.Literal) {
	p.write(n.Token.Lexeme)
}

func (p *Printer) VisitStringInterpolation(n *ast.StringInterpolation) {
	p.write("\"")
	for _, part := range n.Parts {
		if part.Expr != nil {
			p.write("${")
			p.printExpr(part.Expr, lowest)
			p.write("}")
		} else {
			p.write(part.Literal)
		}
	}
	p.write("\"")
}

func (p *Printer) VisitCollectionLiteral(n *ast.CollectionLiteral) {
	switch n.Kind {
	case ast.ListKind:
		p.write("[")
		for i, el := range n.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, lowest)
		}
		p.write("]")
	case ast.MapKind:
		p.write("#{")
		for i, key := range n.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(key, lowest)
			p.write(": ")
			p.printExpr(n.MapValues[i], lowest)
		}
		p.write("}")
	default: // SetKind
		p.write("#{")
		for i, el := range n.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, lowest)
		}
		p.write("}")
	}
}

func (p *Printer) VisitLambdaExpr(n *ast.LambdaExpr) {
	p.write("{")
	if len(n.Params) > 0 {
		p.write(" ")
		for i, param := range n.Params {
			if i > 0 {
				p.write(", ")
			}
			param.Accept(p)
		}
		p.write(" ->")
	}
	p.newline()
	p.indent++
	for _, s := range n.Body.Stmts {
		s.Accept(p)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) writeCallArgs(n *ast.CallExpr) {
	p.write("(")
	if len(n.Order) > 0 {
		for i, slot := range n.Order {
			if i > 0 {
				p.write(", ")
			}
			switch slot.Group {
			case ast.ArgPositional:
				p.printExpr(n.Positional[slot.Index], lowest)
			case ast.ArgNamed:
				na := n.Named[slot.Index]
				p.write(na.Name)
				p.write(" = ")
				p.printExpr(na.Value, lowest)
			case ast.ArgSpread:
				p.write("*")
				p.printExpr(n.Spread, lowest)
			}
		}
	} else {
		first := true
		for _, a := range n.Positional {
			if !first {
				p.write(", ")
			}
			p.printExpr(a, lowest)
			first = false
		}
		for _, na := range n.Named {
			if !first {
				p.write(", ")
			}
			p.write(na.Name)
			p.write(" = ")
			p.printExpr(na.Value, lowest)
			first = false
		}
		if n.Spread != nil {
			if !first {
				p.write(", ")
			}
			p.write("*")
			p.printExpr(n.Spread, lowest)
		}
	}
	p.write(")")
}

func (p *Printer) VisitCallExpr(n *ast.CallExpr) {
	p.printExpr(n.Callee, postfixPrec)
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
	p.writeCallArgs(n)
	if n.TrailingLambda != nil {
		p.write(" ")
		n.TrailingLambda.Accept(p)
	}
}

func (p *Printer) VisitIfExpr(n *ast.IfExpr) {
	p.write("if (")
	p.printExpr(n.Cond, lowest)
	p.write(") ")
	p.printExpr(n.Then, lowest)
	if n.Else != nil {
		p.write(" else ")
		p.printExpr(n.Else, lowest)
	}
}

func (p *Printer) printWhenBranch(b *ast.WhenBranch) {
	p.writeIndent()
	if len(b.Conditions) == 0 {
		p.write("else")
	} else {
		for i, c := range b.Conditions {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(c, lowest)
		}
	}
	p.write(" -> ")
	p.printExpr(b.Result, lowest)
	p.newline()
}

func (p *Printer) VisitWhenBranch(n *ast.WhenBranch) { p.printWhenBranch(n) }

func (p *Printer) VisitWhenExpr(n *ast.WhenExpr) {
	p.write("when")
	if n.Subject != nil {
		p.write(" (")
		p.printExpr(n.Subject, lowest)
		p.write(")")
	}
	p.write(" {")
	p.newline()
	p.indent++
	for _, b := range n.Branches {
		p.printWhenBranch(b)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) VisitRangeExpr(n *ast.RangeExpr) {
	op := ".."
	if !n.Inclusive {
		op = "..<"
	}
	p.printExpr(n.Start, rangePrec+1)
	p.write(op)
	p.printExpr(n.End, rangePrec+1)
	if n.Step != nil {
		p.write(" step ")
		p.printExpr(n.Step, additivePrec)
	}
}

func (p *Printer) VisitElvisExpr(n *ast.ElvisExpr) {
	p.printExpr(n.Left, elvisPrec+1)
	p.write(" ?: ")
	p.printExpr(n.Fallback, elvisPrec)
}

func (p *Printer) VisitSafeCallExpr(n *ast.SafeCallExpr) {
	p.printExpr(n.Target, postfixPrec)
	p.write("?.")
	n.Member.Accept(p)
}

func (p *Printer) VisitErrorPropagationExpr(n *ast.ErrorPropagationExpr) {
	p.printExpr(n.Operand, postfixPrec)
	p.write("?")
}

func (p *Printer) VisitNotNullAssertExpr(n *ast.NotNullAssertExpr) {
	p.printExpr(n.Operand, postfixPrec)
	p.write("!!")
}

func (p *Printer) VisitMemberAccessExpr(n *ast.MemberAccessExpr) {
	p.printExpr(n.Target, postfixPrec)
	p.write(".")
	p.write(n.Name)
}

func (p *Printer) VisitIndexExpr(n *ast.IndexExpr) {
	p.printExpr(n.Target, postfixPrec)
	p.write("[")
	p.printExpr(n.Index, lowest)
	p.write("]")
}

func (p *Printer) VisitTypeTestExpr(n *ast.TypeTestExpr) {
	p.printExpr(n.Operand, typeTestPrec+1)
	switch n.Kind {
	case ast.IsTest:
		p.write(" is ")
	case ast.NotIsTest:
		p.write(" !is ")
	case ast.AsCast:
		p.write(" as ")
	case ast.AsSafeCast:
		p.write(" as? ")
	}
	n.Type.Accept(p)
}

func (p *Printer) VisitInExpr(n *ast.InExpr) {
	p.printExpr(n.Value, typeTestPrec+1)
	if n.Negated {
		p.write(" !in ")
	} else {
		p.write(" in ")
	}
	p.printExpr(n.Iterable, typeTestPrec+1)
}

func (p *Printer) VisitThisExpr(n *ast.ThisExpr) {
	p.write("this")
	if n.Qualifier != "" {
		p.write("@")
		p.write(n.Qualifier)
	}
}

func (p *Printer) VisitSuperExpr(n *ast.SuperExpr) {
	p.write("super")
	if n.Qualifier != "" {
		p.write("@")
		p.write(n.Qualifier)
	}
}

func (p *Printer) VisitUseExpr(n *ast.UseExpr) {
	p.write("use(")
	p.printExpr(n.Resource, lowest)
	p.write(") ")
	n.Body.Accept(p)
}
