package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/token"
)

// ParseProgram is the whole-file entry point: leading imports, then
// top-level declarations, in source order.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{NID: p.next(), File: p.file}
	p.skipNewlines()
	for p.curTokenIs(token.IMPORT) {
		if imp := p.parseImportDecl(); imp != nil {
			prog.Imports = append(prog.Imports, imp)
		}
		p.nextToken()
		p.skipNewlines()
	}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		decl := p.parseTopLevelDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		} else {
			p.syncToTopLevel()
		}
		p.nextToken()
	}
	return prog
}

// ParseREPLInput parses exactly one top-level construct or expression and
// never triggers error-recovery skipping.
func (p *Parser) ParseREPLInput() ast.Node {
	p.inRepl = true
	defer func() { p.inRepl = false }()

	p.skipNewlines()
	if p.curTokenIs(token.EOF) {
		return nil
	}
	if p.curTokenIs(token.IMPORT) {
		return p.parseImportDecl()
	}
	switch p.cur.Kind {
	case token.FUN, token.VAL, token.VAR, token.CLASS, token.INTERFACE, token.OBJECT, token.ENUM,
		token.PUBLIC, token.PRIVATE, token.PROTECTED, token.INTERNAL,
		token.ABSTRACT, token.OPEN, token.FINAL, token.OVERRIDE, token.INLINE, token.STATIC:
		if decl := p.parseTopLevelDecl(); decl != nil {
			return decl
		}
		return nil
	}
	if stmt := p.parseStatement(); stmt != nil {
		return stmt
	}
	return nil
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	tok := p.cur // IMPORT
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	path := p.cur.Lexeme
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			break
		}
		path += "." + p.cur.Lexeme
	}
	if p.peekTokenIs(token.AT) {
		p.nextToken()
		if p.expectPeek(token.STRING) {
			if v, ok := p.cur.Literal.(string); ok {
				path += "@" + v
			}
		}
	}
	decl := &ast.ImportDecl{NID: p.next(), Token: tok, Path: path}
	if p.peekTokenIs(token.AS_KW) {
		p.nextToken()
		if p.expectPeek(token.IDENT) {
			decl.Alias = p.cur.Lexeme
		}
	}
	return decl
}

func (p *Parser) parseTopLevelDecl() ast.Declaration {
	mods := p.parseModifiers()
	switch p.cur.Kind {
	case token.FUN:
		return p.parseFunctionDecl(mods)
	case token.VAL, token.VAR:
		return p.parsePropertyDecl(mods)
	case token.CLASS:
		return p.parseClassDecl(mods, ast.RegularClass)
	case token.INTERFACE:
		return p.parseClassDecl(mods, ast.InterfaceClass)
	case token.OBJECT:
		return p.parseClassDecl(mods, ast.ObjectClass)
	case token.ENUM:
		return p.parseEnumDecl(mods)
	default:
		p.report(diagnostics.Expected(p.cur, "declaration"))
		return nil
	}
}

// parseFunctionDecl parses `fun [T.]name[<...>](params)[: Ret] (= expr |
// block)`. The receiver is disambiguated with a speculative parse: a type
// is parsed and kept only if it is immediately followed by '.'.
func (p *Parser) parseFunctionDecl(mods ast.ModifierSet) *ast.FunctionDecl {
	tok := p.cur // FUN
	fn := &ast.FunctionDecl{NID: p.next(), Token: tok, Modifiers: mods}
	p.nextToken()

	if p.startsType() {
		snap := p.snapshot()
		recv := p.parseTypeRef()
		if recv != nil && p.peekTokenIs(token.DOT) {
			p.nextToken() // '.'
			p.nextToken() // name
			fn.Receiver = recv
		} else {
			p.restore(snap)
		}
	}

	if p.curTokenIs(token.LT) {
		fn.TypeParams = p.parseTypeParams()
		p.nextToken()
	}

	if !p.curTokenIs(token.IDENT) {
		p.report(diagnostics.Expected(p.cur, "function name"))
		return fn
	}
	fn.Name = p.cur.Lexeme

	if !p.expectPeek(token.LPAREN) {
		return fn
	}
	fn.Params = p.parseParameters()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeRef()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		fn.ExprBody = p.parseExpression(LOWEST)
	} else if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		fn.BlockBody = p.parseBlockStatement()
	}
	return fn
}

// parseParameters parses a parenthesized parameter list; cur is the
// opening '(' on entry, and the closing ')' on return. A leading '*'
// marks a vararg parameter, mirroring the call-site spread `*args`.
func (p *Parser) parseParameters() []*ast.Parameter {
	p.nextToken()
	var params []*ast.Parameter
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		param := &ast.Parameter{NID: p.next(), Token: p.cur}
		if p.curTokenIs(token.STAR) {
			param.IsVararg = true
			p.nextToken()
		}
		param.Name = p.cur.Lexeme
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeRef()
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
		}
		params = append(params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}
	return params
}

func (p *Parser) parsePropertyDecl(mods ast.ModifierSet) *ast.PropertyDecl {
	tok := p.cur
	isVal := p.cur.Kind == token.VAL
	prop := &ast.PropertyDecl{NID: p.next(), Token: tok, Modifiers: mods, IsVal: isVal}
	if !p.expectPeek(token.IDENT) {
		return prop
	}
	prop.Name = p.cur.Lexeme
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		prop.Type = p.parseTypeRef()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		prop.Init = p.parseExpression(LOWEST)
	}
	p.parsePropertyAccessors(prop)
	return prop
}

// parsePropertyAccessors implements the property-accessor-on-next-line
// disambiguation: a following line beginning with `get`/`set`, optionally
// preceded by a visibility modifier, belongs to the property just parsed.
// A speculative snapshot/restore lets it cleanly back off when the next
// line is unrelated.
func (p *Parser) parsePropertyAccessors(prop *ast.PropertyDecl) {
	for {
		snap := p.snapshot()
		sawNewline := false
		for p.peekTokenIs(token.NEWLINE) {
			p.nextToken()
			sawNewline = true
		}
		if !sawNewline {
			p.restore(snap)
			return
		}

		var accessorMods ast.ModifierSet
		if _, ok := modifierKind(p.peek.Kind); ok {
			p.nextToken()
			accessorMods = p.parseModifiers()
		}

		switch {
		case p.curTokenIs(token.GET) || p.peekTokenIs(token.GET):
			if p.peekTokenIs(token.GET) {
				p.nextToken()
			}
			prop.Getter = p.parseGetterDecl(accessorMods)
		case p.curTokenIs(token.SET) || p.peekTokenIs(token.SET):
			if p.peekTokenIs(token.SET) {
				p.nextToken()
			}
			prop.Setter = p.parseSetterDecl(accessorMods)
		default:
			p.restore(snap)
			return
		}
	}
}

func (p *Parser) parseGetterDecl(mods ast.ModifierSet) *ast.FunctionDecl {
	tok := p.cur // GET
	fn := &ast.FunctionDecl{NID: p.next(), Token: tok, Modifiers: mods, Name: "get"}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		fn.Params = p.parseParameters()
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeRef()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		fn.ExprBody = p.parseExpression(LOWEST)
	} else if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		fn.BlockBody = p.parseBlockStatement()
	}
	return fn
}

func (p *Parser) parseSetterDecl(mods ast.ModifierSet) *ast.FunctionDecl {
	tok := p.cur // SET
	fn := &ast.FunctionDecl{NID: p.next(), Token: tok, Modifiers: mods, Name: "set"}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		fn.Params = p.parseParameters()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		fn.ExprBody = p.parseExpression(LOWEST)
	} else if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		fn.BlockBody = p.parseBlockStatement()
	}
	return fn
}

// parseClassDecl covers class/interface/object declarations, which share
// a member layout: an optional primary constructor, supertypes, and a
// brace-delimited body of properties/functions/init blocks.
func (p *Parser) parseClassDecl(mods ast.ModifierSet, kind ast.ClassKind) *ast.ClassDecl {
	tok := p.cur
	c := &ast.ClassDecl{NID: p.next(), Token: tok, Modifiers: mods, Kind: kind}
	if !p.expectPeek(token.IDENT) {
		return c
	}
	c.Name = p.cur.Lexeme

	if p.peekTokenIs(token.LT) {
		p.nextToken()
		c.TypeParams = p.parseTypeParams()
	}

	if kind != ast.ObjectClass && p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		c.PrimaryCtor = p.parseParameters()
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		c.SuperTypes = append(c.SuperTypes, p.parseTypeRef())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			c.SuperTypes = append(c.SuperTypes, p.parseTypeRef())
		}
	}

	if !p.peekTokenIs(token.LBRACE) {
		return c
	}
	p.nextToken()
	p.nextToken()
	p.skipNewlines()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		p.parseClassMember(c)
		p.nextToken()
		p.skipNewlines()
	}
	return c
}

func (p *Parser) parseClassMember(c *ast.ClassDecl) {
	if p.curTokenIs(token.INIT) {
		tok := p.cur
		if !p.expectPeek(token.LBRACE) {
			return
		}
		body := p.parseBlockStatement()
		c.InitBlocks = append(c.InitBlocks, &ast.InitBlock{NID: p.next(), Token: tok, Body: body})
		return
	}
	mods := p.parseModifiers()
	switch p.cur.Kind {
	case token.FUN:
		c.Functions = append(c.Functions, p.parseFunctionDecl(mods))
	case token.VAL, token.VAR:
		c.Properties = append(c.Properties, p.parsePropertyDecl(mods))
	default:
		p.report(diagnostics.Expected(p.cur, "class member"))
	}
}

func (p *Parser) parseEnumDecl(mods ast.ModifierSet) *ast.EnumDecl {
	tok := p.cur
	e := &ast.EnumDecl{NID: p.next(), Token: tok, Modifiers: mods}
	if !p.expectPeek(token.IDENT) {
		return e
	}
	e.Name = p.cur.Lexeme
	if !p.expectPeek(token.LBRACE) {
		return e
	}
	p.nextToken()
	p.skipNewlines()

	for p.curTokenIs(token.IDENT) {
		caseTok := p.cur
		ec := &ast.EnumCase{NID: p.next(), Token: caseTok, Name: p.cur.Lexeme}
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			p.nextToken()
			for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
				ec.Args = append(ec.Args, p.parseExpression(LOWEST))
				if p.peekTokenIs(token.COMMA) {
					p.nextToken()
					p.nextToken()
					continue
				}
				break
			}
			p.expectPeek(token.RPAREN)
		}
		e.Cases = append(e.Cases, ec)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			p.skipNewlines()
			continue
		}
		p.nextToken()
		p.skipNewlines()
		break
	}

	if p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
		p.skipNewlines()
		for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
			mods := p.parseModifiers()
			if p.curTokenIs(token.FUN) {
				e.Functions = append(e.Functions, p.parseFunctionDecl(mods))
			}
			p.nextToken()
			p.skipNewlines()
		}
	}
	return e
}
