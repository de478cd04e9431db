package parser

import (
	"testing"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/source"
	"github.com/novalang/novac/internal/token"
)

// parseProgram lexes+parses input and fails the test on any diagnostic.
func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	buffers := source.NewSet()
	fileID := buffers.Add(source.New("t.nova", input))
	reporter := diagnostics.NewReporter(buffers)

	toks, diags := lexer.Lex(input, fileID)
	for _, d := range diags {
		reporter.Report(d)
	}
	p := New(toks, reporter, "t.nova")
	prog := p.ParseProgram()
	if len(reporter.Diagnostics()) > 0 {
		t.Fatalf("unexpected parse diagnostics for %q: %v", input, reporter.Diagnostics())
	}
	return prog
}

func TestParseImportWithAliasAndVersion(t *testing.T) {
	prog := parseProgram(t, "import lib.math @ \"1.0.0\" as m\n")
	if len(prog.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(prog.Imports))
	}
	imp := prog.Imports[0]
	if imp.Path != "lib.math@1.0.0" {
		t.Fatalf("expected path %q, got %q", "lib.math@1.0.0", imp.Path)
	}
	if imp.Alias != "m" {
		t.Fatalf("expected alias %q, got %q", "m", imp.Alias)
	}
}

func TestParseFunctionDeclWithExprBody(t *testing.T) {
	prog := parseProgram(t, "fun sum(x: Int, y: Int): Int = x + y\n")
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Decls[0])
	}
	if fn.Name != "sum" {
		t.Fatalf("expected name %q, got %q", "sum", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.ExprBody == nil || fn.BlockBody != nil {
		t.Fatalf("expected exactly an expression body")
	}
	bin, ok := fn.ExprBody.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr body, got %T", fn.ExprBody)
	}
	if bin.Op != token.PLUS {
		t.Fatalf("expected PLUS operator, got %v", bin.Op)
	}
}

func TestParseClassDeclWithPrimaryConstructor(t *testing.T) {
	prog := parseProgram(t, "class Point(x: Int, y: Int) {\n    fun sum(): Int = x + y\n}\n")
	cls, ok := prog.Decls[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Decls[0])
	}
	if cls.Name != "Point" {
		t.Fatalf("expected name %q, got %q", "Point", cls.Name)
	}
	if len(cls.PrimaryCtor) != 2 {
		t.Fatalf("expected 2 primary constructor params, got %d", len(cls.PrimaryCtor))
	}
	if len(cls.Functions) != 1 || cls.Functions[0].Name != "sum" {
		t.Fatalf("expected one method named sum, got %+v", cls.Functions)
	}
}

func TestParseCallExprWithNamedArgs(t *testing.T) {
	prog := parseProgram(t, "val p = Point(x = 1, y = 2)\n")
	decl, ok := prog.Decls[0].(*ast.PropertyDecl)
	if !ok {
		t.Fatalf("expected *ast.PropertyDecl, got %T", prog.Decls[0])
	}
	call, ok := decl.Init.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr init, got %T", decl.Init)
	}
	if len(call.Named) != 2 {
		t.Fatalf("expected 2 named args, got %d", len(call.Named))
	}
}

func TestParseIfExpr(t *testing.T) {
	prog := parseProgram(t, "fun max(a: Int, b: Int): Int = if (a > b) a else b\n")
	fn := prog.Decls[0].(*ast.FunctionDecl)
	ifExpr, ok := fn.ExprBody.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected *ast.IfExpr body, got %T", fn.ExprBody)
	}
	if ifExpr.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseReportsDiagnosticOnMalformedInput(t *testing.T) {
	buffers := source.NewSet()
	input := "fun broken(: Int = 1\n"
	fileID := buffers.Add(source.New("t.nova", input))
	reporter := diagnostics.NewReporter(buffers)
	toks, diags := lexer.Lex(input, fileID)
	for _, d := range diags {
		reporter.Report(d)
	}
	p := New(toks, reporter, "t.nova")
	p.ParseProgram()
	if len(reporter.Diagnostics()) == 0 {
		t.Fatalf("expected at least one diagnostic for malformed input")
	}
}
