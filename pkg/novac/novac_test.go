package novac

import (
	"testing"

	"github.com/novalang/novac/internal/backend"
)

func codeObjectKeys(m map[string]*backend.CodeObject) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCompileFileProducesCodeObjectsForCleanSource(t *testing.T) {
	result := CompileFile("class Point(x: Int, y: Int) {\n    fun sum(): Int = x + y\n}\n", "point.nova")
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if result.Objects == nil {
		t.Fatalf("expected code objects for clean source")
	}
	if _, ok := result.Objects["Point/sum"]; !ok {
		t.Errorf("expected a code object keyed Point/sum, got keys %v", codeObjectKeys(result.Objects))
	}
	if result.ExitCode() != ExitSuccess {
		t.Errorf("expected ExitSuccess, got %v", result.ExitCode())
	}
}

func TestCompileFileReturnsNilObjectsOnParseError(t *testing.T) {
	result := CompileFile("val x =\n", "broken.nova")
	if result.Objects != nil {
		t.Errorf("expected no code objects for broken source")
	}
	if len(result.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	if result.ExitCode() != ExitUser {
		t.Errorf("expected ExitUser, got %v", result.ExitCode())
	}
}

func TestAnalyzeReturnsNoDiagnosticsForValidSource(t *testing.T) {
	diags := Analyze("val x: Int = 1\n")
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestAnalyzeSkipsLoweringAndBackend(t *testing.T) {
	// A file with a semantic error (unresolved name) should be reported by
	// Analyze without requiring HIR/MIR to build at all.
	diags := Analyze("fun broken(): Int = missingName\n")
	if len(diags) == 0 {
		t.Fatalf("expected a semantic diagnostic for an unresolved name")
	}
}

func TestParseREPLReturnsOneNode(t *testing.T) {
	node := ParseREPL("val x = 1\n")
	if node == nil {
		t.Fatalf("expected a parsed node")
	}
}

func TestParseREPLReturnsNilForBlankLine(t *testing.T) {
	node := ParseREPL("\n")
	if node != nil {
		t.Errorf("expected nil for a blank line, got %v", node)
	}
}

func TestFormatSourceHonorsIndentWidth(t *testing.T) {
	out, diags := FormatSource("fun add(a: Int, b: Int): Int {\n  return a + b\n}\n", FormatConfig{IndentWidth: 2})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "fun add(a: Int, b: Int): Int {\n  return a + b\n}\n"
	if out != want {
		t.Errorf("got=%q want=%q", out, want)
	}
}
