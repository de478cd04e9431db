package semantic

import (
	"testing"

	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/source"
)

// analyzeSource lexes, parses, then analyzes input, returning every
// diagnostic collected across all three stages.
func analyzeSource(input string) []*diagnostics.Diagnostic {
	buffers := source.NewSet()
	fileID := buffers.Add(source.New("t.nova", input))
	reporter := diagnostics.NewReporter(buffers)

	toks, lexDiags := lexer.Lex(input, fileID)
	for _, d := range lexDiags {
		reporter.Report(d)
	}
	p := parser.New(toks, reporter, "t.nova")
	prog := p.ParseProgram()

	New(reporter).Analyze(prog)
	return reporter.Diagnostics()
}

func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	diags := analyzeSource(input)
	for _, d := range diags {
		if d.Severity == diagnostics.Error {
			t.Fatalf("unexpected error diagnostics for %q: %v", input, diags)
		}
	}
}

func expectCode(t *testing.T, input, code string) {
	t.Helper()
	diags := analyzeSource(input)
	for _, d := range diags {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected diagnostic %s for %q, got: %v", code, input, diags)
}

func TestAnalyzeAcceptsWellTypedProgram(t *testing.T) {
	expectNoErrors(t, "class Point(x: Int, y: Int) {\n    fun sum(): Int = x + y\n}\n")
}

func TestAnalyzeReportsUnresolvedName(t *testing.T) {
	expectCode(t, "fun broken(): Int = missingName\n", "S001")
}

func TestAnalyzeReportsDuplicateDeclaration(t *testing.T) {
	expectCode(t, "val x = 1\nval x = 2\n", "S004")
}

func TestAnalyzeReportsTypeMismatchOnAssignment(t *testing.T) {
	expectCode(t, "val x: Int = \"nope\"\n", "S002")
}

func TestAnalyzeReportsImmutableAssignment(t *testing.T) {
	expectCode(t, "val x = 1\nfun reassign() { x = 2 }\n", "S010")
}

func TestDeclareImportsBringsStdlibNamesIntoScope(t *testing.T) {
	expectNoErrors(t, "import lib.math\nfun areaOfUnitCircle(): Double = pi()\n")
}

func TestDeclareImportsStripsVersionPin(t *testing.T) {
	expectNoErrors(t, "import lib.math @ \"1.0.0\"\nfun areaOfUnitCircle(): Double = pi()\n")
}

func TestUnimportedStdlibNameIsUnresolved(t *testing.T) {
	expectCode(t, "fun areaOfUnitCircle(): Double = pi()\n", "S001")
}

func TestTopLevelNameCollidingWithImportIsDuplicate(t *testing.T) {
	expectCode(t, "import lib.math\nfun pi(): Int = 0\n", "S004")
}
