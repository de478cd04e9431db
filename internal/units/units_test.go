package units

import (
	"context"
	"testing"

	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/source"
)

// parseUnit lexes and parses src into a Unit registered under path,
// reporting lexer/parser diagnostics through reporter the same way a real
// build's front end would.
func parseUnit(t *testing.T, buffers *source.Set, reporter *diagnostics.Reporter, path, src string) *Unit {
	t.Helper()
	fileID := buffers.Add(source.New(path, src))
	toks, lexDiags := lexer.Lex(src, fileID)
	for _, d := range lexDiags {
		reporter.Report(d)
	}
	p := parser.New(toks, reporter, path)
	prog := p.ParseProgram()
	return &Unit{Path: path, FileID: fileID, Program: prog}
}

func TestBuildExternalClassCatalogCollectsAcrossUnits(t *testing.T) {
	buffers := source.NewSet()
	reporter := diagnostics.NewReporter(buffers)

	a := parseUnit(t, buffers, reporter, "a.nova", "class Point(x: Int, y: Int)\n")
	b := parseUnit(t, buffers, reporter, "b.nova", "enum Color { RED, GREEN, BLUE }\n")

	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}

	cat := BuildExternalClassCatalog([]*Unit{a, b}, reporter)
	if _, ok := cat.Classes["Point"]; !ok {
		t.Errorf("expected Point to be in the catalog")
	}
	if _, ok := cat.Enums["Color"]; !ok {
		t.Errorf("expected Color to be in the catalog")
	}
	if reporter.HasErrors() {
		t.Errorf("expected no diagnostics from a clean two-unit build, got %v", reporter.Diagnostics())
	}
}

func TestBuildExternalClassCatalogReportsCrossUnitDuplicate(t *testing.T) {
	buffers := source.NewSet()
	reporter := diagnostics.NewReporter(buffers)

	a := parseUnit(t, buffers, reporter, "a.nova", "class Point(x: Int)\n")
	b := parseUnit(t, buffers, reporter, "b.nova", "class Point(x: Int, y: Int)\n")

	BuildExternalClassCatalog([]*Unit{a, b}, reporter)

	found := false
	for _, d := range reporter.Diagnostics() {
		if d.Code == "NOVA-DUP-CLASS" {
			found = true
			if d.File != "b.nova" {
				t.Errorf("expected the duplicate to be reported against the second unit, got file=%s", d.File)
			}
		}
	}
	if !found {
		t.Fatalf("expected a NOVA-DUP-CLASS diagnostic, got %v", reporter.Diagnostics())
	}
}

func TestCheckImportVersionRejectsInvalidSemver(t *testing.T) {
	buffers := source.NewSet()
	reporter := diagnostics.NewReporter(buffers)

	u := parseUnit(t, buffers, reporter, "c.nova", "import lib.widgets @ \"not-a-version\"\n")
	BuildExternalClassCatalog([]*Unit{u}, reporter)

	found := false
	for _, d := range reporter.Diagnostics() {
		if d.Code == "NOVA-BAD-VERSION" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NOVA-BAD-VERSION diagnostic for an invalid pin, got %v", reporter.Diagnostics())
	}
}

func TestCheckImportVersionAcceptsValidSemver(t *testing.T) {
	buffers := source.NewSet()
	reporter := diagnostics.NewReporter(buffers)

	u := parseUnit(t, buffers, reporter, "d.nova", "import lib.widgets @ \"v1.2.3\"\n")
	BuildExternalClassCatalog([]*Unit{u}, reporter)

	for _, d := range reporter.Diagnostics() {
		if d.Code == "NOVA-BAD-VERSION" {
			t.Errorf("did not expect a version diagnostic for a valid semver pin, got %v", d)
		}
	}
}

func TestBuildLowersCrossUnitClassReference(t *testing.T) {
	buffers := source.NewSet()
	reporter := diagnostics.NewReporter(buffers)

	a := parseUnit(t, buffers, reporter, "point.nova", "class Point(x: Int, y: Int)\n")
	b := parseUnit(t, buffers, reporter, "main.nova", "fun origin(): Point { return Point(0, 0) }\n")

	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}

	units := []*Unit{a, b}
	cat := BuildExternalClassCatalog(units, reporter)

	results, err := Build(context.Background(), units, cat, reporter)
	if err != nil {
		t.Fatalf("Build returned an error: %s", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r == nil {
			t.Fatalf("expected every unit to produce a Result")
		}
	}
	if reporter.HasErrors() {
		t.Errorf("expected main.nova to resolve Point from the other unit without error, got %v", reporter.Diagnostics())
	}
}

func TestReporterOrdersDiagnosticsByUnitRank(t *testing.T) {
	buffers := source.NewSet()
	reporter := diagnostics.NewReporter(buffers)

	a := parseUnit(t, buffers, reporter, "first.nova", "class Dup(x: Int)\n")
	b := parseUnit(t, buffers, reporter, "second.nova", "class Dup(x: Int)\n")

	// Register b before a so Merge's rank, not append order, decides the
	// final ordering.
	reporter.Merge(b.Path, 1, nil)
	reporter.Merge(a.Path, 0, nil)

	BuildExternalClassCatalog([]*Unit{a, b}, reporter)

	ds := reporter.Diagnostics()
	if len(ds) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	sawSecond := false
	for _, d := range ds {
		if d.File == "second.nova" {
			sawSecond = true
		}
		if d.File == "first.nova" && sawSecond {
			t.Errorf("expected first.nova's diagnostics (rank 0) to sort before second.nova's (rank 1)")
		}
	}
}
