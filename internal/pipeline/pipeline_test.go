package pipeline

import "testing"

func TestFrontEndLowersCleanSourceToMir(t *testing.T) {
	ctx := NewContext("a.nova", "class Point(x: Int, y: Int) {\n    fun sum(): Int = x + y\n}\n")
	ctx = FrontEnd().Run(ctx)

	if ctx.AST == nil {
		t.Fatalf("expected AST to be populated")
	}
	if ctx.Sem == nil {
		t.Fatalf("expected Sem to be populated")
	}
	if ctx.Hir == nil {
		t.Fatalf("expected Hir to be populated")
	}
	if ctx.Mir == nil {
		t.Fatalf("expected Mir to be populated")
	}
	if ctx.Reporter.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Reporter.Diagnostics())
	}
}

func TestFrontEndReportsParseErrorOnBrokenSource(t *testing.T) {
	ctx := NewContext("b.nova", "val x =\n")
	ctx = FrontEnd().Run(ctx)

	if !ctx.Reporter.HasErrors() {
		t.Fatalf("expected a parse diagnostic for incomplete source")
	}
}

func TestAnalyzeStageSkipsWithoutAst(t *testing.T) {
	ctx := &Context{}
	ctx = AnalyzeStage{}.Process(ctx)
	if ctx.Sem != nil {
		t.Errorf("expected AnalyzeStage to skip when AST is nil")
	}
}

func TestLowerMirStageSkipsWithoutHir(t *testing.T) {
	ctx := &Context{}
	ctx = LowerMirStage{}.Process(ctx)
	if ctx.Mir != nil {
		t.Errorf("expected LowerMirStage to skip when Hir is nil")
	}
}
