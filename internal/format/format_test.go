package format

import "testing"

func mustFormat(t *testing.T, src string) string {
	t.Helper()
	out, diags := FormatSource(src)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics formatting %q: %v", src, diags)
	}
	return out
}

func TestFormatPropertyDecl(t *testing.T) {
	out := mustFormat(t, "val x: Int = 1\n")
	want := "val x: Int = 1\n"
	if out != want {
		t.Errorf("got=%q want=%q", out, want)
	}
}

func TestFormatFunctionExprBody(t *testing.T) {
	out := mustFormat(t, "fun double(x: Int): Int = x * 2\n")
	want := "fun double(x: Int): Int = x * 2\n"
	if out != want {
		t.Errorf("got=%q want=%q", out, want)
	}
}

func TestFormatBinaryPrecedenceNoRedundantParens(t *testing.T) {
	out := mustFormat(t, "val x = 1 + 2 * 3\n")
	want := "val x = 1 + 2 * 3\n"
	if out != want {
		t.Errorf("got=%q want=%q", out, want)
	}
}

func TestFormatBinaryPrecedenceAddsParensWhenNeeded(t *testing.T) {
	out := mustFormat(t, "val x = (1 + 2) * 3\n")
	want := "val x = (1 + 2) * 3\n"
	if out != want {
		t.Errorf("got=%q want=%q", out, want)
	}
}

func TestFormatClassWithBody(t *testing.T) {
	src := "class Point(x: Int, y: Int) {\n    fun sum(): Int = x + y\n}\n"
	out := mustFormat(t, src)
	if out != src {
		t.Errorf("got=%q want=%q", out, src)
	}
}

func TestFormatIfStatement(t *testing.T) {
	src := "fun classify(n: Int): Int {\n    if (n > 0) {\n        return 1\n    } else {\n        return 0\n    }\n}\n"
	out := mustFormat(t, src)
	if out != src {
		t.Errorf("got=%q want=%q", out, src)
	}
}

func TestFormatCallWithNamedArgs(t *testing.T) {
	out := mustFormat(t, "val p = Point(x = 1, y = 2)\n")
	want := "val p = Point(x = 1, y = 2)\n"
	if out != want {
		t.Errorf("got=%q want=%q", out, want)
	}
}

func TestFormatRangeExpr(t *testing.T) {
	out := mustFormat(t, "for (i in 0..10) {\n    println(i)\n}\n")
	want := "for (i in 0..10) {\n    println(i)\n}\n"
	if out != want {
		t.Errorf("got=%q want=%q", out, want)
	}
}

func TestFormatSourceReturnsParserDiagnosticsOnBrokenInput(t *testing.T) {
	_, diags := FormatSource("val x =\n")
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics for incomplete source")
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	src := "fun add(a: Int, b: Int): Int = a + b\n"
	once := mustFormat(t, src)
	twice := mustFormat(t, once)
	if once != twice {
		t.Errorf("expected formatting to be a fixed point; first=%q second=%q", once, twice)
	}
}
