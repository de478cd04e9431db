package novac

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestCompileProjectWithoutManifestCompilesEveryNovaFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "point.nova", "class Point(x: Int, y: Int) {\n    fun sum(): Int = x + y\n}\n")
	writeFile(t, dir, "main.nova", "fun origin(): Point { return Point(0, 0) }\n")

	result, err := CompileProject(dir, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("CompileProject returned an error: %v", err)
	}
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if len(result.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(result.Artifacts))
	}
	if result.ExitCode() != ExitSuccess {
		t.Errorf("expected ExitSuccess, got %v", result.ExitCode())
	}
	if result.Summary == "" {
		t.Errorf("expected a non-empty summary")
	}
}

func TestCompileProjectHonorsManifestSourceRoots(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, srcDir, "point.nova", "class Point(x: Int, y: Int)\n")
	writeFile(t, dir, "novalang.yaml", "source_roots:\n  - src\noutput_dir: dist\n")

	result, err := CompileProject(dir, "")
	if err != nil {
		t.Fatalf("CompileProject returned an error: %v", err)
	}
	if len(result.Artifacts) != 1 {
		t.Fatalf("expected 1 artifact from the manifest's source root, got %d", len(result.Artifacts))
	}
}

func TestCompileProjectReportsCrossUnitDuplicateWithNoArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.nova", "class Dup(x: Int)\n")
	writeFile(t, dir, "b.nova", "class Dup(x: Int)\n")

	result, err := CompileProject(dir, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("CompileProject returned an error: %v", err)
	}
	if len(result.Artifacts) != 0 {
		t.Errorf("expected no artifacts once a duplicate-class diagnostic is reported")
	}
	if result.ExitCode() != ExitUser {
		t.Errorf("expected ExitUser, got %v", result.ExitCode())
	}
}
