// Package novac is NovaLang's published core interface: the handful of
// operations a CLI, a language server, or any other host embeds the
// compiler through. Nothing under internal/ is meant to be imported
// directly by a host; this package is the only supported surface.
package novac

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/backend"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/format"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/pipeline"
	"github.com/novalang/novac/internal/source"
)

// ExitCode mirrors the exit-code contract a CLI layered over this
// package should use: 0 on success, 1 when the input itself is at
// fault, 2 when the compiler hit an internal invariant violation rather
// than a problem with the input.
type ExitCode int

const (
	ExitSuccess  ExitCode = 0
	ExitUser     ExitCode = 1
	ExitInternal ExitCode = 2
)

// hasInternalError reports whether any diagnostic in ds came from the
// lowering or back-end stages, the two stages whose own failure means
// the compiler itself hit a condition it doesn't know how to recover
// from, not that the input was invalid.
func hasInternalError(ds []*diagnostics.Diagnostic) bool {
	for _, d := range ds {
		if d.Kind == diagnostics.KindLowering || d.Kind == diagnostics.KindBackend {
			return true
		}
	}
	return false
}

func hasError(ds []*diagnostics.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diagnostics.Error {
			return true
		}
	}
	return false
}

func exitCodeFor(ds []*diagnostics.Diagnostic) ExitCode {
	switch {
	case hasInternalError(ds):
		return ExitInternal
	case hasError(ds):
		return ExitUser
	default:
		return ExitSuccess
	}
}

// CompileResult is compile_file's output.
type CompileResult struct {
	// Objects is nil whenever any stage reported an error: the back end
	// never emits a partial set of code objects for a file that failed
	// earlier, matching the propagation policy that a back end refuses to
	// emit anything for a function whose MIR still contains an unresolved
	// reference.
	Objects     map[string]*backend.CodeObject
	Diagnostics []*diagnostics.Diagnostic
}

// ExitCode reports the exit code a CLI should use for this result.
func (r *CompileResult) ExitCode() ExitCode {
	return exitCodeFor(r.Diagnostics)
}

// CompileFile lexes, parses, analyzes, and lowers source to MIR, then
// emits one code object per function. Diagnostics from every stage that
// ran are always returned, in source order.
func CompileFile(sourceText, filename string) *CompileResult {
	ctx := pipeline.NewContext(filename, sourceText)
	ctx = pipeline.FrontEnd().Run(ctx)

	diags := ctx.Reporter.Diagnostics()
	if ctx.Reporter.HasErrors() || ctx.Mir == nil {
		return &CompileResult{Diagnostics: diags}
	}
	return &CompileResult{Objects: backend.EmitProgram(ctx.Mir), Diagnostics: diags}
}

// Analyze parses and analyzes sourceText and returns diagnostics only, no code object,
// for a host (an editor's live-typing check) that wants fast feedback
// without paying for lowering or codegen.
func Analyze(sourceText string) []*diagnostics.Diagnostic {
	ctx := pipeline.NewContext("<analyze>", sourceText)
	ctx = pipeline.New(pipeline.ParseStage{}, pipeline.AnalyzeStage{}).Run(ctx)
	return ctx.Reporter.Diagnostics()
}

// ParseREPL parses exactly one top-level construct or statement from
// line and returns it, or nil if line held nothing but whitespace. It
// never runs error-recovery skipping, matching a REPL's expectation that
// one input produces at most one node or a clear parse failure.
func ParseREPL(line string) ast.Node {
	buffers := source.NewSet()
	fileID := buffers.Add(source.New("<repl>", line))
	reporter := diagnostics.NewReporter(buffers)

	toks, diags := lexer.Lex(line, fileID)
	for _, d := range diags {
		d.File = "<repl>"
		reporter.Report(d)
	}

	p := parser.New(toks, reporter, "<repl>")
	return p.ParseREPLInput()
}

// FormatConfig controls format_source's rendering.
type FormatConfig struct {
	IndentWidth int
	UseTabs     bool
	MaxWidth    int
}

// DefaultFormatConfig matches internal/format's own built-in defaults
// (four-space indents, no enforced wrap width).
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{IndentWidth: 4, MaxWidth: 0}
}

// FormatSource re-renders text into canonical source, honoring cfg.
// Diagnostics from lexing/parsing are returned directly rather than
// formatted, since a caller formatting broken source wants the raw
// diagnostics, not a best-effort rendering of a program that never
// fully parsed.
func FormatSource(text string, cfg FormatConfig) (string, []*diagnostics.Diagnostic) {
	return format.FormatSourceWithConfig(text, format.Config{
		IndentWidth: cfg.IndentWidth,
		UseTabs:     cfg.UseTabs,
		MaxWidth:    cfg.MaxWidth,
	})
}
