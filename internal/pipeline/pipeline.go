// Package pipeline wires the compiler's front-end stages — lex, parse,
// analyze, lower to HIR, lower to MIR — into one ordered chain of
// Processors sharing a single Context.
package pipeline

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/hir"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/mir"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/passes"
	"github.com/novalang/novac/internal/semantic"
	"github.com/novalang/novac/internal/source"
	"github.com/novalang/novac/internal/token"
)

// Context carries one file's state as it passes through the pipeline:
// each stage reads what an earlier stage left and writes its own output
// in turn. A Context is good for one file; a multi-file build instead
// drives internal/units directly, since units share a catalog and
// reporter no single Context needs to know about.
type Context struct {
	FilePath string
	Source   string

	Buffers  *source.Set
	FileID   token.FileID
	Reporter *diagnostics.Reporter

	Tokens []token.Token
	AST    *ast.Program
	Sem    *semantic.Analyzer
	Hir    *hir.Program
	Mir    *mir.Program

	// passes holds the one Registry OptimizeHirStage and OptimizeMirStage
	// share: its Cache must survive from the HIR passes into the MIR
	// passes, since a MIR pass can query an analysis a HIR pass already
	// invalidated rather than recomputing it from scratch.
	passes *passes.Registry
}

// NewContext lexes src immediately and returns a Context ready for
// ParseStage: every later stage needs a non-nil Tokens slice to even
// begin, so the constructor itself carries the first stage's output
// rather than leaving it to a separate lex stage.
func NewContext(filePath, src string) *Context {
	buffers := source.NewSet()
	fileID := buffers.Add(source.New(filePath, src))
	reporter := diagnostics.NewReporter(buffers)

	toks, diags := lexer.Lex(src, fileID)
	for _, d := range diags {
		d.File = filePath
		reporter.Report(d)
	}

	return &Context{
		FilePath: filePath,
		Source:   src,
		Buffers:  buffers,
		FileID:   fileID,
		Reporter: reporter,
		Tokens:   toks,
	}
}

// Processor is one pipeline stage. It reads and mutates a Context and
// returns it, possibly unchanged, for the next stage.
type Processor interface {
	Process(c *Context) *Context
}

// Pipeline runs a fixed sequence of Processors over one Context.
type Pipeline struct {
	stages []Processor
}

// New builds a Pipeline that runs stages in order.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order, continuing even past a stage that
// reported errors: a later stage either still has useful work to do
// (the analyzer keeps annotating the AST after a parse error so the
// rest of the file is still checked) or skips itself when its own
// precondition is missing (the HIR lowerer's ParseStage output is nil).
// Never aborting the chain here is what lets a single Run collect
// diagnostics from every stage that could still produce any.
func (p *Pipeline) Run(c *Context) *Context {
	for _, stage := range p.stages {
		c = stage.Process(c)
	}
	return c
}

// ParseStage runs the parser over a Context's Tokens.
type ParseStage struct{}

func (ParseStage) Process(c *Context) *Context {
	if c.Tokens == nil {
		return c
	}
	p := parser.New(c.Tokens, c.Reporter, c.FilePath)
	c.AST = p.ParseProgram()
	return c
}

// AnalyzeStage runs semantic analysis over a Context's AST.
type AnalyzeStage struct{}

func (AnalyzeStage) Process(c *Context) *Context {
	if c.AST == nil {
		return c
	}
	c.Sem = semantic.New(c.Reporter)
	c.Sem.Analyze(c.AST)
	return c
}

// LowerHirStage lowers a Context's analyzed AST to HIR. It still runs
// when the analyzer reported errors: §7's propagation policy has a unit
// with semantic errors lower anyway when possible, so later stages (and
// a caller inspecting HIR for tooling) see as much as could be built.
type LowerHirStage struct{}

func (LowerHirStage) Process(c *Context) *Context {
	if c.AST == nil || c.Sem == nil {
		return c
	}
	lowerer := hir.New(c.Reporter, c.Sem, c.FilePath)
	c.Hir = lowerer.Lower(c.AST)
	return c
}

// OptimizeHirStage runs the compiler's standard HIR passes (inlining,
// constant folding, dead-code elimination) over a Context's HIR, ahead of
// MIR lowering so the passes see (and fold away) the higher-level tree
// shape they're written against. It lazily creates the Context's shared
// Registry, since this is the first of the two optimize stages to run.
type OptimizeHirStage struct{}

func (OptimizeHirStage) Process(c *Context) *Context {
	if c.Hir == nil {
		return c
	}
	if c.passes == nil {
		c.passes = passes.Default()
	}
	next, err := c.passes.RunHIR(c.Hir)
	if err != nil {
		c.Reporter.Report(diagnostics.InternalInvariant(token.Token{}, err.Error()))
		return c
	}
	c.Hir = next
	return c
}

// LowerMirStage lowers a Context's HIR to MIR.
type LowerMirStage struct{}

func (LowerMirStage) Process(c *Context) *Context {
	if c.Hir == nil {
		return c
	}
	lowerer := mir.New(c.Reporter)
	c.Mir = lowerer.Lower(c.Hir)
	return c
}

// OptimizeMirStage runs the compiler's standard MIR passes
// (dead-block elimination) over a Context's MIR, reusing OptimizeHirStage's
// Registry so its analysis cache carries over.
type OptimizeMirStage struct{}

func (OptimizeMirStage) Process(c *Context) *Context {
	if c.Mir == nil {
		return c
	}
	if c.passes == nil {
		c.passes = passes.Default()
	}
	next, err := c.passes.RunMIR(c.Mir)
	if err != nil {
		c.Reporter.Report(diagnostics.InternalInvariant(token.Token{}, err.Error()))
		return c
	}
	c.Mir = next
	return c
}

// FrontEnd is the fixed parse->analyze->lower->optimize chain every
// published operation in pkg/novac that needs more than tokens runs a
// Context through.
func FrontEnd() *Pipeline {
	return New(ParseStage{}, AnalyzeStage{}, LowerHirStage{}, OptimizeHirStage{}, LowerMirStage{}, OptimizeMirStage{})
}
