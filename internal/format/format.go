// Package format implements format_source: re-rendering a parsed Nova
// program back into canonical source text. It walks the same ast.Visitor
// every other stage does, so a new AST node only ever needs one new
// renderer, not a second parallel tree.
package format

import (
	"strings"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/source"
)

// indentUnit is one level of nesting; Nova source uses four-space indents.
const indentUnit = "    "

// Config controls a Printer's indentation. MaxWidth is carried through
// as a published knob but never consulted by any rendering decision in
// this package: every construct here always renders on its own natural
// number of lines, regardless of how long that line ends up being.
type Config struct {
	IndentWidth int
	UseTabs     bool
	MaxWidth    int
}

// DefaultConfig is four-space indents and no wrap target.
func DefaultConfig() Config {
	return Config{IndentWidth: 4}
}

func (c Config) unit() string {
	if c.UseTabs {
		return "\t"
	}
	width := c.IndentWidth
	if width <= 0 {
		width = 4
	}
	return strings.Repeat(" ", width)
}

// Printer renders an ast.Program back to source text. Constructed fresh
// per Format call; it carries no state a caller should reuse across runs.
type Printer struct {
	buf        strings.Builder
	indent     int
	indentUnit string
}

// NewPrinter builds an empty Printer using the default four-space
// indent.
func NewPrinter() *Printer {
	return &Printer{indentUnit: indentUnit}
}

// NewPrinterWithConfig builds an empty Printer using cfg's indent
// settings.
func NewPrinterWithConfig(cfg Config) *Printer {
	return &Printer{indentUnit: cfg.unit()}
}

// String returns everything written so far.
func (p *Printer) String() string {
	return p.buf.String()
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString(p.indentUnit)
	}
}

func (p *Printer) newline() {
	p.buf.WriteString("\n")
}

// Format renders prog as source text using the default indent.
func Format(prog *ast.Program) string {
	p := NewPrinter()
	prog.Accept(p)
	return p.String()
}

// FormatWithConfig renders prog as source text using cfg's indent
// settings.
func FormatWithConfig(prog *ast.Program, cfg Config) string {
	p := NewPrinterWithConfig(cfg)
	prog.Accept(p)
	return p.String()
}

// FormatSource lexes and parses src, then renders the result, the same
// front end CompileFile uses. Diagnostics from either stage are returned
// directly rather than formatted, since a caller formatting broken source
// wants the raw diagnostics to report, not a best-effort rendering of a
// program that may not have parsed at all.
func FormatSource(src string) (string, []*diagnostics.Diagnostic) {
	buffers := source.NewSet()
	fileID := buffers.Add(source.New("<format>", src))
	reporter := diagnostics.NewReporter(buffers)

	toks, lexDiags := lexer.Lex(src, fileID)
	if len(lexDiags) > 0 {
		return "", lexDiags
	}

	p := parser.New(toks, reporter, "<format>")
	prog := p.ParseProgram()
	if reporter.HasErrors() {
		return "", reporter.Diagnostics()
	}
	return Format(prog), nil
}

// FormatSourceWithConfig is FormatSource with cfg's indent settings
// applied to the rendered output.
func FormatSourceWithConfig(src string, cfg Config) (string, []*diagnostics.Diagnostic) {
	buffers := source.NewSet()
	fileID := buffers.Add(source.New("<format>", src))
	reporter := diagnostics.NewReporter(buffers)

	toks, lexDiags := lexer.Lex(src, fileID)
	if len(lexDiags) > 0 {
		return "", lexDiags
	}

	p := parser.New(toks, reporter, "<format>")
	prog := p.ParseProgram()
	if reporter.HasErrors() {
		return "", reporter.Diagnostics()
	}
	return FormatWithConfig(prog, cfg), nil
}

// modifierPrefix renders ms followed by a trailing space, or "" when ms
// is empty, so callers can unconditionally splice it in front of a
// keyword without a double space.
func modifierPrefix(ms ast.ModifierSet) string {
	s := ms.String()
	if s == "" {
		return ""
	}
	return s + " "
}
