package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/novalang/novac/internal/source"
)

// Reporter accumulates diagnostics across pipeline stages and, for a
// multi-file build, across concurrently compiling units. Merge folds one
// unit's diagnostics in under a single lock, and Diagnostics imposes the
// final deterministic order.
type Reporter struct {
	mu          sync.Mutex
	diagnostics []*Diagnostic
	buffers     *source.Set
	unitOrder   map[string]int // file path -> dependency-topological rank
}

// NewReporter creates an empty reporter backed by buffers for source
// excerpt rendering.
func NewReporter(buffers *source.Set) *Reporter {
	return &Reporter{buffers: buffers, unitOrder: map[string]int{}}
}

// Report files one diagnostic. Safe for concurrent use across units.
func (r *Reporter) Report(d *Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

// Merge folds a unit-local diagnostic slice in at once, recording the
// unit's compile rank so the final ordering can place units
// dependency-topologically.
func (r *Reporter) Merge(unitFile string, rank int, ds []*Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unitOrder[unitFile] = rank
	r.diagnostics = append(r.diagnostics, ds...)
}

// Diagnostics returns all accumulated diagnostics in deterministic order:
// by unit rank, then by file path, then by source position within the
// unit.
func (r *Reporter) Diagnostics() []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := r.unitOrder[out[i].File], r.unitOrder[out[j].File]
		if ri != rj {
			return ri < rj
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Span.StartLine != out[j].Span.StartLine {
			return out[i].Span.StartLine < out[j].Span.StartLine
		}
		return out[i].Span.StartColumn < out[j].Span.StartColumn
	})
	return out
}

// HasErrors reports whether any accumulated diagnostic has Error severity.
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Format renders one diagnostic in a rustc-style caret-pointer shape:
//
//	[<severity>] (<file>:<line>:<col>) <message>
//	  --> <file>:<line>:<col>
//	   |
//	 <n> | <source line>
//	     | <spaces>^^^^
func Format(d *Diagnostic, buffers *source.Set) string {
	var b strings.Builder
	loc := fmt.Sprintf("%s:%d:%d", d.File, d.Span.StartLine, d.Span.StartColumn)
	fmt.Fprintf(&b, "[%s] (%s) %s\n", d.Severity, loc, d.Message)
	fmt.Fprintf(&b, "  --> %s\n", loc)

	var line string
	if buffers != nil {
		if buf := buffers.Get(d.Span.FileID); buf != nil {
			line = buf.Line(d.Span.StartLine)
		}
	}
	gutter := fmt.Sprintf(" %d", d.Span.StartLine)
	fmt.Fprintf(&b, "%*s |\n", len(gutter), "")
	fmt.Fprintf(&b, "%s | %s\n", gutter, line)

	underlineLen := d.Span.EndOffset - d.Span.StartOffset
	if underlineLen < 1 {
		underlineLen = 1
	}
	pad := strings.Repeat(" ", d.Span.StartColumn-1)
	fmt.Fprintf(&b, "%*s | %s%s\n", len(gutter), "", pad, strings.Repeat("^", underlineLen))
	return b.String()
}

// severityColor returns the ANSI SGR prefix for a severity, used only when
// output is attached to a terminal (checked with isatty by the caller).
func severityColor(sev Severity) string {
	switch sev {
	case Error:
		return "\x1b[1;31m"
	case Warning:
		return "\x1b[1;33m"
	case Info:
		return "\x1b[1;36m"
	default:
		return "\x1b[1;37m"
	}
}

const colorReset = "\x1b[0m"

// WriteAll renders every accumulated diagnostic to w, coloring severities
// when w is a terminal (os.Stdout/os.Stderr attached to a tty), matching
// the way a CLI host built on this core would colorize output without the
// core itself depending on a CLI package.
func (r *Reporter) WriteAll(w io.Writer) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, d := range r.Diagnostics() {
		text := Format(d, r.buffers)
		if color {
			text = severityColor(d.Severity) + text + colorReset
		}
		fmt.Fprint(w, text)
	}
}
