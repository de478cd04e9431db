// Package source holds the source text + file-name buffers the rest of the
// pipeline addresses by token.FileID.
package source

import (
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/novalang/novac/internal/token"
)

// Buffer holds one file's text and a byte-offset -> (line, column) index
// built once at construction, so repeated span lookups during diagnostic
// formatting don't rescan the text.
type Buffer struct {
	Name string
	Text string

	lineStarts []int // byte offset of the first byte of each line
}

// New builds a Buffer and its line-start index for text.
func New(name, text string) *Buffer {
	b := &Buffer{Name: name, Text: text, lineStarts: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	return b
}

// Position converts a byte offset into a 1-based (line, column). Column
// counts terminal display cells via golang.org/x/text/width rather than
// bytes or runes, so a diagnostic's underline lines up under wide or
// fullwidth runes the same way it does under ASCII.
func (b *Buffer) Position(offset int) (line, column int) {
	line = b.lineFor(offset)
	lineStart := b.lineStarts[line-1]
	column = 1
	for i := lineStart; i < offset && i < len(b.Text); {
		r, size := utf8.DecodeRuneInString(b.Text[i:])
		column += runeWidth(r)
		i += size
	}
	return line, column
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func (b *Buffer) lineFor(offset int) int {
	// Binary search over lineStarts for the greatest start <= offset.
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// Line returns the raw text of a 1-based line number, without its newline.
func (b *Buffer) Line(n int) string {
	if n < 1 || n > len(b.lineStarts) {
		return ""
	}
	start := b.lineStarts[n-1]
	end := len(b.Text)
	if n < len(b.lineStarts) {
		end = b.lineStarts[n] - 1
	}
	if end < start {
		end = start
	}
	return b.Text[start:end]
}

// MakeSpan builds a token.SourceSpan from byte offsets, filling in the
// start line/column from this buffer's index.
func (b *Buffer) MakeSpan(fileID token.FileID, start, end int) token.SourceSpan {
	line, col := b.Position(start)
	return token.SourceSpan{
		FileID:      fileID,
		StartOffset: start,
		EndOffset:   end,
		StartLine:   line,
		StartColumn: col,
	}
}

// Set is a registry of Buffers keyed by FileID, used by multi-file builds
// (internal/units) and by the diagnostic reporter to resolve a span's file
// name without the span itself needing to carry a pointer.
type Set struct {
	buffers []*Buffer
}

// NewSet creates an empty buffer set.
func NewSet() *Set { return &Set{} }

// Add registers a buffer and returns the FileID it was assigned.
func (s *Set) Add(b *Buffer) token.FileID {
	id := token.FileID(len(s.buffers))
	s.buffers = append(s.buffers, b)
	return id
}

// Get returns the buffer for id, or nil if out of range.
func (s *Set) Get(id token.FileID) *Buffer {
	if int(id) < 0 || int(id) >= len(s.buffers) {
		return nil
	}
	return s.buffers[id]
}
