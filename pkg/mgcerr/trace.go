package mgcerr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Trace carries the source position and surrounding text needed to render
// a rustc-style caret diagnostic: row, column, the offending line (plus a
// little context), and the length of the offending span.
type Trace struct {
	Filename string
	Row      int // 1-indexed
	Column   int // 1-indexed
	Length   int // span length for the caret underline
	Lines    []string
	// HighlightIdx is the index into Lines that holds the offending row.
	HighlightIdx int
}

// NewTrace builds a Trace from a full source text, a 1-indexed row/column,
// and a caret span length. context lines are included before/after.
func NewTrace(filename, source string, row, col, length, context int) *Trace {
	lines := splitLines(source)
	if length < 1 {
		length = 1
	}
	idx := row - 1
	if idx < 0 || idx >= len(lines) {
		return &Trace{Filename: filename, Row: row, Column: col, Length: length}
	}

	start := idx - context
	if start < 0 {
		start = 0
	}
	end := idx + context + 1
	if end > len(lines) {
		end = len(lines)
	}

	return &Trace{
		Filename:     filename,
		Row:          row,
		Column:       col,
		Length:       length,
		Lines:        lines[start:end],
		HighlightIdx: idx - start,
	}
}

func splitLines(s string) []string {
	normalized := strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Format renders the trace as a caret diagnostic: "Kind: message
// (file:row:col)" followed by the snippet and a caret underline.
func (t *Trace) Format(kind Kind, message string) string {
	var buf strings.Builder

	if t.Row > 0 {
		fmt.Fprintf(&buf, "%s: %s", kind, message)
		if t.Filename != "" {
			fmt.Fprintf(&buf, " (%s:%d:%d)", t.Filename, t.Row, t.Column)
		} else {
			fmt.Fprintf(&buf, " (%d:%d)", t.Row, t.Column)
		}
		buf.WriteString("\n\n")
	} else {
		fmt.Fprintf(&buf, "%s: %s\n", kind, message)
		return buf.String()
	}

	if len(t.Lines) == 0 {
		return buf.String()
	}

	startRow := t.Row - t.HighlightIdx
	for i, line := range t.Lines {
		rowNum := startRow + i
		fmt.Fprintf(&buf, "  %4d | %s\n", rowNum, line)
		if i == t.HighlightIdx {
			caretIndent := utf8.RuneCountInString(safeSlice(line, t.Column-1))
			fmt.Fprintf(&buf, "       | %s%s\n",
				strings.Repeat(" ", caretIndent),
				strings.Repeat("^", t.Length))
		}
	}

	return buf.String()
}

func safeSlice(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
