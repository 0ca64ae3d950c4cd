// Package mgccursor implements the read-only source cursor shared by every
// lexer in the framework: a byte offset into an immutable source string,
// advanced on success and left untouched on failure.
package mgccursor

import (
	"regexp"
	"strings"
)

// Cursor is a read-only reference to an immutable source string plus a
// byte offset. All lexers operate on a Cursor; they advance it on success
// and must leave it unchanged on failure — Cursor itself is a value type,
// so "leaving it unchanged" just means the caller keeps its own copy.
type Cursor struct {
	src string
	b   int
}

// New creates a Cursor positioned at the start of src.
func New(src string) Cursor {
	return Cursor{src: src, b: 0}
}

// Pos returns the current byte offset.
func (c Cursor) Pos() int { return c.b }

// Source returns the full underlying source string.
func (c Cursor) Source() string { return c.src }

// Len returns the number of bytes remaining from the cursor to the end.
func (c Cursor) Len() int { return len(c.src) - c.b }

// AtEnd reports whether the cursor has consumed the entire source.
func (c Cursor) AtEnd() bool { return c.b >= len(c.src) }

// Peek returns up to n bytes starting at the cursor without advancing it.
func (c Cursor) Peek(n int) string {
	end := c.b + n
	if end > len(c.src) {
		end = len(c.src)
	}
	if end < c.b {
		end = c.b
	}
	return c.src[c.b:end]
}

// Rest returns every byte from the cursor to the end of the source.
func (c Cursor) Rest() string { return c.src[c.b:] }

// Seek moves the cursor to an absolute byte offset, clamped to the valid
// range [0, len(src)].
func (c Cursor) Seek(pos int) Cursor {
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.src) {
		pos = len(c.src)
	}
	c.b = pos
	return c
}

// Advance moves the cursor forward (or backward) by a relative offset,
// clamped to the valid range.
func (c Cursor) Advance(delta int) Cursor {
	return c.Seek(c.b + delta)
}

// RowCol computes the 1-indexed row and column of the cursor's current
// position within the source, for trace reporting.
func (c Cursor) RowCol() (row, col int) {
	row, col = 1, 1
	for i := 0; i < c.b && i < len(c.src); i++ {
		if c.src[i] == '\n' {
			row++
			col = 1
		} else {
			col++
		}
	}
	return row, col
}

// SkipWhitespace advances the cursor past any run of spaces, tabs, and
// newlines, returning the updated cursor.
func (c Cursor) SkipWhitespace() Cursor {
	i := c.b
	for i < len(c.src) {
		switch c.src[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return c.Seek(i)
		}
	}
	return c.Seek(i)
}

// TrimResult is the outcome of a Trim (or TrimLiteral) attempt: on match,
// Matched is true, Text holds the matched text and Next holds the cursor
// advanced past it; on failure Matched is false and Next equals the
// receiver unchanged.
type TrimResult struct {
	Matched bool
	Text    string
	Next    Cursor
}

// Trim attempts to match pattern (a POSIX-ish class surface) at the
// current cursor position. On success it returns the matched text and a
// cursor advanced past it; on failure it returns Matched=false and an
// unchanged cursor, mirroring "match-and-advance if the match begins at
// the cursor, returning the matched text or a negative indicator".
func (c Cursor) Trim(pattern string) TrimResult {
	re, err := compilePattern(pattern)
	if err != nil {
		return TrimResult{Matched: false, Next: c}
	}
	loc := re.FindStringIndex(c.Rest())
	if loc == nil || loc[0] != 0 {
		return TrimResult{Matched: false, Next: c}
	}
	text := c.Rest()[loc[0]:loc[1]]
	return TrimResult{Matched: true, Text: text, Next: c.Advance(loc[1])}
}

// TrimLiteral is Trim's literal-mode counterpart: find skips regex
// interpretation entirely and matches s verbatim at the cursor.
func (c Cursor) TrimLiteral(s string) TrimResult {
	if strings.HasPrefix(c.Rest(), s) {
		return TrimResult{Matched: true, Text: s, Next: c.Advance(len(s))}
	}
	return TrimResult{Matched: false, Next: c}
}

// FindResult reports where a pattern or literal was found relative to the
// cursor, without requiring the match to begin at the cursor.
type FindResult struct {
	Found bool
	Start int // byte offset from the cursor to the match start
	End   int // byte offset from the cursor to the match end
	Text  string
}

// Find searches for pattern anywhere in the remaining source (not
// anchored at the cursor), using the same POSIX-ish regex surface as Trim.
func (c Cursor) Find(pattern string) FindResult {
	translated, err := translatePattern(pattern)
	if err != nil {
		return FindResult{Found: false}
	}
	re, err := regexp.Compile(strings.TrimPrefix(translated, `\A`))
	if err != nil {
		return FindResult{Found: false}
	}
	loc := re.FindStringIndex(c.Rest())
	if loc == nil {
		return FindResult{Found: false}
	}
	return FindResult{Found: true, Start: loc[0], End: loc[1], Text: c.Rest()[loc[0]:loc[1]]}
}

// FindLiteral searches for s as a literal substring anywhere in the
// remaining source (find's literal mode, skipping regex interpretation).
func (c Cursor) FindLiteral(s string) FindResult {
	idx := strings.Index(c.Rest(), s)
	if idx < 0 {
		return FindResult{Found: false}
	}
	return FindResult{Found: true, Start: idx, End: idx + len(s), Text: s}
}
