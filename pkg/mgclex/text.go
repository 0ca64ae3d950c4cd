package mgclex

import (
	"strings"

	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgcerr"
)

// Char matches one character followed by whitespace (or end of input),
// yielding that character as a one-rune string.
func Char(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	if c.AtEnd() {
		return nil, c, mgcerr.Param("expected a character")
	}
	rest := c.Rest()
	r := rest[0:1]
	next := c.Advance(1)
	if !next.AtEnd() {
		nr := next.Rest()[0]
		if nr != ' ' && nr != '\t' && nr != '\r' && nr != '\n' {
			return nil, c, mgcerr.Param("expected a single character followed by whitespace")
		}
	}
	return r, next, nil
}

// Channel matches a run of non-whitespace characters and yields the set
// of distinct characters present — used by commands that address
// several channels at once, e.g. "!1A2" selecting channels 1, A and 2.
func Channel(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	// The class table only names positive classes (%d %a %w %s %x),
	// not their complements, so "non-whitespace run" is a manual scan
	// rather than a pattern match.
	rest := c.Rest()
	i := 0
	for i < len(rest) && !isSpace(rest[i]) {
		i++
	}
	if i == 0 {
		return nil, c, mgcerr.Param("expected a channel selector")
	}

	set := make(map[rune]struct{})
	for _, r := range rest[:i] {
		set[r] = struct{}{}
	}
	return set, c.Advance(i), nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// Qstring matches a double- or single-quoted string with backslash
// escapes and yields the unescaped contents.
func Qstring(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	if c.AtEnd() {
		return nil, c, mgcerr.Param("expected a quoted string")
	}
	rest := c.Rest()
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return nil, c, mgcerr.Param("expected a quoted string")
	}

	var sb strings.Builder
	i := 1
	for i < len(rest) {
		ch := rest[i]
		if ch == '\\' && i+1 < len(rest) {
			sb.WriteByte(rest[i+1])
			i += 2
			continue
		}
		if ch == quote {
			return sb.String(), c.Advance(i + 1), nil
		}
		sb.WriteByte(ch)
		i++
	}
	return nil, c, mgcerr.Param("unterminated quoted string")
}

// Ident matches [A-Za-z0-9_]+.
func Ident(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	res := c.Trim("%w+")
	if !res.Matched {
		return nil, c, mgcerr.Param("expected an identifier")
	}
	return res.Text, res.Next, nil
}

// Ident2 matches [A-Za-z_][A-Za-z0-9_]*, i.e. an identifier that cannot
// start with a digit.
func Ident2(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	if c.AtEnd() {
		return nil, c, mgcerr.Param("expected an identifier")
	}
	first := c.Rest()[0]
	if !(isAlpha(first) || first == '_') {
		return nil, c, mgcerr.Param("identifier must start with a letter or underscore")
	}
	res := c.Trim("%w+")
	return res.Text, res.Next, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
