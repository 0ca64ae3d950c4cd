package mgccursor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrimLiteralAdvancesOnMatch(t *testing.T) {
	c := New("hello world")
	res := c.TrimLiteral("hello")
	require.True(t, res.Matched)
	require.Equal(t, "hello", res.Text)
	require.Equal(t, 5, res.Next.Pos())
	// original cursor unchanged
	require.Equal(t, 0, c.Pos())
}

func TestTrimLiteralFailureLeavesCursor(t *testing.T) {
	c := New("hello world")
	res := c.TrimLiteral("bye")
	require.False(t, res.Matched)
	require.Equal(t, 0, res.Next.Pos())
}

func TestTrimDigitClass(t *testing.T) {
	c := New("1234abc")
	res := c.Trim("%d+")
	require.True(t, res.Matched)
	require.Equal(t, "1234", res.Text)
	require.Equal(t, 4, res.Next.Pos())
}

func TestTrimHexLiteral(t *testing.T) {
	c := New("0hFF rest")
	res := c.Trim("0h%x+")
	require.True(t, res.Matched)
	require.Equal(t, "0hFF", res.Text)
}

func TestTrimBracketClass(t *testing.T) {
	c := New("ABC123")
	res := c.Trim("[A-Z]+")
	require.True(t, res.Matched)
	require.Equal(t, "ABC", res.Text)
}

func TestTrimNonGreedyDash(t *testing.T) {
	// "-" is a lazy zero-or-more: "a-b" against "aaab" should match
	// the shortest prefix that ends with the literal "b".
	c := New("aaab")
	res := c.Trim("a-b")
	require.True(t, res.Matched)
	require.Equal(t, "aaab", res.Text)
}

func TestTrimDoesNotMatchMidString(t *testing.T) {
	c := New("xyz123")
	res := c.Trim("%d+")
	require.False(t, res.Matched)
}

func TestSkipWhitespace(t *testing.T) {
	c := New("   \t\nabc")
	c2 := c.SkipWhitespace()
	require.Equal(t, "abc", c2.Rest())
}

func TestRowCol(t *testing.T) {
	c := New("abc\ndef\nghi")
	c2 := c.Seek(6) // 'f' at row 2 col 3: "abc\n" = 4 bytes (0-3), "def\n" starts at 4
	row, col := c2.RowCol()
	require.Equal(t, 2, row)
	require.Equal(t, 3, col)
}

func TestFindLiteral(t *testing.T) {
	c := New("prefix $MACRO$ suffix")
	res := c.FindLiteral("$MACRO$")
	require.True(t, res.Found)
	require.Equal(t, 7, res.Start)
}

func TestPeekAndLen(t *testing.T) {
	c := New("0123456789").Seek(3)
	require.Equal(t, "345", c.Peek(3))
	require.Equal(t, 7, c.Len())
	require.False(t, c.AtEnd())
}
