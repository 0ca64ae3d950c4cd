package mgclex

import (
	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgcerr"
)

// KeySig matches "[+\-=][A-Ga-g]+" and yields a map from note letter
// (uppercased) to its accidental shift: +1 for '+', -1 for '-', 0 for '='.
func KeySig(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	if c.AtEnd() {
		return nil, c, mgcerr.Param("expected a key signature")
	}
	rest := c.Rest()
	var shift int
	switch rest[0] {
	case '+':
		shift = 1
	case '-':
		shift = -1
	case '=':
		shift = 0
	default:
		return nil, c, mgcerr.Param("key signature must start with + - or =")
	}

	i := 1
	for i < len(rest) && isNoteLetter(rest[i]) {
		i++
	}
	if i == 1 {
		return nil, c, mgcerr.Param("key signature requires at least one note letter A-G")
	}

	notes := make(map[byte]int)
	for _, b := range []byte(rest[1:i]) {
		notes[upperNote(b)] = shift
	}
	return notes, c.Advance(i), nil
}

func isNoteLetter(b byte) bool {
	return (b >= 'A' && b <= 'G') || (b >= 'a' && b <= 'g')
}

func upperNote(b byte) byte {
	if b >= 'a' && b <= 'g' {
		return b - 'a' + 'A'
	}
	return b
}

// AccResult is the value yielded by Acc: either a numeric shift (when one
// or more +/- signs were present) or the neutral marker.
type AccResult struct {
	Neutral bool
	Shift   int
}

// Acc matches an optional '=' then a run of '+'/'-' signs (possibly
// empty), yielding {shift, neutral}: '=' alone (or nothing at all) is
// neutral; a run of signs sums to the shift (each '+' is +1, each '-' is
// -1).
func Acc(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	cur := c
	if res := cur.TrimLiteral("="); res.Matched {
		cur = res.Next
	}

	shift := 0
	rest := cur.Rest()
	i := 0
	for i < len(rest) && (rest[i] == '+' || rest[i] == '-') {
		if rest[i] == '+' {
			shift++
		} else {
			shift--
		}
		i++
	}
	cur = cur.Advance(i)

	if i == 0 {
		return AccResult{Neutral: true}, cur, nil
	}
	return AccResult{Neutral: false, Shift: shift}, cur, nil
}

// BinOp is the function value yielded by Binop: apply the parsed
// arithmetic operator to two operands.
type BinOp func(a, b int) int

// Binop matches one of + - * / ^ % and yields the corresponding BinOp.
func Binop(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	if c.AtEnd() {
		return nil, c, mgcerr.Param("expected a binary operator")
	}
	switch c.Rest()[0] {
	case '+':
		return BinOp(func(a, b int) int { return a + b }), c.Advance(1), nil
	case '-':
		return BinOp(func(a, b int) int { return a - b }), c.Advance(1), nil
	case '*':
		return BinOp(func(a, b int) int { return a * b }), c.Advance(1), nil
	case '/':
		return BinOp(func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a / b
		}), c.Advance(1), nil
	case '^':
		return BinOp(func(a, b int) int {
			r := 1
			for i := 0; i < b; i++ {
				r *= a
			}
			return r
		}), c.Advance(1), nil
	case '%':
		return BinOp(func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a % b
		}), c.Advance(1), nil
	default:
		return nil, c, mgcerr.Param("expected one of + - * / ^ %%")
	}
}

// CompareOp is the function value yielded by Compare.
type CompareOp func(a, b int) bool

// Compare matches one of < > <= >= == != and yields the corresponding
// CompareOp. Two-character operators are tried before their one-character
// prefixes so "<=" isn't mistaken for "<".
func Compare(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	two := map[string]CompareOp{
		"<=": func(a, b int) bool { return a <= b },
		">=": func(a, b int) bool { return a >= b },
		"==": func(a, b int) bool { return a == b },
		"!=": func(a, b int) bool { return a != b },
	}
	if len(c.Rest()) >= 2 {
		if op, ok := two[c.Rest()[:2]]; ok {
			return op, c.Advance(2), nil
		}
	}
	if c.AtEnd() {
		return nil, c, mgcerr.Param("expected a comparison operator")
	}
	switch c.Rest()[0] {
	case '<':
		return CompareOp(func(a, b int) bool { return a < b }), c.Advance(1), nil
	case '>':
		return CompareOp(func(a, b int) bool { return a > b }), c.Advance(1), nil
	default:
		return nil, c, mgcerr.Param("expected a comparison operator")
	}
}
