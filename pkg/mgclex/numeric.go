package mgclex

import (
	"strconv"

	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgcerr"
)

// Uint matches "0h[0-9A-Fa-f]+" | "0b[01]+" | "[0-9]+" and yields a uint64.
func Uint(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	if res := c.Trim("0h%x+"); res.Matched {
		v, err := strconv.ParseUint(res.Text[2:], 16, 64)
		if err != nil {
			return nil, c, mgcerr.Param("invalid hex literal %q", res.Text)
		}
		return v, res.Next, nil
	}
	if res := c.Trim("0b[01]+"); res.Matched {
		v, err := strconv.ParseUint(res.Text[2:], 2, 64)
		if err != nil {
			return nil, c, mgcerr.Param("invalid binary literal %q", res.Text)
		}
		return v, res.Next, nil
	}
	if res := c.Trim("%d+"); res.Matched {
		v, err := strconv.ParseUint(res.Text, 10, 64)
		if err != nil {
			return nil, c, mgcerr.Param("invalid integer literal %q", res.Text)
		}
		return v, res.Next, nil
	}
	return nil, c, mgcerr.Param("expected an unsigned integer")
}

// uintBounded builds a Lexer that requires the Uint-parsed value to fit
// within max (inclusive), rewinding the cursor on range failure just like
// any other parameter mismatch.
func uintBounded(max uint64) Lexer {
	return func(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
		v, next, err := Uint(c)
		if err != nil {
			return nil, c, err
		}
		u := v.(uint64)
		if u > max {
			return nil, c, mgcerr.Param("value %d out of range (max %d)", u, max)
		}
		return u, next, nil
	}
}

// Uint8 matches Uint within [0,255].
var Uint8 Lexer = uintBounded(255)

// Uint16 matches Uint within [0,65535].
var Uint16 Lexer = uintBounded(65535)

// intBounded builds a Lexer accepting an optional leading '-' then Uint,
// requiring the signed result to fit within [-(max+1), max].
func intBounded(max int64) Lexer {
	return func(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
		neg := false
		cur := c
		if res := cur.TrimLiteral("-"); res.Matched {
			neg = true
			cur = res.Next
		}
		v, next, err := Uint(cur)
		if err != nil {
			return nil, c, err
		}
		u := v.(uint64)
		var signed int64
		if neg {
			signed = -int64(u)
		} else {
			signed = int64(u)
		}
		if signed > max || signed < -(max+1) {
			return nil, c, mgcerr.Param("value %d out of range", signed)
		}
		return signed, next, nil
	}
}

// Int matches an optional '-' then Uint, yielding an int64 within int64
// range (bounded defensively to avoid overflow of the underlying uint64).
var Int Lexer = intBounded(1<<62 - 1)

// Int8 matches Int within [-128,127].
var Int8 Lexer = intBounded(127)

// Int16 matches Int within [-32768,32767].
var Int16 Lexer = intBounded(32767)

// Byte matches Int8, reinterpreted as an unsigned byte (two's complement).
func Byte(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	v, next, err := Int8(c)
	if err != nil {
		return nil, c, err
	}
	return uint64(uint8(int8(v.(int64)))), next, nil
}

// Word matches Int16, reinterpreted as an unsigned 16-bit word.
func Word(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	v, next, err := Int16(c)
	if err != nil {
		return nil, c, err
	}
	return uint64(uint16(int16(v.(int64)))), next, nil
}

// Bool matches "0" or "1" and yields a bool.
func Bool(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	if res := c.TrimLiteral("0"); res.Matched {
		return false, res.Next, nil
	}
	if res := c.TrimLiteral("1"); res.Matched {
		return true, res.Next, nil
	}
	return nil, c, mgcerr.Param("expected 0 or 1")
}

// Ibool matches the same grammar as Bool but yields an int (0 or 1)
// instead of a Go bool, matching the distinct result type the lexer contract expects.
func Ibool(c mgccursor.Cursor) (interface{}, mgccursor.Cursor, error) {
	v, next, err := Bool(c)
	if err != nil {
		return nil, c, err
	}
	if v.(bool) {
		return 1, next, nil
	}
	return 0, next, nil
}
