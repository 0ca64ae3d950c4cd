// Package mgclex implements the default parameter lexer set: each
// lexer takes a Cursor, returns a value and the advanced cursor on match,
// or a ParamError on mismatch — mismatches never mutate the caller's
// cursor, since mgccursor.Cursor is a value type.
package mgclex

import "github.com/mgcints/mgcints/pkg/mgccursor"

// Lexer reads one parameter value starting at c. On success it returns
// the value and a cursor advanced past the consumed text. On failure it
// returns a *mgcerr.Error of kind ParamError and the original cursor is
// still usable by the caller (nothing here mutates it).
type Lexer func(c mgccursor.Cursor) (value interface{}, next mgccursor.Cursor, err error)
