// Package mgcparser implements the parser driver: it turns raw
// cursor text into (Command, Params) pairs by looking up a macro table and
// trying each registered variant in insertion order, restoring the cursor
// between attempts so a failed variant never consumes input.
package mgcparser

import (
	"github.com/mgcints/mgcints/pkg/mgccommand"
	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgcerr"
	"github.com/mgcints/mgcints/pkg/mgctrie"
)

// Result is what ReadCommand hands back on a successful parse: the byte
// offset the command name started at (for trace reporting), the matched
// Command and the parameter tuple read for it.
type Result struct {
	Start  int
	Cmd    *mgccommand.Command
	Params mgccommand.Params
	Next   mgccursor.Cursor
}

// Parser drives lookups against a single macro table. It holds no state
// of its own beyond the table reference.
type Parser struct {
	Table *mgctrie.MacroTable
}

// New creates a Parser over table.
func New(table *mgctrie.MacroTable) *Parser {
	return &Parser{Table: table}
}

// ReadCommand implements Parser.read_command(cursor):
// skip whitespace, look up the longest-matching name, try each variant
// registered under it in order, and report a SyntaxError with trace if
// either the name or every variant's parameter grammar fails to match.
func (p *Parser) ReadCommand(c mgccursor.Cursor) (*Result, error) {
	c = c.SkipWhitespace()
	if c.AtEnd() {
		return nil, nil
	}

	b0 := c.Pos()
	length, variants, found := p.Table.ReadNext(c.Rest())
	if !found {
		return nil, p.syntaxError(c, "unknown command")
	}
	b1 := c.Advance(length)

	for _, v := range variants {
		cmd, ok := v.(*mgccommand.Command)
		if !ok {
			continue
		}
		params, next, err := cmd.ReadParams(b1)
		if err == nil {
			return &Result{Start: b0, Cmd: cmd, Params: params, Next: next}, nil
		}
		if !mgcerr.IsParam(err) {
			return nil, err
		}
	}

	return nil, p.syntaxErrorAt(c.Seek(b0), "illegal command parameters")
}

func (p *Parser) syntaxError(c mgccursor.Cursor, msg string) error {
	return p.syntaxErrorAt(c, msg)
}

func (p *Parser) syntaxErrorAt(c mgccursor.Cursor, msg string) error {
	row, col := c.RowCol()
	trace := mgcerr.NewTrace("", c.Source(), row, col, 1, 1)
	return &mgcerr.Error{Kind: mgcerr.KindSyntax, Msg: msg, Trace: trace}
}
