// Package mgccommand implements the polymorphic Command object and its
// fluent Builder: a Command reads a fixed parameter grammar from a
// Cursor and applies itself first to a Song, then to each active Channel.
// Builders expand into a full variant plus one elided variant per
// optional parameter position, so the macro table can try progressively
// shorter parameter lists.
package mgccommand

import (
	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgclex"
)

// Params is the parameter tuple a Command hands to its apply functions.
type Params []interface{}

// SongFunc mutates song-level state (e.g. active-channel selection, PP
// context). It runs before ApplyChannel for every active channel. song is
// left untyped here so mgccommand has no dependency on mgcengine; the
// engine package supplies closures that type-assert to its own Song type.
type SongFunc func(song interface{}, p Params) error

// ChannelFunc mutates one channel's state. It is invoked once per active
// channel, in channel-index order, after SongFunc has run.
type ChannelFunc func(channel interface{}, p Params) error

// slotKind classifies how a declared parameter position contributes to a
// given variant's final tuple.
type slotKind int

const (
	slotConsumed slotKind = iota // read from the cursor by ReadParams
	slotDefault                  // synthesized once from the default string
	slotOmitted                  // dropped entirely from the tuple
)

type slot struct {
	kind     slotKind
	lexer    mgclex.Lexer
	delim    string // custom delimiter before this slot, "" = default ","
	variadic bool
	value    interface{} // precomputed for slotDefault
}

// Command is one concrete parameter-grammar variant under a macro name.
type Command struct {
	Name    string
	slots   []slot
	onSong  SongFunc
	onChan  ChannelFunc
}

// ReadParams consumes this variant's declared parameters from c in order,
// returning the resulting tuple and the cursor advanced past them. A
// ParamError here means the caller should restore its own cursor and try
// the next variant under the same name.
func (cmd *Command) ReadParams(c mgccursor.Cursor) (Params, mgccursor.Cursor, error) {
	cur := c.SkipWhitespace()
	tuple := make(Params, 0, len(cmd.slots))
	consumedAny := false

	for i := 0; i < len(cmd.slots); i++ {
		s := cmd.slots[i]
		switch s.kind {
		case slotDefault:
			tuple = append(tuple, s.value)
			continue
		case slotOmitted:
			continue
		}

		if consumedAny {
			cur = skipDelimiter(cur, s.delim)
		}

		if s.variadic {
			first, next, err := s.lexer(cur)
			if err != nil {
				return nil, c, err
			}
			tuple = append(tuple, first)
			cur = next
			consumedAny = true

			for {
				attempt := cur
				skipped, crossedBlank := skipDelimiterBlankAware(attempt, s.delim)
				if crossedBlank {
					break
				}
				v, next, err := s.lexer(skipped)
				if err != nil {
					break
				}
				tuple = append(tuple, v)
				cur = next
			}
			continue
		}

		v, next, err := s.lexer(cur)
		if err != nil {
			return nil, c, err
		}
		tuple = append(tuple, v)
		cur = next
		consumedAny = true
	}

	return tuple, cur, nil
}

// Apply runs the default apply sequence: ApplySong first, then
// ApplyChannel once per active channel. activeChannels is called only
// after onSong returns, so active-set mutations onSong performs (e.g. a
// command that narrows or widens which channels are active) take effect
// for this same command's channel iteration rather than the set as it
// stood before onSong ran. setCurrent is called before each ApplyChannel
// invocation so the engine can update song.current_channel.
func (cmd *Command) Apply(song interface{}, activeChannels func() []interface{}, setCurrent func(interface{}), p Params) error {
	if cmd.onSong != nil {
		if err := cmd.onSong(song, p); err != nil {
			return err
		}
	}
	var active []interface{}
	if activeChannels != nil {
		active = activeChannels()
	}
	for _, ch := range active {
		if setCurrent != nil {
			setCurrent(ch)
		}
		if cmd.onChan != nil {
			if err := cmd.onChan(ch, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipDelimiter consumes optional whitespace around an optional delimiter
// (default ",", or a custom one) between two parameters: for each
// parameter after the first, it consumes optional ',' surrounded by
// optional whitespace (or the custom delimiter if specified).
func skipDelimiter(c mgccursor.Cursor, delim string) mgccursor.Cursor {
	c = c.SkipWhitespace()
	if delim == "" {
		delim = ","
	}
	if res := c.TrimLiteral(delim); res.Matched {
		c = res.Next.SkipWhitespace()
	}
	return c
}

// skipDelimiterBlankAware is skipDelimiter's variadic-termination variant:
// it additionally reports whether the whitespace it skipped crossed a
// blank line (two newlines separated only by horizontal whitespace),
// which terminates a variadic parameter.
func skipDelimiterBlankAware(c mgccursor.Cursor, delim string) (mgccursor.Cursor, bool) {
	start := c
	skipped := c.SkipWhitespace()
	if crossesBlankLine(start.Source()[start.Pos():skipped.Pos()]) {
		return skipped, true
	}
	if delim == "" {
		delim = ","
	}
	if res := skipped.TrimLiteral(delim); res.Matched {
		next := res.Next.SkipWhitespace()
		if crossesBlankLine(res.Next.Source()[res.Next.Pos():next.Pos()]) {
			return next, true
		}
		return next, false
	}
	return skipped, false
}

func crossesBlankLine(whitespace string) bool {
	seenNewline := false
	for i := 0; i < len(whitespace); i++ {
		switch whitespace[i] {
		case '\n':
			if seenNewline {
				return true
			}
			seenNewline = true
		case ' ', '\t', '\r':
			// horizontal whitespace between newlines doesn't reset the count
		default:
			seenNewline = false
		}
	}
	return false
}
