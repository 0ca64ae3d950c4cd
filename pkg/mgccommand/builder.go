package mgccommand

import (
	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgclex"
)

func defaultCursor(s string) mgccursor.Cursor { return mgccursor.New(s) }

type paramSpec struct {
	lexer      mgclex.Lexer
	delim      string
	optional   bool
	hasDefault bool
	defaultStr string
}

// Builder is a fluent configurator that emits one or more concrete
// Commands sharing a macro name.
type Builder struct {
	params      []paramSpec
	optionOrder []int // indices into params, in the order .Optional() was called
	isVariadic  bool
	onSong      SongFunc
	onChan      ChannelFunc
}

// NewBuilder creates an empty command builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Param appends a required parameter lexer.
func (b *Builder) Param(lexer mgclex.Lexer) *Builder {
	b.params = append(b.params, paramSpec{lexer: lexer})
	return b
}

// ParamDelim appends a parameter lexer preceded by a custom delimiter
// instead of the default ",".
func (b *Builder) ParamDelim(lexer mgclex.Lexer, delim string) *Builder {
	b.params = append(b.params, paramSpec{lexer: lexer, delim: delim})
	return b
}

// Optional marks the most recently added parameter as eligible for
// elision, appending it to option_order.
func (b *Builder) Optional() *Builder {
	if len(b.params) == 0 {
		return b
	}
	idx := len(b.params) - 1
	b.params[idx].optional = true
	b.optionOrder = append(b.optionOrder, idx)
	return b
}

// Default sets the default string for the most recently added parameter;
// when that parameter is elided, its value is synthesized by re-running
// its lexer against this string instead of being dropped from the tuple.
func (b *Builder) Default(s string) *Builder {
	if len(b.params) == 0 {
		return b
	}
	idx := len(b.params) - 1
	b.params[idx].hasDefault = true
	b.params[idx].defaultStr = s
	return b
}

// Variadic marks the last declared parameter as repeating: once the
// builder produces variants, that slot consumes one or more values until
// its lexer fails or a blank line terminates the run.
func (b *Builder) Variadic() *Builder {
	b.isVariadic = true
	return b
}

// OnSong sets the ApplySong override.
func (b *Builder) OnSong(fn SongFunc) *Builder {
	b.onSong = fn
	return b
}

// OnChannel sets the ApplyChannel override.
func (b *Builder) OnChannel(fn ChannelFunc) *Builder {
	b.onChan = fn
	return b
}

// Make produces the full variant followed by one elided variant per
// entry in option_order, in that order: variants are added to the macro
// table in the order of option_order, so the parser tries them in that
// order (full first, since it is emitted before any elision).
func (b *Builder) Make(name string) []*Command {
	variants := make([]*Command, 0, 1+len(b.optionOrder))
	variants = append(variants, b.build(name, nil))

	elided := make(map[int]bool)
	for _, pos := range b.optionOrder {
		elided[pos] = true
		// copy the elided set for this variant
		snapshot := make(map[int]bool, len(elided))
		for k := range elided {
			snapshot[k] = true
		}
		variants = append(variants, b.build(name, snapshot))
	}

	return variants
}

// build constructs one Command, omitting (or defaulting) every position
// named in elided.
func (b *Builder) build(name string, elided map[int]bool) *Command {
	cmd := &Command{Name: name, onSong: b.onSong, onChan: b.onChan}
	lastIdx := len(b.params) - 1

	for i, p := range b.params {
		if elided[i] {
			if p.hasDefault {
				value, _, err := p.lexer(defaultCursor(p.defaultStr))
				if err != nil {
					// A malformed default string is a builder
					// misconfiguration, not a per-call parse failure;
					// synthesize nil rather than panic so Make() stays
					// infallible. No error is reported: this variant
					// delivers nil in that position.
					value = nil
				}
				cmd.slots = append(cmd.slots, slot{kind: slotDefault, value: value})
			} else {
				cmd.slots = append(cmd.slots, slot{kind: slotOmitted})
			}
			continue
		}

		cmd.slots = append(cmd.slots, slot{
			kind:     slotConsumed,
			lexer:    p.lexer,
			delim:    p.delim,
			variadic: b.isVariadic && i == lastIdx,
		})
	}

	return cmd
}
