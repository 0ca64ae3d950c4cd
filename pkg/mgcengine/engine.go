// Package mgcengine implements the Engine/Song/Channel model:
// an Engine is a concrete sound-driver target (channel layout, command
// vocabulary, callbacks); make_song() produces one Song per compiled MML
// source, owning Channel instances that hold non-owning back-references
// to it.
package mgcengine

import (
	"io"

	"github.com/mgcints/mgcints/pkg/mgcerr"
	"github.com/mgcints/mgcints/pkg/mgcparser"
	"github.com/mgcints/mgcints/pkg/mgctrie"
)

// SongCallback and ChannelCallback back the pre/post callback lists that
// commands and features may append to. They are ordinary function values
// appended at Engine-build time: vectors of function values, appended
// before compilation, read-only during compilation.
type SongCallback func(*Song) error
type ChannelCallback func(*Channel) error

// SetupFunc, InsertFunc and FinishFunc are the engine's process-wide
// I/O callbacks (setup_cb/insert_cb/finish_cb); output is the
// caller-held, framework-never-closes file handed through setup_cb.
type SetupFunc func(e *Engine, output io.WriterAt) error
type InsertFunc func(e *Engine, output io.WriterAt, song *Song, track int) error
type FinishFunc func(e *Engine, output io.WriterAt) error

// Engine is a concrete sound-driver target: its channel count, command
// vocabulary, feature slots and I/O callbacks. Engines must not be
// shared across concurrent pipelines.
type Engine struct {
	Name    string
	ChCount int
	Commands *mgctrie.MacroTable
	Parser   *mgcparser.Parser

	songSlots    []SlotDef
	channelSlots []SlotDef

	songPreCallbacks     []SongCallback
	songPostCallbacks    []SongCallback
	channelPreCallbacks  []ChannelCallback
	channelPostCallbacks []ChannelCallback

	setupCB  SetupFunc
	insertCB InsertFunc
	finishCB FinishFunc

	importedFeatures map[string]bool
}

// MakeSong constructs a Song with ChCount channels (channel 1 active,
// the rest inactive), bound to this Engine.
func (e *Engine) MakeSong() *Song {
	return newSong(e)
}

// AddCommand registers variant under name in the engine's command table.
func (e *Engine) AddCommand(name string, variant mgctrie.CommandVariant) {
	e.Commands.AddCommand(name, variant)
}

// AddSongSlot declares a song-scoped feature slot; RuntimeError if the
// key is already declared (mirrors the duplicate-label/duplicate-import
// framework-invariant family).
func (e *Engine) AddSongSlot(def SlotDef) error {
	for _, existing := range e.songSlots {
		if existing.Key == def.Key {
			return mgcerr.Runtime("song slot %q already declared", def.Key)
		}
	}
	e.songSlots = append(e.songSlots, def)
	return nil
}

// AddChannelSlot declares a channel-scoped feature slot.
func (e *Engine) AddChannelSlot(def SlotDef) error {
	for _, existing := range e.channelSlots {
		if existing.Key == def.Key {
			return mgcerr.Runtime("channel slot %q already declared", def.Key)
		}
	}
	e.channelSlots = append(e.channelSlots, def)
	return nil
}

func (e *Engine) AddSongPreCallback(cb SongCallback)        { e.songPreCallbacks = append(e.songPreCallbacks, cb) }
func (e *Engine) AddSongPostCallback(cb SongCallback)       { e.songPostCallbacks = append(e.songPostCallbacks, cb) }
func (e *Engine) AddChannelPreCallback(cb ChannelCallback)  { e.channelPreCallbacks = append(e.channelPreCallbacks, cb) }
func (e *Engine) AddChannelPostCallback(cb ChannelCallback) { e.channelPostCallbacks = append(e.channelPostCallbacks, cb) }

// IsFeatureImported reports whether name has already been imported.
func (e *Engine) IsFeatureImported(name string) bool {
	return e.importedFeatures[name]
}

// MarkFeatureImported records that feature name has been imported,
// failing with RuntimeError on a repeat import.
func (e *Engine) MarkFeatureImported(name string) error {
	if e.importedFeatures == nil {
		e.importedFeatures = make(map[string]bool)
	}
	if e.importedFeatures[name] {
		return mgcerr.Runtime("feature %q already imported", name)
	}
	e.importedFeatures[name] = true
	return nil
}

// SetSetupCB/SetInsertCB/SetFinishCB install the engine's I/O callbacks.
func (e *Engine) SetSetupCB(fn SetupFunc)   { e.setupCB = fn }
func (e *Engine) SetInsertCB(fn InsertFunc) { e.insertCB = fn }
func (e *Engine) SetFinishCB(fn FinishFunc) { e.finishCB = fn }

// CallSetup invokes the setup callback, then replaces it with a no-op so
// a second CallSetup on the same Engine instance is inert: setup and
// finish each execute at most once per Engine.
func (e *Engine) CallSetup(output io.WriterAt) error {
	cb := e.setupCB
	e.setupCB = func(*Engine, io.WriterAt) error { return nil }
	if cb == nil {
		return nil
	}
	return cb(e, output)
}

// CallInsert invokes the insert callback; unlike setup/finish it is not
// single-shot, since process_file calls it once per (mml_text, track)
// pair.
func (e *Engine) CallInsert(output io.WriterAt, song *Song, track int) error {
	if e.insertCB == nil {
		return nil
	}
	return e.insertCB(e, output, song, track)
}

// CallFinish invokes the finish callback, then clears it (same
// single-shot contract as CallSetup).
func (e *Engine) CallFinish(output io.WriterAt) error {
	cb := e.finishCB
	e.finishCB = func(*Engine, io.WriterAt) error { return nil }
	if cb == nil {
		return nil
	}
	return cb(e, output)
}

// Builder constructs an Engine, validating its invariants at
// Build() time. Go has no subclass hierarchy to check ("song_class ⊑
// base Song"), so the checks that survive the translation are the ones
// with a real Go analogue: a positive channel count, a non-nil parser
// and command table, and a non-empty name.
type Builder struct {
	name    string
	chcount int
	parser  *mgcparser.Parser
	table   *mgctrie.MacroTable
}

// NewBuilder starts an Engine definition.
func NewBuilder(name string, chcount int) *Builder {
	return &Builder{name: name, chcount: chcount}
}

// WithParser attaches the command table (and the parser driving it) the
// engine's commands are registered into.
func (b *Builder) WithParser(table *mgctrie.MacroTable, parser *mgcparser.Parser) *Builder {
	b.table = table
	b.parser = parser
	return b
}

// Build validates and constructs the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.name == "" {
		return nil, mgcerr.Argument("invalid engine definition: empty name")
	}
	if b.chcount < 1 {
		return nil, mgcerr.Argument("invalid engine definition: chcount must be >= 1")
	}
	if b.parser == nil || b.table == nil {
		return nil, mgcerr.Argument("invalid engine definition: missing parser/command table")
	}
	return &Engine{
		Name:    b.name,
		ChCount: b.chcount,
		Commands: b.table,
		Parser:   b.parser,
	}, nil
}
