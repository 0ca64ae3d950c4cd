package mgcengine

import (
	"github.com/mgcints/mgcints/pkg/mgcerr"
	"github.com/mgcints/mgcints/pkg/mgcpreprocess"
	"github.com/mgcints/mgcints/pkg/mgcstream"
)

// channelNameSequence is the default channel-identifier order:
// channels are labeled 1-9, then A-Z, then a-z, covering up to 61 channels.
var channelNameSequence = buildChannelNameSequence()

func buildChannelNameSequence() []string {
	seq := make([]string, 0, 61)
	for c := '1'; c <= '9'; c++ {
		seq = append(seq, string(c))
	}
	for c := 'A'; c <= 'Z'; c++ {
		seq = append(seq, string(c))
	}
	for c := 'a'; c <= 'z'; c++ {
		seq = append(seq, string(c))
	}
	return seq
}

// Song is one MML source's compiled state: its channels, preprocessor
// context, channel-name remapping table, and feature slots. An Engine
// constructs one Song per process_file iteration via MakeSong.
type Song struct {
	Engine *Engine

	*mgcpreprocess.Context

	Channels       []*Channel
	CurrentChannel *Channel

	Arena *mgcstream.Arena

	// chmap maps a channel *number* string ("1".."9","A".."Z","a".."z")
	// to its current single-character name, mutated by "#remap n c".
	chmap map[string]string
	// inverted maps a channel name back to its 0-based Channels index,
	// rebuilt by BeforeDefault once preprocessing (and therefore every
	// #remap) has finished.
	inverted map[string]int

	slots slotTable
}

func newSong(e *Engine) *Song {
	arena := mgcstream.NewArena()
	s := &Song{
		Engine:  e,
		Context: mgcpreprocess.NewContext(),
		Arena:   arena,
		chmap:   make(map[string]string, e.ChCount),
		slots:   newSlotTable(e.songSlots),
	}

	s.Channels = make([]*Channel, e.ChCount)
	for i := 0; i < e.ChCount; i++ {
		ch := newChannel(i+1, s, arena, e.channelSlots)
		if i == 0 {
			ch.Active = true
		}
		s.Channels[i] = ch
		s.chmap[channelNameSequence[i]] = channelNameSequence[i]
	}

	return s
}

// Remap implements mgcpreprocess.RemapTarget for "#remap n c".
func (s *Song) Remap(number, channel string) error {
	s.chmap[number] = channel
	return nil
}

// Slot returns the current value of a song-scoped feature slot.
func (s *Song) Slot(key string) (interface{}, bool) { return s.slots.Get(key) }

// SetSlot overwrites a song-scoped feature slot; ArgumentError if key
// was never declared on the owning Engine.
func (s *Song) SetSlot(key string, value interface{}) error {
	if !s.slots.Set(key, value) {
		return mgcerr.Argument("undeclared song slot %q", key)
	}
	return nil
}

// ActiveChannels returns every channel currently marked active, in
// channel-index order, boxed as interface{} so mgccommand's untyped
// SongFunc/ChannelFunc signatures can accept them without mgccommand
// depending on mgcengine.
func (s *Song) ActiveChannels() []interface{} {
	out := make([]interface{}, 0, len(s.Channels))
	for _, ch := range s.Channels {
		if ch.Active {
			out = append(out, ch)
		}
	}
	return out
}

// SetCurrentChannel is the setCurrent callback mgccommand.Command.Apply
// invokes before each ApplyChannel call.
func (s *Song) SetCurrentChannel(v interface{}) {
	if ch, ok := v.(*Channel); ok {
		s.CurrentChannel = ch
	}
}

// BeforeDefault inverts chmap, then runs song-level
// pre-callbacks, then each channel's pre-callbacks in index order. A
// #remap that collides two channels onto the same final name is a
// RuntimeError rather than a silent overwrite.
func (s *Song) BeforeDefault() error {
	s.inverted = make(map[string]int, len(s.chmap))
	for i := range s.Channels {
		name := channelNameSequence[i]
		if remapped, ok := s.chmap[name]; ok {
			name = remapped
		}
		if prev, exists := s.inverted[name]; exists {
			return mgcerr.Runtime("channel name %q assigned to both channel %d and channel %d", name, prev+1, i+1)
		}
		s.inverted[name] = i
	}

	for _, cb := range s.Engine.songPreCallbacks {
		if err := cb(s); err != nil {
			return err
		}
	}
	for _, ch := range s.Channels {
		for _, cb := range s.Engine.channelPreCallbacks {
			if err := cb(ch); err != nil {
				return err
			}
		}
	}
	return nil
}

// AfterDefault runs each channel's default
// post-callback (unclosed-loop check + END label) followed by any
// feature-registered channel post-callbacks, then song-level
// post-callbacks.
func (s *Song) AfterDefault() error {
	for _, ch := range s.Channels {
		if err := ch.runDefaultPostCallback(); err != nil {
			return err
		}
		for _, cb := range s.Engine.channelPostCallbacks {
			if err := cb(ch); err != nil {
				return err
			}
		}
	}
	for _, cb := range s.Engine.songPostCallbacks {
		if err := cb(s); err != nil {
			return err
		}
	}
	return nil
}

// ChannelByName looks up a channel by its (possibly remapped) single
// character name, using the table BeforeDefault built.
func (s *Song) ChannelByName(name string) (*Channel, bool) {
	idx, ok := s.inverted[name]
	if !ok {
		return nil, false
	}
	return s.Channels[idx], true
}
