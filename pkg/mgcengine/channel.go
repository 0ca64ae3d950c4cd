package mgcengine

import (
	"github.com/mgcints/mgcints/pkg/mgcchunk"
	"github.com/mgcints/mgcints/pkg/mgcerr"
	"github.com/mgcints/mgcints/pkg/mgcstream"
)

// Channel is one voice of a Song. It holds a non-owning back-reference
// to its parent Song — the song owns its channels exclusively — and a
// stream stack: index 0 is the channel's main stream, held for the
// channel's entire lifetime; PushStream/PopStream open and close nested
// sub-streams for composed constructs (a loop body built up separately
// from whatever stream was active before it, then folded back in by the
// caller once closed).
type Channel struct {
	Index  int
	Active bool
	Parent *Song

	streamStack []*mgcstream.Stream
	StreamID    mgcchunk.StreamID

	// pushDepth is the stream-stack depth at the time of the last write
	// through the Push* methods. Unget compares it against the current
	// depth so a pushStream/popStream straddling the unget is rejected.
	pushDepth int

	// LoopDepth tracks open loop-start/loop-end pairs; AfterDefault
	// refuses to close a channel with LoopDepth != 0.
	LoopDepth int

	slots slotTable
}

func newChannel(index int, parent *Song, arena *mgcstream.Arena, defs []SlotDef) *Channel {
	main := mgcstream.New()
	ch := &Channel{
		Index:       index,
		Parent:      parent,
		streamStack: []*mgcstream.Stream{main},
		slots:       newSlotTable(defs),
	}
	ch.StreamID = arena.Add(main)
	return ch
}

// Stream returns the stream currently on top of the channel's stream
// stack: the main stream, unless a PushStream is open.
func (c *Channel) Stream() *mgcstream.Stream {
	return c.streamStack[len(c.streamStack)-1]
}

// StreamDepth reports the current stream-stack depth; 1 means only the
// channel's main stream is open.
func (c *Channel) StreamDepth() int { return len(c.streamStack) }

// PushStream opens a new sub-stream on top of the stack.
func (c *Channel) PushStream() {
	c.streamStack = append(c.streamStack, mgcstream.New())
}

// PopStream closes the top sub-stream and returns it, so the caller can
// fold its bytes into whatever became the new top (e.g. a loop-wrapper
// command joining it after emitting its own start/end markers). Popping
// the channel's main stream is a RuntimeError.
func (c *Channel) PopStream() (*mgcstream.Stream, error) {
	if len(c.streamStack) <= 1 {
		return nil, mgcerr.Runtime("channel %d: cannot pop the main stream", c.Index)
	}
	top := c.streamStack[len(c.streamStack)-1]
	c.streamStack = c.streamStack[:len(c.streamStack)-1]
	return top, nil
}

// PushByte appends b to the current stream, recording the depth this
// write happened at for Unget.
func (c *Channel) PushByte(b byte) {
	c.Stream().PushByte(b)
	c.pushDepth = len(c.streamStack)
}

// PushBytes appends data to the current stream as a byte-string chunk.
func (c *Channel) PushBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	c.Stream().PushBytes(data)
	c.pushDepth = len(c.streamStack)
}

// PushInt appends v to the current stream as an integer chunk.
func (c *Channel) PushInt(v uint64, width int, endian mgcchunk.Endian) {
	c.Stream().PushInt(v, width, endian)
	c.pushDepth = len(c.streamStack)
}

// PushPointer appends a pointer chunk to the current stream.
func (c *Channel) PushPointer(target mgcchunk.StreamID, label string, width int, endian mgcchunk.Endian) *mgcchunk.PointerChunk {
	p := c.Stream().PushPointer(target, label, width, endian)
	c.pushDepth = len(c.streamStack)
	return p
}

// Unget removes the last chunk written through the Push* methods above.
// It fails with RuntimeError if the stream-stack depth has changed since
// that write — a pushStream/popStream straddling the unget, per
// DESIGN.md Open Question #1 — or if there is nothing to undo.
func (c *Channel) Unget() error {
	if c.pushDepth == 0 {
		return mgcerr.Runtime("channel %d: unget with nothing to undo", c.Index)
	}
	if len(c.streamStack) != c.pushDepth {
		return mgcerr.Runtime("channel %d: unget after a pushStream/popStream changed the stream-stack depth", c.Index)
	}
	if _, ok := c.Stream().Pop(); !ok {
		return mgcerr.Runtime("channel %d: unget with nothing to undo", c.Index)
	}
	return nil
}

// Slot returns the current value of a channel-scoped feature slot.
func (c *Channel) Slot(key string) (interface{}, bool) { return c.slots.Get(key) }

// SetSlot overwrites a channel-scoped feature slot declared on the
// owning Engine; it fails with ArgumentError if key was never declared.
func (c *Channel) SetSlot(key string, value interface{}) error {
	if !c.slots.Set(key, value) {
		return mgcerr.Argument("undeclared channel slot %q", key)
	}
	return nil
}

// PushLoop opens a loop scope; PopLoop closes the most recently opened
// one, failing with CommandError if none is open.
func (c *Channel) PushLoop() { c.LoopDepth++ }

func (c *Channel) PopLoop() error {
	if c.LoopDepth == 0 {
		return mgcerr.Command("loop end with no matching loop start")
	}
	c.LoopDepth--
	return nil
}

// runDefaultPostCallback enforces "no unclosed loop" and "no unclosed
// pushStream", and adds the END label, ahead of any feature-registered
// post-callbacks.
func (c *Channel) runDefaultPostCallback() error {
	if c.LoopDepth != 0 {
		return mgcerr.Command("channel %d ended with an unclosed loop", c.Index)
	}
	if len(c.streamStack) != 1 {
		return mgcerr.Command("channel %d ended with an unclosed pushStream", c.Index)
	}
	if _, exists := c.Stream().GetLabel("END"); !exists {
		if err := c.Stream().AddLabel("END"); err != nil {
			return err
		}
	}
	return nil
}
