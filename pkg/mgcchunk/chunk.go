// Package mgcchunk implements the four chunk variants: the
// smallest unit of emitted binary. Chunks are pure — compiling one never
// mutates it — except a pointer chunk, which needs a Resolver to look up
// its target stream's base address and labels at link time.
package mgcchunk

import "github.com/mgcints/mgcints/pkg/mgcerr"

// Endian selects the byte order an integer or pointer chunk serializes
// with.
type Endian int

const (
	Little Endian = iota
	Big
)

// StreamID is a stable, arena-relative handle to a Stream. Pointer chunks
// hold a StreamID rather than a *Stream so the chunk graph across
// Channels' streams can be cyclic without creating a Go reference cycle
// (the arena, not the chunk, owns the actual Stream pointers).
type StreamID int

// Resolver looks up a stream's current base address and label offsets by
// handle. Implemented by mgcstream.Arena.
type Resolver interface {
	Resolve(id StreamID) (base int, labels map[string]int, ok bool)
}

// Chunk is one unit of emitted binary: a fixed size known without
// compiling, and a Compile step that produces the actual bytes.
type Chunk interface {
	Size() int
	Compile(r Resolver) ([]byte, error)
}

// ByteChunk is a literal byte payload; its size is simply len(Data).
type ByteChunk struct {
	Data []byte
}

func (c *ByteChunk) Size() int { return len(c.Data) }

func (c *ByteChunk) Compile(Resolver) ([]byte, error) {
	out := make([]byte, len(c.Data))
	copy(out, c.Data)
	return out, nil
}

// IntChunk is an unsigned integer emitted as its w least-significant
// bytes in the chosen byte order, w in [1,4].
type IntChunk struct {
	Value  uint64
	Width  int
	Endian Endian
}

func (c *IntChunk) Size() int { return c.Width }

func (c *IntChunk) Compile(Resolver) ([]byte, error) {
	return serialize(c.Value, c.Width, c.Endian), nil
}

func serialize(v uint64, width int, endian Endian) []byte {
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		b := byte(v >> (8 * uint(i)))
		if endian == Little {
			out[i] = b
		} else {
			out[width-1-i] = b
		}
	}
	return out
}

// PointerChunk references a target stream by handle and a label name
// registered on that stream; it compiles to target.base + target's
// offset for that label, serialized as an integer chunk of the declared
// width/endianness. OffsetWithinStream records where this chunk sits in
// its own owning stream at push time, for subclassed self-relative
// pointers (engines may embed PointerChunk to specialize Compile).
type PointerChunk struct {
	Target             StreamID
	Label              string
	Width              int
	Endian             Endian
	OffsetWithinStream int
}

func (c *PointerChunk) Size() int { return c.Width }

func (c *PointerChunk) Compile(r Resolver) ([]byte, error) {
	base, labels, ok := r.Resolve(c.Target)
	if !ok {
		return nil, mgcerr.Command("pointer chunk references unknown stream")
	}
	offset, ok := labels[c.Label]
	if !ok {
		return nil, mgcerr.Command("pointer chunk references missing label %q", c.Label)
	}
	return serialize(uint64(base+offset), c.Width, c.Endian), nil
}

// CompositeChunk is an ordered sequence of sub-chunks; its size is
// recomputed as the sum of sub-chunk sizes on every query rather than
// cached, since sub-chunks may themselves be composites whose contents
// change between construction and emission.
type CompositeChunk struct {
	Chunks []Chunk
}

func (c *CompositeChunk) Size() int {
	total := 0
	for _, sub := range c.Chunks {
		total += sub.Size()
	}
	return total
}

func (c *CompositeChunk) Compile(r Resolver) ([]byte, error) {
	out := make([]byte, 0, c.Size())
	for _, sub := range c.Chunks {
		b, err := sub.Compile(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}
