// Package mgcstream implements the append-only Stream type: an
// ordered sequence of chunks carrying symbolic labels and a base address
// assigned at link time, plus the Arena that gives pointer chunks a
// stable handle to their target stream without a direct Go reference
// (pointer chunks can reference streams not yet written, so the graph can be cyclic).
package mgcstream

import (
	"github.com/mgcints/mgcints/pkg/mgcchunk"
	"github.com/mgcints/mgcints/pkg/mgcerr"
)

// Stream is an append-only sequence of chunks. Size is maintained
// incrementally so it always equals the sum of its chunks' sizes.
type Stream struct {
	chunks []mgcchunk.Chunk
	labels map[string]int
	size   int

	// Base is the stream's link-time base address, set by the linker's
	// add_stream (current_pos + delta) before flush.
	Base int
}

// New creates an empty stream with a "START" label already set at
// offset 0, marking the stream's own beginning.
func New() *Stream {
	s := &Stream{labels: make(map[string]int)}
	s.labels["START"] = 0
	return s
}

// Size returns the running byte offset: the sum of every pushed chunk's
// size.
func (s *Stream) Size() int { return s.size }

// Chunks returns the stream's chunks in push order, for Build.
func (s *Stream) Chunks() []mgcchunk.Chunk { return s.chunks }

// Push appends an arbitrary chunk.
func (s *Stream) Push(c mgcchunk.Chunk) {
	s.chunks = append(s.chunks, c)
	s.size += c.Size()
}

// PushBytes wraps data as a byte-string chunk and appends it. Unlike the
// channel-level facade built on top of streams, Stream itself does not
// skip empty payloads — that elision is the channel's job.
func (s *Stream) PushBytes(data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.Push(&mgcchunk.ByteChunk{Data: cp})
}

// PushByte wraps b as a 1-byte little-endian integer chunk, the default
// for a bare byte push.
func (s *Stream) PushByte(b byte) {
	s.Push(&mgcchunk.IntChunk{Value: uint64(b), Width: 1, Endian: mgcchunk.Little})
}

// PushInt wraps v as an integer chunk of the given width/endianness.
func (s *Stream) PushInt(v uint64, width int, endian mgcchunk.Endian) {
	s.Push(&mgcchunk.IntChunk{Value: v, Width: width, Endian: endian})
}

// PushPointer appends a pointer chunk targeting (target, label), stamping
// OffsetWithinStream with this stream's size *before* the push, so a
// subclassed pointer can compute its own write address self-relatively.
// It returns the pushed chunk so callers can read that offset back.
func (s *Stream) PushPointer(target mgcchunk.StreamID, label string, width int, endian mgcchunk.Endian) *mgcchunk.PointerChunk {
	p := &mgcchunk.PointerChunk{
		Target:             target,
		Label:              label,
		Width:              width,
		Endian:             endian,
		OffsetWithinStream: s.size,
	}
	s.Push(p)
	return p
}

// Pop removes and returns the last-pushed chunk. It is a no-op (ok=false)
// on an empty stream.
func (s *Stream) Pop() (chunk mgcchunk.Chunk, ok bool) {
	if len(s.chunks) == 0 {
		return nil, false
	}
	last := len(s.chunks) - 1
	chunk = s.chunks[last]
	s.chunks = s.chunks[:last]
	s.size -= chunk.Size()
	return chunk, true
}

// Join appends other's chunks by reference; other is left unmodified.
// Joining a stream to itself is a framework invariant violation.
func (s *Stream) Join(other *Stream) error {
	if other == s {
		return mgcerr.Runtime("stream joined to itself")
	}
	s.chunks = append(s.chunks, other.chunks...)
	s.size += other.size
	return nil
}

// AddLabel records name at the stream's current size (its "write
// address" the moment the label is added). Duplicate names fail.
func (s *Stream) AddLabel(name string) error {
	if _, exists := s.labels[name]; exists {
		return mgcerr.Runtime("duplicate label %q", name)
	}
	s.labels[name] = s.size
	return nil
}

// GetLabel looks up a previously added label's offset.
func (s *Stream) GetLabel(name string) (int, bool) {
	off, ok := s.labels[name]
	return off, ok
}

// Build concatenates chunk.Compile(r) for every chunk in order, resolving
// any pointer chunks against r.
func (s *Stream) Build(r mgcchunk.Resolver) ([]byte, error) {
	out := make([]byte, 0, s.size)
	for _, c := range s.chunks {
		b, err := c.Compile(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Arena hands out stable StreamID handles for streams, so pointer chunks
// never hold a direct *Stream reference (breaking the potentially-cyclic
// stream graph into an index + lookup). It implements mgcchunk.Resolver.
type Arena struct {
	streams []*Stream
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add registers s and returns its stable handle.
func (a *Arena) Add(s *Stream) mgcchunk.StreamID {
	a.streams = append(a.streams, s)
	return mgcchunk.StreamID(len(a.streams) - 1)
}

// Get looks up a stream by handle.
func (a *Arena) Get(id mgcchunk.StreamID) (*Stream, bool) {
	i := int(id)
	if i < 0 || i >= len(a.streams) {
		return nil, false
	}
	return a.streams[i], true
}

// Resolve implements mgcchunk.Resolver against this arena's streams.
func (a *Arena) Resolve(id mgcchunk.StreamID) (base int, labels map[string]int, ok bool) {
	s, ok := a.Get(id)
	if !ok {
		return 0, nil, false
	}
	return s.Base, s.labels, true
}
