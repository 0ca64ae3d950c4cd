// Package mgclinker implements the linker: it assigns streams
// their link-time base address, enforces writable-range protection, and
// commits the resulting bytes to the output image in two phases (a pure
// build pass, then an I/O pass).
package mgclinker

import (
	"io"

	"github.com/mgcints/mgcints/pkg/mgcerr"
	"github.com/mgcints/mgcints/pkg/mgcstream"
)

type block struct {
	filePos int
	streams []*mgcstream.Stream
}

// Linker accumulates streams into blocks at target addresses and, on
// Flush, writes their compiled bytes to an output image. It resolves
// pointer chunks through the same Arena the engine used to hand out
// stream handles.
type Linker struct {
	arena    *mgcstream.Arena
	delta    int
	pos      int
	writable []Range
	blocks   []*block
}

// New creates a Linker that resolves pointer chunks against arena.
func New(arena *mgcstream.Arena) *Linker {
	return &Linker{arena: arena}
}

// SetDelta sets subsequent target-address-to-file-offset translation:
// file offset = address - d.
func (l *Linker) SetDelta(d int) {
	l.delta = d
}

// SetPos begins a new block at filePos.
func (l *Linker) SetPos(filePos int) {
	l.pos = filePos
	l.blocks = append(l.blocks, &block{filePos: filePos})
}

// Writable unions [b,e] (swapped if reversed) into the writable set.
func (l *Linker) Writable(b, e int) {
	if e < b {
		b, e = e, b
	}
	l.writable = mergeRanges(append(l.writable, Range{Begin: b, End: e}))
}

// AddStream assigns s its base address (current_pos + delta), verifies
// the span it will occupy lies entirely within a writable range, appends
// it to the current block, and advances current_pos past it.
func (l *Linker) AddStream(s *mgcstream.Stream) error {
	if len(l.blocks) == 0 {
		return mgcerr.Runtime("add_stream called before set_pos")
	}
	size := s.Size()
	if size > 0 && !contains(l.writable, l.pos, l.pos+size-1) {
		return mgcerr.Runtime("writing to protected range [%d,%d)", l.pos, l.pos+size)
	}
	s.Base = l.pos + l.delta
	cur := l.blocks[len(l.blocks)-1]
	cur.streams = append(cur.streams, s)
	l.pos += size
	return nil
}

// built is the pure product of Flush's phase 1: a file position plus the
// bytes to write there.
type built struct {
	filePos int
	data    []byte
}

// Flush runs the two-phase commit: phase 1 builds every block's
// bytes without touching w; phase 2 writes each prepared (filePos, bytes)
// pair. Blocks are cleared after phase 1, so a Flush call is idempotent
// only across fully successful runs — a write failure mid-phase-2 leaves
// whatever was already written in place.
func (l *Linker) Flush(w io.WriterAt) error {
	prepared := make([]built, 0, len(l.blocks))
	for _, b := range l.blocks {
		data := make([]byte, 0)
		for _, s := range b.streams {
			bytes, err := s.Build(l.arena)
			if err != nil {
				return err
			}
			data = append(data, bytes...)
		}
		prepared = append(prepared, built{filePos: b.filePos, data: data})
	}
	l.blocks = nil

	for _, p := range prepared {
		if len(p.data) == 0 {
			continue
		}
		if _, err := w.WriteAt(p.data, int64(p.filePos)); err != nil {
			return err
		}
	}
	return nil
}

// SeekDelta seeks f to addr - delta and returns that file offset.
func (l *Linker) SeekDelta(f io.Seeker, addr int) (int64, error) {
	offset := int64(addr - l.delta)
	return f.Seek(offset, io.SeekStart)
}
