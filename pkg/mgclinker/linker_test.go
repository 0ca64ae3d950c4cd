package mgclinker

import (
	"bytes"
	"testing"

	"github.com/mgcints/mgcints/pkg/mgcchunk"
	"github.com/mgcints/mgcints/pkg/mgcstream"
	"github.com/stretchr/testify/require"
)

// fakeFile is a minimal io.WriterAt backed by a growable byte slice, for
// exercising Flush without touching a real file.
type fakeFile struct {
	buf []byte
}

func (f *fakeFile) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(f.buf) {
		grown := make([]byte, end)
		copy(grown, f.buf)
		f.buf = grown
	}
	copy(f.buf[off:], p)
	return len(p), nil
}

func TestMergeRangesCoalescesOverlappingAndAdjacent(t *testing.T) {
	merged := mergeRanges([]Range{{0, 10}, {11, 20}, {50, 60}, {5, 15}})
	require.Equal(t, []Range{{0, 20}, {50, 60}}, merged)
}

func TestWritableIdempotentUnderReapplication(t *testing.T) {
	arena := mgcstream.NewArena()
	l := New(arena)
	l.Writable(0, 10)
	l.Writable(0, 10)
	l.Writable(5, 8)
	require.Equal(t, []Range{{0, 10}}, l.writable)
}

func TestPointerResolutionScenario(t *testing.T) {
	arena := mgcstream.NewArena()

	streamA := mgcstream.New()
	idA := arena.Add(streamA)

	streamB := mgcstream.New()
	streamB.PushBytes([]byte{0x10, 0x20})
	streamB.PushPointer(idA, "START", 2, mgcchunk.Little)

	l := New(arena)
	l.SetDelta(0x8000)
	l.Writable(0x0000, 0xFFFF)

	l.SetPos(0)
	require.NoError(t, l.AddStream(streamB))

	l.SetPos(16)
	require.NoError(t, l.AddStream(streamA))

	require.Equal(t, 0x8010, streamA.Base)

	f := &fakeFile{}
	require.NoError(t, l.Flush(f))

	require.Equal(t, []byte{0x10, 0x20, 0x10, 0x80}, f.buf[0:4])
}

func TestAddStreamOutsideWritableRangeFails(t *testing.T) {
	arena := mgcstream.NewArena()
	l := New(arena)
	l.SetDelta(0)
	l.Writable(100, 200)
	l.SetPos(0)

	s := mgcstream.New()
	s.PushBytes([]byte{1, 2, 3})
	err := l.AddStream(s)
	require.Error(t, err)
}

func TestAddStreamBeforeSetPosFails(t *testing.T) {
	arena := mgcstream.NewArena()
	l := New(arena)
	err := l.AddStream(mgcstream.New())
	require.Error(t, err)
}

func TestSeekDeltaComputesFileOffset(t *testing.T) {
	arena := mgcstream.NewArena()
	l := New(arena)
	l.SetDelta(0x8000)

	var buf bytes.Buffer
	buf.Write(make([]byte, 0x20))
	seeker := bytes.NewReader(buf.Bytes())
	off, err := l.SeekDelta(seeker, 0x8010)
	require.NoError(t, err)
	require.Equal(t, int64(0x10), off)
}
