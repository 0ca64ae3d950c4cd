package mgcchunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResolver map[StreamID]struct {
	base   int
	labels map[string]int
}

func (f fakeResolver) Resolve(id StreamID) (int, map[string]int, bool) {
	v, ok := f[id]
	return v.base, v.labels, ok
}

func TestByteChunkSize(t *testing.T) {
	c := &ByteChunk{Data: []byte("abc")}
	require.Equal(t, 3, c.Size())
	b, err := c.Compile(nil)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), b)
}

func TestIntChunkLittleAndBigEndian(t *testing.T) {
	c := &IntChunk{Value: 0x1234, Width: 2, Endian: Little}
	b, err := c.Compile(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x34, 0x12}, b)

	c2 := &IntChunk{Value: 0x1234, Width: 2, Endian: Big}
	b2, err := c2.Compile(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x12, 0x34}, b2)
}

func TestCompositeChunkSizeAndCompile(t *testing.T) {
	c := &CompositeChunk{Chunks: []Chunk{
		&ByteChunk{Data: []byte("ab")},
		&IntChunk{Value: 1, Width: 1, Endian: Little},
	}}
	require.Equal(t, 3, c.Size())
	b, err := c.Compile(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 1}, b)
}

func TestPointerChunkResolvesBaseAndLabel(t *testing.T) {
	r := fakeResolver{
		5: {base: 0x100, labels: map[string]int{"loop": 4}},
	}
	p := &PointerChunk{Target: 5, Label: "loop", Width: 2, Endian: Little}
	b, err := p.Compile(r)
	require.NoError(t, err)
	require.Equal(t, []byte{0x04, 0x01}, b) // 0x100 + 4 = 0x104
}

func TestPointerChunkMissingTargetIsCommandError(t *testing.T) {
	p := &PointerChunk{Target: 99, Label: "x", Width: 1}
	_, err := p.Compile(fakeResolver{})
	require.Error(t, err)
}

func TestPointerChunkMissingLabelIsCommandError(t *testing.T) {
	r := fakeResolver{1: {base: 0, labels: map[string]int{}}}
	p := &PointerChunk{Target: 1, Label: "nope", Width: 1}
	_, err := p.Compile(r)
	require.Error(t, err)
}
