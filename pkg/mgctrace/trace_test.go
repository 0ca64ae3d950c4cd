package mgctrace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndConsumeRoundTrip(t *testing.T) {
	g := NewGenerator("song.mml")
	// Lines 1,2 are directive lines replaced 1:1; line 3 is real MML.
	g.Add(1, 1)
	g.Add(2, 2)
	g.Add(3, 3)

	data, err := g.Generate("song.mml.stripped")
	require.NoError(t, err)
	require.Contains(t, string(data), `"version":3`)

	consumer, err := NewConsumer(data)
	require.NoError(t, err)

	line, ok := consumer.SourceLine(3)
	require.True(t, ok)
	require.Equal(t, 3, line)
}

func TestGenerateEmpty(t *testing.T) {
	g := NewGenerator("song.mml")
	data, err := g.Generate("out")
	require.NoError(t, err)
	require.Contains(t, string(data), `"mappings":""`)
}

func TestEncodeVLQProducesDigitsForSmallValues(t *testing.T) {
	for _, v := range []int{0, 1, -1, 15, 16, -16, 1000} {
		buf := encodeVLQ(nil, v)
		require.NotEmpty(t, buf)
	}
}
