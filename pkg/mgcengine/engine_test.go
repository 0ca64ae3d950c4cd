package mgcengine

import (
	"io"
	"testing"

	"github.com/mgcints/mgcints/pkg/mgcchunk"
	"github.com/mgcints/mgcints/pkg/mgccommand"
	"github.com/mgcints/mgcints/pkg/mgcparser"
	"github.com/mgcints/mgcints/pkg/mgctrie"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, chcount int) *Engine {
	t.Helper()
	table := mgctrie.NewMacroTable()
	p := mgcparser.New(table)
	e, err := NewBuilder("test", chcount).WithParser(table, p).Build()
	require.NoError(t, err)
	return e
}

// fakeOutput is a minimal io.WriterAt stub for exercising setup/finish
// callbacks without a real file.
type fakeOutput struct{ buf []byte }

func (f *fakeOutput) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(f.buf) {
		grown := make([]byte, end)
		copy(grown, f.buf)
		f.buf = grown
	}
	copy(f.buf[off:], p)
	return len(p), nil
}

func TestBuildValidatesEngineDefinition(t *testing.T) {
	_, err := NewBuilder("", 4).Build()
	require.Error(t, err)

	_, err = NewBuilder("ok", 0).Build()
	require.Error(t, err)

	table := mgctrie.NewMacroTable()
	_, err = NewBuilder("ok", 4).WithParser(table, mgcparser.New(table)).Build()
	require.NoError(t, err)
}

func TestMakeSongChannel1Active(t *testing.T) {
	e := newTestEngine(t, 4)
	song := e.MakeSong()
	require.Len(t, song.Channels, 4)
	require.True(t, song.Channels[0].Active)
	require.False(t, song.Channels[1].Active)
	require.Equal(t, song, song.Channels[0].Parent)
}

func TestBeforeDefaultInvertsChmapWithRemap(t *testing.T) {
	e := newTestEngine(t, 3)
	song := e.MakeSong()
	require.NoError(t, song.Remap("2", "X"))

	require.NoError(t, song.BeforeDefault())

	ch, ok := song.ChannelByName("X")
	require.True(t, ok)
	require.Equal(t, 2, ch.Index)

	ch1, ok := song.ChannelByName("1")
	require.True(t, ok)
	require.Equal(t, 1, ch1.Index)
}

func TestBeforeDefaultRejectsRemapCollision(t *testing.T) {
	e := newTestEngine(t, 3)
	song := e.MakeSong()
	require.NoError(t, song.Remap("2", "1"))

	err := song.BeforeDefault()
	require.Error(t, err)
}

func TestAfterDefaultRejectsUnclosedLoop(t *testing.T) {
	e := newTestEngine(t, 1)
	song := e.MakeSong()
	song.Channels[0].PushLoop()

	err := song.AfterDefault()
	require.Error(t, err)
}

func TestAfterDefaultAddsEndLabel(t *testing.T) {
	e := newTestEngine(t, 1)
	song := e.MakeSong()

	require.NoError(t, song.AfterDefault())
	_, ok := song.Channels[0].Stream().GetLabel("END")
	require.True(t, ok)
}

func TestSetupCallbackRunsAtMostOnce(t *testing.T) {
	e := newTestEngine(t, 1)
	calls := 0
	e.SetSetupCB(func(*Engine, io.WriterAt) error {
		calls++
		return nil
	})
	out := &fakeOutput{}
	require.NoError(t, e.CallSetup(out))
	require.NoError(t, e.CallSetup(out))
	require.Equal(t, 1, calls)
}

func TestActiveChannelApplyOrdering(t *testing.T) {
	e := newTestEngine(t, 2)
	song := e.MakeSong()
	song.Channels[1].Active = true

	var order []int
	cmd := mgccommand.NewBuilder().
		OnSong(func(s interface{}, p mgccommand.Params) error {
			order = append(order, 0)
			return nil
		}).
		OnChannel(func(c interface{}, p mgccommand.Params) error {
			order = append(order, c.(*Channel).Index)
			return nil
		}).
		Make("z")[0]

	err := cmd.Apply(song, song.ActiveChannels, song.SetCurrentChannel, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, order)
	require.Equal(t, song.Channels[1], song.CurrentChannel)
}

func TestMegaMan3StyleLoopEpilogueViaPostCallback(t *testing.T) {
	e := newTestEngine(t, 1)

	e.AddChannelPostCallback(func(ch *Channel) error {
		if _, ok := ch.Stream().GetLabel("LOOP"); ok {
			ch.Stream().PushByte(0x16)
			ch.Stream().PushPointer(ch.StreamID, "LOOP", 2, mgcchunk.Big)
			return nil
		}
		ch.Stream().PushByte(0x17)
		return nil
	})

	song := e.MakeSong()
	require.NoError(t, song.AfterDefault())
	ch := song.Channels[0]
	require.Equal(t, 1, ch.Stream().Size())

	bytes, err := ch.Stream().Build(song.Arena)
	require.NoError(t, err)
	require.Equal(t, []byte{0x17}, bytes)
}

func TestMegaMan3StyleLoopEpilogueWithLoopLabel(t *testing.T) {
	e := newTestEngine(t, 1)
	e.AddChannelPostCallback(func(ch *Channel) error {
		if _, ok := ch.Stream().GetLabel("LOOP"); ok {
			ch.Stream().PushByte(0x16)
			ch.Stream().PushPointer(ch.StreamID, "LOOP", 2, mgcchunk.Big)
			return nil
		}
		ch.Stream().PushByte(0x17)
		return nil
	})

	song := e.MakeSong()
	ch := song.Channels[0]
	ch.Stream().PushByte(0xC4)
	require.NoError(t, ch.Stream().AddLabel("LOOP"))
	ch.Stream().Base = 0x9000

	require.NoError(t, song.AfterDefault())
	bytes, err := ch.Stream().Build(song.Arena)
	require.NoError(t, err)
	require.Equal(t, []byte{0xC4, 0x16, 0x90, 0x01}, bytes)
}
