package mgcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindConstructors(t *testing.T) {
	require.True(t, IsParam(Param("bad")))
	require.False(t, IsParam(Syntax("bad")))

	e := Command("note %d out of range", 99)
	require.Equal(t, KindCommand, e.Kind)
	require.True(t, e.IsRuntime())

	p := Param("nope")
	require.False(t, p.IsRuntime())
}

func TestWrapfPreservesKind(t *testing.T) {
	inner := Command("loop count must be >= 1")
	wrapped := Wrapf(inner, "applying LOOP")
	require.Equal(t, KindCommand, wrapped.Kind)
	require.True(t, errors.Is(wrapped, wrapped))
	require.Equal(t, inner, wrapped.Unwrap())
}

func TestWrapfDefaultsToRuntime(t *testing.T) {
	wrapped := Wrapf(errors.New("plain"), "context")
	require.Equal(t, KindRuntime, wrapped.Kind)
}

func TestTraceFormat(t *testing.T) {
	src := "c4\no q5\nbad_command\n"
	tr := NewTrace("song.mml", src, 3, 1, 12, 2)
	out := tr.Format(KindSyntax, "Unknown command")
	require.Contains(t, out, "SyntaxError: Unknown command")
	require.Contains(t, out, "song.mml:3:1")
	require.Contains(t, out, "bad_command")
	require.Contains(t, out, "^^^^^^^^^^^^")
}

func TestAsExtractsError(t *testing.T) {
	var err error = Argument("bad engine")
	me, ok := As(err)
	require.True(t, ok)
	require.Equal(t, KindArgument, me.Kind)

	_, ok = As(errors.New("plain"))
	require.False(t, ok)
}
