package mgcpreprocess

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRemap struct {
	calls [][2]string
}

func (f *fakeRemap) Remap(number, channel string) error {
	f.calls = append(f.calls, [2]string{number, channel})
	return nil
}

func TestConditionalElisionScenario(t *testing.T) {
	src := "#define A 1\n#ifdef A\nc\n#else\nd\n#endif\n"
	ctx := NewContext()
	out, err := New().Process(ctx, nil, src)
	require.NoError(t, err)
	require.Equal(t, ";\n;\nc\n;\n\n;\n", out)
	require.Equal(t, 1, ctx.Defines["A"])
}

func TestIfndefBranch(t *testing.T) {
	src := "#ifndef B\ny\n#endif\n"
	ctx := NewContext()
	out, err := New().Process(ctx, nil, src)
	require.NoError(t, err)
	require.Equal(t, ";\ny\n;\n", out)
}

func TestIfNumericComparison(t *testing.T) {
	src := "#define N 3\n#if N >= 2\nkeep\n#endif\n"
	ctx := NewContext()
	out, err := New().Process(ctx, nil, src)
	require.NoError(t, err)
	require.Equal(t, ";\n;\nkeep\n;\n", out)
}

func TestNestedConditionals(t *testing.T) {
	src := "#define A 1\n#ifdef A\n#ifdef B\nx\n#else\ny\n#endif\n#endif\n"
	ctx := NewContext()
	out, err := New().Process(ctx, nil, src)
	require.NoError(t, err)
	require.Equal(t, ";\n;\n;\n\n;\ny\n;\n;\n", out)
}

func TestRemapInvokesTarget(t *testing.T) {
	fr := &fakeRemap{}
	ctx := NewContext()
	out, err := New().Process(ctx, fr, "#remap 0 A\nc\n")
	require.NoError(t, err)
	require.Equal(t, ";\nc\n", out)
	require.Equal(t, [][2]string{{"0", "A"}}, fr.calls)
}

func TestUnterminatedIfIsSyntaxError(t *testing.T) {
	ctx := NewContext()
	_, err := New().Process(ctx, nil, "#ifdef A\nc\n")
	require.Error(t, err)
}

func TestStrayElseAndEndifAreErrors(t *testing.T) {
	ctx := NewContext()
	_, err := New().Process(ctx, nil, "#else\n")
	require.Error(t, err)

	ctx2 := NewContext()
	_, err = New().Process(ctx2, nil, "#endif\n")
	require.Error(t, err)
}

func TestShebangStripped(t *testing.T) {
	ctx := NewContext()
	out, err := New().Process(ctx, nil, "#!/usr/bin/env mgcints\nc\n")
	require.NoError(t, err)
	require.Equal(t, ";\nc\n", out)
}

func TestRedefineIsRuntimeError(t *testing.T) {
	ctx := NewContext()
	_, err := New().Process(ctx, nil, "#define A 1\n#define A 2\n")
	require.Error(t, err)
}

func TestTrailingCommentAfterDirectiveIsAllowed(t *testing.T) {
	ctx := NewContext()
	out, err := New().Process(ctx, nil, "#define A 1 ; note\nc\n")
	require.NoError(t, err)
	require.Equal(t, ";\nc\n", out)
	require.Equal(t, 1, ctx.Defines["A"])
}

func TestTrailingGarbageAfterDirectiveFails(t *testing.T) {
	ctx := NewContext()
	_, err := New().Process(ctx, nil, "#endif oops\n")
	require.Error(t, err)
}
