package mgctrie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMacroTableAppendsVariants(t *testing.T) {
	m := NewMacroTable()
	m.AddCommand("o", "variant-1")
	m.AddCommand("o", "variant-2")

	length, variants, found := m.ReadNext("o5")
	require.True(t, found)
	require.Equal(t, 1, length)
	require.Equal(t, []CommandVariant{"variant-1", "variant-2"}, variants)
}

func TestMacroTableRenameMovesVariants(t *testing.T) {
	m := NewMacroTable()
	m.AddCommand("old", "v")
	m.Rename("old", "new")

	_, _, found := m.ReadNext("old")
	require.False(t, found)

	_, variants, found := m.ReadNext("new")
	require.True(t, found)
	require.Equal(t, []CommandVariant{"v"}, variants)
}

func TestMacroTableRenameMissingIsNoop(t *testing.T) {
	m := NewMacroTable()
	require.NotPanics(t, func() { m.Rename("missing", "also-missing") })
}
