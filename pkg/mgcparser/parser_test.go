package mgcparser

import (
	"testing"

	"github.com/mgcints/mgcints/pkg/mgccommand"
	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgclex"
	"github.com/mgcints/mgcints/pkg/mgctrie"
	"github.com/stretchr/testify/require"
)

func buildTable() *mgctrie.MacroTable {
	table := mgctrie.NewMacroTable()
	for _, v := range mgccommand.NewBuilder().Param(mgclex.Uint8).Make("v") {
		table.AddCommand("v", v)
	}
	for _, v := range mgccommand.NewBuilder().Make("vol") {
		table.AddCommand("vol", v)
	}
	return table
}

func TestReadCommandLongestMatch(t *testing.T) {
	table := buildTable()
	p := New(table)

	r, err := p.ReadCommand(mgccursor.New("vol"))
	require.NoError(t, err)
	require.Equal(t, "vol", r.Cmd.Name)
}

func TestReadCommandUnknownNameIsSyntaxError(t *testing.T) {
	p := New(buildTable())
	_, err := p.ReadCommand(mgccursor.New("zzz"))
	require.Error(t, err)
}

func TestReadCommandTriesVariantsInOrder(t *testing.T) {
	table := mgctrie.NewMacroTable()
	for _, v := range mgccommand.NewBuilder().
		Param(mgclex.Uint8).
		Param(mgclex.Uint8).Optional().
		Make("x") {
		table.AddCommand("x", v)
	}
	p := New(table)

	r, err := p.ReadCommand(mgccursor.New("x 5"))
	require.NoError(t, err)
	require.Equal(t, mgccommand.Params{uint64(5)}, r.Params)
}

func TestReadCommandAllVariantsFailIsSyntaxError(t *testing.T) {
	table := mgctrie.NewMacroTable()
	for _, v := range mgccommand.NewBuilder().Param(mgclex.Uint8).Make("y") {
		table.AddCommand("y", v)
	}
	p := New(table)
	_, err := p.ReadCommand(mgccursor.New("y notanumber"))
	require.Error(t, err)
}

func TestReadCommandEmptyCursorReturnsNil(t *testing.T) {
	p := New(buildTable())
	r, err := p.ReadCommand(mgccursor.New("   "))
	require.NoError(t, err)
	require.Nil(t, r)
}
