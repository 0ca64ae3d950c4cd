package mgctrie

// CommandVariant is the minimal shape the macro table needs from whatever
// a Command concretely is; pkg/mgccommand.Command satisfies this.
// Kept generic here so mgctrie has no dependency on mgccommand.
type CommandVariant any

// MacroTable maps an MML command or directive name (of arbitrary length,
// possibly sharing prefixes with other names) to an ordered list of
// variants, stored in a Trie for longest-prefix lookup.
type MacroTable struct {
	trie *Trie[[]CommandVariant]
}

// NewMacroTable creates an empty macro table.
func NewMacroTable() *MacroTable {
	return &MacroTable{trie: New[[]CommandVariant]()}
}

// AddCommand appends variant to the list stored under name, creating the
// list if this is the first variant registered under that name.
func (m *MacroTable) AddCommand(name string, variant CommandVariant) {
	existing, _ := m.trie.Get(name)
	existing = append(existing, variant)
	m.trie.Add(name, existing)
}

// ReadNext performs a longest-match lookup of the macro table against s
// (normally the cursor's remaining text) and returns the byte length
// consumed and the variant list registered under the matched name.
func (m *MacroTable) ReadNext(s string) (length int, variants []CommandVariant, found bool) {
	res := m.trie.Lookup(s)
	if !res.Found {
		return 0, nil, false
	}
	return res.Length, res.Value, true
}

// Rename moves the variant list registered under oldName to newName. If
// oldName was never registered, this is a no-op (see DESIGN.md: renaming
// a command that doesn't exist is treated as a defensive no-op).
func (m *MacroTable) Rename(oldName, newName string) {
	variants, ok := m.trie.Get(oldName)
	if !ok {
		return
	}
	m.trie.Remove(oldName)
	m.trie.Add(newName, variants)
}

// Suppress removes every variant registered under name.
func (m *MacroTable) Suppress(name string) {
	m.trie.Remove(name)
}
