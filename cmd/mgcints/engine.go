package main

import (
	"fmt"
	"sort"

	"github.com/mgcints/mgcints/pkg/mgcengine"
)

// Factory builds a fresh Engine definition. Concrete engines (Mega Man 3,
// Castlevania, Journey to Silius, ...) are framework consumers and out of
// scope for this module (they're exercised as tests, not shipped), so
// this registry starts empty; RegisterEngine is the extension point a
// real deployment's init() functions would use to add them.
type Factory func() (*mgcengine.Engine, error)

var engineRegistry = map[string]Factory{}

// RegisterEngine adds name to the set of engines resolvable by the CLI.
// Registering the same name twice overwrites the previous factory, so the
// last registration wins. Resolution is a registry lookup instead of a
// filesystem walk (see DESIGN.md: the original resolution
// assumes a host with dynamic script loading; Go has none, so that
// multi-step lookup collapses into this one in-process step).
func RegisterEngine(name string, f Factory) {
	engineRegistry[name] = f
}

// ResolveEngine builds the named engine, or reports every registered name
// if it isn't found.
func ResolveEngine(name string) (*mgcengine.Engine, error) {
	f, ok := engineRegistry[name]
	if !ok {
		names := make([]string, 0, len(engineRegistry))
		for n := range engineRegistry {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown engine %q (registered: %v)", name, names)
	}
	return f()
}
