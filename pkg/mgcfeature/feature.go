// Package mgcfeature implements feature injection: a Feature is a
// bundle of extra Commands, extra Song/Channel capability slots, and
// optional pre/post callbacks that can be imported into an Engine á la
// carte (muting, key signatures, vibrato, ...).
package mgcfeature

import (
	"sort"

	"github.com/mgcints/mgcints/pkg/mgcengine"
	"github.com/mgcints/mgcints/pkg/mgcerr"
	"github.com/mgcints/mgcints/pkg/mgctrie"
)

// Feature is one importable bundle. Dependencies names other features
// that must be applied first; the Registry resolves and orders these via
// a topological sort before applying anything.
type Feature interface {
	Name() string
	Dependencies() []string

	// Commands returns the variants this feature registers, keyed by
	// their default command name.
	Commands() map[string]mgctrie.CommandVariant

	SongSlots() []mgcengine.SlotDef
	ChannelSlots() []mgcengine.SlotDef

	// The four callback hooks are optional; a feature that doesn't need
	// one returns nil.
	SongPreCallback() mgcengine.SongCallback
	SongPostCallback() mgcengine.SongCallback
	ChannelPreCallback() mgcengine.ChannelCallback
	ChannelPostCallback() mgcengine.ChannelCallback
}

// Base is an embeddable Feature implementation returning zero values for
// every optional hook, so a concrete feature only overrides what it
// actually uses.
type Base struct{}

func (Base) Dependencies() []string                        { return nil }
func (Base) Commands() map[string]mgctrie.CommandVariant   { return nil }
func (Base) SongSlots() []mgcengine.SlotDef                { return nil }
func (Base) ChannelSlots() []mgcengine.SlotDef              { return nil }
func (Base) SongPreCallback() mgcengine.SongCallback        { return nil }
func (Base) SongPostCallback() mgcengine.SongCallback       { return nil }
func (Base) ChannelPreCallback() mgcengine.ChannelCallback  { return nil }
func (Base) ChannelPostCallback() mgcengine.ChannelCallback { return nil }

// CmdName is the renaming contract for imported features: for each command name k a
// feature proposes, cmdname[k] == false suppresses it, a string value
// renames it, and a missing key keeps the default name.
type CmdName map[string]interface{}

// resolve returns the effective target name for k, and whether it should
// be registered at all.
func (c CmdName) resolve(k string) (target string, keep bool) {
	v, ok := c[k]
	if !ok {
		return k, true
	}
	if b, isBool := v.(bool); isBool && !b {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return k, true
}

// Registry holds every known Feature and resolves import order by
// dependency, grounded on pkg/plugin/plugin.go's Registry.SortByDependencies
// (Kahn's algorithm, deterministic tie-break by sorting the ready queue).
type Registry struct {
	features map[string]Feature
}

// NewRegistry creates an empty feature registry.
func NewRegistry() *Registry {
	return &Registry{features: make(map[string]Feature)}
}

// Register adds f to the registry under its own Name(). Registering two
// features under the same name is a RuntimeError (framework invariant,
// duplicate feature names), matching Engine.AddSongSlot/AddChannelSlot's duplicate handling.
func (r *Registry) Register(f Feature) error {
	name := f.Name()
	if name == "" {
		return mgcerr.Argument("feature name cannot be empty")
	}
	if _, exists := r.features[name]; exists {
		return mgcerr.Runtime("feature %q already registered", name)
	}
	r.features[name] = f
	return nil
}

// Get retrieves a registered feature by name.
func (r *Registry) Get(name string) (Feature, bool) {
	f, ok := r.features[name]
	return f, ok
}

// resolveOrder returns the transitive dependency closure of root, in
// dependency-then-dependent order, via Kahn's algorithm restricted to the
// subgraph reachable from root.
func (r *Registry) resolveOrder(root string) ([]string, error) {
	// Collect the reachable subgraph first (DFS over Dependencies()).
	reachable := make(map[string]bool)
	var collect func(name string) error
	collect = func(name string) error {
		if reachable[name] {
			return nil
		}
		f, ok := r.features[name]
		if !ok {
			return mgcerr.Runtime("feature %q not registered", name)
		}
		reachable[name] = true
		for _, dep := range f.Dependencies() {
			if err := collect(dep); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(root); err != nil {
		return nil, err
	}

	inDegree := make(map[string]int, len(reachable))
	dependents := make(map[string][]string, len(reachable))
	for name := range reachable {
		inDegree[name] = len(r.features[name].Dependencies())
		dependents[name] = dependents[name]
	}
	for name := range reachable {
		for _, dep := range r.features[name].Dependencies() {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	queue := make([]string, 0, len(reachable))
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(reachable))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		next := append([]string(nil), dependents[name]...)
		sort.Strings(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
		sort.Strings(queue)
	}

	if len(order) != len(reachable) {
		return nil, mgcerr.Runtime("circular dependency detected importing feature %q", root)
	}
	return order, nil
}

// Import applies name and every not-yet-imported dependency it
// transitively needs, in dependency order, onto e. cmdname overrides
// apply only to name itself, not to its dependencies (each dependency was
// already imported, or is imported here, under its own default names).
// Re-importing an already-imported feature is a RuntimeError,
// enforced per-feature via Engine.MarkFeatureImported.
func (r *Registry) Import(e *mgcengine.Engine, name string, cmdname CmdName) error {
	order, err := r.resolveOrder(name)
	if err != nil {
		return err
	}
	for _, depName := range order {
		if depName != name && e.IsFeatureImported(depName) {
			// Already satisfied by a previous Import call; importing a
			// dependency implicitly never re-triggers its RuntimeError,
			// only an explicit re-import of name itself does.
			continue
		}
		f := r.features[depName]
		var names CmdName
		if depName == name {
			names = cmdname
		}
		if err := apply(e, f, names); err != nil {
			return err
		}
	}
	return nil
}

func apply(e *mgcengine.Engine, f Feature, cmdname CmdName) error {
	if err := e.MarkFeatureImported(f.Name()); err != nil {
		return err
	}

	for defaultName, variant := range f.Commands() {
		target, keep := defaultName, true
		if cmdname != nil {
			target, keep = cmdname.resolve(defaultName)
		}
		if !keep {
			continue
		}
		e.AddCommand(target, variant)
	}

	for _, def := range f.SongSlots() {
		if err := e.AddSongSlot(def); err != nil {
			return err
		}
	}
	for _, def := range f.ChannelSlots() {
		if err := e.AddChannelSlot(def); err != nil {
			return err
		}
	}

	if cb := f.SongPreCallback(); cb != nil {
		e.AddSongPreCallback(cb)
	}
	if cb := f.SongPostCallback(); cb != nil {
		e.AddSongPostCallback(cb)
	}
	if cb := f.ChannelPreCallback(); cb != nil {
		e.AddChannelPreCallback(cb)
	}
	if cb := f.ChannelPostCallback(); cb != nil {
		e.AddChannelPostCallback(cb)
	}
	return nil
}
