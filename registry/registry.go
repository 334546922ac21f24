// Package registry holds the immutable dissolution taxonomy: canonical
// states, visual types, categorical entries, attractor presets and rhythmic
// presets. A Registry is assembled once by Parse and only read afterwards;
// every lookup is an id-indexed map built at load time, and every list keeps
// registry order for deterministic tie-breaking.
//
// Accessors return values. Slices inside them (vocabularies, anchors) share
// the registry's backing storage and must not be modified.
package registry

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/space"
)

// Taxonomy is one categorical taxonomy.
type Taxonomy struct {
	Category Category
	Axes     []space.Axis
	Default  string

	entries []Entry
	index   map[string]int
	matcher *Matcher
}

// Len returns the number of entries.
func (t *Taxonomy) Len() int { return len(t.entries) }

// At returns the i-th entry in registry order.
func (t *Taxonomy) At(i int) Entry { return t.entries[i] }

// Entries returns a copy of the entry list.
func (t *Taxonomy) Entries() []Entry { return append([]Entry(nil), t.entries...) }

// Lookup returns the entry with id.
func (t *Taxonomy) Lookup(id string) (Entry, error) {
	i, ok := t.index[id]
	if !ok {
		return Entry{}, errors.NewUnknownIdentifier(string(t.Category), id, t.IDs())
	}
	return t.entries[i], nil
}

// IDs returns entry ids in registry order.
func (t *Taxonomy) IDs() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.ID
	}
	return out
}

// Matcher returns the keyword matcher over this taxonomy's entries.
func (t *Taxonomy) Matcher() *Matcher { return t.matcher }

// Registry is the loaded taxonomy.
type Registry struct {
	version *semver.Version

	states     []CanonicalState
	stateIndex map[string]int

	visualTypes []VisualType
	visualIndex map[string]int

	taxonomies map[Category]*Taxonomy

	attractors     []AttractorPreset
	attractorIndex map[string]int

	rhythms     []RhythmicPreset
	rhythmIndex map[string]int

	defaultStyle string

	stateMatcher  *Matcher
	visualMatcher *Matcher
}

// Version is the registry data version.
func (r *Registry) Version() string { return r.version.String() }

// StateCount returns the number of canonical states.
func (r *Registry) StateCount() int { return len(r.states) }

// StateAt returns the i-th canonical state in registry order.
func (r *Registry) StateAt(i int) CanonicalState { return r.states[i] }

// States returns a copy of the canonical state list.
func (r *Registry) States() []CanonicalState {
	return append([]CanonicalState(nil), r.states...)
}

// State returns the canonical state with id.
func (r *Registry) State(id string) (CanonicalState, error) {
	i, ok := r.stateIndex[id]
	if !ok {
		return CanonicalState{}, errors.NewUnknownIdentifier("canonical state", id, r.StateIDs())
	}
	return r.states[i], nil
}

// StateIDs returns canonical state ids in registry order.
func (r *Registry) StateIDs() []string {
	out := make([]string, len(r.states))
	for i, s := range r.states {
		out[i] = s.ID
	}
	return out
}

// StateMatcher scores text against every canonical state.
func (r *Registry) StateMatcher() *Matcher { return r.stateMatcher }

// VisualTypeCount returns the number of visual types.
func (r *Registry) VisualTypeCount() int { return len(r.visualTypes) }

// VisualTypeAt returns the i-th visual type in registry order.
func (r *Registry) VisualTypeAt(i int) VisualType { return r.visualTypes[i] }

// VisualTypes returns a copy of the visual type list.
func (r *Registry) VisualTypes() []VisualType {
	return append([]VisualType(nil), r.visualTypes...)
}

// VisualType returns the visual type with id.
func (r *Registry) VisualType(id string) (VisualType, error) {
	i, ok := r.visualIndex[id]
	if !ok {
		return VisualType{}, errors.NewUnknownIdentifier("style", id, r.VisualTypeIDs())
	}
	return r.visualTypes[i], nil
}

// VisualTypeIDs returns visual type ids in registry order.
func (r *Registry) VisualTypeIDs() []string {
	out := make([]string, len(r.visualTypes))
	for i, v := range r.visualTypes {
		out[i] = v.ID
	}
	return out
}

// VisualMatcher scores text against every visual type.
func (r *Registry) VisualMatcher() *Matcher { return r.visualMatcher }

// DefaultStyle is the style reported when no style keyword matches.
func (r *Registry) DefaultStyle() string { return r.defaultStyle }

// Taxonomy returns the categorical taxonomy for c. Style is not a
// categorical taxonomy; use the visual type accessors for it.
func (r *Registry) Taxonomy(c Category) (*Taxonomy, error) {
	t, ok := r.taxonomies[c]
	if !ok {
		valid := make([]string, len(entryCategories))
		for i, ec := range entryCategories {
			valid[i] = string(ec)
		}
		return nil, errors.NewUnknownIdentifier("category", string(c), valid)
	}
	return t, nil
}

// MustTaxonomy is Taxonomy for the built-in categories, which every
// loaded registry has.
func (r *Registry) MustTaxonomy(c Category) *Taxonomy {
	t, err := r.Taxonomy(c)
	if err != nil {
		panic(err)
	}
	return t
}

// AttractorCount returns the number of attractor presets.
func (r *Registry) AttractorCount() int { return len(r.attractors) }

// AttractorAt returns the i-th attractor preset in registry order.
func (r *Registry) AttractorAt(i int) AttractorPreset { return r.attractors[i] }

// Attractor returns the attractor preset with id.
func (r *Registry) Attractor(id string) (AttractorPreset, error) {
	i, ok := r.attractorIndex[id]
	if !ok {
		return AttractorPreset{}, errors.NewUnknownIdentifier("attractor", id, r.AttractorIDs())
	}
	return r.attractors[i], nil
}

// AttractorIDs returns attractor ids in registry order.
func (r *Registry) AttractorIDs() []string {
	out := make([]string, len(r.attractors))
	for i, a := range r.attractors {
		out[i] = a.ID
	}
	return out
}

// Rhythm returns the rhythmic preset with id.
func (r *Registry) Rhythm(id string) (RhythmicPreset, error) {
	i, ok := r.rhythmIndex[id]
	if !ok {
		return RhythmicPreset{}, errors.NewUnknownIdentifier("preset", id, r.RhythmIDs())
	}
	return r.rhythms[i], nil
}

// Rhythms returns a copy of the rhythmic preset list.
func (r *Registry) Rhythms() []RhythmicPreset {
	return append([]RhythmicPreset(nil), r.rhythms...)
}

// RhythmIDs returns rhythmic preset ids in registry order.
func (r *Registry) RhythmIDs() []string {
	out := make([]string, len(r.rhythms))
	for i, p := range r.rhythms {
		out[i] = p.ID
	}
	return out
}

// NearestState returns the canonical state closest to s and its distance.
// Ties go to the earlier state.
func (r *Registry) NearestState(s space.State) (CanonicalState, float64) {
	best, bestD := 0, space.Distance(s, r.states[0].Centroid)
	for i := 1; i < len(r.states); i++ {
		if d := space.Distance(s, r.states[i].Centroid); d < bestD {
			best, bestD = i, d
		}
	}
	return r.states[best], bestD
}

// NearestVisualType returns the visual type closest to s and its distance.
// Ties go to the earlier type.
func (r *Registry) NearestVisualType(s space.State) (VisualType, float64) {
	best, bestD := 0, space.Distance(s, r.visualTypes[0].Centroid)
	for i := 1; i < len(r.visualTypes); i++ {
		if d := space.Distance(s, r.visualTypes[i].Centroid); d < bestD {
			best, bestD = i, d
		}
	}
	return r.visualTypes[best], bestD
}

// Resolve returns the state named by id: a canonical state centroid or an
// attractor preset's state. Canonical states win on a name clash.
func (r *Registry) Resolve(id string) (space.State, error) {
	if i, ok := r.stateIndex[id]; ok {
		return r.states[i].Centroid, nil
	}
	if i, ok := r.attractorIndex[id]; ok {
		return r.attractors[i].State, nil
	}
	valid := append(r.StateIDs(), r.AttractorIDs()...)
	sort.Strings(valid)
	return space.State{}, errors.NewUnknownIdentifier("state", id, valid)
}
