package registry

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/watercolor/errors"
)

// Overrides adjusts preset tuning without editing the registry YAML.
//
//	[attractors.creative_tension]
//	basin_radius = 0.30
//	mode = "sequence"
//
//	[rhythms.fidelity_breathing]
//	period = 24
//	phase = 0.0
type Overrides struct {
	Attractors map[string]AttractorOverride `toml:"attractors"`
	Rhythms    map[string]RhythmOverride    `toml:"rhythms"`
}

// AttractorOverride replaces the set fields of one attractor preset.
type AttractorOverride struct {
	BasinRadius *float64 `toml:"basin_radius"`
	Mode        *string  `toml:"mode"`
}

// RhythmOverride replaces the set fields of one rhythmic preset.
type RhythmOverride struct {
	Period *int     `toml:"period"`
	Phase  *float64 `toml:"phase"`
}

// ParseOverrides decodes a TOML overlay. Unknown keys are rejected.
func ParseOverrides(data []byte) (*Overrides, error) {
	var ov Overrides
	md, err := toml.Decode(string(data), &ov)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "overrides: "+err.Error())
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.NewInvalidArgument("overrides: unknown keys %s", strings.Join(keys, ", "))
	}
	return &ov, nil
}

// apply patches the decoded document. Ids must exist; values are checked
// again when the registry is built.
func (ov *Overrides) apply(doc *document) error {
	attractors := make(map[string]int, len(doc.Attractors))
	for i, a := range doc.Attractors {
		attractors[a.ID] = i
	}
	for _, id := range sortedKeys(ov.Attractors) {
		i, ok := attractors[id]
		if !ok {
			return errors.NewUnknownIdentifier("attractor", id, nil)
		}
		o := ov.Attractors[id]
		if o.BasinRadius != nil {
			doc.Attractors[i].BasinRadius = *o.BasinRadius
		}
		if o.Mode != nil {
			doc.Attractors[i].Mode = *o.Mode
		}
	}

	rhythms := make(map[string]int, len(doc.Rhythms))
	for i, p := range doc.Rhythms {
		rhythms[p.ID] = i
	}
	for _, id := range sortedKeys(ov.Rhythms) {
		i, ok := rhythms[id]
		if !ok {
			return errors.NewUnknownIdentifier("preset", id, nil)
		}
		o := ov.Rhythms[id]
		if o.Period != nil {
			doc.Rhythms[i].Period = *o.Period
		}
		if o.Phase != nil {
			doc.Rhythms[i].Phase = *o.Phase
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
