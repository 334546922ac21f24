package registry

import (
	"github.com/teranos/watercolor/space"
)

// Category names a taxonomy. Style is the visual-type taxonomy; the rest
// are categorical entries anchored on a subset of axes.
type Category string

const (
	CategoryStyle        Category = "style"
	CategoryEdge         Category = "edge"
	CategoryHydrology    Category = "hydrology"
	CategorySubstrate    Category = "substrate"
	CategoryColorHarmony Category = "color_harmony"
	CategoryContrast     Category = "contrast"
)

// Categories returns the taxonomy categories in vocabulary-extraction order.
func Categories() []Category {
	return []Category{
		CategoryStyle,
		CategoryEdge,
		CategoryHydrology,
		CategorySubstrate,
		CategoryColorHarmony,
		CategoryContrast,
	}
}

// entryCategories are the categories loaded from the categories section.
var entryCategories = []Category{
	CategoryEdge,
	CategoryHydrology,
	CategorySubstrate,
	CategoryColorHarmony,
	CategoryContrast,
}

// CanonicalState is a named reference point with a keyword vocabulary.
type CanonicalState struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Centroid   space.State `json:"centroid"`
	Vocabulary Vocabulary  `json:"vocabulary"`
	Source     string      `json:"source"`
}

// State sources
const (
	SourceVisualType   = "visual_type"
	SourceInterpolated = "interpolated"
)

// Optical describes how the finished surface handles light.
type Optical struct {
	Finish       string `json:"finish" yaml:"finish"`
	Scatter      string `json:"scatter" yaml:"scatter"`
	Transparency string `json:"transparency" yaml:"transparency"`
}

// VisualType is a canonical state that also carries rendering defaults.
type VisualType struct {
	CanonicalState
	Description string   `json:"description"`
	Hydrology   string   `json:"hydrology"`
	Substrate   string   `json:"substrate"`
	Contrast    string   `json:"contrast"`
	Optical     Optical  `json:"optical"`
	Colors      []string `json:"colors"`
}

// AffinityTerm contributes weight·value (or weight·(1-value) when Invert)
// of one axis to an edge mode's raw weight.
type AffinityTerm struct {
	Axis   space.Axis `json:"axis"`
	Weight float64    `json:"weight"`
	Invert bool       `json:"invert,omitempty"`
}

// AffinityRule derives an edge mode's raw weight from a state.
type AffinityRule struct {
	Base  float64        `json:"base"`
	Terms []AffinityTerm `json:"terms"`
}

// Eval returns the rule's raw, unnormalized weight for s.
func (r AffinityRule) Eval(s space.State) float64 {
	w := r.Base
	for _, t := range r.Terms {
		v := s[t.Axis]
		if t.Invert {
			v = 1 - v
		}
		w += t.Weight * v
	}
	return w
}

// Entry is one member of a categorical taxonomy.
type Entry struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Anchor      []float64     `json:"anchor"`
	Vocabulary  Vocabulary    `json:"vocabulary"`
	Affinity    *AffinityRule `json:"affinity,omitempty"`
}

// AttractorPreset is a named basin in the parameter space.
type AttractorPreset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	State       space.State `json:"state"`
	BasinRadius float64     `json:"basin_radius"`
	Mode        string      `json:"mode"`
}

// RhythmicPreset is a named oscillation between two canonical states.
// Phase is a fraction of one cycle.
type RhythmicPreset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	A           string  `json:"a"`
	B           string  `json:"b"`
	Period      int     `json:"period"`
	Phase       float64 `json:"phase"`
}

// Composition modes an attractor preset may hint.
const (
	ModeComposite = "composite"
	ModeSplit     = "split"
	ModeSequence  = "sequence"
)

func validMode(m string) bool {
	return m == ModeComposite || m == ModeSplit || m == ModeSequence
}
