// Package mapper expands a style into its full parameter bundle and blends
// descriptive vocabulary for arbitrary coordinates.
package mapper

import (
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
)

// Intensities scale each axis's deviation from the 0.5 midpoint.
var intensities = map[string]float64{
	"subtle":   0.6,
	"moderate": 1.0,
	"dramatic": 1.4,
}

// Emphases shift individual axes after intensity scaling.
var emphases = map[string]map[space.Axis]float64{
	"dissolution": {space.DissolutionRate: 0.1, space.AnchorDensity: -0.1},
	"edge":        {space.EdgeCoherence: 0.15},
	"substrate":   {space.SubstrateVisibility: 0.15},
	"hydrology":   {space.PigmentHydrology: 0.15},
	"balanced":    {},
}

// Option defaults
const (
	DefaultIntensity = "moderate"
	DefaultEmphasis  = "balanced"
)

// Options adjust a mapping. Zero values leave the style's defaults alone.
type Options struct {
	Intensity string `json:"intensity,omitempty"`
	Emphasis  string `json:"emphasis,omitempty"`
	Hydrology string `json:"hydrology,omitempty"`
	Substrate string `json:"substrate,omitempty"`
}

// EdgeWeight is one edge mode's share of the edge distribution.
type EdgeWeight struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Parameters is the full parameter bundle of a style.
type Parameters struct {
	Style            string           `json:"style"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Intensity        string           `json:"intensity"`
	Emphasis         string           `json:"emphasis"`
	Centroid         space.State      `json:"centroid"`
	State            space.State      `json:"state"`
	NearestType      string           `json:"nearest_type"`
	NearestDistance  float64          `json:"nearest_distance"`
	Hydrology        string           `json:"hydrology"`
	StateHydrology   string           `json:"state_hydrology"`
	Substrate        string           `json:"substrate"`
	EdgeDistribution []EdgeWeight     `json:"edge_distribution"`
	ContrastCurve    string           `json:"contrast_curve"`
	Optical          registry.Optical `json:"optical"`
	Colors           []string         `json:"colors"`
	Characteristics  []string         `json:"characteristics"`
	Vocabulary       Vocabulary       `json:"vocabulary"`
}

// Mapper maps styles and coordinates against a registry.
type Mapper struct {
	reg      *registry.Registry
	settings Settings
}

// New returns a mapper over reg.
func New(reg *registry.Registry, settings Settings) *Mapper {
	return &Mapper{reg: reg, settings: settings.withDefaults()}
}

// Settings returns the effective extraction settings.
func (m *Mapper) Settings() Settings { return m.settings }

// Map resolves styleID to its parameter bundle. Unknown styles and
// hydrology or substrate overrides fail with UnknownIdentifier; unknown
// intensity or emphasis values fail with InvalidArgument.
func (m *Mapper) Map(styleID string, opts Options) (Parameters, error) {
	vt, err := m.reg.VisualType(styleID)
	if err != nil {
		return Parameters{}, err
	}
	if opts.Intensity == "" {
		opts.Intensity = DefaultIntensity
	}
	if opts.Emphasis == "" {
		opts.Emphasis = DefaultEmphasis
	}
	state, err := derive(vt.Centroid, opts.Intensity, opts.Emphasis)
	if err != nil {
		return Parameters{}, err
	}

	hydrology := vt.Hydrology
	if opts.Hydrology != "" {
		if _, err := m.reg.MustTaxonomy(registry.CategoryHydrology).Lookup(opts.Hydrology); err != nil {
			return Parameters{}, err
		}
		hydrology = opts.Hydrology
	}
	substrate := vt.Substrate
	if opts.Substrate != "" {
		if _, err := m.reg.MustTaxonomy(registry.CategorySubstrate).Lookup(opts.Substrate); err != nil {
			return Parameters{}, err
		}
		substrate = opts.Substrate
	}

	nearest, nearestDist := m.reg.NearestVisualType(state)
	return Parameters{
		Style:            vt.ID,
		Name:             vt.Name,
		Description:      vt.Description,
		Intensity:        opts.Intensity,
		Emphasis:         opts.Emphasis,
		Centroid:         vt.Centroid,
		State:            state,
		NearestType:      nearest.ID,
		NearestDistance:  nearestDist,
		Hydrology:        hydrology,
		StateHydrology:   m.nearestEntry(registry.CategoryHydrology, state, ""),
		Substrate:        substrate,
		EdgeDistribution: m.EdgeDistribution(state),
		ContrastCurve:    m.ContrastCurve(state, vt.Contrast),
		Optical:          vt.Optical,
		Colors:           vt.Colors,
		Characteristics:  Characteristics(state),
		Vocabulary:       m.ExtractVocabulary(state, 0),
	}, nil
}

// derive applies intensity scaling and emphasis shifts to a centroid. The
// neutral options return the centroid untouched.
func derive(c space.State, intensity, emphasis string) (space.State, error) {
	scale, ok := intensities[intensity]
	if !ok {
		return space.State{}, errors.NewInvalidArgument("intensity %q: want subtle, moderate or dramatic", intensity)
	}
	shifts, ok := emphases[emphasis]
	if !ok {
		return space.State{}, errors.NewInvalidArgument("emphasis %q: want dissolution, edge, substrate, hydrology or balanced", emphasis)
	}
	if scale == 1 && len(shifts) == 0 {
		return c, nil
	}
	var out space.State
	for i := range c {
		out[i] = 0.5 + (c[i]-0.5)*scale + shifts[space.Axis(i)]
	}
	return out.Clamped(), nil
}

// EdgeDistribution evaluates every edge mode's affinity rule at s and
// normalizes the weights to sum to 1.
func (m *Mapper) EdgeDistribution(s space.State) []EdgeWeight {
	t := m.reg.MustTaxonomy(registry.CategoryEdge)
	out := make([]EdgeWeight, t.Len())
	var total float64
	for i := range out {
		e := t.At(i)
		w := 0.0
		if e.Affinity != nil {
			w = e.Affinity.Eval(s)
		}
		out[i] = EdgeWeight{ID: e.ID, Name: e.Name, Weight: w}
		total += w
	}
	if total == 0 {
		for i := range out {
			out[i].Weight = 1 / float64(len(out))
		}
		return out
	}
	for i := range out {
		out[i].Weight /= total
	}
	return out
}

// ContrastCurve returns the contrast curve whose anchor is nearest s on the
// contrast axes. An exact tie goes to preferred, then to registry order.
func (m *Mapper) ContrastCurve(s space.State, preferred string) string {
	return m.nearestEntry(registry.CategoryContrast, s, preferred)
}

func (m *Mapper) nearestEntry(c registry.Category, s space.State, preferred string) string {
	t := m.reg.MustTaxonomy(c)
	at := s.Project(t.Axes)
	best, bestD := "", 0.0
	for i := 0; i < t.Len(); i++ {
		e := t.At(i)
		d := space.PointDistance(at, e.Anchor)
		if best == "" || d < bestD || (d == bestD && e.ID == preferred) {
			best, bestD = e.ID, d
		}
	}
	return best
}

// Characteristics describes s in plain phrases, at most one per axis.
func Characteristics(s space.State) []string {
	var out []string

	switch dr := s[space.DissolutionRate]; {
	case dr < 0.3:
		out = append(out, "photographic fidelity dominant with watercolor accents")
	case dr < 0.6:
		out = append(out, "contested territory between photographic and painterly regimes")
	default:
		out = append(out, "painterly dissolution overriding photographic source")
	}

	switch ec := s[space.EdgeCoherence]; {
	case ec > 0.6:
		out = append(out, "sharp architectural edges persisting through dissolution")
	case ec < 0.3:
		out = append(out, "all edges softened into feathered bleeds and backruns")
	}

	if s[space.SubstrateVisibility] > 0.6 {
		out = append(out, "paper surface breathing through as compositional element")
	}

	switch ph := s[space.PigmentHydrology]; {
	case ph > 0.7:
		out = append(out, "wet-on-wet pigment behavior driving visual texture")
	case ph < 0.2:
		out = append(out, "dry technique preserving structural marks")
	}

	switch ad := s[space.AnchorDensity]; {
	case ad > 0.6:
		out = append(out, "dense photographic anchors maintaining recognizability")
	case ad < 0.2:
		out = append(out, "near-abstract with minimal fidelity anchors")
	}
	return out
}
