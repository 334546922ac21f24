package registry

import (
	"bytes"
	_ "embed"
	"math"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/space"
)

// SupportedVersions is the registry data version range this build reads.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

//go:embed data/watercolor.yaml
var defaultData []byte

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded taxonomy. The
// embedded data is part of the build, so a parse failure panics.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Parse(defaultData)
		if err != nil {
			panic(errors.Wrap(err, "embedded registry"))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// DefaultData returns a copy of the embedded registry YAML.
func DefaultData() []byte {
	return append([]byte(nil), defaultData...)
}

// Option adjusts a registry while it is being assembled.
type Option func(*loadOptions)

type loadOptions struct {
	overrides []byte
}

// WithOverrides applies a TOML overlay (see ParseOverrides) before the
// registry is frozen.
func WithOverrides(data []byte) Option {
	return func(o *loadOptions) { o.overrides = data }
}

// LoadFile reads and parses a registry YAML file.
func LoadFile(path string, opts ...Option) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read registry %s", path)
	}
	reg, err := Parse(data, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}
	return reg, nil
}

type document struct {
	Version         string                 `yaml:"version"`
	Axes            []string               `yaml:"axes"`
	Defaults        defaultsDoc            `yaml:"defaults"`
	CanonicalStates []stateDoc             `yaml:"canonical_states"`
	Categories      map[string]categoryDoc `yaml:"categories"`
	Attractors      []attractorDoc         `yaml:"attractors"`
	Rhythms         []rhythmDoc            `yaml:"rhythms"`
}

type defaultsDoc struct {
	Style     string `yaml:"style"`
	Hydrology string `yaml:"hydrology"`
	Substrate string `yaml:"substrate"`
}

type stateDoc struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Centroid   []float64      `yaml:"centroid"`
	Vocabulary Vocabulary     `yaml:"vocabulary"`
	Visual     *visualTypeDoc `yaml:"visual_type"`
}

type visualTypeDoc struct {
	Description string   `yaml:"description"`
	Hydrology   string   `yaml:"hydrology"`
	Substrate   string   `yaml:"substrate"`
	Contrast    string   `yaml:"contrast"`
	Optical     Optical  `yaml:"optical"`
	Colors      []string `yaml:"colors"`
}

type categoryDoc struct {
	Axes    []string   `yaml:"axes"`
	Entries []entryDoc `yaml:"entries"`
}

type entryDoc struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Anchor      []float64    `yaml:"anchor"`
	Affinity    *affinityDoc `yaml:"affinity"`
	Vocabulary  Vocabulary   `yaml:"vocabulary"`
}

type affinityDoc struct {
	Base  float64 `yaml:"base"`
	Terms []struct {
		Axis   string  `yaml:"axis"`
		Weight float64 `yaml:"weight"`
		Invert bool    `yaml:"invert"`
	} `yaml:"terms"`
}

type attractorDoc struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	State       []float64 `yaml:"state"`
	BasinRadius float64   `yaml:"basin_radius"`
	Mode        string    `yaml:"mode"`
}

type rhythmDoc struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	A           string  `yaml:"a"`
	B           string  `yaml:"b"`
	Period      int     `yaml:"period"`
	Phase       float64 `yaml:"phase"`
}

// Parse builds a registry from YAML. Structural problems (unknown axes,
// dangling ids, negative weights, bad versions) fail with InvalidArgument;
// out-of-range coordinates fail with InvalidState.
func Parse(data []byte, opts ...Option) (*Registry, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.KindOf(err) != errors.KindInternal {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}

	if o.overrides != nil {
		ov, err := ParseOverrides(o.overrides)
		if err != nil {
			return nil, err
		}
		if err := ov.apply(&doc); err != nil {
			return nil, err
		}
	}

	return build(&doc)
}

func build(doc *document) (*Registry, error) {
	version, err := checkVersion(doc.Version)
	if err != nil {
		return nil, err
	}
	if err := checkAxes(doc.Axes); err != nil {
		return nil, err
	}

	r := &Registry{
		version:        version,
		stateIndex:     make(map[string]int),
		visualIndex:    make(map[string]int),
		taxonomies:     make(map[Category]*Taxonomy),
		attractorIndex: make(map[string]int),
		rhythmIndex:    make(map[string]int),
	}

	if err := r.buildStates(doc.CanonicalStates); err != nil {
		return nil, err
	}
	if err := r.buildTaxonomies(doc.Categories, doc.Defaults); err != nil {
		return nil, err
	}
	if err := r.linkVisualTypes(doc.CanonicalStates); err != nil {
		return nil, err
	}
	if _, ok := r.visualIndex[doc.Defaults.Style]; !ok {
		return nil, errors.NewInvalidArgument("default style %q is not a visual type", doc.Defaults.Style)
	}
	r.defaultStyle = doc.Defaults.Style

	if err := r.buildAttractors(doc.Attractors); err != nil {
		return nil, err
	}
	if err := r.buildRhythms(doc.Rhythms); err != nil {
		return nil, err
	}
	return r, nil
}

func checkVersion(v string) (*semver.Version, error) {
	if v == "" {
		return nil, errors.NewInvalidArgument("registry version is required")
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return nil, errors.NewInvalidArgument("invalid registry version %q: %v", v, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, errors.Wrap(err, "invalid supported version constraint")
	}
	if !constraint.Check(version) {
		return nil, errors.NewInvalidArgument("registry version %s is not in supported range %s", version, SupportedVersions)
	}
	return version, nil
}

// checkAxes requires the declared axis list to match the space's axis order.
func checkAxes(axes []string) error {
	want := space.AxisNames()
	if len(axes) != len(want) {
		return errors.NewInvalidArgument("registry declares %d axes, want %d", len(axes), len(want))
	}
	for i := range want {
		if axes[i] != want[i] {
			return errors.NewInvalidArgument("axis %d is %q, want %q", i, axes[i], want[i])
		}
	}
	return nil
}

func (r *Registry) buildStates(docs []stateDoc) error {
	if len(docs) == 0 {
		return errors.NewInvalidArgument("registry has no canonical states")
	}
	vocabs := make([]Vocabulary, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return errors.NewInvalidArgument("canonical state without id")
		}
		if _, dup := r.stateIndex[d.ID]; dup {
			return errors.NewInvalidArgument("duplicate canonical state %q", d.ID)
		}
		centroid, err := space.New(d.Centroid...)
		if err != nil {
			return errors.Wrapf(err, "canonical state %s", d.ID)
		}
		source := SourceInterpolated
		if d.Visual != nil {
			source = SourceVisualType
		}
		r.stateIndex[d.ID] = len(r.states)
		r.states = append(r.states, CanonicalState{
			ID:         d.ID,
			Name:       d.Name,
			Centroid:   centroid,
			Vocabulary: d.Vocabulary,
			Source:     source,
		})
		vocabs = append(vocabs, d.Vocabulary)
	}
	r.stateMatcher = NewMatcher(vocabs)
	return nil
}

func (r *Registry) buildTaxonomies(docs map[string]categoryDoc, defaults defaultsDoc) error {
	defaultFor := map[Category]string{
		CategoryHydrology: defaults.Hydrology,
		CategorySubstrate: defaults.Substrate,
	}
	for name := range docs {
		if !isEntryCategory(Category(name)) {
			return errors.NewInvalidArgument("unknown category %q", name)
		}
	}

	for _, c := range entryCategories {
		d, ok := docs[string(c)]
		if !ok {
			return errors.NewInvalidArgument("category %q is missing", c)
		}
		t, err := buildTaxonomy(c, d)
		if err != nil {
			return err
		}
		if def := defaultFor[c]; def != "" {
			if _, ok := t.index[def]; !ok {
				return errors.NewInvalidArgument("default %s %q is not registered", c, def)
			}
			t.Default = def
		} else {
			t.Default = t.entries[0].ID
		}
		r.taxonomies[c] = t
	}
	return nil
}

func isEntryCategory(c Category) bool {
	for _, ec := range entryCategories {
		if ec == c {
			return true
		}
	}
	return false
}

func buildTaxonomy(c Category, d categoryDoc) (*Taxonomy, error) {
	if len(d.Axes) == 0 {
		return nil, errors.NewInvalidArgument("category %s declares no axes", c)
	}
	if len(d.Entries) == 0 {
		return nil, errors.NewInvalidArgument("category %s has no entries", c)
	}
	t := &Taxonomy{
		Category: c,
		index:    make(map[string]int),
	}
	for _, name := range d.Axes {
		a, err := space.ParseAxis(name)
		if err != nil {
			return nil, errors.NewInvalidArgument("category %s: unknown axis %q", c, name)
		}
		t.Axes = append(t.Axes, a)
	}

	vocabs := make([]Vocabulary, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.ID == "" {
			return nil, errors.NewInvalidArgument("category %s: entry without id", c)
		}
		if _, dup := t.index[e.ID]; dup {
			return nil, errors.NewInvalidArgument("category %s: duplicate entry %q", c, e.ID)
		}
		if len(e.Anchor) != len(t.Axes) {
			return nil, errors.NewInvalidState("%s %s: anchor has %d values for %d axes", c, e.ID, len(e.Anchor), len(t.Axes))
		}
		for _, v := range e.Anchor {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return nil, errors.NewInvalidState("%s %s: anchor value %v outside [0, 1]", c, e.ID, v)
			}
		}
		entry := Entry{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Anchor:      e.Anchor,
			Vocabulary:  e.Vocabulary,
		}
		if e.Affinity != nil {
			rule, err := buildAffinity(c, e.ID, e.Affinity)
			if err != nil {
				return nil, err
			}
			entry.Affinity = rule
		} else if c == CategoryEdge {
			return nil, errors.NewInvalidArgument("edge mode %s has no affinity rule", e.ID)
		}
		t.index[e.ID] = len(t.entries)
		t.entries = append(t.entries, entry)
		vocabs = append(vocabs, e.Vocabulary)
	}
	t.matcher = NewMatcher(vocabs)
	return t, nil
}

func buildAffinity(c Category, id string, d *affinityDoc) (*AffinityRule, error) {
	if d.Base < 0 {
		return nil, errors.NewInvalidArgument("%s %s: negative affinity base", c, id)
	}
	rule := &AffinityRule{Base: d.Base}
	for _, term := range d.Terms {
		a, err := space.ParseAxis(term.Axis)
		if err != nil {
			return nil, errors.NewInvalidArgument("%s %s: unknown affinity axis %q", c, id, term.Axis)
		}
		if term.Weight < 0 {
			return nil, errors.NewInvalidArgument("%s %s: negative affinity weight", c, id)
		}
		rule.Terms = append(rule.Terms, AffinityTerm{Axis: a, Weight: term.Weight, Invert: term.Invert})
	}
	return rule, nil
}

func (r *Registry) linkVisualTypes(docs []stateDoc) error {
	hydro := r.taxonomies[CategoryHydrology]
	substrate := r.taxonomies[CategorySubstrate]
	contrast := r.taxonomies[CategoryContrast]

	var vocabs []Vocabulary
	for i, d := range docs {
		if d.Visual == nil {
			continue
		}
		v := d.Visual
		for _, ref := range []struct {
			t  *Taxonomy
			id string
		}{{hydro, v.Hydrology}, {substrate, v.Substrate}, {contrast, v.Contrast}} {
			if _, ok := ref.t.index[ref.id]; !ok {
				return errors.NewInvalidArgument("visual type %s: unknown %s %q", d.ID, ref.t.Category, ref.id)
			}
		}
		r.visualIndex[d.ID] = len(r.visualTypes)
		r.visualTypes = append(r.visualTypes, VisualType{
			CanonicalState: r.states[i],
			Description:    v.Description,
			Hydrology:      v.Hydrology,
			Substrate:      v.Substrate,
			Contrast:       v.Contrast,
			Optical:        v.Optical,
			Colors:         v.Colors,
		})
		vocabs = append(vocabs, d.Vocabulary)
	}
	if len(r.visualTypes) == 0 {
		return errors.NewInvalidArgument("registry has no visual types")
	}
	r.visualMatcher = NewMatcher(vocabs)
	return nil
}

func (r *Registry) buildAttractors(docs []attractorDoc) error {
	if len(docs) == 0 {
		return errors.NewInvalidArgument("registry has no attractor presets")
	}
	for _, d := range docs {
		if _, dup := r.attractorIndex[d.ID]; dup {
			return errors.NewInvalidArgument("duplicate attractor %q", d.ID)
		}
		state, err := space.New(d.State...)
		if err != nil {
			return errors.Wrapf(err, "attractor %s", d.ID)
		}
		if d.BasinRadius <= 0 {
			return errors.NewInvalidArgument("attractor %s: basin radius must be positive, got %v", d.ID, d.BasinRadius)
		}
		if !validMode(d.Mode) {
			return errors.NewInvalidArgument("attractor %s: unknown mode %q", d.ID, d.Mode)
		}
		r.attractorIndex[d.ID] = len(r.attractors)
		r.attractors = append(r.attractors, AttractorPreset{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			State:       state,
			BasinRadius: d.BasinRadius,
			Mode:        d.Mode,
		})
	}
	return nil
}

func (r *Registry) buildRhythms(docs []rhythmDoc) error {
	for _, p := range docs {
		if _, dup := r.rhythmIndex[p.ID]; dup {
			return errors.NewInvalidArgument("duplicate rhythmic preset %q", p.ID)
		}
		for _, end := range []string{p.A, p.B} {
			if _, ok := r.stateIndex[end]; !ok {
				return errors.NewInvalidArgument("rhythmic preset %s: unknown canonical state %q", p.ID, end)
			}
		}
		if p.Period < 2 {
			return errors.NewInvalidArgument("rhythmic preset %s: period must be >= 2, got %d", p.ID, p.Period)
		}
		r.rhythmIndex[p.ID] = len(r.rhythms)
		r.rhythms = append(r.rhythms, RhythmicPreset{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			A:           p.A,
			B:           p.B,
			Period:      p.Period,
			Phase:       p.Phase,
		})
	}
	return nil
}
