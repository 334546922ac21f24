// Package attractor assembles prompt bases from the attractor presets whose
// basins contain a state.
//
// A state inside one basin yields that preset's vocabulary (composite).
// Inside several, the presets' vocabularies are merged with inverse-distance
// weights (split). A sequence request instead walks a trajectory between the
// two strongest presets. The active set is never empty: a state outside
// every basin is attracted to its nearest preset.
package attractor

import (
	"sort"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
	"github.com/teranos/watercolor/trajectory"
)

// Modes. ModeAuto picks composite or split from the size of the active set.
const (
	ModeAuto      = "auto"
	ModeComposite = registry.ModeComposite
	ModeSplit     = registry.ModeSplit
	ModeSequence  = registry.ModeSequence
)

// Engine defaults
const (
	DefaultKeyframes = 4
	DefaultEpsilon   = 0.01
)

// Settings tunes the engine. Zero fields take the defaults.
type Settings struct {
	Keyframes int
	Epsilon   float64
}

// Request is one prompt-assembly call.
type Request struct {
	State    space.State
	Mode     string
	Modifier string
}

// Active is a preset whose basin attracts the request state.
type Active struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Distance    float64 `json:"distance"`
	BasinRadius float64 `json:"basin_radius"`
	Weight      float64 `json:"weight"`
	Forced      bool    `json:"forced,omitempty"`
}

// Contribution is one preset's weighted share of a split basis.
type Contribution struct {
	Preset     string            `json:"preset"`
	Weight     float64           `json:"weight"`
	Vocabulary mapper.Vocabulary `json:"vocabulary"`
}

// Keyframe is one annotated state of a sequence.
type Keyframe struct {
	Index       int         `json:"keyframe"`
	T           float64     `json:"t"`
	State       space.State `json:"state"`
	NearestType string      `json:"nearest_type"`
	Prompt      string      `json:"prompt"`
}

// Result is an assembled prompt basis.
type Result struct {
	Mode            string             `json:"mode"`
	State           space.State        `json:"state"`
	NearestType     string             `json:"nearest_type"`
	NearestDistance float64            `json:"nearest_distance"`
	Prompt          string             `json:"prompt"`
	Active          []Active           `json:"active"`
	Basis           *mapper.Vocabulary `json:"basis,omitempty"`
	Contributions   []Contribution     `json:"contributions,omitempty"`
	From            string             `json:"from,omitempty"`
	To              string             `json:"to,omitempty"`
	Keyframes       []Keyframe         `json:"keyframes,omitempty"`
}

// Engine assembles attractor prompts against a registry.
type Engine struct {
	reg      *registry.Registry
	mapper   *mapper.Mapper
	settings Settings
}

// New returns an engine over reg, extracting vocabularies with m.
func New(reg *registry.Registry, m *mapper.Mapper, settings Settings) *Engine {
	if settings.Keyframes <= 0 {
		settings.Keyframes = DefaultKeyframes
	}
	if settings.Epsilon <= 0 {
		settings.Epsilon = DefaultEpsilon
	}
	return &Engine{reg: reg, mapper: m, settings: settings}
}

// Prompt assembles the prompt basis for req. The state must be valid and
// the mode one of "", auto, composite, split or sequence.
func (e *Engine) Prompt(req Request) (Result, error) {
	if err := req.State.Validate(); err != nil {
		return Result{}, err
	}
	mode := req.Mode
	switch mode {
	case "", ModeAuto:
		mode = ModeAuto
	case ModeComposite, ModeSplit, ModeSequence:
	default:
		return Result{}, errors.NewInvalidArgument("mode %q: want auto, composite, split or sequence", req.Mode)
	}

	active := e.ActiveSet(req.State)
	nearest, dist := e.reg.NearestVisualType(req.State)
	res := Result{
		State:           req.State,
		NearestType:     nearest.ID,
		NearestDistance: dist,
		Prompt:          BasePrompt(nearest, req.State, req.Modifier),
		Active:          active,
	}

	if mode == ModeAuto {
		mode = ModeComposite
		if len(active) > 1 {
			mode = ModeSplit
		}
	}
	res.Mode = mode

	switch mode {
	case ModeComposite:
		basis := e.mapper.ExtractVocabulary(e.preset(active[0].ID).State, 0)
		res.Basis = &basis
	case ModeSplit:
		res.Contributions = make([]Contribution, len(active))
		for i, a := range active {
			res.Contributions[i] = Contribution{
				Preset:     a.ID,
				Weight:     a.Weight,
				Vocabulary: e.mapper.ExtractVocabulary(e.preset(a.ID).State, 0),
			}
		}
		basis := merge(res.Contributions, e.mapper.Settings().TopN)
		res.Basis = &basis
	case ModeSequence:
		from := e.preset(active[0].ID)
		to := e.secondPreset(req.State, active)
		frames, err := e.keyframes(from.State, to.State)
		if err != nil {
			return Result{}, err
		}
		res.From, res.To, res.Keyframes = from.ID, to.ID, frames
	}
	return res, nil
}

// ActiveSet returns the presets whose basin contains s, weighted by
// normalized inverse distance and ordered by descending weight. When no
// basin contains s the nearest preset is returned alone with weight 1.
func (e *Engine) ActiveSet(s space.State) []Active {
	var active []Active
	nearest := -1
	var nearestDist float64
	for i := 0; i < e.reg.AttractorCount(); i++ {
		p := e.reg.AttractorAt(i)
		d := space.Distance(s, p.State)
		if nearest < 0 || d < nearestDist {
			nearest, nearestDist = i, d
		}
		if d <= p.BasinRadius {
			active = append(active, Active{ID: p.ID, Name: p.Name, Distance: d, BasinRadius: p.BasinRadius})
		}
	}
	if len(active) == 0 {
		p := e.reg.AttractorAt(nearest)
		return []Active{{ID: p.ID, Name: p.Name, Distance: nearestDist, BasinRadius: p.BasinRadius, Weight: 1, Forced: true}}
	}

	var total float64
	for i := range active {
		active[i].Weight = 1 / (e.settings.Epsilon + active[i].Distance)
		total += active[i].Weight
	}
	for i := range active {
		active[i].Weight /= total
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Weight > active[j].Weight })
	return active
}

func (e *Engine) preset(id string) registry.AttractorPreset {
	p, err := e.reg.Attractor(id)
	if err != nil {
		panic(err)
	}
	return p
}

// secondPreset is the runner-up of the active set, or the nearest other
// preset overall when only one is active.
func (e *Engine) secondPreset(s space.State, active []Active) registry.AttractorPreset {
	if len(active) > 1 {
		return e.preset(active[1].ID)
	}
	best := -1
	var bestDist float64
	for i := 0; i < e.reg.AttractorCount(); i++ {
		p := e.reg.AttractorAt(i)
		if p.ID == active[0].ID {
			continue
		}
		if d := space.Distance(s, p.State); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return e.reg.AttractorAt(best)
}

func (e *Engine) keyframes(a, b space.State) ([]Keyframe, error) {
	steps, err := trajectory.TrajectorySteps(a, b, e.settings.Keyframes)
	if err != nil {
		return nil, err
	}
	out := make([]Keyframe, len(steps))
	for i, st := range steps {
		vt, _ := e.reg.NearestVisualType(st.State)
		out[i] = Keyframe{
			Index:       i + 1,
			T:           st.T,
			State:       st.State,
			NearestType: vt.ID,
			Prompt:      fragment(i+1, vt),
		}
	}
	return out, nil
}

// merge sums each contribution's keyword weights scaled by the preset
// weight, per category, keeping the topN strongest.
func merge(parts []Contribution, topN int) mapper.Vocabulary {
	var out mapper.Vocabulary
	for _, c := range registry.Categories() {
		cv := mapper.CategoryVocabulary{Category: c}
		scores := make(map[string]float64)
		var terms []string
		for _, p := range parts {
			pv, ok := p.Vocabulary.Category(c)
			if !ok {
				continue
			}
			for _, kw := range pv.Keywords {
				if _, seen := scores[kw.Term]; !seen {
					terms = append(terms, kw.Term)
				}
				scores[kw.Term] += p.Weight * kw.Weight
			}
		}
		for _, t := range terms {
			if s := scores[t]; s > 0 {
				cv.Keywords = append(cv.Keywords, mapper.WeightedTerm{Term: t, Weight: s})
			}
		}
		sort.SliceStable(cv.Keywords, func(i, j int) bool { return cv.Keywords[i].Weight > cv.Keywords[j].Weight })
		if len(cv.Keywords) > topN {
			cv.Keywords = cv.Keywords[:topN]
		}
		out.Categories = append(out.Categories, cv)
	}
	return out
}
