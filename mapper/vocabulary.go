package mapper

import (
	"sort"

	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
)

// Extraction defaults
const (
	DefaultTopN      = 5
	DefaultNeighbors = 3
	DefaultEpsilon   = 0.01
)

// Settings tunes vocabulary extraction. Zero fields take the defaults.
type Settings struct {
	TopN      int
	Neighbors int
	Epsilon   float64
}

func (s Settings) withDefaults() Settings {
	if s.TopN <= 0 {
		s.TopN = DefaultTopN
	}
	if s.Neighbors <= 0 {
		s.Neighbors = DefaultNeighbors
	}
	if s.Epsilon <= 0 {
		s.Epsilon = DefaultEpsilon
	}
	return s
}

// WeightedTerm is a blended keyword.
type WeightedTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// AnchorWeight is one anchor's share of a category blend.
type AnchorWeight struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`
	Weight   float64 `json:"weight"`
}

// CategoryVocabulary is the blended vocabulary of one category.
type CategoryVocabulary struct {
	Category registry.Category `json:"category"`
	Keywords []WeightedTerm    `json:"keywords"`
	Anchors  []AnchorWeight    `json:"anchors"`
}

// Terms returns the keyword terms in rank order.
func (c CategoryVocabulary) Terms() []string {
	out := make([]string, len(c.Keywords))
	for i, k := range c.Keywords {
		out[i] = k.Term
	}
	return out
}

// Vocabulary is a blended vocabulary per category, in category order.
type Vocabulary struct {
	Categories []CategoryVocabulary `json:"categories"`
}

// Category returns the blend for c.
func (v Vocabulary) Category(c registry.Category) (CategoryVocabulary, bool) {
	for _, cv := range v.Categories {
		if cv.Category == c {
			return cv, true
		}
	}
	return CategoryVocabulary{}, false
}

// Map returns category → ranked terms.
func (v Vocabulary) Map() map[string][]string {
	out := make(map[string][]string, len(v.Categories))
	for _, cv := range v.Categories {
		out[string(cv.Category)] = cv.Terms()
	}
	return out
}

// anchor is one blendable point: its id, its position on the category's
// axes and its vocabulary.
type anchor struct {
	id    string
	point []float64
	vocab registry.Vocabulary
}

// ExtractVocabulary blends, for every category, the vocabularies of the
// anchors nearest coords with inverse-distance weights 1/(ε+d), and returns
// the topN strongest keywords per category. topN <= 0 uses the configured
// default. Keywords with no positive weight are never returned.
func (m *Mapper) ExtractVocabulary(coords space.State, topN int) Vocabulary {
	if topN <= 0 {
		topN = m.settings.TopN
	}
	out := Vocabulary{Categories: make([]CategoryVocabulary, 0, len(registry.Categories()))}
	for _, c := range registry.Categories() {
		out.Categories = append(out.Categories, m.blend(c, coords, topN))
	}
	return out
}

func (m *Mapper) anchors(c registry.Category) ([]anchor, []space.Axis) {
	if c == registry.CategoryStyle {
		anchors := make([]anchor, m.reg.StateCount())
		for i := range anchors {
			st := m.reg.StateAt(i)
			anchors[i] = anchor{id: st.ID, point: st.Centroid[:], vocab: st.Vocabulary}
		}
		return anchors, space.Axes()
	}
	t := m.reg.MustTaxonomy(c)
	anchors := make([]anchor, t.Len())
	for i := range anchors {
		e := t.At(i)
		anchors[i] = anchor{id: e.ID, point: e.Anchor, vocab: e.Vocabulary}
	}
	return anchors, t.Axes
}

func (m *Mapper) blend(c registry.Category, coords space.State, topN int) CategoryVocabulary {
	anchors, axes := m.anchors(c)
	at := coords.Project(axes)

	type ranked struct {
		idx  int
		dist float64
	}
	order := make([]ranked, len(anchors))
	for i, a := range anchors {
		order[i] = ranked{idx: i, dist: space.PointDistance(at, a.point)}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].dist < order[j].dist })

	k := m.settings.Neighbors
	if k > len(order) {
		k = len(order)
	}
	order = order[:k]

	var total float64
	raw := make([]float64, k)
	for i, r := range order {
		raw[i] = 1 / (m.settings.Epsilon + r.dist)
		total += raw[i]
	}

	cv := CategoryVocabulary{Category: c, Anchors: make([]AnchorWeight, k)}
	scores := make(map[string]float64)
	var terms []string
	for i, r := range order {
		w := raw[i] / total
		a := anchors[r.idx]
		cv.Anchors[i] = AnchorWeight{ID: a.id, Distance: r.dist, Weight: w}
		for _, kw := range a.vocab {
			if _, ok := scores[kw.Term]; !ok {
				terms = append(terms, kw.Term)
			}
			scores[kw.Term] += w * kw.Weight
		}
	}

	for _, term := range terms {
		if s := scores[term]; s > 0 {
			cv.Keywords = append(cv.Keywords, WeightedTerm{Term: term, Weight: s})
		}
	}
	sort.SliceStable(cv.Keywords, func(i, j int) bool { return cv.Keywords[i].Weight > cv.Keywords[j].Weight })
	if len(cv.Keywords) > topN {
		cv.Keywords = cv.Keywords[:topN]
	}
	return cv
}
