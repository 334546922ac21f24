// Package decompose maps free text to coordinates in the parameter space.
//
// Every canonical state is scored with the keyword matcher; the coordinates
// are the score-weighted mean of the matched centroids. A convex
// combination of points in the unit hypercube stays inside it, so the
// result is always a valid state.
package decompose

import (
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
)

// Component is one canonical state's share of a decomposition.
type Component struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"`
	Weight  float64  `json:"weight"`
	Matched []string `json:"matched"`
}

// Result is a decomposition.
type Result struct {
	Coordinates space.State `json:"coordinates"`
	NearestType string      `json:"nearest_type"`
	Distance    float64     `json:"distance"`
	Confidence  float64     `json:"confidence"`
	Components  []Component `json:"components,omitempty"`
}

// Decomposer decomposes text against a registry.
type Decomposer struct {
	reg *registry.Registry
}

// New returns a decomposer over reg.
func New(reg *registry.Registry) *Decomposer {
	return &Decomposer{reg: reg}
}

// Decompose returns the coordinates text describes. Text that matches no
// canonical state yields the default style's centroid at zero confidence.
func (d *Decomposer) Decompose(text string) Result {
	scores := d.reg.StateMatcher().Score(text)
	total := scores.Total()
	if total == 0 {
		def, _ := d.reg.State(d.reg.DefaultStyle())
		return Result{
			Coordinates: def.Centroid,
			NearestType: def.ID,
		}
	}

	var coords space.State
	var components []Component
	for _, i := range scores.Ranked() {
		score := scores.Values[i]
		if score == 0 {
			break
		}
		w := score / total
		st := d.reg.StateAt(i)
		for a := range coords {
			coords[a] += w * st.Centroid[a]
		}
		components = append(components, Component{
			ID:      st.ID,
			Score:   score,
			Weight:  w,
			Matched: scores.Matched[i],
		})
	}
	// rounding in the weighted sum can overshoot an edge by an ulp
	coords = coords.Clamped()

	nearest, dist := d.reg.NearestState(coords)
	return Result{
		Coordinates: coords,
		NearestType: nearest.ID,
		Distance:    dist,
		Confidence:  space.Clamp(1 - dist/space.MaxDistance),
		Components:  components,
	}
}
