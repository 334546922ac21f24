// Package roundtrip checks that decomposition inverts the vocabulary of
// every visual type: each type's own keywords, fed back as text, must land
// on that type's centroid.
package roundtrip

import (
	"strings"

	"github.com/teranos/watercolor/decompose"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
)

// Acceptance thresholds
const (
	MeanErrorTarget = 0.01
	TypeErrorTarget = 0.02
)

// TypeResult is the round trip of one visual type.
type TypeResult struct {
	ID          string      `json:"id"`
	Centroid    space.State `json:"centroid"`
	Recovered   space.State `json:"recovered"`
	NearestType string      `json:"nearest_type"`
	Confidence  float64     `json:"confidence"`
	Error       float64     `json:"error"`
	Recovers    bool        `json:"recovers"`
}

// Report aggregates a validation run.
type Report struct {
	Accuracy     float64            `json:"accuracy"`
	MeanError    float64            `json:"mean_error"`
	MaxError     float64            `json:"max_error"`
	PerTypeError map[string]float64 `json:"per_type_error"`
	Types        []TypeResult       `json:"types"`
}

// Passed reports whether every type was recovered within the thresholds.
func (r Report) Passed() bool {
	return r.Accuracy == 1 && r.MeanError < MeanErrorTarget && r.MaxError < TypeErrorTarget
}

// Validator runs round trips against a registry.
type Validator struct {
	reg *registry.Registry
	dec *decompose.Decomposer
}

// New returns a validator over reg.
func New(reg *registry.Registry) *Validator {
	return &Validator{reg: reg, dec: decompose.New(reg)}
}

// Text is the query a type's vocabulary encodes to: its keywords in
// registry order.
func Text(vt registry.VisualType) string {
	return strings.Join(vt.Vocabulary.Terms(), " ")
}

// Validate decomposes every visual type's vocabulary and compares the
// recovered coordinates with its centroid.
func (v *Validator) Validate() Report {
	n := v.reg.VisualTypeCount()
	rep := Report{
		PerTypeError: make(map[string]float64, n),
		Types:        make([]TypeResult, n),
	}
	if n == 0 {
		return rep
	}

	var hits int
	var total float64
	for i := 0; i < n; i++ {
		vt := v.reg.VisualTypeAt(i)
		res := v.dec.Decompose(Text(vt))
		d := space.Distance(res.Coordinates, vt.Centroid)

		tr := TypeResult{
			ID:          vt.ID,
			Centroid:    vt.Centroid,
			Recovered:   res.Coordinates,
			NearestType: res.NearestType,
			Confidence:  res.Confidence,
			Error:       d,
			Recovers:    res.NearestType == vt.ID,
		}
		if tr.Recovers {
			hits++
		}
		total += d
		if d > rep.MaxError {
			rep.MaxError = d
		}
		rep.PerTypeError[vt.ID] = d
		rep.Types[i] = tr
	}
	rep.Accuracy = float64(hits) / float64(n)
	rep.MeanError = total / float64(n)
	return rep
}
