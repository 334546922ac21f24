// Package trajectory generates ordered state sequences: linear paths,
// sinusoidal rhythms and patterned oscillations between two states.
//
// Every sequence is a plain slice, so it is finite and can be walked any
// number of times.
package trajectory

import (
	"math"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
)

// MaxSteps caps the length of any generated sequence.
const MaxSteps = 100_000

// CheckSteps rejects a sequence length outside [2, limit].
func CheckSteps(name string, n, limit int) error {
	if n < 2 {
		return errors.NewInvalidArgument("%s must be >= 2, got %d", name, n)
	}
	if n > limit {
		return errors.NewInvalidArgument("%s must be <= %d, got %d", name, limit, n)
	}
	return nil
}

// Trajectory returns steps states evenly spaced from a to b. The first and
// last states are a and b exactly.
func Trajectory(a, b space.State, steps int) ([]space.State, error) {
	if err := CheckSteps("steps", steps, MaxSteps); err != nil {
		return nil, err
	}
	out := make([]space.State, steps)
	last := float64(steps - 1)
	for i := range out {
		out[i] = space.Interpolate(a, b, float64(i)/last)
	}
	return out, nil
}

// RhythmicT is the sinusoidal easing (1 + sin(2πi/period + phase)) / 2.
// phase is in radians.
func RhythmicT(i, period int, phase float64) float64 {
	return (1 + math.Sin(2*math.Pi*float64(i)/float64(period)+phase)) / 2
}

// RhythmicSequence returns period states oscillating between a and b with
// sinusoidal easing, so motion slows near each endpoint. phase is in
// radians.
func RhythmicSequence(a, b space.State, period int, phase float64) ([]space.State, error) {
	if err := CheckSteps("period", period, MaxSteps); err != nil {
		return nil, err
	}
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return nil, errors.NewInvalidArgument("phase must be finite, got %v", phase)
	}
	out := make([]space.State, period)
	for i := range out {
		out[i] = space.Interpolate(a, b, RhythmicT(i, period, phase))
	}
	return out, nil
}

// CyclesToRadians converts a phase given as a fraction of a cycle.
func CyclesToRadians(cycles float64) float64 {
	return cycles * 2 * math.Pi
}

// PresetSequence is an applied rhythmic preset.
type PresetSequence struct {
	Preset registry.RhythmicPreset `json:"preset"`
	A      space.State             `json:"state_a"`
	B      space.State             `json:"state_b"`
	States []space.State           `json:"states"`
}

// Engine resolves rhythmic presets against a registry.
type Engine struct {
	reg *registry.Registry
}

// NewEngine returns an engine over reg.
func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// ApplyPreset runs the named rhythmic preset: its endpoints, period and
// phase go to RhythmicSequence.
func (e *Engine) ApplyPreset(name string) (PresetSequence, error) {
	p, err := e.reg.Rhythm(name)
	if err != nil {
		return PresetSequence{}, err
	}
	a, err := e.reg.State(p.A)
	if err != nil {
		return PresetSequence{}, err
	}
	b, err := e.reg.State(p.B)
	if err != nil {
		return PresetSequence{}, err
	}
	states, err := RhythmicSequence(a.Centroid, b.Centroid, p.Period, CyclesToRadians(p.Phase))
	if err != nil {
		return PresetSequence{}, errors.Wrapf(err, "preset %s", name)
	}
	return PresetSequence{Preset: p, A: a.Centroid, B: b.Centroid, States: states}, nil
}
