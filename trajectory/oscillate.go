package trajectory

import (
	"math"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/space"
)

// Pattern shapes the easing of an oscillation.
type Pattern string

const (
	Sinusoidal Pattern = "sinusoidal"
	Triangle   Pattern = "triangle"
	Sawtooth   Pattern = "sawtooth"
)

// Oscillation describes a repeated sweep between two states. Phase is a
// fraction of one cycle.
type Oscillation struct {
	Period  int     `json:"period"`
	Cycles  int     `json:"cycles"`
	Pattern Pattern `json:"pattern"`
	Phase   float64 `json:"phase"`
}

// Step is one annotated state of a sequence.
type Step struct {
	Index        int         `json:"step"`
	T            float64     `json:"t"`
	State        space.State `json:"state"`
	NearestType  string      `json:"nearest_type,omitempty"`
	TypeDistance float64     `json:"type_distance,omitempty"`
}

// Position maps step i to the interpolation parameter t in [0, 1].
func (o Oscillation) Position(i int) float64 {
	pos := float64(i)/float64(o.Period) + o.Phase
	pos -= math.Floor(pos)
	switch o.Pattern {
	case Triangle:
		if pos < 0.5 {
			return 2 * pos
		}
		return 2 * (1 - pos)
	case Sawtooth:
		return pos
	default:
		return (1 + math.Sin(2*math.Pi*pos)) / 2
	}
}

// Validate checks the oscillation's parameters against MaxSteps.
func (o Oscillation) Validate() error {
	return o.ValidateWithin(MaxSteps)
}

// ValidateWithin checks the oscillation's parameters, allowing at most
// limit steps in total.
func (o Oscillation) ValidateWithin(limit int) error {
	if err := CheckSteps("period", o.Period, limit); err != nil {
		return err
	}
	if o.Cycles < 1 {
		return errors.NewInvalidArgument("cycles must be >= 1, got %d", o.Cycles)
	}
	// Period*Cycles > limit, without the multiplication
	if o.Cycles > limit/o.Period {
		return errors.NewInvalidArgument("period %d x cycles %d exceeds %d steps", o.Period, o.Cycles, limit)
	}
	switch o.Pattern {
	case Sinusoidal, Triangle, Sawtooth:
	default:
		return errors.NewInvalidArgument("pattern %q: want sinusoidal, triangle or sawtooth", o.Pattern)
	}
	if math.IsNaN(o.Phase) || math.IsInf(o.Phase, 0) {
		return errors.NewInvalidArgument("phase must be finite, got %v", o.Phase)
	}
	return nil
}

// Oscillate returns Period·Cycles steps sweeping between a and b, at most
// MaxSteps.
func Oscillate(a, b space.State, o Oscillation) ([]Step, error) {
	return OscillateWithin(a, b, o, MaxSteps)
}

// OscillateWithin is Oscillate with a tighter step limit. limit above
// MaxSteps is lowered to MaxSteps.
func OscillateWithin(a, b space.State, o Oscillation, limit int) ([]Step, error) {
	if o.Pattern == "" {
		o.Pattern = Sinusoidal
	}
	if limit > MaxSteps {
		limit = MaxSteps
	}
	if err := o.ValidateWithin(limit); err != nil {
		return nil, err
	}
	out := make([]Step, o.Period*o.Cycles)
	for i := range out {
		t := o.Position(i)
		out[i] = Step{Index: i, T: t, State: space.Interpolate(a, b, t)}
	}
	return out, nil
}

// TrajectorySteps is Trajectory with each state's index and t.
func TrajectorySteps(a, b space.State, steps int) ([]Step, error) {
	states, err := Trajectory(a, b, steps)
	if err != nil {
		return nil, err
	}
	out := make([]Step, len(states))
	last := float64(steps - 1)
	for i, s := range states {
		out[i] = Step{Index: i, T: float64(i) / last, State: s}
	}
	return out, nil
}

// RhythmicSteps is RhythmicSequence with each state's index and t.
func RhythmicSteps(a, b space.State, period int, phase float64) ([]Step, error) {
	states, err := RhythmicSequence(a, b, period, phase)
	if err != nil {
		return nil, err
	}
	out := make([]Step, len(states))
	for i, s := range states {
		out[i] = Step{Index: i, T: RhythmicT(i, period, phase), State: s}
	}
	return out, nil
}
