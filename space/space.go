// Package space defines the five-axis dissolution parameter space: the
// State value type, axis naming, validation, distance and interpolation.
package space

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/teranos/watercolor/errors"
)

// Axis indexes one dimension of a State.
type Axis int

const (
	DissolutionRate Axis = iota
	EdgeCoherence
	SubstrateVisibility
	PigmentHydrology
	AnchorDensity
)

// Dims is the dimensionality of the parameter space.
const Dims = 5

// MaxDistance is the largest Euclidean distance inside the unit hypercube.
var MaxDistance = math.Sqrt(Dims)

var axisNames = [Dims]string{
	"dissolution_rate",
	"edge_coherence",
	"substrate_visibility",
	"pigment_hydrology",
	"anchor_density",
}

// Axes returns every axis in canonical order.
func Axes() []Axis {
	return []Axis{DissolutionRate, EdgeCoherence, SubstrateVisibility, PigmentHydrology, AnchorDensity}
}

// AxisNames returns the axis names in canonical order.
func AxisNames() []string {
	out := make([]string, Dims)
	copy(out, axisNames[:])
	return out
}

// String returns the axis name, e.g. "edge_coherence".
func (a Axis) String() string {
	if a < 0 || int(a) >= Dims {
		return "unknown"
	}
	return axisNames[a]
}

// ParseAxis resolves an axis name.
func ParseAxis(name string) (Axis, error) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return 0, errors.NewUnknownIdentifier("axis", name, axisNames[:])
}

// State is a point in the parameter space. The zero value is the origin.
// States are values; every operation returns a new one.
type State [Dims]float64

// New builds a validated State from exactly five axis values.
func New(values ...float64) (State, error) {
	if len(values) != Dims {
		return State{}, errors.NewInvalidState("expected %d axis values, got %d", Dims, len(values))
	}
	var s State
	copy(s[:], values)
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// MustNew is New for literals known to be valid. It panics otherwise.
func MustNew(values ...float64) State {
	s, err := New(values...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromMap builds a validated State from axis-name keys. All five axes are
// required and unknown keys are rejected.
func FromMap(m map[string]float64) (State, error) {
	if len(m) != Dims {
		return State{}, errors.NewInvalidState("expected %d axes, got %d", Dims, len(m))
	}
	var s State
	for name, v := range m {
		a, err := ParseAxis(name)
		if err != nil {
			return State{}, errors.Wrap(errors.ErrInvalidState, err.Error())
		}
		s[a] = v
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Validate fails with InvalidState when any axis is NaN or outside [0, 1].
func (s State) Validate() error {
	for i, v := range s {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return errors.NewInvalidState("%s = %v outside [0, 1]", axisNames[i], v)
		}
	}
	return nil
}

// Get returns the value on one axis.
func (s State) Get(a Axis) float64 {
	return s[a]
}

// Map returns the state keyed by axis name.
func (s State) Map() map[string]float64 {
	m := make(map[string]float64, Dims)
	for i, v := range s {
		m[axisNames[i]] = v
	}
	return m
}

// Project returns the values of s on the given axes, in order.
func (s State) Project(axes []Axis) []float64 {
	out := make([]float64, len(axes))
	for i, a := range axes {
		out[i] = s[a]
	}
	return out
}

// MarshalJSON encodes the state as an object keyed by axis name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON accepts either an axis-name object or a five-element array.
func (s *State) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err == nil {
		st, err := FromMap(m)
		if err != nil {
			return err
		}
		*s = st
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return errors.NewInvalidState("state must be an axis object or a %d-element array", Dims)
	}
	st, err := New(arr...)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b State) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// DistanceOn is the Euclidean distance between a and b restricted to axes.
func DistanceOn(a, b State, axes []Axis) float64 {
	var sum float64
	for _, ax := range axes {
		d := a[ax] - b[ax]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// PointDistance is the Euclidean distance between two equal-length vectors.
func PointDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Interpolate returns (1-t)·a + t·b on every axis. t is clamped to [0, 1]
// and each axis is bounded between the two endpoints, so t=0 and t=1
// reproduce a and b exactly.
func Interpolate(a, b State, t float64) State {
	t = Clamp(t)
	var out State
	for i := range a {
		v := (1-t)*a[i] + t*b[i]
		lo, hi := a[i], b[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		out[i] = math.Min(math.Max(v, lo), hi)
	}
	return out
}

// Clamp bounds v to [0, 1]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Clamped returns s with every axis bounded to [0, 1]. Only derived states
// use it; caller input is validated, never clamped.
func (s State) Clamped() State {
	for i := range s {
		s[i] = Clamp(s[i])
	}
	return s
}

// AxisDelta is the signed change b-a on one axis.
type AxisDelta struct {
	Axis  string  `json:"axis"`
	Delta float64 `json:"delta"`
}

// Diff returns the per-axis change from a to b, in axis order.
func Diff(a, b State) []AxisDelta {
	out := make([]AxisDelta, Dims)
	for i := range a {
		out[i] = AxisDelta{Axis: axisNames[i], Delta: b[i] - a[i]}
	}
	return out
}

// DominantAxis returns the axis with the largest absolute change from a to b.
// Ties go to the earlier axis.
func DominantAxis(a, b State) Axis {
	best, bestAbs := DissolutionRate, -1.0
	for i := range a {
		if d := math.Abs(b[i] - a[i]); d > bestAbs {
			best, bestAbs = Axis(i), d
		}
	}
	return best
}

// SortedByDelta returns the deltas ordered by descending magnitude.
func SortedByDelta(deltas []AxisDelta) []AxisDelta {
	out := append([]AxisDelta(nil), deltas...)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Delta) > math.Abs(out[j].Delta)
	})
	return out
}
