package dissolution

import (
	"time"

	"github.com/teranos/watercolor/attractor"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/space"
	"github.com/teranos/watercolor/trajectory"
)

// Resolve returns the state named by a canonical state or attractor preset
// id.
func (e *Engine) Resolve(id string) (space.State, error) {
	return e.reg.Resolve(id)
}

// DistanceReport compares two named states.
type DistanceReport struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	FromState  space.State       `json:"from_state"`
	ToState    space.State       `json:"to_state"`
	Distance   float64           `json:"distance"`
	Normalized float64           `json:"normalized"`
	Deltas     []space.AxisDelta `json:"per_axis_difference"`
	Dominant   string            `json:"dominant_axis"`
}

// DistanceByID compares two named states axis by axis.
func (e *Engine) DistanceByID(from, to string) (rep DistanceReport, err error) {
	defer func(start time.Time) {
		e.done("distance_by_id", start, err, logger.FieldDistance, rep.Distance)
	}(time.Now())
	a, b, err := e.resolvePair(from, to)
	if err != nil {
		return DistanceReport{}, err
	}
	d := space.Distance(a, b)
	return DistanceReport{
		From:       from,
		To:         to,
		FromState:  a,
		ToState:    b,
		Distance:   d,
		Normalized: d / space.MaxDistance,
		Deltas:     space.SortedByDelta(space.Diff(a, b)),
		Dominant:   space.DominantAxis(a, b).String(),
	}, nil
}

// Path is an annotated sequence between two named states.
type Path struct {
	From          string            `json:"from"`
	To            string            `json:"to"`
	TotalDistance float64           `json:"total_distance"`
	Steps         []trajectory.Step `json:"steps"`
}

// TrajectoryByID walks steps states between two named states, annotating
// each with its nearest visual type.
func (e *Engine) TrajectoryByID(from, to string, steps int) (p Path, err error) {
	defer func(start time.Time) {
		e.done("trajectory_by_id", start, err, logger.FieldSteps, steps)
	}(time.Now())
	a, b, err := e.resolvePair(from, to)
	if err != nil {
		return Path{}, err
	}
	if err := trajectory.CheckSteps("steps", steps, e.maxSteps); err != nil {
		return Path{}, err
	}
	out, err := trajectory.TrajectorySteps(a, b, steps)
	if err != nil {
		return Path{}, err
	}
	return e.path(from, to, a, b, out), nil
}

// Oscillate sweeps between two named states with the given pattern.
func (e *Engine) Oscillate(from, to string, o trajectory.Oscillation) (p Path, err error) {
	defer func(start time.Time) {
		e.done("oscillate", start, err, logger.FieldSteps, len(p.Steps))
	}(time.Now())
	a, b, err := e.resolvePair(from, to)
	if err != nil {
		return Path{}, err
	}
	out, err := trajectory.OscillateWithin(a, b, o, e.maxSteps)
	if err != nil {
		return Path{}, err
	}
	return e.path(from, to, a, b, out), nil
}

// RhythmicByID is RhythmicSequence between two named states with each state
// annotated. phase is a fraction of one cycle.
func (e *Engine) RhythmicByID(from, to string, period int, phase float64) (p Path, err error) {
	defer func(start time.Time) {
		e.done("rhythmic_by_id", start, err, logger.FieldSteps, period)
	}(time.Now())
	a, b, err := e.resolvePair(from, to)
	if err != nil {
		return Path{}, err
	}
	if err := trajectory.CheckSteps("period", period, e.maxSteps); err != nil {
		return Path{}, err
	}
	out, err := trajectory.RhythmicSteps(a, b, period, trajectory.CyclesToRadians(phase))
	if err != nil {
		return Path{}, err
	}
	return e.path(from, to, a, b, out), nil
}

// PresetKeyframes renders a rhythmic preset as count keyframe prompts.
func (e *Engine) PresetKeyframes(name string, count int, modifier string) (pk attractor.PresetKeyframes, err error) {
	defer func(start time.Time) {
		e.done("preset_keyframes", start, err, logger.FieldPreset, name, logger.FieldCount, len(pk.Keyframes))
	}(time.Now())
	if count > 0 {
		if err := trajectory.CheckSteps("count", count, e.maxSteps); err != nil {
			return attractor.PresetKeyframes{}, err
		}
	}
	return e.attractor.PresetKeyframes(name, count, modifier)
}

func (e *Engine) resolvePair(from, to string) (space.State, space.State, error) {
	a, err := e.reg.Resolve(from)
	if err != nil {
		return space.State{}, space.State{}, err
	}
	b, err := e.reg.Resolve(to)
	if err != nil {
		return space.State{}, space.State{}, err
	}
	return a, b, nil
}

func (e *Engine) path(from, to string, a, b space.State, steps []trajectory.Step) Path {
	for i := range steps {
		vt, d := e.reg.NearestVisualType(steps[i].State)
		steps[i].NearestType = vt.ID
		steps[i].TypeDistance = d
	}
	return Path{From: from, To: to, TotalDistance: space.Distance(a, b), Steps: steps}
}
