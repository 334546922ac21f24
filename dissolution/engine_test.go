package dissolution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/watercolor/attractor"
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
	"github.com/teranos/watercolor/trajectory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newObserved(t *testing.T) (*Engine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(registry.Default(), Options{Logger: zap.New(core).Sugar()})
	return e, logs
}

func mustResolve(t *testing.T, e *Engine, id string) space.State {
	t.Helper()
	s, err := e.Resolve(id)
	require.NoError(t, err)
	return s
}

func TestClassify(t *testing.T) {
	e, logs := newObserved(t)

	res, err := e.Classify("loose painterly watercolor with blooming wet effects", "")
	require.NoError(t, err)
	assert.Equal(t, "full_dissolution", res.Style.ID)
	assert.Equal(t, 1.0, res.Style.Confidence)
	assert.Equal(t, "flooding", res.Hydrology.ID)
	assert.Equal(t, 1.0, res.Hydrology.Confidence)

	entries := logs.FilterMessage("classify").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap(), logger.FieldDurationMS)
}

func TestClassifyEmpty(t *testing.T) {
	e, _ := newObserved(t)

	res, err := e.Classify("", "")
	require.NoError(t, err)
	assert.Equal(t, "contested_boundary", res.Style.ID)
	assert.Zero(t, res.Style.Confidence)
	assert.Equal(t, "controlled_wash", res.Hydrology.ID)
	assert.Zero(t, res.Hydrology.Confidence)
	assert.Equal(t, "cold_press", res.Substrate.ID)
	assert.Zero(t, res.Substrate.Confidence)
}

func TestFailuresLogKind(t *testing.T) {
	e, logs := newObserved(t)

	_, err := e.Classify("wet", "edge")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	entries := logs.FilterMessage("operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "classify", fields[logger.FieldOperation])
	assert.Equal(t, string(errors.KindInvalidArgument), fields[logger.FieldErrorKind])
}

func TestDecompose(t *testing.T) {
	e, logs := newObserved(t)

	res := e.Decompose("")
	assert.Equal(t, "contested_boundary", res.NearestType)
	assert.Zero(t, res.Confidence)

	res = e.Decompose("chromatic flood of saturated pigment")
	assert.NoError(t, res.Coordinates.Validate())

	assert.Len(t, logs.FilterMessage("decompose").All(), 2)
}

func TestMapParameters(t *testing.T) {
	e, _ := newObserved(t)

	p, err := e.MapParameters("full_dissolution", mapper.Options{})
	require.NoError(t, err)
	assert.Equal(t, "full_dissolution", p.Style)

	_, err = e.MapParameters("sepia", mapper.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsUnknownIdentifier(err))
}

func TestStateValidation(t *testing.T) {
	e, _ := newObserved(t)
	bad := space.State{0.5, 0.5, -0.1, 0.5, 0.5}
	good := space.State{0.5, 0.5, 0.5, 0.5, 0.5}

	_, err := e.ExtractVocabulary(bad, 5)
	assert.True(t, errors.IsInvalidState(err))
	_, err = e.Distance(good, bad)
	assert.True(t, errors.IsInvalidState(err))
	_, err = e.Trajectory(bad, good, 5)
	assert.True(t, errors.IsInvalidState(err))
	_, err = e.RhythmicSequence(good, bad, 5, 0)
	assert.True(t, errors.IsInvalidState(err))
	_, err = e.AttractorPrompt(bad, "", "")
	assert.True(t, errors.IsInvalidState(err))
}

func TestDistance(t *testing.T) {
	e, _ := newObserved(t)
	a := mustResolve(t, e, "editorial_wash")
	b := mustResolve(t, e, "full_dissolution")

	ab, err := e.Distance(a, b)
	require.NoError(t, err)
	ba, err := e.Distance(b, a)
	require.NoError(t, err)
	aa, err := e.Distance(a, a)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.Zero(t, aa)
	assert.InDelta(t, math.Sqrt(2.465), ab, 1e-9)
}

func TestTrajectoryAndRhythm(t *testing.T) {
	e, _ := newObserved(t)
	a := mustResolve(t, e, "editorial_wash")
	b := mustResolve(t, e, "full_dissolution")

	states, err := e.Trajectory(a, b, 6)
	require.NoError(t, err)
	assert.Equal(t, a, states[0])
	assert.Equal(t, b, states[5])

	_, err = e.Trajectory(a, b, 1)
	assert.True(t, errors.IsInvalidArgument(err))

	states, err = e.RhythmicSequence(a, b, 8, 0)
	require.NoError(t, err)
	assert.Len(t, states, 8)

	seq, err := e.ApplyPreset("fidelity_breathing")
	require.NoError(t, err)
	assert.Len(t, seq.States, 20)

	_, err = e.ApplyPreset("heartbeat")
	assert.True(t, errors.IsUnknownIdentifier(err))
}

func TestAttractorPrompt(t *testing.T) {
	e, _ := newObserved(t)

	res, err := e.AttractorPrompt(mustResolve(t, e, "painterly_freedom"), "", "")
	require.NoError(t, err)
	assert.Equal(t, attractor.ModeComposite, res.Mode)
	assert.Equal(t, "painterly_freedom", res.Active[0].ID)

	_, err = e.AttractorPrompt(space.State{}, "collage", "")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidateRoundTrip(t *testing.T) {
	e, logs := newObserved(t)

	rep := e.ValidateRoundTrip()
	assert.Equal(t, 1.0, rep.Accuracy)
	assert.Less(t, rep.MeanError, 0.01)

	entries := logs.FilterMessage("validate_round_trip").All()
	require.Len(t, entries, 1)
	assert.Equal(t, 1.0, entries[0].ContextMap()[logger.FieldAccuracy])
}

func TestDistanceByID(t *testing.T) {
	e, _ := newObserved(t)

	rep, err := e.DistanceByID("editorial_wash", "painterly_freedom")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2.465), rep.Distance, 1e-9)
	assert.InDelta(t, rep.Distance/space.MaxDistance, rep.Normalized, 1e-12)
	assert.Equal(t, "anchor_density", rep.Dominant)
	require.Len(t, rep.Deltas, space.Dims)
	assert.Equal(t, "anchor_density", rep.Deltas[0].Axis)
	assert.InDelta(t, -0.8, rep.Deltas[0].Delta, 1e-12)

	_, err = e.DistanceByID("editorial_wash", "nowhere")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownIdentifier(err))
}

func TestTrajectoryByID(t *testing.T) {
	e, _ := newObserved(t)

	p, err := e.TrajectoryByID("editorial_wash", "full_dissolution", 5)
	require.NoError(t, err)
	require.Len(t, p.Steps, 5)
	assert.Equal(t, "editorial_wash", p.Steps[0].NearestType)
	assert.Zero(t, p.Steps[0].TypeDistance)
	assert.Equal(t, "full_dissolution", p.Steps[4].NearestType)
	assert.InDelta(t, math.Sqrt(2.465), p.TotalDistance, 1e-9)

	_, err = e.TrajectoryByID("editorial_wash", "full_dissolution", 0)
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = e.TrajectoryByID("nowhere", "full_dissolution", 5)
	assert.True(t, errors.IsUnknownIdentifier(err))
}

func TestOscillateAndRhythmicByID(t *testing.T) {
	e, _ := newObserved(t)

	p, err := e.Oscillate("editorial_wash", "full_dissolution", trajectory.Oscillation{
		Period: 4, Cycles: 3, Pattern: trajectory.Triangle,
	})
	require.NoError(t, err)
	require.Len(t, p.Steps, 12)
	assert.Equal(t, "editorial_wash", p.Steps[0].NearestType)
	assert.Equal(t, "full_dissolution", p.Steps[2].NearestType)

	p, err = e.RhythmicByID("editorial_wash", "full_dissolution", 20, -0.25)
	require.NoError(t, err)
	require.Len(t, p.Steps, 20)
	assert.Equal(t, "editorial_wash", p.Steps[0].NearestType)
	assert.Equal(t, "full_dissolution", p.Steps[10].NearestType)

	_, err = e.RhythmicByID("editorial_wash", "full_dissolution", 1, 0)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestStepLimits(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	e := New(registry.Default(), Options{MaxSteps: 50, Logger: zap.New(core).Sugar()})
	assert.Equal(t, 50, e.MaxSteps())
	a := mustResolve(t, e, "editorial_wash")
	b := mustResolve(t, e, "full_dissolution")

	tests := []struct {
		name string
		run  func() error
	}{
		{"trajectory", func() error { _, err := e.Trajectory(a, b, 51); return err }},
		{"trajectory by id", func() error { _, err := e.TrajectoryByID("editorial_wash", "full_dissolution", 51); return err }},
		{"trajectory by id huge", func() error {
			_, err := e.TrajectoryByID("editorial_wash", "full_dissolution", math.MaxInt)
			return err
		}},
		{"rhythmic", func() error { _, err := e.RhythmicSequence(a, b, 51, 0); return err }},
		{"rhythmic by id", func() error { _, err := e.RhythmicByID("editorial_wash", "full_dissolution", 51, 0); return err }},
		{"oscillate product", func() error {
			_, err := e.Oscillate("editorial_wash", "full_dissolution", trajectory.Oscillation{Period: 20, Cycles: 3})
			return err
		}},
		{"oscillate overflow", func() error {
			_, err := e.Oscillate("editorial_wash", "full_dissolution", trajectory.Oscillation{Period: math.MaxInt/2 + 1, Cycles: 3})
			return err
		}},
		{"keyframes", func() error { _, err := e.PresetKeyframes("fidelity_breathing", 51, ""); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}

	p, err := e.TrajectoryByID("editorial_wash", "full_dissolution", 50)
	require.NoError(t, err)
	assert.Len(t, p.Steps, 50)
	p, err = e.Oscillate("editorial_wash", "full_dissolution", trajectory.Oscillation{Period: 25, Cycles: 2})
	require.NoError(t, err)
	assert.Len(t, p.Steps, 50)

	// the engine never exceeds the package cap
	assert.Equal(t, trajectory.MaxSteps, New(registry.Default(), Options{MaxSteps: math.MaxInt}).MaxSteps())
	assert.Equal(t, DefaultMaxSteps, New(registry.Default(), Options{}).MaxSteps())
}

func TestPresetKeyframes(t *testing.T) {
	e, _ := newObserved(t)

	pk, err := e.PresetKeyframes("fidelity_breathing", 4, "")
	require.NoError(t, err)
	assert.Len(t, pk.Keyframes, 4)

	_, err = e.PresetKeyframes("nowhere", 4, "")
	assert.True(t, errors.IsUnknownIdentifier(err))
}
