// Package dissolution exposes the watercolor dissolution operations over one
// immutable registry.
//
// An Engine is safe for concurrent use: every operation is a pure function
// of its arguments and the registry it was built with.
package dissolution

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/watercolor/attractor"
	"github.com/teranos/watercolor/classify"
	"github.com/teranos/watercolor/decompose"
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/roundtrip"
	"github.com/teranos/watercolor/space"
	"github.com/teranos/watercolor/trajectory"
)

// DefaultMaxSteps bounds sequence lengths when Options.MaxSteps is unset.
const DefaultMaxSteps = 1000

// Options tunes an Engine. Zero fields take the package defaults.
type Options struct {
	Vocabulary mapper.Settings
	Keyframes  int
	MaxSteps   int // capped at trajectory.MaxSteps
	Logger     *zap.SugaredLogger
}

// Engine runs the dissolution operations.
type Engine struct {
	reg        *registry.Registry
	classifier *classify.Classifier
	decomposer *decompose.Decomposer
	mapper     *mapper.Mapper
	attractor  *attractor.Engine
	rhythm     *trajectory.Engine
	validator  *roundtrip.Validator
	maxSteps   int
	log        *zap.SugaredLogger
}

// New builds an engine over reg.
func New(reg *registry.Registry, opts Options) *Engine {
	m := mapper.New(reg, opts.Vocabulary)
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("dissolution")
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if maxSteps > trajectory.MaxSteps {
		maxSteps = trajectory.MaxSteps
	}
	return &Engine{
		reg:        reg,
		classifier: classify.New(reg),
		decomposer: decompose.New(reg),
		mapper:     m,
		attractor: attractor.New(reg, m, attractor.Settings{
			Keyframes: opts.Keyframes,
			Epsilon:   opts.Vocabulary.Epsilon,
		}),
		rhythm:    trajectory.NewEngine(reg),
		validator: roundtrip.New(reg),
		maxSteps:  maxSteps,
		log:       log,
	}
}

// Registry returns the registry the engine was built with.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// MaxSteps is the longest sequence the engine will generate.
func (e *Engine) MaxSteps() int { return e.maxSteps }

// done logs a finished operation: debug on success, warn with the error
// kind on failure.
func (e *Engine) done(op string, start time.Time, err error, kv ...interface{}) {
	kv = append(kv,
		logger.FieldOperation, op,
		logger.FieldDurationMS, float64(time.Since(start).Microseconds())/1000,
	)
	if err != nil {
		kv = append(kv, logger.FieldError, err.Error(), logger.FieldErrorKind, string(errors.KindOf(err)))
		e.log.Warnw("operation failed", kv...)
		return
	}
	e.log.Debugw(op, kv...)
}

// Classify picks the best style, hydrology and substrate for text.
// category narrows the result to one of them; "" classifies all three.
func (e *Engine) Classify(text, category string) (res classify.Result, err error) {
	defer func(start time.Time) {
		e.done("classify", start, err, logger.FieldCategory, category)
	}(time.Now())
	return e.classifier.Classify(text, registry.Category(category))
}

// Decompose maps text to coordinates. It never fails: unmatched text
// yields the default style at zero confidence.
func (e *Engine) Decompose(text string) decompose.Result {
	start := time.Now()
	res := e.decomposer.Decompose(text)
	e.done("decompose", start, nil,
		logger.FieldNearest, res.NearestType,
		logger.FieldConfidence, res.Confidence)
	return res
}

// MapParameters expands a visual type into its full parameter bundle.
func (e *Engine) MapParameters(styleID string, opts mapper.Options) (p mapper.Parameters, err error) {
	defer func(start time.Time) {
		e.done("map_parameters", start, err, logger.FieldStyle, styleID)
	}(time.Now())
	return e.mapper.Map(styleID, opts)
}

// ExtractVocabulary blends the vocabulary around coords. topN <= 0 uses the
// configured default.
func (e *Engine) ExtractVocabulary(coords space.State, topN int) (v mapper.Vocabulary, err error) {
	defer func(start time.Time) {
		e.done("extract_vocabulary", start, err, logger.FieldTopN, topN)
	}(time.Now())
	if err := coords.Validate(); err != nil {
		return mapper.Vocabulary{}, err
	}
	return e.mapper.ExtractVocabulary(coords, topN), nil
}

// Distance is the Euclidean distance between two valid states.
func (e *Engine) Distance(a, b space.State) (d float64, err error) {
	defer func(start time.Time) {
		e.done("distance", start, err, logger.FieldDistance, d)
	}(time.Now())
	if err := validate(a, b); err != nil {
		return 0, err
	}
	return space.Distance(a, b), nil
}

// Trajectory returns steps states from a to b, endpoints included.
func (e *Engine) Trajectory(a, b space.State, steps int) (out []space.State, err error) {
	defer func(start time.Time) {
		e.done("trajectory", start, err, logger.FieldSteps, steps)
	}(time.Now())
	if err := validate(a, b); err != nil {
		return nil, err
	}
	if err := trajectory.CheckSteps("steps", steps, e.maxSteps); err != nil {
		return nil, err
	}
	return trajectory.Trajectory(a, b, steps)
}

// AttractorPrompt assembles the prompt basis for coords. mode is "", auto,
// composite, split or sequence.
func (e *Engine) AttractorPrompt(coords space.State, mode, modifier string) (res attractor.Result, err error) {
	defer func(start time.Time) {
		e.done("attractor_prompt", start, err, logger.FieldMode, res.Mode, logger.FieldCount, len(res.Active))
	}(time.Now())
	return e.attractor.Prompt(attractor.Request{State: coords, Mode: mode, Modifier: modifier})
}

// RhythmicSequence oscillates between a and b over period states. phase is
// in radians.
func (e *Engine) RhythmicSequence(a, b space.State, period int, phase float64) (out []space.State, err error) {
	defer func(start time.Time) {
		e.done("rhythmic_sequence", start, err, logger.FieldSteps, period)
	}(time.Now())
	if err := validate(a, b); err != nil {
		return nil, err
	}
	if err := trajectory.CheckSteps("period", period, e.maxSteps); err != nil {
		return nil, err
	}
	return trajectory.RhythmicSequence(a, b, period, phase)
}

// ApplyPreset runs a named rhythmic preset.
func (e *Engine) ApplyPreset(name string) (seq trajectory.PresetSequence, err error) {
	defer func(start time.Time) {
		e.done("apply_preset", start, err, logger.FieldPreset, name, logger.FieldSteps, len(seq.States))
	}(time.Now())
	return e.rhythm.ApplyPreset(name)
}

// ValidateRoundTrip decodes every visual type's own vocabulary and reports
// how closely the centroids are recovered.
func (e *Engine) ValidateRoundTrip() roundtrip.Report {
	start := time.Now()
	rep := e.validator.Validate()
	e.done("validate_round_trip", start, nil,
		logger.FieldAccuracy, rep.Accuracy,
		logger.FieldMeanError, rep.MeanError)
	return rep
}

func validate(states ...space.State) error {
	for _, s := range states {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
