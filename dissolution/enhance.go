package dissolution

import (
	"time"

	"github.com/teranos/watercolor/attractor"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/mapper"
)

// EnhanceOptions steer Enhance. Empty fields keep the detected style and
// the style's own defaults.
type EnhanceOptions struct {
	Style     string `json:"style_override,omitempty"`
	Substrate string `json:"substrate,omitempty"`
	Intensity string `json:"intensity,omitempty"`
	Modifier  string `json:"style_modifier,omitempty"`
}

// Enhancement is the structured material for writing one image prompt:
// the classification, the applied style's parameters, its composite prompt
// and its vocabulary.
type Enhancement struct {
	Intent          string            `json:"user_intent"`
	DetectedStyle   string            `json:"detected_style"`
	AppliedStyle    string            `json:"applied_style"`
	OverrideIgnored bool              `json:"override_ignored,omitempty"`
	Confidence      float64           `json:"confidence"`
	Matched         []string          `json:"matched_keywords"`
	Parameters      mapper.Parameters `json:"parameters"`
	Prompt          string            `json:"prompt"`
	Vocabulary      mapper.Vocabulary `json:"vocabulary"`
}

// Enhance classifies intent, maps the detected style (or opts.Style when it
// names a visual type) with the requested substrate and intensity, and
// bundles the style's composite prompt and vocabulary. An override that is
// not a visual type falls back to the detected style.
func (e *Engine) Enhance(intent string, opts EnhanceOptions) (out Enhancement, err error) {
	defer func(start time.Time) {
		e.done("enhance", start, err,
			logger.FieldStyle, out.AppliedStyle,
			logger.FieldConfidence, out.Confidence)
	}(time.Now())

	detected := e.classifier.Style(intent)
	out = Enhancement{
		Intent:        intent,
		DetectedStyle: detected.ID,
		AppliedStyle:  detected.ID,
		Confidence:    detected.Confidence,
		Matched:       detected.Matched,
	}
	if opts.Style != "" {
		if _, err := e.reg.VisualType(opts.Style); err == nil {
			out.AppliedStyle = opts.Style
		} else {
			out.OverrideIgnored = true
		}
	}

	params, err := e.mapper.Map(out.AppliedStyle, mapper.Options{
		Intensity: opts.Intensity,
		Substrate: opts.Substrate,
	})
	if err != nil {
		return Enhancement{}, err
	}
	out.Parameters = params

	res, err := e.attractor.Prompt(attractor.Request{
		State:    params.Centroid,
		Mode:     attractor.ModeComposite,
		Modifier: opts.Modifier,
	})
	if err != nil {
		return Enhancement{}, err
	}
	out.Prompt = res.Prompt
	out.Vocabulary = e.mapper.ExtractVocabulary(params.Centroid, 0)
	return out, nil
}
