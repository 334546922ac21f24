package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teranos/watercolor/dissolution"
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/space"
	"github.com/teranos/watercolor/trajectory"
)

// Tool names
const (
	ToolClassify       = "classify_dissolution_intent"
	ToolDecompose      = "decompose_dissolution_from_description"
	ToolMap            = "map_dissolution_parameters"
	ToolVocabulary     = "extract_dissolution_visual_vocabulary"
	ToolDistance       = "compute_dissolution_distance"
	ToolTrajectory     = "compute_dissolution_trajectory"
	ToolAttractor      = "generate_dissolution_attractor_prompt"
	ToolRhythmic       = "generate_dissolution_rhythmic_sequence"
	ToolPreset         = "apply_dissolution_rhythmic_preset"
	ToolSequencePrompt = "generate_dissolution_sequence_prompts"
	ToolRoundTrip      = "validate_dissolution_decomposition_round_trip"
	ToolEnhance        = "enhance_dissolution_prompt"
)

var stateProperties = map[string]interface{}{
	"dissolution_rate":     map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
	"edge_coherence":       map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
	"substrate_visibility": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
	"pigment_hydrology":    map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
	"anchor_density":       map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
}

// registerTools registers every dissolution operation
func (s *Server) registerTools() {
	s.addTool(mcp.NewTool(ToolClassify,
		mcp.WithDescription("Classify a free-text aesthetic intent into a dissolution style, hydrology state and substrate"),
		mcp.WithString("user_intent",
			mcp.Required(),
			mcp.Description("Description of the desired dissolution aesthetic"),
		),
		mcp.WithString("category",
			mcp.Description("Restrict to one category: style, hydrology or substrate"),
		),
	), classifyTool)

	s.addTool(mcp.NewTool(ToolDecompose,
		mcp.WithDescription("Recover 5D dissolution coordinates from a description as a blend of canonical states"),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Free-text description of an image or treatment"),
		),
	), decomposeTool)

	s.addTool(mcp.NewTool(ToolMap,
		mcp.WithDescription("Map a dissolution style to its complete visual parameter bundle"),
		mcp.WithString("style_id",
			mcp.Required(),
			mcp.Description("Visual type id, e.g. editorial_wash or full_dissolution"),
		),
		mcp.WithString("intensity",
			mcp.Description("subtle, moderate or dramatic (default: moderate)"),
		),
		mcp.WithString("emphasis",
			mcp.Description("dissolution, edge, substrate, hydrology or balanced (default: balanced)"),
		),
		mcp.WithString("hydrology",
			mcp.Description("Override the style's hydrology state"),
		),
		mcp.WithString("substrate",
			mcp.Description("Override the style's substrate"),
		),
	), mapTool)

	s.addTool(mcp.NewTool(ToolVocabulary,
		mcp.WithDescription("Extract blended visual vocabulary for 5D coordinates or a named state"),
		mcp.WithObject("state",
			mcp.Description("5D coordinates"),
			mcp.Properties(stateProperties),
		),
		mcp.WithString("dissolution_id",
			mcp.Description("Canonical state or attractor preset id, used when state is absent"),
		),
		mcp.WithNumber("top_n",
			mcp.Description("Keywords per category (default: configured top_n)"),
		),
	), vocabularyTool)

	s.addTool(mcp.NewTool(ToolDistance,
		mcp.WithDescription("Compute the Euclidean distance between two named dissolution states"),
		mcp.WithString("id_1", mcp.Required(), mcp.Description("First state id")),
		mcp.WithString("id_2", mcp.Required(), mcp.Description("Second state id")),
	), distanceTool)

	s.addTool(mcp.NewTool(ToolTrajectory,
		mcp.WithDescription("Interpolate a linear trajectory between two named dissolution states"),
		mcp.WithString("start_id", mcp.Required(), mcp.Description("Start state id")),
		mcp.WithString("end_id", mcp.Required(), mcp.Description("End state id")),
		mcp.WithNumber("num_steps",
			mcp.Description("Number of states including both endpoints (default: configured default_steps)"),
		),
	), s.trajectoryTool)

	s.addTool(mcp.NewTool(ToolAttractor,
		mcp.WithDescription("Assemble an image prompt basis from an attractor preset or custom coordinates"),
		mcp.WithString("attractor_id",
			mcp.Description("Attractor preset or canonical state id"),
		),
		mcp.WithObject("custom_state",
			mcp.Description("5D coordinates, used when attractor_id is empty"),
			mcp.Properties(stateProperties),
		),
		mcp.WithString("mode",
			mcp.Description("auto, composite, split or sequence (default: auto)"),
			mcp.Enum("auto", "composite", "split", "sequence"),
		),
		mcp.WithString("style_modifier",
			mcp.Description("Appended to the prompt"),
		),
	), attractorTool)

	s.addTool(mcp.NewTool(ToolRhythmic,
		mcp.WithDescription("Oscillate between two named dissolution states"),
		mcp.WithString("state_a_id", mcp.Required(), mcp.Description("First endpoint id")),
		mcp.WithString("state_b_id", mcp.Required(), mcp.Description("Second endpoint id")),
		mcp.WithNumber("steps_per_cycle", mcp.Description("Steps per cycle (default: 20)")),
		mcp.WithNumber("num_cycles", mcp.Description("Number of cycles (default: 3)")),
		mcp.WithString("oscillation_pattern",
			mcp.Description("sinusoidal, triangle or sawtooth (default: sinusoidal)"),
			mcp.Enum(string(trajectory.Sinusoidal), string(trajectory.Triangle), string(trajectory.Sawtooth)),
		),
		mcp.WithNumber("phase_offset", mcp.Description("Phase as a fraction of one cycle (default: 0)")),
	), rhythmicTool)

	s.addTool(mcp.NewTool(ToolPreset,
		mcp.WithDescription("Run a named rhythmic preset"),
		mcp.WithString("preset_name", mcp.Required(), mcp.Description("Rhythmic preset id, e.g. fidelity_breathing")),
	), presetTool)

	s.addTool(mcp.NewTool(ToolSequencePrompt,
		mcp.WithDescription("Generate keyframe prompts from a rhythmic preset"),
		mcp.WithString("preset_name", mcp.Required(), mcp.Description("Rhythmic preset id")),
		mcp.WithNumber("keyframe_count", mcp.Description("Number of keyframes (default: configured keyframes)")),
		mcp.WithString("style_modifier", mcp.Description("Appended to every keyframe prompt")),
	), sequencePromptTool)

	s.addTool(mcp.NewTool(ToolRoundTrip,
		mcp.WithDescription("Decode every visual type's own vocabulary and report how closely its centroid is recovered"),
	), roundTripTool)

	s.addTool(mcp.NewTool(ToolEnhance,
		mcp.WithDescription("Bundle classification, parameters, composite prompt and vocabulary for one intent, ready for prompt writing"),
		mcp.WithString("user_intent",
			mcp.Required(),
			mcp.Description("Description of the desired dissolution aesthetic"),
		),
		mcp.WithString("style_override",
			mcp.Description("Visual type id to use instead of the detected style; other values are ignored"),
		),
		mcp.WithString("substrate",
			mcp.Description("hot_press, cold_press, rough, yupo or masa"),
		),
		mcp.WithString("intensity",
			mcp.Description("subtle, moderate or dramatic (default: moderate)"),
		),
		mcp.WithString("style_modifier",
			mcp.Description("Free text appended to the prompt"),
		),
	), enhanceTool)
}

func requireString(req mcp.CallToolRequest, key string) (string, error) {
	v, err := req.RequireString(key)
	if err != nil {
		return "", errors.NewInvalidArgument("%s", err.Error())
	}
	return v, nil
}

// stateArg reads an axis-name object argument. ok is false when it is absent.
func stateArg(req mcp.CallToolRequest, key string) (s space.State, ok bool, err error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return space.State{}, false, nil
	}
	obj, isObj := raw.(map[string]interface{})
	if !isObj {
		return space.State{}, true, errors.NewInvalidArgument("%s must be an object of axis values", key)
	}
	m := make(map[string]float64, len(obj))
	for k, v := range obj {
		f, isNum := v.(float64)
		if !isNum {
			return space.State{}, true, errors.NewInvalidArgument("%s.%s must be a number", key, k)
		}
		m[k] = f
	}
	s, err = space.FromMap(m)
	return s, true, err
}

// stateOrID resolves an object argument, falling back to a named state.
func stateOrID(e *dissolution.Engine, req mcp.CallToolRequest, stateKey, idKey string) (space.State, error) {
	s, ok, err := stateArg(req, stateKey)
	if ok || err != nil {
		return s, err
	}
	id := req.GetString(idKey, "")
	if id == "" {
		return space.State{}, errors.NewInvalidArgument("one of %s or %s is required", stateKey, idKey)
	}
	return e.Resolve(id)
}

func classifyTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	text, err := requireString(req, "user_intent")
	if err != nil {
		return nil, err
	}
	return e.Classify(text, req.GetString("category", ""))
}

func decomposeTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	text, err := requireString(req, "description")
	if err != nil {
		return nil, err
	}
	return e.Decompose(text), nil
}

func mapTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	style, err := requireString(req, "style_id")
	if err != nil {
		return nil, err
	}
	return e.MapParameters(style, mapper.Options{
		Intensity: req.GetString("intensity", ""),
		Emphasis:  req.GetString("emphasis", ""),
		Hydrology: req.GetString("hydrology", ""),
		Substrate: req.GetString("substrate", ""),
	})
}

func vocabularyTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	s, err := stateOrID(e, req, "state", "dissolution_id")
	if err != nil {
		return nil, err
	}
	return e.ExtractVocabulary(s, req.GetInt("top_n", 0))
}

func distanceTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	a, err := requireString(req, "id_1")
	if err != nil {
		return nil, err
	}
	b, err := requireString(req, "id_2")
	if err != nil {
		return nil, err
	}
	return e.DistanceByID(a, b)
}

func (s *Server) trajectoryTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	a, err := requireString(req, "start_id")
	if err != nil {
		return nil, err
	}
	b, err := requireString(req, "end_id")
	if err != nil {
		return nil, err
	}
	return e.TrajectoryByID(a, b, req.GetInt("num_steps", int(s.defaultSteps.Load())))
}

func attractorTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	s, err := stateOrID(e, req, "custom_state", "attractor_id")
	if err != nil {
		return nil, err
	}
	return e.AttractorPrompt(s, req.GetString("mode", ""), req.GetString("style_modifier", ""))
}

func rhythmicTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	a, err := requireString(req, "state_a_id")
	if err != nil {
		return nil, err
	}
	b, err := requireString(req, "state_b_id")
	if err != nil {
		return nil, err
	}
	return e.Oscillate(a, b, trajectory.Oscillation{
		Period:  req.GetInt("steps_per_cycle", 20),
		Cycles:  req.GetInt("num_cycles", 3),
		Pattern: trajectory.Pattern(req.GetString("oscillation_pattern", string(trajectory.Sinusoidal))),
		Phase:   req.GetFloat("phase_offset", 0),
	})
}

func presetTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	name, err := requireString(req, "preset_name")
	if err != nil {
		return nil, err
	}
	return e.ApplyPreset(name)
}

func sequencePromptTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	name, err := requireString(req, "preset_name")
	if err != nil {
		return nil, err
	}
	return e.PresetKeyframes(name, req.GetInt("keyframe_count", 0), req.GetString("style_modifier", ""))
}

func enhanceTool(_ context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error) {
	intent, err := requireString(req, "user_intent")
	if err != nil {
		return nil, err
	}
	return e.Enhance(intent, dissolution.EnhanceOptions{
		Style:     req.GetString("style_override", ""),
		Substrate: req.GetString("substrate", ""),
		Intensity: req.GetString("intensity", ""),
		Modifier:  req.GetString("style_modifier", ""),
	})
}

func roundTripTool(_ context.Context, e *dissolution.Engine, _ mcp.CallToolRequest) (interface{}, error) {
	return e.ValidateRoundTrip(), nil
}
