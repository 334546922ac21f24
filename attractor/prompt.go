package attractor

import (
	"fmt"
	"strings"

	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
	"github.com/teranos/watercolor/trajectory"
)

// descriptionLimit caps how much of a visual type's description enters a
// base prompt.
const descriptionLimit = 200

// BasePrompt renders a generation prompt for s in the manner of vt: the
// type's description and palette plus banded descriptors of the state's
// hydrology, edges, substrate and anchoring.
func BasePrompt(vt registry.VisualType, s space.State, modifier string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Digital watercolor treatment in %s mode. ", strings.ToLower(vt.Name))
	fmt.Fprintf(&b, "%s ", truncate(vt.Description, descriptionLimit))
	fmt.Fprintf(&b, "Pigment behavior: %s. ", HydrologyDescriptor(s))
	fmt.Fprintf(&b, "Edge character: %s. ", EdgeDescriptor(s))
	fmt.Fprintf(&b, "Substrate: %s. ", SubstrateDescriptor(s))
	fmt.Fprintf(&b, "Anchoring: %s. ", AnchorDescriptor(s))
	fmt.Fprintf(&b, "Color palette: %s. ", strings.Join(leading(vt.Colors, 3), ", "))
	fmt.Fprintf(&b, "Optical finish: %s, %s, %s.",
		humanize(vt.Optical.Finish), humanize(vt.Optical.Scatter), humanize(vt.Optical.Transparency))
	if modifier != "" {
		fmt.Fprintf(&b, " Style modifier: %s.", modifier)
	}
	return b.String()
}

// HydrologyDescriptor describes pigment behavior in five bands of
// pigment_hydrology, from dry brush to flooding.
func HydrologyDescriptor(s space.State) string {
	switch h := s[space.PigmentHydrology]; {
	case h < 0.15:
		return "dry brush technique with broken textured marks revealing paper grain"
	case h < 0.35:
		return "controlled wash with even pigment coverage and predictable edges"
	case h < 0.55:
		return "wet-on-dry layered washes with crisp overlap boundaries"
	case h < 0.8:
		return "wet-on-wet diffusion with soft bloom formations and pigment migration"
	default:
		return "flooding technique with gravity-driven drips, capillary branching and pigment pooling"
	}
}

// EdgeDescriptor describes edge character in three bands of edge_coherence.
func EdgeDescriptor(s space.State) string {
	switch e := s[space.EdgeCoherence]; {
	case e > 0.7:
		return "architectural hard edges and sharp silhouette cuts persisting through dissolution"
	case e > 0.4:
		return "mixed edge types: cauliflower backruns alongside architectural remnants and granulation boundaries"
	default:
		return "feathered bleed edges and soft wet-lift transitions throughout"
	}
}

// SubstrateDescriptor describes how much paper shows through, in three
// bands of substrate_visibility.
func SubstrateDescriptor(s space.State) string {
	switch v := s[space.SubstrateVisibility]; {
	case v > 0.7:
		return "paper surface as dominant compositional element, white ground breathing through as active negative space"
	case v > 0.35:
		return "paper partially visible between wash areas, contributing to luminosity"
	default:
		return "substrate hidden beneath continuous pigment coverage"
	}
}

// AnchorDescriptor describes how much photographic content survives, in
// three bands of anchor_density.
func AnchorDescriptor(s space.State) string {
	switch a := s[space.AnchorDensity]; {
	case a > 0.7:
		return "dense photographic anchors, recognizable objects maintaining sharp fidelity throughout"
	case a > 0.3:
		return "scattered fidelity anchors, select objects retaining photographic clarity amid dissolution"
	default:
		return "minimal anchoring, near-abstract with content surviving only as color memory or vague shape"
	}
}

// fragment is a keyframe's short prompt: the type name and its two leading
// keywords.
func fragment(n int, vt registry.VisualType) string {
	return fmt.Sprintf("Keyframe %d: %s: %s.", n, vt.Name, strings.Join(vt.Vocabulary.Leading(2), ". "))
}

// PresetKeyframes is a rhythmic preset rendered as keyframe prompts.
type PresetKeyframes struct {
	Preset    registry.RhythmicPreset `json:"preset"`
	Keyframes []Keyframe              `json:"keyframes"`
}

// PresetKeyframes samples count keyframes over one cycle of the named
// rhythmic preset. count <= 0 uses the configured keyframe count; a count of
// one is rejected with InvalidArgument.
func (e *Engine) PresetKeyframes(name string, count int, modifier string) (PresetKeyframes, error) {
	if count <= 0 {
		count = e.settings.Keyframes
	}
	p, err := e.reg.Rhythm(name)
	if err != nil {
		return PresetKeyframes{}, err
	}
	a, err := e.reg.State(p.A)
	if err != nil {
		return PresetKeyframes{}, err
	}
	b, err := e.reg.State(p.B)
	if err != nil {
		return PresetKeyframes{}, err
	}
	steps, err := trajectory.RhythmicSteps(a.Centroid, b.Centroid, count, trajectory.CyclesToRadians(p.Phase))
	if err != nil {
		return PresetKeyframes{}, err
	}

	out := PresetKeyframes{Preset: p, Keyframes: make([]Keyframe, len(steps))}
	for i, st := range steps {
		vt, _ := e.reg.NearestVisualType(st.State)
		prompt := fmt.Sprintf("Keyframe %d/%d: %s: %s. Color: %s.",
			i+1, count, vt.Name,
			strings.Join(vt.Vocabulary.Leading(2), ". "),
			strings.Join(leading(vt.Colors, 2), ", "))
		if modifier != "" {
			prompt += " " + modifier + "."
		}
		out.Keyframes[i] = Keyframe{Index: i + 1, T: st.T, State: st.State, NearestType: vt.ID, Prompt: prompt}
	}
	return out, nil
}

func leading(s []string, n int) []string {
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
