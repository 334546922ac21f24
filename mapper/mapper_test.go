package mapper

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
)

func newMapper() *Mapper {
	return New(registry.Default(), Settings{})
}

func TestMapUnknownStyle(t *testing.T) {
	m := newMapper()

	_, err := m.Map("sepia_tone", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsUnknownIdentifier(err))

	// canonical but not a visual type
	_, err = m.Map("light_wash", Options{})
	assert.True(t, errors.IsUnknownIdentifier(err))
}

func TestMapDefaults(t *testing.T) {
	m := newMapper()

	p, err := m.Map("full_dissolution", Options{})
	require.NoError(t, err)

	assert.Equal(t, "Full Dissolution", p.Name)
	assert.Equal(t, DefaultIntensity, p.Intensity)
	assert.Equal(t, DefaultEmphasis, p.Emphasis)
	assert.Equal(t, p.Centroid, p.State)
	assert.Equal(t, "full_dissolution", p.NearestType)
	assert.Zero(t, p.NearestDistance)
	assert.Equal(t, "wet_on_wet", p.Hydrology)
	assert.Equal(t, "flooding", p.StateHydrology)
	assert.Equal(t, "cold_press", p.Substrate)
	assert.Equal(t, "flood_flat", p.ContrastCurve)
	assert.Equal(t, "paper_matte", p.Optical.Finish)
	assert.Len(t, p.Vocabulary.Categories, len(registry.Categories()))
	assert.Equal(t, []string{
		"painterly dissolution overriding photographic source",
		"all edges softened into feathered bleeds and backruns",
		"paper surface breathing through as compositional element",
		"wet-on-wet pigment behavior driving visual texture",
		"near-abstract with minimal fidelity anchors",
	}, p.Characteristics)
}

func TestEdgeDistribution(t *testing.T) {
	reg := registry.Default()
	m := newMapper()

	tests := []struct {
		style string
		top   string
	}{
		{"editorial_wash", "architectural_hard"},
		{"ghost_impression", "architectural_hard"},
		{"full_dissolution", "feathered_bleed"},
		{"chromatic_flood", "feathered_bleed"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			vt, err := reg.VisualType(tt.style)
			require.NoError(t, err)

			dist := m.EdgeDistribution(vt.Centroid)
			require.Len(t, dist, 6)

			var total float64
			best := dist[0]
			for _, w := range dist {
				assert.GreaterOrEqual(t, w.Weight, 0.0)
				total += w.Weight
				if w.Weight > best.Weight {
					best = w
				}
			}
			assert.InDelta(t, 1.0, total, 1e-12)
			assert.Equal(t, tt.top, best.ID)
		})
	}
}

func TestEdgeDistributionFollowsAxes(t *testing.T) {
	m := newMapper()
	weight := func(dist []EdgeWeight, id string) float64 {
		for _, w := range dist {
			if w.ID == id {
				return w.Weight
			}
		}
		t.Fatalf("edge mode %s missing", id)
		return 0
	}

	low := m.EdgeDistribution(space.MustNew(0.5, 0.2, 0.5, 0.5, 0.5))
	high := m.EdgeDistribution(space.MustNew(0.5, 0.9, 0.5, 0.5, 0.5))
	assert.Greater(t, weight(high, "architectural_hard"), weight(low, "architectural_hard"))
	assert.Greater(t, weight(high, "silhouette_cut"), weight(low, "silhouette_cut"))

	dry := m.EdgeDistribution(space.MustNew(0.5, 0.5, 0.5, 0.1, 0.5))
	wet := m.EdgeDistribution(space.MustNew(0.5, 0.5, 0.5, 0.9, 0.5))
	for _, id := range []string{"cauliflower_backrun", "feathered_bleed", "wet_lift"} {
		assert.Greater(t, weight(wet, id), weight(dry, id), id)
	}
}

func TestContrastCurveMatchesAffinity(t *testing.T) {
	reg := registry.Default()
	m := newMapper()

	for _, vt := range reg.VisualTypes() {
		assert.Equal(t, vt.Contrast, m.ContrastCurve(vt.Centroid, vt.Contrast), vt.ID)
	}
}

func TestMapOptions(t *testing.T) {
	m := newMapper()

	t.Run("dramatic editorial clamps to the unit range", func(t *testing.T) {
		p, err := m.Map("editorial_wash", Options{Intensity: "dramatic"})
		require.NoError(t, err)
		want := []float64{0.01, 0.99, 0, 0.08, 1}
		for i, v := range want {
			assert.InDelta(t, v, p.State[i], 1e-9)
		}
		require.NoError(t, p.State.Validate())
		assert.Equal(t, "editorial_wash", p.NearestType)
	})

	t.Run("subtle pulls toward the midpoint", func(t *testing.T) {
		p, err := m.Map("full_dissolution", Options{Intensity: "subtle"})
		require.NoError(t, err)
		assert.InDelta(t, 0.71, p.State[space.DissolutionRate], 1e-9)
		assert.InDelta(t, 0.29, p.State[space.EdgeCoherence], 1e-9)
		assert.Greater(t, p.NearestDistance, 0.0)
	})

	t.Run("edge emphasis", func(t *testing.T) {
		p, err := m.Map("contested_boundary", Options{Emphasis: "edge"})
		require.NoError(t, err)
		assert.InDelta(t, 0.65, p.State[space.EdgeCoherence], 1e-9)
		assert.InDelta(t, 0.50, p.State[space.DissolutionRate], 1e-9)
	})

	t.Run("overrides", func(t *testing.T) {
		p, err := m.Map("ghost_impression", Options{Hydrology: "wet_on_wet", Substrate: "yupo"})
		require.NoError(t, err)
		assert.Equal(t, "wet_on_wet", p.Hydrology)
		assert.Equal(t, "yupo", p.Substrate)
	})
}

func TestMapOptionErrors(t *testing.T) {
	m := newMapper()

	tests := []struct {
		name string
		opts Options
		kind errors.Kind
	}{
		{"intensity", Options{Intensity: "extreme"}, errors.KindInvalidArgument},
		{"emphasis", Options{Emphasis: "color"}, errors.KindInvalidArgument},
		{"hydrology override", Options{Hydrology: "steam"}, errors.KindUnknownIdentifier},
		{"substrate override", Options{Substrate: "canvas"}, errors.KindUnknownIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Map("editorial_wash", tt.opts)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
		})
	}
}

func TestCharacteristics(t *testing.T) {
	editorial := space.MustNew(0.15, 0.85, 0.10, 0.20, 0.90)
	assert.Equal(t, []string{
		"photographic fidelity dominant with watercolor accents",
		"sharp architectural edges persisting through dissolution",
		"dense photographic anchors maintaining recognizability",
	}, Characteristics(editorial))

	mid := space.MustNew(0.5, 0.5, 0.5, 0.5, 0.5)
	assert.Equal(t, []string{"contested territory between photographic and painterly regimes"}, Characteristics(mid))
}

func TestExtractVocabulary(t *testing.T) {
	reg := registry.Default()
	m := newMapper()
	full, _ := reg.State("full_dissolution")

	v := m.ExtractVocabulary(full.Centroid, 0)
	require.Len(t, v.Categories, 6)
	for i, c := range registry.Categories() {
		cv := v.Categories[i]
		assert.Equal(t, c, cv.Category)
		assert.Len(t, cv.Keywords, DefaultTopN, c)
		assert.Len(t, cv.Anchors, DefaultNeighbors, c)

		var total float64
		for _, a := range cv.Anchors {
			total += a.Weight
		}
		assert.InDelta(t, 1.0, total, 1e-12)

		for j := 1; j < len(cv.Keywords); j++ {
			assert.GreaterOrEqual(t, cv.Keywords[j-1].Weight, cv.Keywords[j].Weight)
			assert.Greater(t, cv.Keywords[j].Weight, 0.0)
		}
	}

	style, ok := v.Category(registry.CategoryStyle)
	require.True(t, ok)
	assert.Equal(t, "full_dissolution", style.Anchors[0].ID)
	assert.Equal(t, []string{
		"complete painterly takeover",
		"paper texture as co subject",
		"pigment bloom dominant",
		"backrun cauliflower edges",
		"granulation revealing paper tooth",
	}, style.Terms())

	want := map[string][]string{
		"edge":          {"cauliflower", "backrun", "fractal bloom rim", "organic boundary", "feathered"},
		"hydrology":     {"flood", "flooding", "drip", "wet on wet", "blooming"},
		"substrate":     {"rough", "heavy texture", "expressive", "tooth", "cold press"},
		"color_harmony": {"monochromatic", "desaturated", "single hue", "low chroma", "tonal"},
		"contrast":      {"flat color fields", "chroma over value", "low contrast", "midtone separation", "luminous shadows"},
	}
	got := v.Map()
	for cat, terms := range want {
		if diff := cmp.Diff(terms, got[cat]); diff != "" {
			t.Errorf("%s vocabulary mismatch (-want +got):\n%s", cat, diff)
		}
	}
}

func TestExtractVocabularyTopN(t *testing.T) {
	m := newMapper()
	s := space.MustNew(0.15, 0.85, 0.10, 0.20, 0.90)

	v := m.ExtractVocabulary(s, 2)
	for _, cv := range v.Categories {
		assert.Len(t, cv.Keywords, 2)
	}

	v = m.ExtractVocabulary(s, 1000)
	hydro, _ := v.Category(registry.CategoryHydrology)
	assert.Greater(t, len(hydro.Keywords), DefaultTopN)
}

func TestExtractVocabularyNeighbors(t *testing.T) {
	m := New(registry.Default(), Settings{Neighbors: 1})
	v := m.ExtractVocabulary(space.MustNew(0.15, 0.85, 0.10, 0.20, 0.90), 100)

	for _, cv := range v.Categories {
		require.Len(t, cv.Anchors, 1)
		assert.Equal(t, 1.0, cv.Anchors[0].Weight)
	}
	style, _ := v.Category(registry.CategoryStyle)
	assert.Equal(t, "editorial_wash", style.Anchors[0].ID)
	assert.Len(t, style.Keywords, 13)
}

func TestExtractVocabularySkipsZeroWeights(t *testing.T) {
	data := strings.Replace(string(registry.DefaultData()), "      loose: 1.0", "      loose: 0.0", 1)
	reg, err := registry.Parse([]byte(data))
	require.NoError(t, err)

	full, _ := reg.State("full_dissolution")
	v := New(reg, Settings{}).ExtractVocabulary(full.Centroid, 1000)
	style, _ := v.Category(registry.CategoryStyle)
	assert.NotContains(t, style.Terms(), "loose")
	assert.Contains(t, style.Terms(), "painterly")
}

func TestExtractVocabularyDeterministic(t *testing.T) {
	m := newMapper()
	s := space.MustNew(0.42, 0.61, 0.33, 0.58, 0.47)

	first := m.ExtractVocabulary(s, 0)
	for i := 0; i < 5; i++ {
		assert.Empty(t, cmp.Diff(first, m.ExtractVocabulary(s, 0)))
	}
}
