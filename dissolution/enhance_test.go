package dissolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/registry"
)

const bloomIntent = "loose painterly watercolor with blooming wet effects"

func TestEnhance(t *testing.T) {
	e, _ := newObserved(t)

	out, err := e.Enhance(bloomIntent, EnhanceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "full_dissolution", out.DetectedStyle)
	assert.Equal(t, "full_dissolution", out.AppliedStyle)
	assert.False(t, out.OverrideIgnored)
	assert.InDelta(t, 1.0, out.Confidence, 1e-9)
	assert.NotEmpty(t, out.Matched)
	assert.Equal(t, "full_dissolution", out.Parameters.Style)
	assert.Equal(t, "moderate", out.Parameters.Intensity)
	assert.Contains(t, out.Prompt, "Digital watercolor treatment in full dissolution mode.")
	assert.NotContains(t, out.Prompt, "Style modifier")

	style, ok := out.Vocabulary.Category(registry.CategoryStyle)
	require.True(t, ok)
	assert.NotEmpty(t, style.Keywords)
}

func TestEnhanceStyleOverride(t *testing.T) {
	tests := []struct {
		name     string
		override string
		applied  string
		ignored  bool
	}{
		{"visual type", "editorial_wash", "editorial_wash", false},
		{"unknown id", "impasto", "full_dissolution", true},
		// a canonical state that is not a visual type
		{"canonical only", "light_wash", "full_dissolution", true},
		{"empty", "", "full_dissolution", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newObserved(t)
			out, err := e.Enhance(bloomIntent, EnhanceOptions{Style: tt.override})
			require.NoError(t, err)
			assert.Equal(t, "full_dissolution", out.DetectedStyle)
			assert.Equal(t, tt.applied, out.AppliedStyle)
			assert.Equal(t, tt.applied, out.Parameters.Style)
			assert.Equal(t, tt.ignored, out.OverrideIgnored)
		})
	}
}

func TestEnhanceOptions(t *testing.T) {
	e, _ := newObserved(t)

	out, err := e.Enhance(bloomIntent, EnhanceOptions{
		Substrate: "yupo",
		Intensity: "dramatic",
		Modifier:  "morning fog",
	})
	require.NoError(t, err)
	assert.Equal(t, "yupo", out.Parameters.Substrate)
	assert.Equal(t, "dramatic", out.Parameters.Intensity)
	assert.NotEqual(t, out.Parameters.Centroid, out.Parameters.State)
	assert.Contains(t, out.Prompt, "Style modifier: morning fog.")

	_, err = e.Enhance(bloomIntent, EnhanceOptions{Substrate: "canvas"})
	assert.True(t, errors.IsUnknownIdentifier(err))

	_, err = e.Enhance(bloomIntent, EnhanceOptions{Intensity: "extreme"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestEnhanceUnmatched(t *testing.T) {
	e, _ := newObserved(t)

	out, err := e.Enhance("", EnhanceOptions{})
	require.NoError(t, err)
	assert.Equal(t, registry.Default().DefaultStyle(), out.AppliedStyle)
	assert.Zero(t, out.Confidence)
	assert.Empty(t, out.Matched)
}
