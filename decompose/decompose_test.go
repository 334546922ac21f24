package decompose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/space"
)

func TestDecomposeNoMatch(t *testing.T) {
	d := New(registry.Default())

	for _, text := range []string{"", "an ordinary sentence about lunch"} {
		res := d.Decompose(text)
		assert.Equal(t, "contested_boundary", res.NearestType)
		assert.Equal(t, space.MustNew(0.50, 0.50, 0.35, 0.50, 0.50), res.Coordinates)
		assert.Zero(t, res.Confidence)
		assert.Empty(t, res.Components)
	}
}

func TestDecomposeSingleState(t *testing.T) {
	d := New(registry.Default())

	res := d.Decompose("a measured study")
	assert.Equal(t, "restrained_study", res.NearestType)
	assert.Equal(t, space.MustNew(0.68, 0.53, 0.68, 0.25, 0.25), res.Coordinates)
	assert.Zero(t, res.Distance)
	assert.Equal(t, 1.0, res.Confidence)
	require.Len(t, res.Components, 1)
	assert.Equal(t, 1.0, res.Components[0].Weight)
}

func TestDecomposeBlend(t *testing.T) {
	reg := registry.Default()
	d := New(reg)

	// ghost (1.0) + flood (1.0): midpoint of the two centroids
	res := d.Decompose("ghost flood")
	ghost, _ := reg.State("ghost_impression")
	flood, _ := reg.State("chromatic_flood")
	want := space.Interpolate(ghost.Centroid, flood.Centroid, 0.5)
	for a := range want {
		assert.InDelta(t, want[a], res.Coordinates[a], 1e-12)
	}
	require.Len(t, res.Components, 2)
	assert.InDelta(t, 0.5, res.Components[0].Weight, 1e-12)
	assert.InDelta(t, 0.5, res.Components[1].Weight, 1e-12)

	nearest, dist := reg.NearestState(res.Coordinates)
	assert.Equal(t, nearest.ID, res.NearestType)
	assert.InDelta(t, 1-dist/space.MaxDistance, res.Confidence, 1e-12)
}

func TestDecomposeAlwaysInsideHypercube(t *testing.T) {
	reg := registry.Default()
	d := New(reg)

	var texts []string
	for i := 0; i < reg.StateCount(); i++ {
		texts = append(texts, strings.Join(reg.StateAt(i).Vocabulary.Terms(), " "))
	}
	texts = append(texts, strings.Join(texts, " "))

	for _, text := range texts {
		res := d.Decompose(text)
		require.NoError(t, res.Coordinates.Validate())
		assert.GreaterOrEqual(t, res.Confidence, 0.0)
		assert.LessOrEqual(t, res.Confidence, 1.0)

		var total float64
		for _, c := range res.Components {
			total += c.Weight
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	}
}

func TestDecomposeOwnVocabulary(t *testing.T) {
	reg := registry.Default()
	d := New(reg)

	for i := 0; i < reg.VisualTypeCount(); i++ {
		vt := reg.VisualTypeAt(i)
		res := d.Decompose(strings.Join(vt.Vocabulary.Terms(), " "))
		assert.Equal(t, vt.ID, res.NearestType)
		assert.Less(t, space.Distance(res.Coordinates, vt.Centroid), 0.02, vt.ID)
	}
}
