package space

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/watercolor/errors"
)

var (
	editorial = MustNew(0.15, 0.85, 0.10, 0.20, 0.90)
	full      = MustNew(0.85, 0.15, 0.75, 0.85, 0.10)
	contested = MustNew(0.50, 0.50, 0.35, 0.50, 0.50)
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{"valid", []float64{0, 0.5, 1, 0.25, 0.75}, false},
		{"too few axes", []float64{0.1, 0.2, 0.3, 0.4}, true},
		{"too many axes", []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, true},
		{"above one", []float64{0.1, 1.01, 0.3, 0.4, 0.5}, true},
		{"negative", []float64{0.1, 0.2, -0.001, 0.4, 0.5}, true},
		{"nan", []float64{0.1, 0.2, 0.3, math.NaN(), 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.values...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidState(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.values, s[:])
		})
	}
}

func TestFromMap(t *testing.T) {
	s, err := FromMap(map[string]float64{
		"dissolution_rate":     0.85,
		"edge_coherence":       0.15,
		"substrate_visibility": 0.75,
		"pigment_hydrology":    0.85,
		"anchor_density":       0.10,
	})
	require.NoError(t, err)
	assert.Equal(t, full, s)

	_, err = FromMap(map[string]float64{"dissolution_rate": 0.5})
	assert.True(t, errors.IsInvalidState(err))

	_, err = FromMap(map[string]float64{
		"dissolution_rate":     0.5,
		"edge_coherence":       0.5,
		"substrate_visibility": 0.5,
		"pigment_hydrology":    0.5,
		"wetness":              0.5,
	})
	assert.True(t, errors.IsInvalidState(err))
}

func TestParseAxis(t *testing.T) {
	for _, a := range Axes() {
		got, err := ParseAxis(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := ParseAxis("saturation")
	assert.True(t, errors.IsUnknownIdentifier(err))
	assert.Equal(t, "unknown", Axis(7).String())
}

func TestDistanceProperties(t *testing.T) {
	states := []State{editorial, full, contested, {}, MustNew(1, 1, 1, 1, 1)}

	for _, a := range states {
		assert.Zero(t, Distance(a, a))
		for _, b := range states {
			d := Distance(a, b)
			assert.GreaterOrEqual(t, d, 0.0)
			assert.Equal(t, d, Distance(b, a))
			assert.LessOrEqual(t, d, MaxDistance+1e-12)
		}
	}

	assert.InDelta(t, math.Sqrt(5), Distance(State{}, MustNew(1, 1, 1, 1, 1)), 1e-12)
}

func TestDistanceOn(t *testing.T) {
	d := DistanceOn(editorial, full, []Axis{EdgeCoherence, PigmentHydrology})
	assert.InDelta(t, math.Hypot(0.70, 0.65), d, 1e-12)
	assert.Zero(t, DistanceOn(editorial, full, nil))
}

func TestInterpolate(t *testing.T) {
	assert.Equal(t, editorial, Interpolate(editorial, full, 0))
	assert.Equal(t, full, Interpolate(editorial, full, 1))

	mid := Interpolate(editorial, full, 0.5)
	assert.InDelta(t, 0.5, mid[DissolutionRate], 1e-12)
	assert.InDelta(t, 0.5, mid[AnchorDensity], 1e-12)

	// t outside [0, 1] is clamped
	assert.Equal(t, full, Interpolate(editorial, full, 1.7))
	assert.Equal(t, editorial, Interpolate(editorial, full, -3))

	for i := 0; i <= 100; i++ {
		s := Interpolate(State{}, MustNew(1, 1, 1, 1, 1), float64(i)/100)
		require.NoError(t, s.Validate())
	}
}

func TestDiffAndDominantAxis(t *testing.T) {
	deltas := Diff(editorial, full)
	require.Len(t, deltas, Dims)
	assert.Equal(t, "dissolution_rate", deltas[0].Axis)
	assert.InDelta(t, 0.70, deltas[0].Delta, 1e-12)
	assert.InDelta(t, -0.80, deltas[4].Delta, 1e-12)

	assert.Equal(t, AnchorDensity, DominantAxis(editorial, full))
	assert.Equal(t, DissolutionRate, DominantAxis(editorial, editorial))

	sorted := SortedByDelta(deltas)
	assert.Equal(t, "anchor_density", sorted[0].Axis)
}

func TestClamped(t *testing.T) {
	s := State{-0.2, 1.4, 0.5, math.NaN(), 1}
	assert.Equal(t, State{0, 1, 0.5, 0, 1}, s.Clamped())
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(contested)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"dissolution_rate": 0.5,
		"edge_coherence": 0.5,
		"substrate_visibility": 0.35,
		"pigment_hydrology": 0.5,
		"anchor_density": 0.5
	}`, string(data))

	var fromObject State
	require.NoError(t, json.Unmarshal(data, &fromObject))
	assert.Equal(t, contested, fromObject)

	var fromArray State
	require.NoError(t, json.Unmarshal([]byte(`[0.15, 0.85, 0.10, 0.20, 0.90]`), &fromArray))
	assert.Equal(t, editorial, fromArray)

	var bad State
	err = json.Unmarshal([]byte(`[0.1, 0.2]`), &bad)
	assert.True(t, errors.IsInvalidState(err))
	err = json.Unmarshal([]byte(`"nope"`), &bad)
	assert.True(t, errors.IsInvalidState(err))
}
