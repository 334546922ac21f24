package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"Loose, PAINTERLY watercolor!", []string{"loose", "painterly", "watercolor"}},
		{"wet-on-wet", []string{"wet", "on", "wet"}},
		{"co-subject/paper_tooth", []string{"co", "subject", "paper", "tooth"}},
		{"café 2nd", []string{"café", "2nd"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func testMatcher() *Matcher {
	return NewMatcher([]Vocabulary{
		{{"bloom", 0.6}, {"wet on wet", 1.0}, {"soft edge", 0.5}},
		{{"blooming", 0.6}, {"flood", 1.0}},
		{{"wet", 0.2}},
	})
}

func TestMatcherScore(t *testing.T) {
	m := testMatcher()

	tests := []struct {
		name    string
		text    string
		want    []float64
		matched [][]string
	}{
		{
			name:    "empty text",
			text:    "",
			want:    []float64{0, 0, 0},
			matched: [][]string{nil, nil, nil},
		},
		{
			name:    "whole tokens only",
			text:    "blooming",
			want:    []float64{0, 0.6, 0},
			matched: [][]string{nil, {"blooming"}, nil},
		},
		{
			name:    "phrase and its tokens",
			text:    "Wet-on-wet bloom",
			want:    []float64{1.6, 0, 0.2},
			matched: [][]string{{"wet on wet", "bloom"}, nil, {"wet"}},
		},
		{
			name:    "each keyword once",
			text:    "flood flood flood",
			want:    []float64{0, 1.0, 0},
			matched: [][]string{nil, {"flood"}, nil},
		},
		{
			name:    "phrase cut short",
			text:    "wet on",
			want:    []float64{0, 0, 0.2},
			matched: [][]string{nil, nil, {"wet"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := m.Score(tt.text)
			assert.InDeltaSlice(t, tt.want, s.Values, 1e-12)
			assert.Equal(t, tt.matched, s.Matched)
		})
	}
}

func TestScoresRanked(t *testing.T) {
	s := Scores{Values: []float64{1, 3, 3, 0, 2}}
	assert.Equal(t, []int{1, 2, 4, 0, 3}, s.Ranked())
	assert.Equal(t, 9.0, s.Total())

	zero := Scores{Values: []float64{0, 0, 0}}
	assert.Equal(t, []int{0, 1, 2}, zero.Ranked())
}

func TestVocabularyHelpers(t *testing.T) {
	v := Vocabulary{{"ghost", 1}, {"faded", 0.8}, {"bleached", 0.6}}

	assert.Equal(t, []string{"ghost", "faded", "bleached"}, v.Terms())
	assert.Equal(t, []string{"ghost", "faded"}, v.Leading(2))
	assert.Len(t, v.Leading(10), 3)

	w, ok := v.Weight("faded")
	assert.True(t, ok)
	assert.Equal(t, 0.8, w)
	_, ok = v.Weight("spectral")
	assert.False(t, ok)
}
