package display

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/watercolor/dissolution"
	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/trajectory"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func engine() *dissolution.Engine {
	return dissolution.New(registry.Default(), dissolution.Options{})
}

func TestMarshalJSONPrettyInTests(t *testing.T) {
	data, err := MarshalJSON(map[string]int{"steps": 20})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"steps\": 20\n}", string(data))
}

func TestIsAgentCaller(t *testing.T) {
	for _, env := range []string{"WATERCOLOR_CALLER", "CLAUDECODE", "CLAUDE_CODE_ENTRYPOINT", "CURSOR", "GITHUB_COPILOT"} {
		t.Setenv(env, "")
	}
	assert.False(t, IsAgentCaller())

	t.Setenv("WATERCOLOR_CALLER", "llm")
	assert.True(t, IsAgentCaller())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, engine().ValidateRoundTrip()))
	assert.Contains(t, buf.String(), `"accuracy": 1`)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestRoundTripTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RoundTrip(&buf, engine().ValidateRoundTrip()))
	out := buf.String()
	assert.Contains(t, out, "editorial_wash")
	assert.Contains(t, out, "chromatic_flood")
	assert.Contains(t, out, "PASS accuracy 1.0000")
}

func TestStepsTable(t *testing.T) {
	p, err := engine().TrajectoryByID("editorial_wash", "full_dissolution", 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Steps(&buf, p.Steps))
	out := buf.String()
	assert.Contains(t, out, "dissolution_rate")
	assert.Contains(t, out, "full_dissolution")
	assert.Contains(t, out, "0.5000")
}

func TestTables(t *testing.T) {
	e := engine()
	var buf bytes.Buffer

	cls, err := e.Classify("ghost flood", "")
	require.NoError(t, err)
	require.NoError(t, Classification(&buf, cls))
	assert.Contains(t, buf.String(), "ghost_impression")

	buf.Reset()
	require.NoError(t, Decomposition(&buf, e.Decompose("ghost flood")))
	assert.Contains(t, buf.String(), "nearest ")

	buf.Reset()
	rep, err := e.DistanceByID("editorial_wash", "painterly_freedom")
	require.NoError(t, err)
	require.NoError(t, Distance(&buf, rep))
	assert.Contains(t, buf.String(), "dominant anchor_density")

	buf.Reset()
	params, err := e.MapParameters("full_dissolution", mapper.Options{})
	require.NoError(t, err)
	require.NoError(t, Parameters(&buf, params))
	assert.Contains(t, buf.String(), "edge feathered_bleed")
	require.NoError(t, Vocabulary(&buf, params.Vocabulary))
	assert.Contains(t, buf.String(), "hydrology")

	buf.Reset()
	en, err := e.Enhance("loose painterly watercolor with blooming wet effects", dissolution.EnhanceOptions{Style: "impasto"})
	require.NoError(t, err)
	require.NoError(t, Enhancement(&buf, en))
	assert.Contains(t, buf.String(), "detected full_dissolution (1.0000), applied full_dissolution, override ignored")
	assert.Contains(t, buf.String(), "Digital watercolor treatment in full dissolution mode.")

	buf.Reset()
	s, err := e.Resolve("creative_tension")
	require.NoError(t, err)
	res, err := e.AttractorPrompt(s, "sequence", "")
	require.NoError(t, err)
	require.NoError(t, Attractor(&buf, res))
	assert.Contains(t, buf.String(), "Keyframe 1:")

	buf.Reset()
	seq, err := e.ApplyPreset("fidelity_breathing")
	require.NoError(t, err)
	require.NoError(t, States(&buf, seq.States))
	assert.Contains(t, buf.String(), "19")

	buf.Reset()
	osc, err := e.Oscillate("ghost_impression", "chromatic_flood", trajectory.Oscillation{Period: 4, Cycles: 1})
	require.NoError(t, err)
	require.NoError(t, Steps(&buf, osc.Steps))
	assert.Contains(t, buf.String(), "step")
}
