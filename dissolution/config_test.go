package dissolution

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/watercolor/am"
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/registry"
)

func defaultConfig(t *testing.T) *am.Config {
	t.Helper()
	v := viper.New()
	am.SetDefaults(v)
	cfg, err := am.LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Vocabulary.TopN = 3
	cfg.Attractor.Keyframes = 6

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 3, opts.Vocabulary.TopN)
	assert.Equal(t, am.DefaultNeighbors, opts.Vocabulary.Neighbors)
	assert.Equal(t, 6, opts.Keyframes)
	assert.Equal(t, am.DefaultMaxSteps, opts.MaxSteps)
}

func TestLoadRegistryDefault(t *testing.T) {
	reg, err := LoadRegistry(context.Background(), am.RegistryConfig{}, nil)
	require.NoError(t, err)
	assert.Same(t, registry.Default(), reg)
}

func TestLoadRegistryWithOverrides(t *testing.T) {
	dir := t.TempDir()
	regPath := filepath.Join(dir, "watercolor.yaml")
	ovPath := filepath.Join(dir, "overrides.toml")
	require.NoError(t, os.WriteFile(regPath, registry.DefaultData(), 0644))
	require.NoError(t, os.WriteFile(ovPath, []byte("[rhythms.fidelity_breathing]\nperiod = 12\n"), 0644))

	reg, err := LoadRegistry(context.Background(), am.RegistryConfig{Path: regPath, Overrides: ovPath}, nil)
	require.NoError(t, err)

	p, err := reg.Rhythm("fidelity_breathing")
	require.NoError(t, err)
	assert.Equal(t, 12, p.Period)

	e := New(reg, Options{})
	seq, err := e.ApplyPreset("fidelity_breathing")
	require.NoError(t, err)
	assert.Len(t, seq.States, 12)
}

func TestLoadRegistryErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRegistry(context.Background(), am.RegistryConfig{Path: filepath.Join(dir, "missing.yaml")}, nil)
	assert.Error(t, err)

	ovPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(ovPath, []byte("[rhythms.nowhere]\nperiod = 12\n"), 0644))
	_, err = LoadRegistry(context.Background(), am.RegistryConfig{Overrides: ovPath}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownIdentifier(err))
}

func TestLoadRegistryRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(registry.DefaultData())
	}))
	defer srv.Close()
	src := srv.URL + "/watercolor.yaml"

	_, err := LoadRegistry(context.Background(), am.RegistryConfig{Path: src}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")

	reg, err := LoadRegistry(context.Background(), am.RegistryConfig{Path: src, AllowPrivate: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, registry.Default().StateCount(), reg.StateCount())
}

func TestFromConfig(t *testing.T) {
	cfg := defaultConfig(t)
	e, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Same(t, registry.Default(), e.Registry())

	cfg.Attractor.Keyframes = 1
	_, err = FromConfig(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}
