package dissolution

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/watercolor/am"
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/registry"
)

// OptionsFromConfig maps the am configuration onto engine options.
func OptionsFromConfig(cfg *am.Config) Options {
	return Options{
		Vocabulary: mapper.Settings{
			TopN:      cfg.Vocabulary.TopN,
			Neighbors: cfg.Vocabulary.Neighbors,
			Epsilon:   cfg.Vocabulary.Epsilon,
		},
		Keyframes: cfg.Attractor.Keyframes,
		MaxSteps:  cfg.Trajectory.MaxSteps,
	}
}

// LoadRegistry returns the registry cfg selects: the embedded default when
// neither a path nor an overlay is configured, otherwise the fetched file
// (or the embedded data) with the overlay applied.
func LoadRegistry(ctx context.Context, cfg am.RegistryConfig, log *zap.SugaredLogger) (*registry.Registry, error) {
	if cfg.Path == "" && cfg.Overrides == "" {
		return registry.Default(), nil
	}
	if log == nil {
		log = logger.ComponentLogger("registry")
	}

	fetch := registry.FetchOptions{AllowPrivate: cfg.AllowPrivate}
	data := registry.DefaultData()
	if cfg.Path != "" {
		var err error
		if data, err = registry.FetchWith(ctx, cfg.Path, fetch, log); err != nil {
			return nil, err
		}
	}

	var opts []registry.Option
	if cfg.Overrides != "" {
		ov, err := registry.FetchWith(ctx, cfg.Overrides, fetch, log)
		if err != nil {
			return nil, errors.Wrap(err, "registry overrides")
		}
		opts = append(opts, registry.WithOverrides(ov))
	}

	reg, err := registry.Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	log.Infow("Registry loaded",
		logger.FieldSource, cfg.Path,
		logger.FieldCount, reg.StateCount(),
		"version", reg.Version())
	return reg, nil
}

// FromConfig validates cfg, loads its registry and builds an engine.
func FromConfig(ctx context.Context, cfg *am.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	reg, err := LoadRegistry(ctx, cfg.Registry, nil)
	if err != nil {
		return nil, err
	}
	return New(reg, OptionsFromConfig(cfg)), nil
}
