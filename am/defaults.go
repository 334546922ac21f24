package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("registry.path", "")
	v.SetDefault("registry.overrides", "")
	v.SetDefault("registry.allow_private", false)

	v.SetDefault("vocabulary.top_n", DefaultTopN)
	v.SetDefault("vocabulary.neighbors", DefaultNeighbors)
	v.SetDefault("vocabulary.epsilon", DefaultEpsilon)

	v.SetDefault("attractor.keyframes", DefaultKeyframes)
	v.SetDefault("trajectory.default_steps", DefaultSteps)
	v.SetDefault("trajectory.max_steps", DefaultMaxSteps)

	v.SetDefault("server.name", DefaultServerName)
	v.SetDefault("server.watch", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// newDefaultsViper returns a viper holding only the defaults
func newDefaultsViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

// BindEnvVars binds the settings most often overridden per invocation
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("registry.path", EnvPrefix+"_REGISTRY_PATH")
	v.BindEnv("registry.overrides", EnvPrefix+"_REGISTRY_OVERRIDES")
	v.BindEnv("log.json", EnvPrefix+"_LOG_JSON")
	v.BindEnv("log.verbosity", EnvPrefix+"_LOG_VERBOSITY")
}

// String returns a string representation of the config
func (c *Config) String() string {
	registry := c.Registry.Path
	if registry == "" {
		registry = "embedded"
	}
	return fmt.Sprintf("Config{Registry: %s, Vocabulary: {TopN: %d, Neighbors: %d}, Attractor: {Keyframes: %d}}",
		registry, c.Vocabulary.TopN, c.Vocabulary.Neighbors, c.Attractor.Keyframes)
}
