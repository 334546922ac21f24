package am

import "github.com/teranos/watercolor/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Vocabulary.TopN < 1 {
		return errors.NewInvalidArgument("vocabulary.top_n must be >= 1, got %d", c.Vocabulary.TopN)
	}
	if c.Vocabulary.Neighbors < 1 {
		return errors.NewInvalidArgument("vocabulary.neighbors must be >= 1, got %d", c.Vocabulary.Neighbors)
	}
	if !(c.Vocabulary.Epsilon > 0) {
		return errors.NewInvalidArgument("vocabulary.epsilon must be > 0, got %v", c.Vocabulary.Epsilon)
	}

	// sequences need both endpoints
	if c.Attractor.Keyframes < 2 {
		return errors.NewInvalidArgument("attractor.keyframes must be >= 2, got %d", c.Attractor.Keyframes)
	}
	if c.Trajectory.DefaultSteps < 2 {
		return errors.NewInvalidArgument("trajectory.default_steps must be >= 2, got %d", c.Trajectory.DefaultSteps)
	}
	if c.Trajectory.MaxSteps < c.Trajectory.DefaultSteps {
		return errors.NewInvalidArgument("trajectory.max_steps must be >= trajectory.default_steps (%d), got %d",
			c.Trajectory.DefaultSteps, c.Trajectory.MaxSteps)
	}
	if c.Attractor.Keyframes > c.Trajectory.MaxSteps {
		return errors.NewInvalidArgument("attractor.keyframes must be <= trajectory.max_steps (%d), got %d",
			c.Trajectory.MaxSteps, c.Attractor.Keyframes)
	}

	if c.Log.Verbosity < 0 {
		return errors.NewInvalidArgument("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
