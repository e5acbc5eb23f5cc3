package segeval

import (
	"log/slog"

	"github.com/jamesainslie/go-segeval/validate"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	positive  string
	threshold float64
	validator validate.Config
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		positive:  "foreground",
		threshold: 0.5,
		validator: validate.DefaultConfig(),
		logger:    slog.Default(),
	}
}

// WithPositiveLabel names the positive class for categorical grids
// (default: "foreground"). Matching is by name identity; category
// order never decides positivity.
func WithPositiveLabel(name string) Option {
	return func(c *config) {
		if name != "" {
			c.positive = name
		}
	}
}

// WithThreshold sets the decision boundary for probability grids
// (default: 0.5). Cells strictly above the boundary are positive.
func WithThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithValidatorConfig overrides the plausibility validation thresholds
// (default: validate.DefaultConfig()).
func WithValidatorConfig(cfg validate.Config) Option {
	return func(c *config) {
		c.validator = cfg
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
