package crossval

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-segeval/metrics"
)

// TrainFunc fits a model on the training indices and returns an opaque
// handle for the paired EvalFunc. Implementations must be side-effect
// free with respect to shared mutable state if folds run concurrently;
// cancellation is the callback's responsibility.
type TrainFunc func(ctx context.Context, train []int) (any, error)

// EvalFunc evaluates a trained model on the held-out indices.
type EvalFunc func(ctx context.Context, model any, test []int) (metrics.Set, error)

// Candidate pairs a model name with its train/evaluate callbacks for
// multi-model comparison over shared folds.
type Candidate struct {
	Name  string
	Train TrainFunc
	Eval  EvalFunc
}

// Option configures a Runner.
type Option func(*config)

type config struct {
	workers int
	seed    int64
	labels  []int
	logger  *slog.Logger
}

func defaultConfig() config {
	return config{
		workers: 1,
		seed:    1,
		logger:  slog.Default(),
	}
}

// WithWorkers sets the number of folds trained concurrently
// (default: 1, fully sequential).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithSeed sets the fold partition seed (default: 1).
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithStratifyBy enables stratified folds over the given per-sample
// class labels.
func WithStratifyBy(labels []int) Option {
	return func(c *config) {
		c.labels = labels
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

// Runner executes k-fold cross-validation. Folds are logically
// independent; when workers > 1 they run concurrently, but aggregation
// order is always fold index, never completion order.
type Runner struct {
	cfg config
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner{cfg: cfg}
}

// Result holds per-fold metric sets in fold order plus their
// concatenated aggregate.
type Result struct {
	Folds      FoldSet
	PerFold    []metrics.Set
	Aggregated metrics.Set
}

// Run trains and evaluates once per fold over a universe of n samples.
func (r *Runner) Run(ctx context.Context, n, k int, train TrainFunc, eval EvalFunc) (Result, error) {
	folds, err := r.buildFolds(n, k)
	if err != nil {
		return Result{}, err
	}

	perFold, err := r.runFolds(ctx, folds, train, eval)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Folds:      folds,
		PerFold:    perFold,
		Aggregated: metrics.Merge(perFold...),
	}, nil
}

// CompareModels runs every candidate over the same fold partition,
// returning per-candidate fold results keyed by candidate name.
// Sharing folds keeps the later statistical comparison paired.
func (r *Runner) CompareModels(ctx context.Context, n, k int, candidates []Candidate) (map[string][]metrics.Set, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	folds, err := r.buildFolds(n, k)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]metrics.Set, len(candidates))
	for _, cand := range candidates {
		r.cfg.logger.Debug("evaluating candidate", "name", cand.Name, "folds", k)
		perFold, err := r.runFolds(ctx, folds, cand.Train, cand.Eval)
		if err != nil {
			return nil, fmt.Errorf("candidate %q: %w", cand.Name, err)
		}
		out[cand.Name] = perFold
	}
	return out, nil
}

func (r *Runner) buildFolds(n, k int) (FoldSet, error) {
	if r.cfg.labels != nil {
		if len(r.cfg.labels) != n {
			return FoldSet{}, fmt.Errorf("%w: %d labels for %d samples",
				ErrInvalidFoldCount, len(r.cfg.labels), n)
		}
		return StratifiedFolds(r.cfg.labels, k, r.cfg.seed)
	}
	return Folds(n, k, r.cfg.seed)
}

// runFolds dispatches folds to a bounded worker group. Each fold writes
// only its own slot, so the result order is deterministic regardless of
// completion order.
func (r *Runner) runFolds(ctx context.Context, folds FoldSet, train TrainFunc, eval EvalFunc) ([]metrics.Set, error) {
	perFold := make([]metrics.Set, folds.K())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.workers)

	for i := 0; i < folds.K(); i++ {
		g.Go(func() error {
			trainIdx := folds.Train(i)
			testIdx := folds.Test(i)

			model, err := train(gctx, trainIdx)
			if err != nil {
				return fmt.Errorf("fold %d: training: %w", i, err)
			}
			set, err := eval(gctx, model, testIdx)
			if err != nil {
				return fmt.Errorf("fold %d: evaluation: %w", i, err)
			}

			perFold[i] = set
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perFold, nil
}
