package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool holds a fixed set of sessions over one model so corpus-scale
// segmentation can fan out across goroutines instead of serializing on
// a single session.
type Pool struct {
	idle     chan *Session
	capacity int

	mu     sync.Mutex
	closed bool
}

// NewPool loads capacity sessions of the model at path. Sessions are
// created up front so a broken model fails here, not mid-corpus.
// A capacity below 1 is raised to 1.
func NewPool(path string, capacity int) (*Pool, error) {
	if capacity < 1 {
		capacity = 1
	}

	p := &Pool{
		idle:     make(chan *Session, capacity),
		capacity: capacity,
	}
	for i := 0; i < capacity; i++ {
		s, err := NewSession(path)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("session %d of %d: %w", i+1, capacity, err)
		}
		p.idle <- s
	}
	return p, nil
}

// Acquire hands out an idle session, blocking until one frees up or
// the context is done. Returns ErrPoolClosed after Close.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case s, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release hands a session back. Sessions released after Close, or into
// a full pool, are closed instead of parked.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		_ = s.Close()
		return
	}

	select {
	case p.idle <- s:
	default:
		_ = s.Close()
	}
}

// PredictBatch segments every image concurrently, bounded by the pool
// capacity. All images share one height and width; probability grids
// come back in input order. The first failure cancels the remaining
// work.
func (p *Pool) PredictBatch(ctx context.Context, images [][]float32, height, width int) ([][]float64, error) {
	out := make([][]float64, len(images))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.capacity)
	for i, image := range images {
		g.Go(func() error {
			s, err := p.Acquire(ctx)
			if err != nil {
				return err
			}
			defer p.Release(s)

			probs, err := s.Predict(ctx, image, height, width)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			out[i] = probs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close drains the pool and closes every parked session. Sessions
// still checked out are closed when released. Idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.idle)

	var errs []error
	for s := range p.idle {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.capacity
}
