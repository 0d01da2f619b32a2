package index

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/hint"
)

// Progress receives one tick per finished row. *progressbar.ProgressBar
// satisfies it.
type Progress interface {
	Add(n int) error
}

type buildOptions struct {
	workers  int
	progress Progress
}

// Option configures Build.
type Option func(*buildOptions)

// WithWorkers bounds the number of rows computed at once. Values below one
// mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *buildOptions) { o.workers = n }
}

func WithProgress(p Progress) Option {
	return func(o *buildOptions) { o.progress = p }
}

// Build computes the hint of every ordered pair of dictionary words.
//
// Each guess row is computed by one goroutine that writes only that row, so
// no locking is needed. The only error is ctx being cancelled.
func Build(ctx context.Context, dict *dictionary.Dictionary, opts ...Option) (*Index, error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}

	n := dict.Len()
	x := &Index{
		dict:  dict,
		n:     n,
		codes: make([]hint.Hint, n*n),
	}
	words := dict.Words()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for guess := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := x.codes[guess*n : (guess+1)*n]
			gw := words[guess]
			for answer, aw := range words {
				row[answer] = hint.Compute(gw, aw)
			}
			if o.progress != nil {
				_ = o.progress.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return x, nil
}
