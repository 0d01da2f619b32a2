package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/entropy"
	"github.com/bent101/wordle-entropy/index"
	"github.com/bent101/wordle-entropy/internal/cache"
	"github.com/bent101/wordle-entropy/session"
)

func (a *app) loadDictionary() (*dictionary.Dictionary, error) {
	d, err := dictionary.Load(a.cfg.Dictionary.Path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	a.log.Debug().
		Str("path", a.cfg.Dictionary.Path).
		Int("words", d.Len()).
		Int("length", d.Length()).
		Msg("dictionary loaded")
	return d, nil
}

func (a *app) openCache() (*cache.Cache, error) {
	return cache.Open(a.cfg.Cache, a.log)
}

// builder returns the index build step, drawing a progress bar on w when
// enabled.
func (a *app) builder(w io.Writer) cache.BuildFunc {
	return func(ctx context.Context, dict *dictionary.Dictionary) (*index.Index, error) {
		opts := []index.Option{index.WithWorkers(a.cfg.Build.Workers)}
		if a.cfg.Build.Progress {
			bar := progressbar.NewOptions(dict.Len(),
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("indexing"),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			)
			defer bar.Finish()
			opts = append(opts, index.WithProgress(bar))
		}
		return index.Build(ctx, dict, opts...)
	}
}

// loadIndex loads the dictionary and its index, building the index when the
// cache cannot supply it.
func (a *app) loadIndex(cmd *cobra.Command) (*index.Index, error) {
	dict, err := a.loadDictionary()
	if err != nil {
		return nil, err
	}
	c, err := a.openCache()
	if err != nil {
		return nil, err
	}
	defer c.Close()

	idx, _, err := c.LoadOrBuild(cmd.Context(), dict, a.builder(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (a *app) policy() entropy.Policy {
	return entropy.Policy{EndgameThreshold: a.cfg.Solver.EndgameThreshold}
}

func (a *app) sessionOptions(top int) []session.Option {
	if top <= 0 {
		top = a.cfg.Solver.Top
	}
	return []session.Option{
		session.WithPolicy(a.policy()),
		session.WithWorkers(a.cfg.Solver.Workers),
		session.WithTop(top),
		session.WithMaxRounds(a.cfg.Solver.MaxRounds),
		session.WithLogger(a.log),
	}
}
