package entropy

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/bent101/wordle-entropy/hint"
	"github.com/bent101/wordle-entropy/index"
)

// Score is the entropy of one candidate guess.
type Score struct {
	Word    string  `json:"word"`
	Index   int     `json:"-"`
	Entropy float64 `json:"entropy"`
}

// Ranker scores candidate guesses against a set of possible answers.
type Ranker struct {
	idx     *index.Index
	workers int
}

// NewRanker returns a ranker over idx. workers below one means
// runtime.NumCPU().
func NewRanker(idx *index.Index, workers int) *Ranker {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Ranker{idx: idx, workers: workers}
}

// Rank returns the score of every candidate, in candidate order.
//
// For each candidate the hints of its index row are counted over the possible
// answers into a dense array with one slot per hint, and the entropy of those
// counts is its score. Candidates are split into contiguous chunks, one
// goroutine per chunk; the index and possible are only read.
func (r *Ranker) Rank(ctx context.Context, candidates []int, possible *bitset.BitSet) ([]Score, error) {
	scores := make([]Score, len(candidates))
	if len(candidates) == 0 {
		return scores, nil
	}

	workers := min(r.workers, len(candidates))
	chunk := (len(candidates) + workers - 1) / workers
	slots := hint.Count(r.idx.Length())
	remaining := int(possible.Count())
	dict := r.idx.Dictionary()

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(candidates); start += chunk {
		end := min(start+chunk, len(candidates))
		g.Go(func() error {
			counts := make([]int, slots)
			mult := make([]int, remaining+1)
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				c := candidates[i]
				total := r.idx.Histogram(c, possible, counts)
				scores[i] = Score{
					Word:    dict.Word(c),
					Index:   c,
					Entropy: fromCounts(counts, total, mult),
				}
				clear(counts)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Best returns the highest scoring entry, the earliest one on ties.
func Best(scores []Score) (Score, bool) {
	i, ok := MaxBy(scores, func(s Score) float64 { return s.Entropy })
	if !ok {
		return Score{}, false
	}
	return scores[i], true
}

// Top returns up to k scores, best first. Equal scores keep their order.
func Top(scores []Score, k int) []Score {
	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, func(a, b Score) int {
		return cmp.Compare(b.Entropy, a.Entropy)
	})
	if k >= 0 && k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}
