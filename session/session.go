// Package session runs the guess/feedback loop for one game.
//
// A Session owns the set of still possible answers. Each round it suggests
// the guess with the highest entropy, takes the feedback the game gave for
// it and keeps only the words that would have produced that feedback.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bent101/wordle-entropy/entropy"
	"github.com/bent101/wordle-entropy/hint"
	"github.com/bent101/wordle-entropy/index"
)

var (
	// ErrExhausted means no dictionary word is consistent with the feedback
	// received so far.
	ErrExhausted = errors.New("no consistent word remains")
	// ErrFinished is returned when a solved or exhausted session is used.
	ErrFinished = errors.New("session finished")
	// ErrUnknownWord is returned for a guess that cannot be scored against
	// the dictionary.
	ErrUnknownWord = errors.New("unknown word")
	// ErrRoundLimit is returned by Run when the round limit is reached.
	ErrRoundLimit = errors.New("round limit reached")
)

// State is the lifecycle state of a session.
type State uint8

const (
	Active State = iota
	Solved
	Exhausted
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Feedback is what the game said about a guess. Solved is the out-of-band
// signal that the guess was the answer; Hint is ignored when it is set.
type Feedback struct {
	Hint   hint.Hint
	Solved bool
}

// Round is one applied guess.
type Round struct {
	Guess     string    `json:"guess"`
	Hint      hint.Hint `json:"-"`
	Solved    bool      `json:"solved"`
	Remaining int       `json:"remaining"`
}

// Suggestion is the guess proposed for the next round.
type Suggestion struct {
	Guess        string
	Index        int
	Entropy      float64
	Remaining    int
	Candidates   int
	Alternatives []entropy.Score
}

// Outcome summarises a finished or aborted session.
type Outcome struct {
	ID     string
	State  State
	Answer string
	Rounds []Round
}

type options struct {
	policy    entropy.Policy
	workers   int
	top       int
	maxRounds int
	log       zerolog.Logger
}

// Option configures a Session.
type Option func(*options)

// WithPolicy sets the candidate policy. The default is entropy.DefaultPolicy.
func WithPolicy(p entropy.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithWorkers sets the ranking parallelism.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithTop sets how many alternatives a Suggestion carries. It is at least
// one, the suggested guess itself.
func WithTop(k int) Option {
	return func(o *options) { o.top = k }
}

// WithMaxRounds makes Run give up with ErrRoundLimit after n rounds. Zero
// means no limit.
func WithMaxRounds(n int) Option {
	return func(o *options) { o.maxRounds = n }
}

// WithLogger sets the logger. Records carry the session id.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Session is a single solving session. It is not safe for concurrent use.
type Session struct {
	id        string
	idx       *index.Index
	ranker    *entropy.Ranker
	policy    entropy.Policy
	top       int
	maxRounds int
	log       zerolog.Logger

	possible *bitset.BitSet
	state    State
	rounds   []Round
}

// New starts a session over idx with every word possible.
func New(idx *index.Index, opts ...Option) *Session {
	o := options{
		policy: entropy.DefaultPolicy(),
		top:    5,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.top = max(o.top, 1)

	id := uuid.NewString()
	return &Session{
		id:        id,
		idx:       idx,
		ranker:    entropy.NewRanker(idx, o.workers),
		policy:    o.policy,
		top:       o.top,
		maxRounds: o.maxRounds,
		log:       o.log.With().Str("session", id).Logger(),
		possible:  idx.Full(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

func (s *Session) Remaining() int { return int(s.possible.Count()) }

// Possible returns a copy of the possible set.
func (s *Session) Possible() *bitset.BitSet { return s.possible.Clone() }

// Rounds returns the rounds applied so far.
func (s *Session) Rounds() []Round { return slices.Clone(s.rounds) }

// RemainingWords returns up to limit possible answers in dictionary order.
// A negative limit returns all of them.
func (s *Session) RemainingWords(limit int) []string {
	dict := s.idx.Dictionary()
	var out []string
	for w, ok := s.possible.NextSet(0); ok; w, ok = s.possible.NextSet(w + 1) {
		if limit >= 0 && len(out) == limit {
			break
		}
		out = append(out, dict.Word(int(w)))
	}
	return out
}

// Advance returns the members of possible that answer guess with h.
// possible is not modified.
func Advance(idx *index.Index, possible *bitset.BitSet, guess int, h hint.Hint) *bitset.BitSet {
	return idx.Filter(possible, guess, h)
}

// Suggest ranks the candidates allowed by the policy and returns the best.
func (s *Session) Suggest(ctx context.Context) (Suggestion, error) {
	if s.state != Active {
		return Suggestion{}, ErrFinished
	}
	remaining := s.Remaining()

	// A single possible answer is the only sensible guess whatever the
	// policy; every word scores zero against it.
	if remaining == 1 {
		w, _ := s.possible.NextSet(0)
		word := s.idx.Dictionary().Word(int(w))
		return Suggestion{
			Guess:        word,
			Index:        int(w),
			Remaining:    1,
			Candidates:   1,
			Alternatives: []entropy.Score{{Word: word, Index: int(w)}},
		}, nil
	}

	candidates := s.policy.Candidates(s.idx.Len(), s.possible)
	scores, err := s.ranker.Rank(ctx, candidates, s.possible)
	if err != nil {
		return Suggestion{}, err
	}
	best, ok := entropy.Best(scores)
	if !ok {
		return Suggestion{}, ErrExhausted
	}

	s.log.Debug().
		Str("guess", best.Word).
		Float64("entropy", best.Entropy).
		Int("remaining", remaining).
		Int("candidates", len(candidates)).
		Msg("suggested")

	return Suggestion{
		Guess:        best.Word,
		Index:        best.Index,
		Entropy:      best.Entropy,
		Remaining:    remaining,
		Candidates:   len(candidates),
		Alternatives: entropy.Top(scores, s.top),
	}, nil
}

// Apply records the feedback received for guess.
//
// Invalid feedback returns a *hint.InvalidFeedbackError and changes nothing.
// The solved signal or an all-correct hint ends the session as Solved. An
// empty possible set ends it as Exhausted and returns ErrExhausted.
func (s *Session) Apply(guess string, fb Feedback) error {
	if s.state != Active {
		return ErrFinished
	}
	n := s.idx.Length()
	if !fb.Solved {
		if err := hint.Check(fb.Hint, n); err != nil {
			return err
		}
	}

	dict := s.idx.Dictionary()
	guess = strings.ToLower(strings.TrimSpace(guess))
	g, known := dict.Index(guess)
	if !known && !dict.Valid(guess) {
		return fmt.Errorf("%w: %q", ErrUnknownWord, guess)
	}

	if fb.Solved || fb.Hint == hint.AllCorrect(n) {
		fb.Hint = hint.AllCorrect(n)
		next := bitset.New(uint(s.idx.Len()))
		if known {
			next.Set(uint(g))
		}
		s.possible = next
		s.state = Solved
		s.record(guess, fb.Hint, true)
		s.log.Info().Str("answer", guess).Int("rounds", len(s.rounds)).Msg("solved")
		return nil
	}

	var next *bitset.BitSet
	if known {
		next = Advance(s.idx, s.possible, g, fb.Hint)
	} else {
		next = s.filterDirect(guess, fb.Hint)
	}
	s.possible = next
	s.record(guess, fb.Hint, false)

	s.log.Debug().
		Str("guess", guess).
		Str("hint", fb.Hint.Format(n)).
		Int("remaining", s.Remaining()).
		Msg("applied")

	if next.None() {
		s.state = Exhausted
		s.log.Warn().Int("rounds", len(s.rounds)).Msg("no consistent word remains")
		return ErrExhausted
	}
	return nil
}

// Step is one recorded guess and the feedback it got.
type Step struct {
	Guess    string
	Feedback Feedback
}

// Replay applies recorded steps in order. It stops at the first step that
// fails, naming it in the error.
func (s *Session) Replay(steps ...Step) error {
	for i, st := range steps {
		if err := s.Apply(st.Guess, st.Feedback); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Guess, err)
		}
	}
	return nil
}

// filterDirect narrows by a guess the index has no row for.
func (s *Session) filterDirect(guess string, h hint.Hint) *bitset.BitSet {
	dict := s.idx.Dictionary()
	out := bitset.New(uint(s.idx.Len()))
	for w, ok := s.possible.NextSet(0); ok; w, ok = s.possible.NextSet(w + 1) {
		if hint.Compute(guess, dict.Word(int(w))) == h {
			out.Set(w)
		}
	}
	return out
}

func (s *Session) record(guess string, h hint.Hint, solved bool) {
	s.rounds = append(s.rounds, Round{
		Guess:     guess,
		Hint:      h,
		Solved:    solved,
		Remaining: s.Remaining(),
	})
}

// Outcome returns the session summary so far.
func (s *Session) Outcome() Outcome {
	o := Outcome{ID: s.id, State: s.state, Rounds: s.Rounds()}
	if s.state == Solved {
		o.Answer = s.rounds[len(s.rounds)-1].Guess
	}
	return o
}
