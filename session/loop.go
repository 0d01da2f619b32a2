package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/bent101/wordle-entropy/hint"
)

// Source supplies the feedback the game gave for a guess. An error wrapping
// hint.ErrInvalidFeedback makes Run ask again; any other error ends the run.
type Source interface {
	Feedback(ctx context.Context, round int, guess string) (Feedback, error)
}

// Reporter is told about the progress of Run.
type Reporter interface {
	Suggested(round int, s Suggestion)
	Rejected(round int, guess string, err error)
	Applied(round int, r Round)
	Finished(o Outcome)
}

// NopReporter ignores every event.
type NopReporter struct{}

func (NopReporter) Suggested(int, Suggestion) {}
func (NopReporter) Rejected(int, string, error) {}
func (NopReporter) Applied(int, Round) {}
func (NopReporter) Finished(Outcome) {}

// Run plays rounds until the session is solved or exhausted. Rounds are
// strictly sequential: a guess is suggested only after the previous
// feedback has been applied.
func (s *Session) Run(ctx context.Context, src Source, rep Reporter) (Outcome, error) {
	if rep == nil {
		rep = NopReporter{}
	}
	s.log.Info().Int("words", s.idx.Len()).Msg("session started")

	for s.state == Active {
		if s.maxRounds > 0 && len(s.rounds) >= s.maxRounds {
			return s.Outcome(), fmt.Errorf("%w: %d", ErrRoundLimit, s.maxRounds)
		}
		round := len(s.rounds) + 1

		sug, err := s.Suggest(ctx)
		if err != nil {
			return s.Outcome(), err
		}
		rep.Suggested(round, sug)

		if err := s.play(ctx, src, rep, round, sug.Guess); err != nil {
			if errors.Is(err, ErrExhausted) {
				rep.Finished(s.Outcome())
			}
			return s.Outcome(), err
		}
	}

	o := s.Outcome()
	rep.Finished(o)
	return o, nil
}

// play asks for feedback on guess until it is accepted.
func (s *Session) play(ctx context.Context, src Source, rep Reporter, round int, guess string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fb, err := src.Feedback(ctx, round, guess)
		if err == nil {
			err = s.Apply(guess, fb)
		} else if !errors.Is(err, hint.ErrInvalidFeedback) {
			return fmt.Errorf("feedback input: %w", err)
		}

		switch {
		case errors.Is(err, hint.ErrInvalidFeedback):
			s.log.Debug().Err(err).Int("round", round).Msg("feedback rejected")
			rep.Rejected(round, guess, err)
			continue
		case err == nil, errors.Is(err, ErrExhausted):
			rep.Applied(round, s.rounds[len(s.rounds)-1])
		}
		return err
	}
}
