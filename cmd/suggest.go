package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/hint"
	"github.com/bent101/wordle-entropy/internal/observability"
	"github.com/bent101/wordle-entropy/session"
)

func newSuggestCmd(a *app) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "suggest [guess=feedback ...]",
		Short: "Rank the next guesses for a game in progress",
		Example: `  wordle-entropy suggest
  wordle-entropy suggest slate=00201 crony=01000 --top 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.loadIndex(cmd)
			if err != nil {
				return err
			}
			steps, err := parseSteps(args, idx.Length())
			if err != nil {
				return err
			}

			s := session.New(idx, a.sessionOptions(top)...)
			err = s.Replay(steps...)
			if err != nil && !errors.Is(err, session.ErrExhausted) {
				return err
			}

			out := cmd.OutOrStdout()
			color := observability.IsTerminal(out)
			for _, r := range s.Rounds() {
				fmt.Fprintf(out, "%s  %d left\n", r.Hint.ColoredWord(r.Guess, color), r.Remaining)
			}

			switch s.State() {
			case session.Solved:
				fmt.Fprintf(out, "solved: %s\n", s.Outcome().Answer)
				return nil
			case session.Exhausted:
				fmt.Fprintln(out, session.ErrExhausted)
				return session.ErrExhausted
			}

			if n := s.Remaining(); n <= 20 {
				fmt.Fprintf(out, "%d possible: %s\n", n, strings.Join(s.RemainingWords(-1), " "))
			} else {
				fmt.Fprintf(out, "%d possible\n", n)
			}

			sug, err := s.Suggest(cmd.Context())
			if err != nil {
				return err
			}
			for i, sc := range sug.Alternatives {
				fmt.Fprintf(out, "%2d. %s  %.4f bits\n", i+1, sc.Word, sc.Entropy)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "number of guesses to list (default solver.top)")
	return cmd
}

// parseSteps reads guess=feedback arguments.
func parseSteps(args []string, n int) ([]session.Step, error) {
	steps := make([]session.Step, len(args))
	for i, arg := range args {
		guess, pattern, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q: want guess=feedback", arg)
		}
		fb, err := session.ParseFeedback(pattern, n)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
		steps[i] = session.Step{Guess: guess, Feedback: fb}
	}
	return steps, nil
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <guess> <answer>",
		Short: "Show the feedback the game gives for guess when the answer is answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Both words go through the same checks as dictionary entries.
			words, err := dictionary.New(args)
			if err != nil {
				return err
			}
			guess, answer := words.Word(0), words.Word(0)
			if words.Len() == 2 {
				answer = words.Word(1)
			}

			h := hint.Compute(guess, answer)
			out := cmd.OutOrStdout()
			n := len(guess)
			fmt.Fprintf(out, "%s  %s  %s\n", h.ColoredWord(guess, observability.IsTerminal(out)), h.Format(n), h.Emoji(n))
			return nil
		},
	}
}
