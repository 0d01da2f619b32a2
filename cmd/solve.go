package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bent101/wordle-entropy/internal/observability"
	"github.com/bent101/wordle-entropy/session"
)

func newSolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "solve",
		Short: "Solve a game interactively",
		Long: `Suggests a guess each round and reads back the game's feedback: one digit
per letter, 0 for grey, 1 for yellow and 2 for green (e.g. 20110).
Enter 3 or "solved" when the guess was right.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.loadIndex(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s := session.New(idx, a.sessionOptions(0)...)
			prompt := session.NewPrompt(cmd.InOrStdin(), out, idx.Length())

			_, err = s.Run(cmd.Context(), prompt, &console{out: out, color: observability.IsTerminal(out)})
			return err
		},
	}
}

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play [answer]",
		Short: "Let the solver play against a known answer",
		Long:  "Plays a game against answer, or against a random dictionary word when none is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.loadIndex(cmd)
			if err != nil {
				return err
			}
			dict := idx.Dictionary()

			var answer string
			if len(args) == 1 {
				answer = strings.ToLower(strings.TrimSpace(args[0]))
				if !dict.Valid(answer) {
					return fmt.Errorf("%w: %q is not a %d-letter word", session.ErrUnknownWord, args[0], dict.Length())
				}
			} else {
				answer = dict.Word(rand.IntN(dict.Len()))
			}

			out := cmd.OutOrStdout()
			s := session.New(idx, a.sessionOptions(0)...)
			_, err = s.Run(cmd.Context(), session.NewOracle(answer), &console{out: out, color: observability.IsTerminal(out)})
			return err
		},
	}
}
