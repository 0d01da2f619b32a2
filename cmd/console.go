package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bent101/wordle-entropy/entropy"
	"github.com/bent101/wordle-entropy/session"
)

// console prints session progress for a person at a terminal.
type console struct {
	out   io.Writer
	color bool
}

func (c *console) Suggested(round int, s session.Suggestion) {
	fmt.Fprintf(c.out, "round %d: %d possible, guess %s (%.3f bits)\n",
		round, s.Remaining, strings.ToUpper(s.Guess), s.Entropy)
	if len(s.Alternatives) > 1 {
		fmt.Fprintf(c.out, "  also good: %s\n", formatScores(s.Alternatives[1:]))
	}
}

func (c *console) Rejected(_ int, _ string, err error) {
	fmt.Fprintf(c.out, "  %v, try again\n", err)
}

func (c *console) Applied(_ int, r session.Round) {
	fmt.Fprintf(c.out, "  %s  %d left\n", r.Hint.ColoredWord(r.Guess, c.color), r.Remaining)
}

func (c *console) Finished(o session.Outcome) {
	switch o.State {
	case session.Solved:
		fmt.Fprintf(c.out, "solved: %s in %d rounds\n", o.Answer, len(o.Rounds))
	case session.Exhausted:
		fmt.Fprintln(c.out, session.ErrExhausted)
	}
}

func formatScores(scores []entropy.Score) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%s %.3f", s.Word, s.Entropy)
	}
	return strings.Join(parts, ", ")
}
