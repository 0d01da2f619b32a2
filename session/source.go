package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bent101/wordle-entropy/hint"
)

// Prompt reads feedback line by line, typically from a terminal. A line is a
// pattern of 0 (absent), 1 (present) and 2 (correct) digits, or "3" or
// "solved" when the guess was the answer.
type Prompt struct {
	in     *bufio.Scanner
	out    io.Writer
	length int

	// pending carries the result of a scan still running from a call
	// that was cancelled.
	pending chan scanned
}

type scanned struct {
	text string
	ok   bool
	err  error
}

// NewPrompt returns a prompt for words of the given length.
func NewPrompt(in io.Reader, out io.Writer, length int) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out, length: length}
}

// Feedback writes a prompt and parses the next line. Malformed lines return
// a *hint.InvalidFeedbackError; end of input returns io.EOF. Cancelling ctx
// returns ctx.Err() without waiting for the line.
func (p *Prompt) Feedback(ctx context.Context, round int, guess string) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	fmt.Fprintf(p.out, "feedback for %s (%d digits of 0/1/2, 3 = solved): ", guess, p.length)

	if p.pending == nil {
		ch := make(chan scanned, 1)
		go func() {
			ok := p.in.Scan()
			ch <- scanned{text: p.in.Text(), ok: ok, err: p.in.Err()}
		}()
		p.pending = ch
	}

	select {
	case <-ctx.Done():
		return Feedback{}, ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		if !r.ok {
			if r.err != nil {
				return Feedback{}, r.err
			}
			return Feedback{}, io.EOF
		}
		return ParseFeedback(r.text, p.length)
	}
}

// ParseFeedback reads feedback for a word of length n: a hint pattern, or
// "3" or "solved" for the solved signal.
func ParseFeedback(s string, n int) (Feedback, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "3" || s == "solved" {
		return Feedback{Solved: true}, nil
	}
	h, err := hint.Parse(s, n)
	if err != nil {
		return Feedback{}, err
	}
	return Feedback{Hint: h}, nil
}

// Oracle answers with the true feedback for a known answer.
type Oracle struct {
	answer string
}

func NewOracle(answer string) *Oracle {
	return &Oracle{answer: strings.ToLower(strings.TrimSpace(answer))}
}

func (o *Oracle) Answer() string { return o.answer }

func (o *Oracle) Feedback(ctx context.Context, _ int, guess string) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	return Feedback{Hint: hint.Compute(guess, o.answer)}, nil
}
