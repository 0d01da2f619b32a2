package session

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/entropy"
	"github.com/bent101/wordle-entropy/hint"
	"github.com/bent101/wordle-entropy/index"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func buildIndex(t *testing.T, words ...string) *index.Index {
	t.Helper()
	d, err := dictionary.New(words)
	require.NoError(t, err)
	x, err := index.Build(context.Background(), d, index.WithWorkers(2))
	require.NoError(t, err)
	return x
}

func mustParse(t *testing.T, s string) hint.Hint {
	t.Helper()
	h, err := hint.Parse(s, len(s))
	require.NoError(t, err)
	return h
}

var pack = []string{
	"abbey", "abide", "acrid", "crane", "nacre", "slate", "least", "llama",
	"allay", "sassy", "asses", "geese", "eagle", "eerie", "there", "speed",
	"stale", "steal", "tales", "react", "trace", "cater", "crate", "caret",
}

type recorder struct {
	suggested []Suggestion
	rejected  []string
	applied   []Round
	finished  []Outcome
}

func (r *recorder) Suggested(_ int, s Suggestion) { r.suggested = append(r.suggested, s) }
func (r *recorder) Rejected(_ int, _ string, err error) { r.rejected = append(r.rejected, err.Error()) }
func (r *recorder) Applied(_ int, rd Round) { r.applied = append(r.applied, rd) }
func (r *recorder) Finished(o Outcome) { r.finished = append(r.finished, o) }

func TestThreeWordScenario(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	s := New(x)
	ctx := context.Background()

	sug, err := s.Suggest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abbey", sug.Guess)
	assert.Equal(t, math.Log2(3), sug.Entropy)
	assert.Equal(t, 3, sug.Remaining)
	assert.Len(t, sug.Alternatives, 3)

	require.NoError(t, s.Apply("abbey", Feedback{Hint: mustParse(t, "22010")}))
	assert.Equal(t, Active, s.State())
	assert.Equal(t, []string{"abide"}, s.RemainingWords(-1))

	sug, err = s.Suggest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abide", sug.Guess)

	require.NoError(t, s.Apply("abide", Feedback{Hint: mustParse(t, "22222")}))
	assert.Equal(t, Solved, s.State())

	o := s.Outcome()
	assert.Equal(t, "abide", o.Answer)
	assert.Equal(t, s.ID(), o.ID)
	assert.Len(t, o.Rounds, 2)

	_, err = s.Suggest(ctx)
	assert.ErrorIs(t, err, ErrFinished)
	assert.ErrorIs(t, s.Apply("abide", Feedback{Solved: true}), ErrFinished)
}

func TestRunWithOracle(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	rec := &recorder{}

	o, err := New(x).Run(context.Background(), NewOracle("ABIDE"), rec)
	require.NoError(t, err)
	assert.Equal(t, Solved, o.State)
	assert.Equal(t, "abide", o.Answer)

	want := []Round{
		{Guess: "abbey", Hint: mustParse(t, "22010"), Remaining: 1},
		{Guess: "abide", Hint: hint.AllCorrect(5), Solved: true, Remaining: 1},
	}
	assert.Empty(t, cmp.Diff(want, o.Rounds))
	assert.Equal(t, want, rec.applied)
	assert.Len(t, rec.suggested, 2)
	assert.Len(t, rec.finished, 1)
	assert.Empty(t, rec.rejected)
}

func TestAdvanceLeavesInputAlone(t *testing.T) {
	x := buildIndex(t, pack...)
	possible := x.Full()
	before := possible.Clone()

	g, _ := x.Dictionary().Index("slate")
	a, _ := x.Dictionary().Index("least")
	next := Advance(x, possible, g, x.Hint(g, a))

	assert.True(t, possible.Equal(before))
	assert.True(t, possible.IsSuperSet(next))
	assert.True(t, next.Test(uint(a)))
	assert.Less(t, next.Count(), possible.Count())
}

func TestApplyInvalidFeedback(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	s := New(x)

	err := s.Apply("abbey", Feedback{Hint: hint.Hint(hint.Count(5))})
	var invalid *hint.InvalidFeedbackError
	require.ErrorAs(t, err, &invalid)
	assert.ErrorIs(t, err, hint.ErrInvalidFeedback)

	assert.Equal(t, Active, s.State())
	assert.Equal(t, 3, s.Remaining())
	assert.Empty(t, s.Rounds())
}

func TestApplyExhausted(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	s := New(x)

	// Every other word shares the leading a.
	err := s.Apply("abbey", Feedback{Hint: mustParse(t, "00000")})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, Exhausted, s.State())
	assert.Equal(t, 0, s.Remaining())

	_, err = s.Suggest(context.Background())
	assert.ErrorIs(t, err, ErrFinished)
}

func TestApplyOutsideDictionary(t *testing.T) {
	x := buildIndex(t, pack...)
	s := New(x)

	assert.ErrorIs(t, s.Apply("abc", Feedback{}), ErrUnknownWord)
	assert.ErrorIs(t, s.Apply("ab1de", Feedback{}), ErrUnknownWord)
	assert.Empty(t, s.Rounds())

	require.NoError(t, s.Apply("pygmy", Feedback{Hint: hint.Compute("pygmy", "crane")}))
	assert.Equal(t, "pygmy", s.Rounds()[0].Guess)
	for _, w := range s.RemainingWords(-1) {
		assert.Equal(t, hint.Compute("pygmy", "crane"), hint.Compute("pygmy", w), w)
	}
	assert.Contains(t, s.RemainingWords(-1), "crane")
	assert.Less(t, s.Remaining(), len(pack))
}

func TestSolvedSignal(t *testing.T) {
	x := buildIndex(t, pack...)
	s := New(x)
	require.NoError(t, s.Apply("crate", Feedback{Solved: true}))
	assert.Equal(t, Solved, s.State())
	assert.Equal(t, []string{"crate"}, s.RemainingWords(-1))
	assert.Equal(t, "crate", s.Outcome().Answer)
}

func TestEveryAnswerIsSolved(t *testing.T) {
	x := buildIndex(t, pack...)
	policies := map[string]entropy.Policy{
		"default":        entropy.DefaultPolicy(),
		"no endgame":     {},
		"always endgame": {EndgameThreshold: len(pack) + 1},
	}
	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			for _, answer := range pack {
				rec := &recorder{}
				o, err := New(x, WithPolicy(p), WithWorkers(3)).
					Run(context.Background(), NewOracle(answer), rec)
				require.NoError(t, err, answer)
				assert.Equal(t, answer, o.Answer)
				assert.LessOrEqual(t, len(o.Rounds), len(pack), answer)

				last := len(pack)
				for _, r := range rec.applied[:len(rec.applied)-1] {
					assert.Less(t, r.Remaining, last, answer)
					last = r.Remaining
				}
			}
		})
	}
}

func TestRunRoundLimit(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	o, err := New(x, WithMaxRounds(1)).Run(context.Background(), NewOracle("abide"), nil)
	assert.ErrorIs(t, err, ErrRoundLimit)
	assert.Equal(t, Active, o.State)
	assert.Len(t, o.Rounds, 1)
}

func TestRunExhausted(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	rec := &recorder{}
	// zebra is not in the list, so no word is consistent with its hints.
	o, err := New(x).Run(context.Background(), NewOracle("zebra"), rec)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, Exhausted, o.State)
	assert.Len(t, rec.finished, 1)
	assert.Len(t, rec.applied, 1)
}

func TestPrompt(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	in := strings.NewReader("2201\nabcde\n2 2 0 1 0\nsolved\n")
	var out bytes.Buffer
	rec := &recorder{}

	o, err := New(x).Run(context.Background(), NewPrompt(in, &out, 5), rec)
	require.NoError(t, err)
	assert.Equal(t, "abide", o.Answer)
	assert.Len(t, o.Rounds, 2)
	assert.Len(t, rec.rejected, 2)
	assert.Equal(t, 4, strings.Count(out.String(), "feedback for "))
	assert.Contains(t, out.String(), "feedback for abbey")
}

func TestPromptEndOfInput(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	_, err := New(x).Run(context.Background(), NewPrompt(strings.NewReader(""), io.Discard, 5), nil)
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorContains(t, err, "feedback input")
}

func TestPromptSolvedDigit(t *testing.T) {
	p := NewPrompt(strings.NewReader(" 3 \n"), io.Discard, 5)
	fb, err := p.Feedback(context.Background(), 1, "abbey")
	require.NoError(t, err)
	assert.True(t, fb.Solved)
}

func TestPromptCancelledWhileWaiting(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := New(x).Run(ctx, NewPrompt(pr, io.Discard, 5), nil)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPromptKeepsLineAfterCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewPrompt(pr, io.Discard, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Feedback(ctx, 1, "abbey")
	require.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = p.Feedback(ctx, 1, "abbey")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = io.WriteString(pw, "22010\n") }()
	fb, err := p.Feedback(context.Background(), 1, "abbey")
	require.NoError(t, err)
	assert.Equal(t, mustParse(t, "22010"), fb.Hint)
}

func TestZeroTopStillSuggests(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	sug, err := New(x, WithTop(0)).Suggest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abbey", sug.Guess)
	require.Len(t, sug.Alternatives, 1)
	assert.Equal(t, "abbey", sug.Alternatives[0].Word)
}

func TestRunCancelled(t *testing.T) {
	x := buildIndex(t, pack...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(x).Run(ctx, NewOracle("crane"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemainingWordsLimit(t *testing.T) {
	x := buildIndex(t, pack...)
	s := New(x)
	assert.Equal(t, []string{"abbey", "abide"}, s.RemainingWords(2))
	assert.Len(t, s.RemainingWords(-1), len(pack))

	p := s.Possible()
	p.ClearAll()
	assert.Equal(t, len(pack), s.Remaining())
	assert.Zero(t, p.Count())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "solved", Solved.String())
	assert.Equal(t, "exhausted", Exhausted.String())
}

func TestReplay(t *testing.T) {
	x := buildIndex(t, "abbey", "abide", "acrid")
	s := New(x)
	require.NoError(t, s.Replay(Step{Guess: "abbey", Feedback: Feedback{Hint: mustParse(t, "22010")}}))
	assert.Equal(t, []string{"abide"}, s.RemainingWords(-1))

	s = New(x)
	err := s.Replay(
		Step{Guess: "abbey", Feedback: Feedback{Hint: mustParse(t, "22010")}},
		Step{Guess: "acrid", Feedback: Feedback{Hint: mustParse(t, "22222")}},
		Step{Guess: "abide", Feedback: Feedback{Solved: true}},
	)
	assert.ErrorIs(t, err, ErrFinished)
	assert.ErrorContains(t, err, "step 3 (abide)")
}

func TestParseFeedback(t *testing.T) {
	fb, err := ParseFeedback("SOLVED", 5)
	require.NoError(t, err)
	assert.True(t, fb.Solved)

	fb, err = ParseFeedback("2-2-0-1-0", 5)
	require.NoError(t, err)
	assert.Equal(t, Feedback{Hint: mustParse(t, "22010")}, fb)

	_, err = ParseFeedback("33333", 5)
	assert.ErrorIs(t, err, hint.ErrInvalidFeedback)
}
