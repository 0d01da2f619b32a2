package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/session"
)

type fixture struct {
	dict     string
	cacheDir string
}

func newFixture(t *testing.T, words ...string) fixture {
	t.Helper()
	if len(words) == 0 {
		words = []string{"abbey", "abide", "acrid"}
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0o644))
	return fixture{dict: path, cacheDir: filepath.Join(dir, "cache")}
}

func (f fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, logs bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args,
		"--dictionary", f.dict,
		"--cache-dir", f.cacheDir,
		"--progress=false",
		"--log-level", "warn",
	))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := newFixture(t).run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestScoreCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "", "score", "ABBEY", "abide")
	require.NoError(t, err)
	assert.Contains(t, out, " A  B  B  E  Y ")
	assert.Contains(t, out, "22010")
	assert.Contains(t, out, "🟩🟩⬜🟨⬜")

	out, err = f.run(t, "", "score", "crane", "crane")
	require.NoError(t, err)
	assert.Contains(t, out, "22222")

	_, err = f.run(t, "", "score", "abc", "abide")
	assert.ErrorIs(t, err, dictionary.ErrMixedLength)
}

func TestPlayCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "", "play", "abide")
	require.NoError(t, err)
	assert.Contains(t, out, "round 1: 3 possible, guess ABBEY (1.585 bits)")
	assert.Contains(t, out, "round 2: 1 possible, guess ABIDE")
	assert.Contains(t, out, "solved: abide in 2 rounds")

	out, err = f.run(t, "", "play")
	require.NoError(t, err)
	assert.Contains(t, out, "solved: ")

	_, err = f.run(t, "", "play", "abc")
	assert.ErrorIs(t, err, session.ErrUnknownWord)
}

func TestSolveCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "2201\n22010\nsolved\n", "solve")
	require.NoError(t, err)
	assert.Contains(t, out, "feedback for abbey")
	assert.Contains(t, out, "try again")
	assert.Contains(t, out, "solved: abide in 2 rounds")
}

func TestSolveCmdExhausted(t *testing.T) {
	out, err := newFixture(t).run(t, "00000\n", "solve")
	assert.ErrorIs(t, err, session.ErrExhausted)
	assert.Contains(t, out, "no consistent word remains")
}

func TestSolveCmdEndOfInput(t *testing.T) {
	_, err := newFixture(t).run(t, "", "solve")
	assert.ErrorContains(t, err, "feedback input")
}

func TestSuggestCmd(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "suggest")
	require.NoError(t, err)
	assert.Contains(t, out, "3 possible: abbey abide acrid")
	assert.Contains(t, out, " 1. abbey  1.5850 bits")

	out, err = f.run(t, "", "suggest", "abbey=22010", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 possible: abide")
	assert.Contains(t, out, " 1. abide")
	assert.NotContains(t, out, " 2. ")

	out, err = f.run(t, "", "suggest", "abbey=22010", "abide=3")
	require.NoError(t, err)
	assert.Contains(t, out, "solved: abide")

	_, err = f.run(t, "", "suggest", "abbey=00000")
	assert.ErrorIs(t, err, session.ErrExhausted)

	_, err = f.run(t, "", "suggest", "abbey")
	assert.ErrorContains(t, err, "want guess=feedback")

	_, err = f.run(t, "", "suggest", "abbey=2201")
	assert.ErrorContains(t, err, "invalid feedback")
}

func TestIndexCmd(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "index", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "words       3")
	assert.Contains(t, out, "index       not cached")

	out, err = f.run(t, "", "index", "build")
	require.NoError(t, err)
	assert.Contains(t, out, "3 words of 5 letters, 9 patterns: built")

	d, err := dictionary.Load(f.dict)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.cacheDir, d.Digest().String()+".gob.zst"))

	out, err = f.run(t, "", "index", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "index       cached")

	out, err = f.run(t, "", "index", "build")
	require.NoError(t, err)
	assert.Contains(t, out, "already cached")

	out, err = f.run(t, "", "index", "build", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, ": built")
}

func TestIndexCmdSQLite(t *testing.T) {
	f := newFixture(t)
	t.Setenv("WORDLE_CACHE_DSN", filepath.Join(t.TempDir(), "index.db"))

	_, err := f.run(t, "", "index", "build", "--cache-backend", "sqlite")
	require.NoError(t, err)
	out, err := f.run(t, "", "index", "info", "--cache-backend", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, "backend     sqlite")
	assert.Contains(t, out, "index       cached")
}

func TestMissingDictionary(t *testing.T) {
	f := newFixture(t)
	f.dict = filepath.Join(t.TempDir(), "missing.txt")
	_, err := f.run(t, "", "play", "abide")
	assert.ErrorContains(t, err, "load dictionary")
}

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps([]string{"crane=00120", "slate=solved"}, 5)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "crane", steps[0].Guess)
	assert.False(t, steps[0].Feedback.Solved)
	assert.True(t, steps[1].Feedback.Solved)
}

func TestZeroTopRejected(t *testing.T) {
	f := newFixture(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("solver:\n  top: 0\n"), 0o644))

	_, err := f.run(t, "", "suggest", "--config", cfg)
	assert.ErrorContains(t, err, "solver.top")
}
