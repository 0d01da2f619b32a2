// Package dictionary loads the word list a solver works over.
//
// Words are normalised to lowercase, blank lines are skipped and repeated
// words are dropped (first occurrence wins). Every word must be made of a-z
// and all words must share one length; anything else fails the load.
package dictionary

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/bent101/wordle-entropy/hint"
)

var (
	ErrEmpty       = errors.New("dictionary is empty")
	ErrMixedLength = errors.New("dictionary contains different length words")
	ErrInvalidWord = errors.New("word must contain only letters a-z")
	ErrTooLong     = fmt.Errorf("words longer than %d letters are not supported", hint.MaxLength)
)

// LoadError reports why a dictionary could not be loaded. Line is 1-based and
// zero when the problem is not tied to a line.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load dictionary")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(e.Line))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Digest identifies the content and order of a dictionary.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Dictionary is an ordered, immutable list of equal-length words.
type Dictionary struct {
	words  []string
	length int
	lookup map[string]int
	digest Digest
}

// New builds a dictionary from words in the given order.
func New(words []string) (*Dictionary, error) {
	b := newBuilder(len(words))
	for i, w := range words {
		if err := b.add(w, i+1); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

// Parse reads one word per line from r.
func Parse(r io.Reader) (*Dictionary, error) {
	b := newBuilder(1024)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if err := b.add(sc.Text(), line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Err: err}
	}
	return b.finish()
}

// Load reads the dictionary file at path.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return d, nil
}

type builder struct {
	words  []string
	lookup map[string]int
	length int
}

func newBuilder(capacity int) *builder {
	return &builder{
		words:  make([]string, 0, capacity),
		lookup: make(map[string]int, capacity),
	}
}

func (b *builder) add(raw string, line int) error {
	w := strings.ToLower(strings.TrimSpace(raw))
	if w == "" {
		return nil
	}
	if !isAlpha(w) {
		return &LoadError{Line: line, Err: fmt.Errorf("%w: %q", ErrInvalidWord, w)}
	}
	if len(w) > hint.MaxLength {
		return &LoadError{Line: line, Err: fmt.Errorf("%w: %q", ErrTooLong, w)}
	}
	if b.length == 0 {
		b.length = len(w)
	} else if len(w) != b.length {
		return &LoadError{Line: line, Err: fmt.Errorf("%w: %q has %d letters, expected %d", ErrMixedLength, w, len(w), b.length)}
	}
	if _, ok := b.lookup[w]; ok {
		return nil
	}
	b.lookup[w] = len(b.words)
	b.words = append(b.words, w)
	return nil
}

func (b *builder) finish() (*Dictionary, error) {
	if len(b.words) == 0 {
		return nil, &LoadError{Err: ErrEmpty}
	}
	d := &Dictionary{
		words:  b.words,
		length: b.length,
		lookup: b.lookup,
	}
	d.digest = digest(d.length, d.words)
	return d, nil
}

func digest(length int, words []string) Digest {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "wordle-entropy/dictionary/v1\n%d\n", length)
	for _, w := range words {
		io.WriteString(h, w)
		io.WriteString(h, "\n")
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func (d *Dictionary) Len() int { return len(d.words) }

func (d *Dictionary) Length() int { return d.length }

func (d *Dictionary) Word(i int) string { return d.words[i] }

// Words returns a copy of the word list.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}

// Index returns the position of w, normalised the same way words are loaded.
func (d *Dictionary) Index(w string) (int, bool) {
	i, ok := d.lookup[strings.ToLower(strings.TrimSpace(w))]
	return i, ok
}

func (d *Dictionary) Digest() Digest { return d.digest }

// Valid reports whether w could be played against this dictionary: right
// length and letters only. It does not require w to be in the dictionary.
func (d *Dictionary) Valid(w string) bool {
	return len(w) == d.length && isAlpha(w)
}
