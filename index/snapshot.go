package index

import (
	"errors"
	"fmt"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/hint"
)

// SnapshotVersion is bumped whenever the table layout or hint encoding changes.
const SnapshotVersion = 1

// ErrMismatch means a stored index does not belong to the current dictionary.
var ErrMismatch = errors.New("index does not match dictionary")

// MismatchError says which part of a snapshot disagreed.
type MismatchError struct {
	Field string
	Want  string
	Got   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s is %s, want %s", ErrMismatch, e.Field, e.Got, e.Want)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Snapshot is the persisted form of an Index. Fields are exported for gob.
type Snapshot struct {
	Version int
	Digest  dictionary.Digest
	Length  int
	Words   []string
	Codes   []hint.Hint
}

// Snapshot returns a persistable copy of x.
func (x *Index) Snapshot() *Snapshot {
	codes := make([]hint.Hint, len(x.codes))
	copy(codes, x.codes)
	return &Snapshot{
		Version: SnapshotVersion,
		Digest:  x.dict.Digest(),
		Length:  x.dict.Length(),
		Words:   x.dict.Words(),
		Codes:   codes,
	}
}

// FromSnapshot restores an index for dict. The snapshot must have been taken
// from a dictionary with the same words in the same order.
func FromSnapshot(dict *dictionary.Dictionary, s *Snapshot) (*Index, error) {
	if s.Version != SnapshotVersion {
		return nil, &MismatchError{Field: "version", Want: fmt.Sprint(SnapshotVersion), Got: fmt.Sprint(s.Version)}
	}
	if s.Digest != dict.Digest() {
		return nil, &MismatchError{Field: "digest", Want: dict.Digest().String(), Got: s.Digest.String()}
	}
	if s.Length != dict.Length() {
		return nil, &MismatchError{Field: "word length", Want: fmt.Sprint(dict.Length()), Got: fmt.Sprint(s.Length)}
	}
	n := dict.Len()
	if len(s.Words) != n {
		return nil, &MismatchError{Field: "word count", Want: fmt.Sprint(n), Got: fmt.Sprint(len(s.Words))}
	}
	for i, w := range s.Words {
		if w != dict.Word(i) {
			return nil, &MismatchError{Field: fmt.Sprintf("word %d", i), Want: dict.Word(i), Got: w}
		}
	}
	if len(s.Codes) != n*n {
		return nil, &MismatchError{Field: "table size", Want: fmt.Sprint(n * n), Got: fmt.Sprint(len(s.Codes))}
	}
	limit := hint.Count(dict.Length())
	for i, c := range s.Codes {
		if int(c) >= limit {
			return nil, &MismatchError{Field: fmt.Sprintf("cell %d", i), Want: fmt.Sprintf("< %d", limit), Got: fmt.Sprint(c)}
		}
	}
	return &Index{dict: dict, n: n, codes: s.Codes}, nil
}
