// Package index holds the all-pairs hint table for a dictionary.
//
// Cell (g, w) is the hint shown when word g is guessed and word w is the
// answer. The table is a single row-major slice, so a row is contiguous and
// the set of answers sharing a hint for a guess is found by scanning one row.
package index

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/hint"
)

// Index is read-only once built and safe for concurrent use.
type Index struct {
	dict  *dictionary.Dictionary
	n     int
	codes []hint.Hint
}

func (x *Index) Dictionary() *dictionary.Dictionary { return x.dict }

func (x *Index) Len() int { return x.n }

func (x *Index) Length() int { return x.dict.Length() }

// Hint returns the hint for guess g against answer w.
func (x *Index) Hint(g, w int) hint.Hint { return x.codes[g*x.n+w] }

// Row returns the hints of guess g against every word. The slice aliases the
// table and must not be modified.
func (x *Index) Row(g int) []hint.Hint { return x.codes[g*x.n : (g+1)*x.n] }

// Full returns a set holding every word.
func (x *Index) Full() *bitset.BitSet {
	b := bitset.New(uint(x.n))
	for i := 0; i < x.n; i++ {
		b.Set(uint(i))
	}
	return b
}

// Matches returns the words that answer guess g with hint h.
func (x *Index) Matches(g int, h hint.Hint) *bitset.BitSet {
	b := bitset.New(uint(x.n))
	for w, c := range x.Row(g) {
		if c == h {
			b.Set(uint(w))
		}
	}
	return b
}

// Filter returns the members of possible that answer guess g with hint h.
// possible is left untouched.
func (x *Index) Filter(possible *bitset.BitSet, g int, h hint.Hint) *bitset.BitSet {
	row := x.Row(g)
	out := bitset.New(uint(x.n))
	for w, ok := possible.NextSet(0); ok; w, ok = possible.NextSet(w + 1) {
		if int(w) < x.n && row[w] == h {
			out.Set(w)
		}
	}
	return out
}

// Histogram adds, for every member w of possible, one to counts[hint(g, w)]
// and returns the number of members counted. counts must hold
// hint.Count(Length()) entries and is not cleared first.
func (x *Index) Histogram(g int, possible *bitset.BitSet, counts []int) int {
	row := x.Row(g)
	total := 0
	for w, ok := possible.NextSet(0); ok; w, ok = possible.NextSet(w + 1) {
		if int(w) >= x.n {
			break
		}
		counts[row[w]]++
		total++
	}
	return total
}
