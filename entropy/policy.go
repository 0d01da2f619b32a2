package entropy

import "github.com/bits-and-blooms/bitset"

// DefaultEndgameThreshold is the possible-set size below which guesses are
// drawn from the possible answers only.
const DefaultEndgameThreshold = 10

// Policy decides which words are worth scoring in a round.
//
// Entropy alone ignores the chance of winning outright, so once few answers
// remain it pays to guess one of them. EndgameThreshold is that cut-off;
// zero turns the rule off and every round considers the whole dictionary.
type Policy struct {
	EndgameThreshold int
}

func DefaultPolicy() Policy {
	return Policy{EndgameThreshold: DefaultEndgameThreshold}
}

// Candidates returns dictionary positions to score, in dictionary order. n is
// the dictionary size.
func (p Policy) Candidates(n int, possible *bitset.BitSet) []int {
	if p.EndgameThreshold > 0 && possible.Count() < uint(p.EndgameThreshold) {
		out := make([]int, 0, possible.Count())
		for w, ok := possible.NextSet(0); ok; w, ok = possible.NextSet(w + 1) {
			out = append(out, int(w))
		}
		return out
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
