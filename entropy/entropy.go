// Package entropy ranks guesses by the expected information of their hints.
//
// Scores are Shannon entropies in bits of the distribution of hints a guess
// would produce over the words that are still possible.
package entropy

import "math"

// Entropy returns the Shannon entropy in bits of a distribution given as
// counts. Zero counts contribute nothing.
func Entropy(counts []int) float64 {
	total, maxCount := 0, 0
	for _, c := range counts {
		total += c
		maxCount = max(maxCount, c)
	}
	return fromCounts(counts, total, make([]int, maxCount+1))
}

// fromCounts computes the entropy from the multiset of counts rather than
// their order: H = log2(T) - sum(c*log2(c))/T, summed per distinct count in
// ascending order. Two distributions that are permutations of each other get
// bit-identical results. mult must hold at least max(counts)+1 zeroed entries
// and is left zeroed.
func fromCounts(counts []int, total int, mult []int) float64 {
	if total <= 1 {
		return 0
	}
	hi := 0
	for _, c := range counts {
		if c > 0 {
			mult[c]++
			hi = max(hi, c)
		}
	}
	if hi == total {
		clear(mult[:hi+1])
		return 0
	}

	var s float64
	for c := 2; c <= hi; c++ {
		if mult[c] > 0 {
			fc := float64(c)
			s += float64(mult[c]) * fc * math.Log2(fc)
		}
	}
	clear(mult[:hi+1])

	t := float64(total)
	h := math.Log2(t) - s/t
	if h < 0 {
		return 0
	}
	return h
}
