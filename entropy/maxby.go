package entropy

import "golang.org/x/exp/constraints"

// MaxBy returns the position of the element with the largest key. Ties go to
// the earliest element. ok is false for an empty slice.
func MaxBy[T any, K constraints.Ordered](slice []T, keyFunc func(T) K) (idx int, ok bool) {
	if len(slice) == 0 {
		return 0, false
	}

	maxVal := keyFunc(slice[0])
	for i := 1; i < len(slice); i++ {
		if val := keyFunc(slice[i]); val > maxVal {
			maxVal = val
			idx = i
		}
	}
	return idx, true
}
