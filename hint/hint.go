package hint

// Mark is the feedback for a single position of a guess.
type Mark uint8

const (
	Absent  Mark = iota // gray
	Present             // yellow
	Correct             // green
)

// MaxLength is the longest word a Hint can describe (3^10 fits in a uint16).
const MaxLength = 10

// Hint is a full feedback pattern encoded as a base 3 number, first position
// most significant. The word length is not stored; callers pass it in.
type Hint uint16

// Count returns the number of distinct hints for words of length n.
func Count(n int) int {
	c := 1
	for range n {
		c *= 3
	}
	return c
}

// AllCorrect is the hint for a guess that equals the answer.
func AllCorrect(n int) Hint {
	return Hint(Count(n) - 1)
}

// Compute returns the hint the game shows for guess when the answer is answer.
//
// Exact matches are marked first and consume their letter on both sides. The
// leftover answer letters are counted, then the remaining guess positions are
// scanned left to right: a letter with a leftover count is Present and uses one
// count up, anything else is Absent. Both words must have the same length and
// consist of a-z only.
func Compute(guess, answer string) Hint {
	var marks [MaxLength]Mark
	var counts [26]uint8

	n := len(guess)
	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			marks[i] = Correct
		} else {
			counts[answer[i]-'a']++
		}
	}

	var h Hint
	for i := 0; i < n; i++ {
		if marks[i] != Correct {
			c := guess[i] - 'a'
			if counts[c] > 0 {
				marks[i] = Present
				counts[c]--
			}
		}
		h = h*3 + Hint(marks[i])
	}
	return h
}

func Encode(marks []Mark) Hint {
	var h Hint
	for _, m := range marks {
		h = h*3 + Hint(m)
	}
	return h
}

func (h Hint) Marks(n int) []Mark {
	marks := make([]Mark, n)
	for i := n - 1; i >= 0; i-- {
		marks[i] = Mark(h % 3)
		h /= 3
	}
	return marks
}

// Valid reports whether h is a possible hint for words of length n.
func (h Hint) Valid(n int) bool {
	return n > 0 && n <= MaxLength && int(h) < Count(n)
}

func (m Mark) String() string {
	switch m {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Correct:
		return "correct"
	}
	return "invalid"
}
