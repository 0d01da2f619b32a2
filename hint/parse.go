package hint

import (
	"errors"
	"fmt"
)

// ErrInvalidFeedback is wrapped by every feedback parsing or validation error.
var ErrInvalidFeedback = errors.New("invalid feedback")

// InvalidFeedbackError describes feedback that cannot be turned into a Hint.
type InvalidFeedbackError struct {
	Input  string
	Length int
	Reason string
}

func (e *InvalidFeedbackError) Error() string {
	return fmt.Sprintf("invalid feedback %q: %s (want %d symbols of 0, 1 or 2)", e.Input, e.Reason, e.Length)
}

func (e *InvalidFeedbackError) Unwrap() error { return ErrInvalidFeedback }

// Parse reads feedback for a word of length n. Each position is one of
// 0 (absent), 1 (present) or 2 (correct); spaces, commas and dashes between
// symbols are ignored.
func Parse(s string, n int) (Hint, error) {
	marks := make([]Mark, 0, n)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '\t', ',', '-':
			continue
		case '0', '1', '2':
			marks = append(marks, Mark(c-'0'))
		default:
			return 0, &InvalidFeedbackError{Input: s, Length: n, Reason: fmt.Sprintf("symbol %q out of range", c)}
		}
	}
	if len(marks) != n {
		return 0, &InvalidFeedbackError{Input: s, Length: n, Reason: fmt.Sprintf("got %d symbols", len(marks))}
	}
	return Encode(marks), nil
}

// Check returns an InvalidFeedbackError when h is out of range for length n.
func Check(h Hint, n int) error {
	if h.Valid(n) {
		return nil
	}
	return &InvalidFeedbackError{Input: fmt.Sprint(uint16(h)), Length: n, Reason: "code out of range"}
}
