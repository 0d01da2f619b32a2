package hint

import (
	"strings"

	"github.com/mitchellh/colorstring"
)

var tiles = [...]string{"⬜", "🟨", "🟩"}

var tileColors = [...]string{
	"[_dark_gray_][white]",
	"[_yellow_][black]",
	"[_green_][black]",
}

// Format renders h as n digits, e.g. "22010".
func (h Hint) Format(n int) string {
	var b strings.Builder
	b.Grow(n)
	for _, m := range h.Marks(n) {
		b.WriteByte('0' + byte(m))
	}
	return b.String()
}

// Emoji renders h the way the game shares results.
func (h Hint) Emoji(n int) string {
	var b strings.Builder
	for _, m := range h.Marks(n) {
		b.WriteString(tiles[m])
	}
	return b.String()
}

// ColoredWord displays word as tiles coloured by h. With color off the
// tiles keep their spacing but carry no escape codes.
func (h Hint) ColoredWord(word string, color bool) string {
	c := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !color,
		Reset:   true,
	}

	var b strings.Builder
	for i, m := range h.Marks(len(word)) {
		b.WriteString(tileColors[m])
		b.WriteByte(' ')
		b.WriteString(strings.ToUpper(word[i : i+1]))
		b.WriteByte(' ')
		b.WriteString("[reset]")
	}
	return c.Color(b.String())
}
