// Package price extracts numeric prices from display text. Product cards
// carry their price as formatted text only (currency symbol, spaces as
// thousands separators, sometimes an old price next to the new one), so the
// catalog engine has to recover the number from whatever the card shows.
package price

import (
	"strconv"
	"strings"
	"unicode"
)

// Parse resolves the authoritative price from a display string like
// "1 234,50 ₽". Whitespace inside a number is treated as a thousands
// separator, a decimal comma becomes a decimal point, and any other
// non-numeric character ends the current run. When the text contains
// several runs (an old price followed by a discounted one) the last run
// wins. The second return value is false when no number could be found.
//
// Known limitation: a run with more than one decimal point (e.g. "1.2.3")
// fails to parse and counts as not-a-number, same as no digits at all.
func Parse(text string) (float64, bool) {
	runs := collectRuns(text)
	if len(runs) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(runs[len(runs)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// collectRuns splits the text into maximal numeric runs. A run has to
// contain at least one digit; trailing dots are dropped so "12." parses
// the same as "12".
func collectRuns(text string) []string {
	runs := make([]string, 0, 2)
	var run strings.Builder

	flush := func() {
		s := strings.TrimRight(run.String(), ".")
		if strings.ContainsAny(s, "0123456789") {
			runs = append(runs, s)
		}
		run.Reset()
	}

	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			run.WriteRune(r)
		case r == '.' || r == ',':
			run.WriteRune('.')
		case unicode.IsSpace(r):
			// thousands separator, "1 234" is one number
		default:
			flush()
		}
	}
	flush()
	return runs
}
