package notifier

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a coin size for humans: grouped thousands with a
// couple of decimals for large magnitudes, fixed 6-decimal precision
// below one unit so sub-unit sizes keep their significance.
func FormatSize(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	a := math.Abs(v)
	switch {
	case a >= 1e6:
		return humanize.CommafWithDigits(v, 2)
	case a >= 1:
		return humanize.CommafWithDigits(v, 4)
	default:
		return strconv.FormatFloat(v, 'f', 6, 64)
	}
}

// FormatPct renders a relative change, sign included.
func FormatPct(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 0 {
		s = "+" + s
	}
	return s + "%"
}
