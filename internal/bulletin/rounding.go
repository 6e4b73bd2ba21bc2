package bulletin

import (
	"math"
	"strconv"
	"strings"
)

// roundLimit bounds the magnitudes handled in integer cents without overflow.
const roundLimit = 1e15

// Round2 rounds v to two decimals, half away from zero, using the shortest
// decimal representation of v. Round2(1.005) is 1.01 even though the binary
// value of 1.005 is slightly below it.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= roundLimit {
		return v
	}

	neg := v < 0
	digits := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	if len(frac) <= 2 {
		return v
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return v
	}
	c, err := strconv.ParseInt(frac[:2], 10, 64)
	if err != nil {
		return v
	}
	cents := w*100 + c
	if frac[2] >= '5' {
		cents++
	}

	out := float64(cents) / 100
	if neg {
		out = -out
	}
	return out
}

// FormatAverage renders an average with two decimals, as printed on bulletins.
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
