package services

import (
	"math"
	"strconv"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// RenderSize formats a byte count for display: the largest unit up to GB
// that keeps the value at least 1, rounded to two decimals and always shown
// with a fractional part ("1.5 KB", "1.0 MB", "500.0 B"). Zero is "0 B".
func RenderSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}

	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	// Log rounding can land on the wrong side of an exact power of 1024.
	if i+1 < len(sizeUnits) && float64(n) >= math.Pow(1024, float64(i+1)) {
		i++
	}
	if i > 0 && float64(n) < math.Pow(1024, float64(i)) {
		i--
	}

	v := math.Round(float64(n)/math.Pow(1024, float64(i))*100) / 100

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " " + sizeUnits[i]
}
