package util

import "math"

// RoundPercentage returns round(100*part/whole), half away from zero. A zero whole yields 0.
func RoundPercentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// ProgressPercentage is the share of the quiz reached when showing question index (zero-based).
func ProgressPercentage(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(index+1) / float64(total) * 100
}
