package accord

import "math"

// Majority returns the minimum number of agents that form a majority in a
// group of n agents.
func Majority(n int) int {
	return n/2 + 1
}

// Named decision thresholds. A quorum strategy configured within 0.01 of a
// preset is classified as that preset.
const (
	ThresholdSimple        = 0.51
	ThresholdSupermajority = 0.66
	ThresholdStrong        = 0.75
	ThresholdUnanimous     = 1.0
)

// thresholdTolerance is how far a threshold may deviate from a preset and
// still be classified as it. The extra 1e-9 keeps inputs that sit exactly at
// the boundary, such as 0.67, from falling out due to float64 rounding.
const thresholdTolerance = 0.01 + 1e-9

// ClassifyThreshold returns the name of the preset that t matches, or
// "custom" if it matches none.
func ClassifyThreshold(t float64) string {
	switch {
	case math.Abs(t-ThresholdSimple) <= thresholdTolerance:
		return "simple"
	case math.Abs(t-ThresholdSupermajority) <= thresholdTolerance:
		return "supermajority"
	case math.Abs(t-ThresholdStrong) <= thresholdTolerance:
		return "strong"
	case math.Abs(t-ThresholdUnanimous) <= thresholdTolerance:
		return "unanimous"
	default:
		return "custom"
	}
}
