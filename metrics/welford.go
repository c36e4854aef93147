package metrics

import "math"

// Welford maintains running mean and variance estimates using Welford's
// online algorithm, so collectors never store individual samples.
type Welford struct {
	mean  float64
	m2    float64
	count uint64
}

// Update folds the value into the current estimate.
func (w *Welford) Update(val float64) {
	w.count++
	delta := val - w.mean
	w.mean += delta / float64(w.count)
	delta2 := val - w.mean
	w.m2 += delta * delta2
}

// Get returns the current mean and sample variance estimate. The variance
// is NaN until at least two values have been added.
func (w *Welford) Get() (mean, variance float64, count uint64) {
	if w.count < 2 {
		return w.mean, math.NaN(), w.count
	}
	return w.mean, w.m2 / float64(w.count-1), w.count
}

// Count returns the number of values added to the estimate.
func (w *Welford) Count() uint64 {
	return w.count
}

// Reset discards the estimate.
func (w *Welford) Reset() {
	w.mean = 0
	w.m2 = 0
	w.count = 0
}
