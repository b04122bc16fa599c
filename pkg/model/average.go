package model

// RunningMean keeps the coordinate-wise average of every vector folded into
// it, without storing the vectors.
type RunningMean struct {
	mean []float64
	n    int
}

func NewRunningMean(dim int) *RunningMean {
	return &RunningMean{mean: make([]float64, dim)}
}

// Add folds v into the average: mean += (v - mean) / n.
func (r *RunningMean) Add(v []float64) {
	r.n++
	inv := 1 / float64(r.n)
	for i, x := range v {
		r.mean[i] += (x - r.mean[i]) * inv
	}
}

// Count is the number of vectors folded so far.
func (r *RunningMean) Count() int { return r.n }

// Mean returns a copy of the current average.
func (r *RunningMean) Mean() []float64 {
	out := make([]float64, len(r.mean))
	copy(out, r.mean)
	return out
}
