package model

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"sgdrisk/pkg/data"
	"sgdrisk/pkg/geometry"
	"sgdrisk/pkg/loss"
	"sgdrisk/pkg/optim"
)

var (
	ErrInvalidIterationCount = errors.New("model: iterations must be at least 1")
	ErrShortStream           = errors.New("model: sample stream ended before the iteration budget")
	ErrDimensionMismatch     = errors.New("model: feature count mismatch between model and sample")
)

// LogisticRegression (binary, labels -1/+1) trained by projected stochastic
// gradient descent on the logistic loss. Weights live in the same domain as
// the inputs; the last weight multiplies the bias coordinate.
// The fitted predictor is the Polyak average of all iterates.
type LogisticRegression struct {
	W            []float64 // averaged weights, set by Fit
	Scenario     geometry.Scenario
	Iterations   int
	LearningRate float64
	Dim          int // weight dimension, D+1

	steps int
}

// LogisticRegressionOption functional config for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// WithWeightDimension sets the weight dimension, bias included.
func WithWeightDimension(d int) LogisticRegressionOption {
	return func(m *LogisticRegression) { m.Dim = d }
}

// WithLearningRate overrides the regret-bound step size.
func WithLearningRate(lr float64) LogisticRegressionOption {
	return func(m *LogisticRegression) { m.LearningRate = lr }
}

// NewLogisticRegression prepares a model for the given iteration budget.
// The learning rate is M/(rho*sqrt(iterations)), M being the domain diameter
// and rho = M/2 the largest norm in the domain.
func NewLogisticRegression(scenario geometry.Scenario, iterations int, opts ...LogisticRegressionOption) (*LogisticRegression, error) {
	if iterations < 1 {
		return nil, errors.Wrapf(ErrInvalidIterationCount, "got %d", iterations)
	}
	m := &LogisticRegression{
		Scenario:   scenario,
		Iterations: iterations,
		Dim:        data.DefaultDimension + 1,
	}
	for _, o := range opts {
		o(m)
	}
	if m.Dim < 1 {
		return nil, errors.Errorf("model: weight dimension must be positive, got %d", m.Dim)
	}
	diam, err := geometry.Diameter(scenario, m.Dim)
	if err != nil {
		return nil, err
	}
	if m.LearningRate == 0 {
		m.LearningRate = optim.RegretRate(diam, diam/2, iterations)
	}
	return m, nil
}

// Fit runs Iterations-1 projected gradient steps from the zero vector, one
// per sample received, and stores the average of all Iterations iterates
// (the zero start included) in W.
func (m *LogisticRegression) Fit(samples <-chan data.Sample) error {
	opt := optim.NewProjectedSGD(m.LearningRate, func(w []float64) {
		geometry.ProjectInPlace(m.Scenario, w)
	})

	w := make([]float64, m.Dim)
	grad := make([]float64, m.Dim)
	avg := NewRunningMean(m.Dim)
	avg.Add(w)

	for i := 1; i < m.Iterations; i++ {
		s, ok := <-samples
		if !ok {
			return errors.Wrapf(ErrShortStream, "got %d of %d samples", i-1, m.Iterations-1)
		}
		if len(s.X) != m.Dim {
			return errors.Wrapf(ErrDimensionMismatch, "want %d, got %d", m.Dim, len(s.X))
		}
		loss.LogisticGradientTo(grad, w, s.X, s.Y)
		opt.Step(w, grad)
		avg.Add(w)
	}

	m.W = avg.Mean()
	m.steps = avg.Count()
	return nil
}

// Steps is the number of iterates averaged by the last Fit, which equals
// Iterations.
func (m *LogisticRegression) Steps() int { return m.steps }

func (m *LogisticRegression) Weights() []float64 { return m.W }

// DecisionFunction returns w·x for each row in X.
// It uses goroutines to parallelize over rows for large inputs.
func (m *LogisticRegression) DecisionFunction(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	parallelRows(len(X), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = loss.Dot(m.W, X[i])
		}
	})
	return out
}

// Predict returns +1 for a positive score and -1 otherwise.
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	scores := m.DecisionFunction(X)
	for i, s := range scores {
		if s > 0 {
			scores[i] = 1
		} else {
			scores[i] = -1
		}
	}
	return scores
}

// Train draws iterations-1 fresh samples from the scenario's mixture with
// noise sigma and returns the averaged weight vector of dimension D+1.
func Train(iterations int, scenario geometry.Scenario, sigma float64, rng *rand.Rand, opts ...data.SamplerOption) ([]float64, error) {
	sampler, err := data.NewSampler(scenario, sigma, rng, opts...)
	if err != nil {
		return nil, err
	}
	m, err := NewLogisticRegression(scenario, iterations, WithWeightDimension(sampler.Dim+1))
	if err != nil {
		return nil, err
	}

	samples := make(chan data.Sample, 64)
	done := sampler.Stream(iterations-1, samples)
	defer close(done)

	if err := m.Fit(samples); err != nil {
		return nil, err
	}
	return m.W, nil
}

// parallelRows splits [0,n) into one contiguous chunk per CPU.
func parallelRows(n int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n < 256 || workers == 1 {
		fn(0, n)
		return
	}
	rowsPerWorker := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
