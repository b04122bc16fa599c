package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/pkg/errors"

	"sgdrisk/pkg/geometry"
)

const (
	// DefaultDimension is the number of domain coordinates, before the bias.
	DefaultDimension = 5
	// DefaultCenter is the magnitude of the two class means.
	DefaultCenter = 1.0 / 5
)

var ErrNegativeSigma = errors.New("data: sigma must be non-negative")

// Sample represents a single data point. X ends with the constant bias
// coordinate and Y is -1 or +1.
type Sample struct {
	X []float64
	Y float64
}

// Sampler draws labelled points from a symmetric two-class Gaussian mixture
// and projects them onto the scenario's domain.
type Sampler struct {
	Scenario geometry.Scenario
	Sigma    float64
	Dim      int     // domain dimension D; samples have D+1 features
	Center   float64 // class means are -Center and +Center on every axis

	rng *rand.Rand
}

// SamplerOption functional config for Sampler
type SamplerOption func(*Sampler)

func WithDimension(d int) SamplerOption  { return func(s *Sampler) { s.Dim = d } }
func WithCenter(c float64) SamplerOption { return func(s *Sampler) { s.Center = c } }

// NewSampler binds a sampler to rng. The sampler is not safe for concurrent
// use; give every goroutine its own generator.
func NewSampler(scenario geometry.Scenario, sigma float64, rng *rand.Rand, opts ...SamplerOption) (*Sampler, error) {
	if !scenario.Valid() {
		return nil, errors.Wrapf(geometry.ErrUnknownScenario, "%d", int(scenario))
	}
	if sigma < 0 {
		return nil, errors.Wrapf(ErrNegativeSigma, "got %v", sigma)
	}
	s := &Sampler{
		Scenario: scenario,
		Sigma:    sigma,
		Dim:      DefaultDimension,
		Center:   DefaultCenter,
		rng:      rng,
	}
	for _, o := range opts {
		o(s)
	}
	if s.Dim < 1 {
		return nil, errors.Errorf("data: dimension must be positive, got %d", s.Dim)
	}
	return s, nil
}

// Sample draws one point.
func (s *Sampler) Sample() Sample {
	y := 1.0
	if s.rng.IntN(2) == 0 {
		y = -1
	}
	mean := y * s.Center

	x := make([]float64, s.Dim, s.Dim+1)
	for j := range x {
		x[j] = mean + s.Sigma*s.rng.NormFloat64()
	}
	geometry.ProjectInPlace(s.Scenario, x)
	x = append(x, 1)

	return Sample{X: x, Y: y}
}

// TestSet draws count independent samples.
func (s *Sampler) TestSet(count int) []Sample {
	out := make([]Sample, count)
	for i := range out {
		out[i] = s.Sample()
	}
	return out
}

// Stream emits n fresh samples on out and closes it.
// Close the returned done chan to stop early.
func (s *Sampler) Stream(n int, out chan<- Sample) (done chan struct{}) {
	done = make(chan struct{})
	go func() {
		defer close(out)
		for i := 0; i < n; i++ {
			smp := s.Sample()
			select {
			case <-done:
				return
			case out <- smp:
			}
		}
	}()
	return done
}

// Split returns the features and labels of samples as parallel slices
// sharing the sample backing arrays.
func Split(samples []Sample) (X [][]float64, Y []float64) {
	X = make([][]float64, len(samples))
	Y = make([]float64, len(samples))
	for i, s := range samples {
		X[i] = s.X
		Y[i] = s.Y
	}
	return X, Y
}

// WriteCSV writes one row per sample: the features followed by the label.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	var rec []string
	for _, s := range samples {
		rec = rec[:0]
		for _, v := range s.X {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rec = append(rec, strconv.FormatFloat(s.Y, 'g', -1, 64))
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "data: write sample")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "data: flush samples")
}

// ReadCSV reads samples written by WriteCSV. The last column is the label.
func ReadCSV(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.ReuseRecord = true

	var out []Sample
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "data: line %d", line)
		}
		if len(rec) < 2 {
			return nil, errors.Errorf("data: line %d: need features and a label, got %d columns", line, len(rec))
		}

		x := make([]float64, len(rec)-1)
		for i, field := range rec[:len(rec)-1] {
			if x[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, errors.Wrapf(err, "data: line %d column %d", line, i)
			}
		}
		y, err := strconv.ParseFloat(rec[len(rec)-1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "data: line %d label", line)
		}
		if y != 1 && y != -1 {
			return nil, errors.Errorf("data: line %d: label must be -1 or 1, got %v", line, y)
		}
		out = append(out, Sample{X: x, Y: y})
	}
}
