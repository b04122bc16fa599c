package experiment

import (
	"context"

	"sgdrisk/pkg/geometry"
)

// Metric names the quantity plotted against the sample size.
type Metric int

const (
	ExcessRisk Metric = iota
	BinaryError
)

func (m Metric) String() string {
	switch m {
	case ExcessRisk:
		return "excess_risk"
	case BinaryError:
		return "binary_error"
	}
	return "unknown"
}

// Series is one error-bar curve: Y[i] ± YErr[i] at sample size X[i].
type Series struct {
	Scenario geometry.Scenario
	Sigma    float64
	Metric   Metric
	X        []float64
	Y        []float64
	YErr     []float64
}

// Renderer consumes finished series. Rendering failures abort the run.
type Renderer interface {
	RenderErrorBars(ctx context.Context, s Series) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, s Series) error

func (f RendererFunc) RenderErrorBars(ctx context.Context, s Series) error { return f(ctx, s) }

// Multi hands every series to each renderer in order.
type Multi []Renderer

func (m Multi) RenderErrorBars(ctx context.Context, s Series) error {
	for _, r := range m {
		if err := r.RenderErrorBars(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// seriesFor splits the per-size results of one sigma into the two curves.
func seriesFor(scenario geometry.Scenario, sigma float64, results []SettingResult) []Series {
	risk := Series{Scenario: scenario, Sigma: sigma, Metric: ExcessRisk}
	binary := Series{Scenario: scenario, Sigma: sigma, Metric: BinaryError}
	for _, r := range results {
		n := float64(r.SampleSize)
		risk.X = append(risk.X, n)
		risk.Y = append(risk.Y, r.ExcessRisk)
		risk.YErr = append(risk.YErr, r.StdRisk)
		binary.X = append(binary.X, n)
		binary.Y = append(binary.Y, r.AvgBinaryErr)
		binary.YErr = append(binary.YErr, r.StdBinaryErr)
	}
	return []Series{risk, binary}
}
