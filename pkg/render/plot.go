package render

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"sgdrisk/pkg/experiment"
)

// PlotRenderer writes one error-bar chart per series into Dir.
type PlotRenderer struct {
	Dir    string
	Format string // file extension understood by plot.Save: png, svg, pdf...
	Width  vg.Length
	Height vg.Length

	logger *zap.Logger
	mu     sync.Mutex
	files  []string
}

// PlotOption functional config for PlotRenderer
type PlotOption func(*PlotRenderer)

func WithFormat(ext string) PlotOption    { return func(r *PlotRenderer) { r.Format = ext } }
func WithLogger(l *zap.Logger) PlotOption { return func(r *PlotRenderer) { r.logger = l } }
func WithSize(w, h vg.Length) PlotOption  { return func(r *PlotRenderer) { r.Width, r.Height = w, h } }

func NewPlotRenderer(dir string, opts ...PlotOption) *PlotRenderer {
	r := &PlotRenderer{
		Dir:    dir,
		Format: "png",
		Width:  5 * vg.Inch,
		Height: 4 * vg.Inch,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// errorPoints pairs the points with their symmetric error bars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Plot builds the chart for s without saving it.
func Plot(s experiment.Series) (*plot.Plot, error) {
	if len(s.X) != len(s.Y) || len(s.Y) != len(s.YErr) {
		return nil, errors.Errorf("render: series lengths differ: x=%d y=%d err=%d", len(s.X), len(s.Y), len(s.YErr))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s, sigma = %g", s.Scenario, s.Sigma)
	p.X.Label.Text = "Training samples n"
	p.Y.Label.Text = yLabel(s.Metric)
	p.Add(plotter.NewGrid())

	pts := errorPoints{
		XYs:     make(plotter.XYs, len(s.X)),
		YErrors: make(plotter.YErrors, len(s.X)),
	}
	for i := range s.X {
		pts.XYs[i] = plotter.XY{X: s.X[i], Y: s.Y[i]}
		pts.YErrors[i].Low = s.YErr[i]
		pts.YErrors[i].High = s.YErr[i]
	}

	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, errors.Wrap(err, "render: error bars")
	}
	bars.LineStyle.Color = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	p.Add(bars)

	sc, err := plotter.NewScatter(pts.XYs)
	if err != nil {
		return nil, errors.Wrap(err, "render: scatter")
	}
	sc.Shape = draw.TriangleGlyph{}
	sc.Color = color.RGBA{B: 255, A: 255, R: 50, G: 50}
	sc.Radius = vg.Points(4)
	p.Add(sc)

	// Keep the markers off the frame.
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)
	return p, nil
}

// RenderErrorBars saves the chart as <scenario>_sigma<sigma>_<metric>.<format>.
func (r *PlotRenderer) RenderErrorBars(_ context.Context, s experiment.Series) error {
	p, err := Plot(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return errors.Wrap(err, "render: output dir")
	}
	path := filepath.Join(r.Dir, FileName(s, r.Format))
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return errors.Wrapf(err, "render: save %s", path)
	}

	r.mu.Lock()
	r.files = append(r.files, path)
	r.mu.Unlock()
	r.logger.Info("saved plot", zap.String("path", path), zap.Stringer("metric", s.Metric))
	return nil
}

// Files lists the charts written so far.
func (r *PlotRenderer) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

func FileName(s experiment.Series, ext string) string {
	return s.Scenario.String() + "_sigma" + strconv.FormatFloat(s.Sigma, 'g', -1, 64) + "_" + s.Metric.String() + "." + ext
}

func yLabel(m experiment.Metric) string {
	switch m {
	case experiment.ExcessRisk:
		return "Excess logistic risk"
	case experiment.BinaryError:
		return "Binary classification error"
	}
	return m.String()
}
