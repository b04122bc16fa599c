package experiment

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sgdrisk/pkg/config"
	"sgdrisk/pkg/data"
	"sgdrisk/pkg/geometry"
	"sgdrisk/pkg/model"
	"sgdrisk/pkg/risk"
)

// SettingResult is the risk estimate for one (scenario, sigma, n) cell.
type SettingResult struct {
	Scenario   geometry.Scenario
	Sigma      float64
	SampleSize int
	risk.Result
}

// Driver sweeps the noise and sample-size grids of a Config and reports every
// finished curve to a Renderer.
type Driver struct {
	cfg      config.Config
	renderer Renderer
	logger   *zap.Logger
}

// Option functional config for Driver
type Option func(*Driver)

func WithLogger(l *zap.Logger) Option { return func(d *Driver) { d.logger = l } }

// New validates cfg. A nil renderer discards the series.
func New(cfg config.Config, renderer Renderer, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = Multi(nil)
	}
	d := &Driver{cfg: cfg, renderer: renderer, logger: zap.NewNop()}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// RunAll runs every configured scenario in order.
func (d *Driver) RunAll(ctx context.Context) ([]SettingResult, error) {
	var all []SettingResult
	for _, s := range d.cfg.Scenarios {
		res, err := d.Run(ctx, s)
		all = append(all, res...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

// Run sweeps one scenario. For every sigma it builds a single test set, trains
// Trials predictors per sample size, estimates their risk on that test set,
// then renders the excess-risk and binary-error curves.
func (d *Driver) Run(ctx context.Context, scenario geometry.Scenario) ([]SettingResult, error) {
	var out []SettingResult
	for _, sigma := range d.cfg.Sigmas {
		log := d.logger.With(zap.Stringer("scenario", scenario), zap.Float64("sigma", sigma))

		test, err := d.TestSet(scenario, sigma)
		if err != nil {
			return out, err
		}
		log.Info("test set ready", zap.Int("samples", len(test)))

		var perSigma []SettingResult
		for _, n := range d.cfg.SampleSizes {
			start := time.Now()
			predictors, err := d.Trials(ctx, scenario, sigma, n)
			if err != nil {
				return out, err
			}
			res, err := risk.Estimate(predictors, test)
			if err != nil {
				return out, errors.Wrapf(err, "experiment: %s sigma=%g n=%d", scenario, sigma, n)
			}
			log.Info("setting done",
				zap.Int("n", n),
				zap.Float64("excess_risk", res.ExcessRisk),
				zap.Float64("std_risk", res.StdRisk),
				zap.Float64("binary_error", res.AvgBinaryErr),
				zap.Float64("std_binary_error", res.StdBinaryErr),
				zap.Duration("elapsed", time.Since(start)),
			)
			perSigma = append(perSigma, SettingResult{Scenario: scenario, Sigma: sigma, SampleSize: n, Result: res})
		}
		out = append(out, perSigma...)

		for _, s := range seriesFor(scenario, sigma, perSigma) {
			if err := d.renderer.RenderErrorBars(ctx, s); err != nil {
				return out, errors.Wrapf(err, "experiment: render %s %s sigma=%g", s.Metric, scenario, sigma)
			}
		}
	}
	return out, nil
}

// TestSet returns the fixed test set of a (scenario, sigma) pair. With a
// TestSetDir configured, an existing file is reused and a generated set is
// saved for later runs.
func (d *Driver) TestSet(scenario geometry.Scenario, sigma float64) ([]data.Sample, error) {
	var path string
	if d.cfg.TestSetDir != "" {
		path = filepath.Join(d.cfg.TestSetDir, scenario.String()+"_sigma"+formatSigma(sigma)+".csv")
		if set, err := readTestSet(path); err == nil {
			if len(set) == 0 || len(set[0].X) != d.cfg.Dimension+1 {
				return nil, errors.Errorf("experiment: %s does not hold %d-feature samples", path, d.cfg.Dimension+1)
			}
			d.logger.Debug("test set loaded", zap.String("path", path))
			return set, nil
		} else if !os.IsNotExist(errors.Cause(err)) {
			return nil, err
		}
	}

	sampler, err := data.NewSampler(scenario, sigma, testSetRand(d.cfg.Seed, scenario, sigma), d.samplerOptions()...)
	if err != nil {
		return nil, err
	}
	set := sampler.TestSet(d.cfg.TestSamples)

	if path != "" {
		if err := writeTestSet(path, set); err != nil {
			return nil, err
		}
		d.logger.Debug("test set saved", zap.String("path", path))
	}
	return set, nil
}

// Trials trains cfg.Trials independent predictors with n iterations each on a
// pool of workers. Trial i always uses the same random stream, so the result
// does not depend on the number of workers.
func (d *Driver) Trials(ctx context.Context, scenario geometry.Scenario, sigma float64, n int) ([][]float64, error) {
	trials := d.cfg.Trials
	workers := d.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, trials)

	predictors := make([][]float64, trials)
	jobs := make(chan int)
	errCh := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := trialRand(d.cfg.Seed, scenario, sigma, n, i)
				p, err := model.Train(n, scenario, sigma, rng, d.samplerOptions()...)
				if err != nil {
					errCh <- errors.Wrapf(err, "experiment: trial %d", i)
					return
				}
				predictors[i] = p
			}
		}()
	}

	var ctxErr error
	func() {
		defer close(jobs)
		for i := 0; i < trials; i++ {
			if ctxErr = ctx.Err(); ctxErr != nil {
				return
			}
			select {
			case <-ctx.Done():
				ctxErr = ctx.Err()
				return
			case err := <-errCh:
				errCh <- err
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}
	if ctxErr != nil {
		return nil, ctxErr
	}
	return predictors, nil
}

func (d *Driver) samplerOptions() []data.SamplerOption {
	return []data.SamplerOption{data.WithDimension(d.cfg.Dimension), data.WithCenter(d.cfg.Center)}
}

func readTestSet(path string) ([]data.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	set, err := data.ReadCSV(f)
	return set, errors.Wrapf(err, "experiment: test set %s", path)
}

func writeTestSet(path string, set []data.Sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "experiment: test set dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "experiment: test set")
	}
	if err := data.WriteCSV(f, set); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "experiment: close test set")
}
