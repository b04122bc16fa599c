package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	arg "github.com/alexflint/go-arg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sgdrisk/pkg/config"
	"sgdrisk/pkg/experiment"
	"sgdrisk/pkg/geometry"
	"sgdrisk/pkg/render"
	"sgdrisk/pkg/report"
)

// args are the command line flags. With none, the program reproduces the
// reference study: the hypercube then the ball, sigma in {0.05, 3}, n in {50, 100, 500, 1000},
// 30 trials each, charts written to ./plots.
type args struct {
	Config   string              `arg:"--config" help:"YAML file overriding the default experiment"`
	Out      string              `arg:"--out" help:"directory for the charts (default from config: plots)"`
	Format   string              `arg:"--format" default:"png" help:"chart file format: png, svg or pdf"`
	Scenario []geometry.Scenario `arg:"--scenario,separate" help:"scenario to run, hypercube or ball (repeatable)"`
	Seed     *uint64             `arg:"--seed" help:"base random seed"`
	Workers  *int                `arg:"--workers" help:"trial workers, 0 for one per CPU"`
	Trials   *int                `arg:"--trials" help:"independent trials per sample size"`
	TestSets string              `arg:"--test-sets" help:"directory to load/save fixed test sets"`
	Report   string              `arg:"--report" help:"CSV file for every plotted point; a .zst suffix compresses it"`
	NoPlots  bool                `arg:"--no-plots" help:"skip chart rendering"`
	Verbose  bool                `arg:"-v,--verbose" help:"human readable debug logging"`
}

func (args) Description() string {
	return "Measures the excess logistic risk and classification error of projected SGD on synthetic data."
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return cfg.Build()
}

func loadConfig(a args) (config.Config, error) {
	cfg := config.Default()
	if a.Config != "" {
		var err error
		if cfg, err = config.Load(a.Config); err != nil {
			return cfg, err
		}
	}
	if a.Out != "" {
		cfg.OutDir = a.Out
	}
	if len(a.Scenario) > 0 {
		cfg.Scenarios = a.Scenario
	}
	if a.Seed != nil {
		cfg.Seed = *a.Seed
	}
	if a.Workers != nil {
		cfg.Workers = *a.Workers
	}
	if a.Trials != nil {
		cfg.Trials = *a.Trials
	}
	if a.TestSets != "" {
		cfg.TestSetDir = a.TestSets
	}
	return cfg, cfg.Validate()
}

func main() {
	var a args
	arg.MustParse(&a)

	logger, err := newLogger(a.Verbose)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(a)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	var renderers experiment.Multi
	if !a.NoPlots {
		renderers = append(renderers, render.NewPlotRenderer(cfg.OutDir, render.WithFormat(a.Format), render.WithLogger(logger)))
	}
	var collector *report.Collector
	if a.Report != "" {
		collector = report.NewCollector()
		renderers = append(renderers, collector)
	}

	driver, err := experiment.New(cfg, renderers, experiment.WithLogger(logger))
	if err != nil {
		logger.Fatal("creating experiment", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := driver.RunAll(ctx)
	if err != nil {
		logger.Fatal("experiment failed", zap.Error(err), zap.Int("settings_done", len(results)))
	}

	if collector != nil {
		if err := collector.Save(a.Report); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		logger.Info("saved report", zap.String("path", a.Report))
	}
	logger.Info("experiment finished", zap.Int("settings", len(results)), zap.Duration("elapsed", time.Since(start)))
}
