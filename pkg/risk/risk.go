package risk

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"sgdrisk/pkg/data"
	"sgdrisk/pkg/loss"
	"sgdrisk/pkg/stats"
)

var ErrEmptyCollection = errors.New("risk: empty predictor collection or test set")

// Result summarises a population of trained predictors on one test set.
//
// ExcessRisk is MeanRisk - MinRisk: the smallest empirical risk among the
// trials stands in for the optimal risk. That proxy shrinks as the number of
// trials grows, so ExcessRisk is biased downward for large populations.
type Result struct {
	ExcessRisk   float64
	StdRisk      float64
	AvgBinaryErr float64
	StdBinaryErr float64

	MeanRisk float64
	MinRisk  float64
	Trials   int
}

// Estimate evaluates every predictor on the whole test set. Both inputs must
// be non-empty; predictors are only read.
func Estimate(predictors [][]float64, test []data.Sample) (Result, error) {
	if len(predictors) == 0 || len(test) == 0 {
		return Result{}, errors.Wrapf(ErrEmptyCollection, "%d predictors, %d test samples", len(predictors), len(test))
	}

	X, Y := data.Split(test)
	logistic := make([]float64, len(predictors))
	binary := make([]float64, len(predictors))

	var wg sync.WaitGroup
	workers := min(runtime.GOMAXPROCS(0), len(predictors))
	perWorker := (len(predictors) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := min(start+perWorker, len(predictors))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				logistic[i], binary[i] = loss.Averages(predictors[i], X, Y)
			}
		}(start, end)
	}
	wg.Wait()

	if err := loss.CheckFinite(logistic...); err != nil {
		return Result{}, errors.Wrap(err, "risk: average logistic loss")
	}

	r := stats.Summarize(logistic)
	b := stats.Summarize(binary)
	return Result{
		ExcessRisk:   max(r.Mean-r.Min, 0),
		StdRisk:      r.Std,
		AvgBinaryErr: b.Mean,
		StdBinaryErr: b.Std,
		MeanRisk:     r.Mean,
		MinRisk:      r.Min,
		Trials:       len(predictors),
	}, nil
}
