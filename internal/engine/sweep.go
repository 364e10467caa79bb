package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"quantbt/types"
)

// SweepVariant names one strategy parameterization to evaluate.
type SweepVariant struct {
	Name     string
	Strategy Strategy
}

// SweepResult is the outcome for one variant. Err is set when the variant's
// run failed; Report and Curve are nil in that case.
type SweepResult struct {
	Name   string
	Result *RunResult
	Err    error
}

// RunSweep evaluates every variant over one loaded bar series. Each run is a
// pure function of its own inputs, so variants execute concurrently on a
// bounded worker pool with no locking. Results come back in variant order.
func (e *Engine) RunSweep(ctx context.Context, variants []SweepVariant, workers int) ([]SweepResult, error) {
	bars, err := e.loadBars(ctx)
	if err != nil {
		return nil, err
	}
	e.log.Info("starting sweep",
		zap.String("ticker", e.backtestConfig.ticker),
		zap.Int("variants", len(variants)),
		zap.Int("workers", workers))

	if workers < 1 {
		workers = 1
	}

	bar := initProgressBar(len(variants))
	results := make([]SweepResult, len(variants))

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.runVariant(bars, variants[i])
				bar.Add(1)
			}
		}()
	}

	for i := range variants {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func (e *Engine) runVariant(bars []types.Bar, v SweepVariant) SweepResult {
	signals, err := v.Strategy.GenerateSignals(bars)
	if err != nil {
		return SweepResult{Name: v.Name, Err: fmt.Errorf("generate signals: %w", err)}
	}
	result, err := e.backtestSignals(bars, signals)
	if err != nil {
		return SweepResult{Name: v.Name, Err: err}
	}
	return SweepResult{Name: v.Name, Result: result}
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Sweeping parameters..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
