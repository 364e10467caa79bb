package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"quantbt/internal/logger"
	"quantbt/types"
)

// Engine wires the data store, a strategy and the portfolio core into a
// single backtest run.
type Engine struct {
	db              dataStore
	strategy        Strategy
	backtestConfig  *BacktestConfig
	reportingConfig *ReportingConfig
	log             *logger.Logger
}

// RunResult bundles the equity curve with the summary report derived from it.
type RunResult struct {
	Curve  *types.EquityCurve
	Report *Report
}

func NewEngine(backtestConfig *BacktestConfig, reportingConfig *ReportingConfig, strat Strategy, db dataStore, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		db:              db,
		strategy:        strat,
		backtestConfig:  backtestConfig,
		reportingConfig: reportingConfig,
		log:             log,
	}
}

// Run loads the bar series, derives signals, backtests and reports.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	bars, err := e.loadBars(ctx)
	if err != nil {
		return nil, err
	}
	e.log.Info("loaded bars",
		zap.String("ticker", e.backtestConfig.ticker),
		zap.Int("count", len(bars)))

	signals, err := e.strategy.GenerateSignals(bars)
	if err != nil {
		return nil, fmt.Errorf("generate signals: %w", err)
	}
	e.log.Info("derived signals", zap.Int("count", len(signals)))

	result, err := e.backtestSignals(bars, signals)
	if err != nil {
		return nil, err
	}

	if e.reportingConfig != nil && e.reportingConfig.writeCurve {
		if err := writeEquityCurveCSVFile(e.reportingConfig.curvePath, result.Curve); err != nil {
			return nil, err
		}
		e.log.Info("wrote equity curve", zap.String("path", e.reportingConfig.curvePath))
	}

	return result, nil
}

// backtestSignals runs the portfolio core over an already-derived signal
// series. Sweep runs reuse this to share a single loaded bar series.
func (e *Engine) backtestSignals(bars []types.Bar, signals []types.Signal) (*RunResult, error) {
	p, err := NewMarketOnClosePortfolio(
		e.backtestConfig.ticker,
		bars,
		signals,
		e.backtestConfig.initialCapital,
		WithLotSize(e.backtestConfig.lotSize),
	)
	if err != nil {
		return nil, fmt.Errorf("build portfolio: %w", err)
	}

	curve, err := p.Backtest()
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	report := e.generateReport(curve, p.Positions())
	return &RunResult{Curve: curve, Report: report}, nil
}

func (e *Engine) loadBars(ctx context.Context) ([]types.Bar, error) {
	asset, err := e.db.GetAssetByTicker(e.backtestConfig.ticker, ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve asset: %w", err)
	}
	bars, err := e.db.GetBars(
		asset.Id,
		e.backtestConfig.ticker,
		e.backtestConfig.interval,
		e.backtestConfig.start,
		e.backtestConfig.end,
		ctx,
	)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	return bars, nil
}
