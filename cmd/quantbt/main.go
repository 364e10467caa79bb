package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantbt/internal/config"
	"quantbt/internal/engine"
	"quantbt/internal/logger"
	"quantbt/internal/repository"
	"quantbt/strategies/macdcross"
	"quantbt/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("backtest failed", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *logger.Logger) error {
	interval, ok := types.ConvertInterval[cfg.Backtest.Interval]
	if !ok {
		return fmt.Errorf("unknown interval %q", cfg.Backtest.Interval)
	}
	start, err := cfg.Backtest.StartTime()
	if err != nil {
		return err
	}
	end, err := cfg.Backtest.EndTime()
	if err != nil {
		return err
	}

	db, err := repository.NewDatabase(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to price store: %w", err)
	}
	defer db.Close()

	primary := macdcross.New(
		cfg.Backtest.MACD.Fast,
		cfg.Backtest.MACD.Slow,
		cfg.Backtest.MACD.Signal,
		cfg.Backtest.MACD.LogReturns,
	)

	backtestConfig := engine.NewBacktestConfig(
		cfg.Backtest.Ticker,
		interval,
		start,
		end,
		cfg.Backtest.InitialCapital,
		cfg.Backtest.LotSize,
	)
	reportingConfig := engine.NewReportingConfig(
		decimal.NewFromFloat(cfg.Report.RiskFreeRate),
		cfg.Report.CurvePath != "",
		cfg.Report.CurvePath,
	)
	eng := engine.NewEngine(backtestConfig, reportingConfig, primary, &db, zlog)

	ctx := context.Background()

	if len(cfg.Sweep.Variants) == 0 {
		result, err := eng.Run(ctx)
		if err != nil {
			return err
		}
		eng.PrintReport(result.Report)
		return nil
	}

	variants := make([]engine.SweepVariant, 0, len(cfg.Sweep.Variants)+1)
	variants = append(variants, engine.SweepVariant{Name: primary.Name(), Strategy: primary})
	for _, params := range cfg.Sweep.Variants {
		strat := macdcross.New(params.Fast, params.Slow, params.Signal, params.LogReturns)
		variants = append(variants, engine.SweepVariant{Name: strat.Name(), Strategy: strat})
	}

	results, err := eng.RunSweep(ctx, variants, cfg.Sweep.MaxWorkers)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			zlog.Warn("variant failed", zap.String("variant", r.Name), zap.Error(r.Err))
			continue
		}
		fmt.Printf("\n>>> %s\n", r.Name)
		eng.PrintReport(r.Result.Report)
	}
	return nil
}
