package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"quantbt/types"
)

type BacktestConfig struct {
	ticker         string
	interval       types.Interval
	start          time.Time
	end            time.Time
	initialCapital float64
	lotSize        int64
}

func NewBacktestConfig(ticker string, interval types.Interval, start, end time.Time, initialCapital float64, lotSize int64) *BacktestConfig {
	if initialCapital == 0 {
		initialCapital = DefaultInitialCapital
	}
	if lotSize == 0 {
		lotSize = DefaultLotSize
	}
	return &BacktestConfig{
		ticker:         ticker,
		interval:       interval,
		start:          start,
		end:            end,
		initialCapital: initialCapital,
		lotSize:        lotSize,
	}
}

type ReportingConfig struct {
	sharpeRiskFreeRate decimal.Decimal
	writeCurve         bool
	curvePath          string
}

func NewReportingConfig(sharpeRiskFreeRate decimal.Decimal, writeCurve bool, curvePath string) *ReportingConfig {
	return &ReportingConfig{
		sharpeRiskFreeRate: sharpeRiskFreeRate,
		writeCurve:         writeCurve,
		curvePath:          curvePath,
	}
}
