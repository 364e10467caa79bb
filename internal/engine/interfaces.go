package engine

import (
	"context"
	"time"

	"quantbt/types"
)

type dataStore interface {
	GetAssetByTicker(ticker string, ctx context.Context) (*types.Asset, error)
	GetBars(assetId int, ticker string, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Bar, error)
}

// Strategy produces a signal series from a bar series. The signal index must
// be a subset of the bar index; any type emitting such a series can drive a
// backtest.
type Strategy interface {
	GenerateSignals(bars []types.Bar) ([]types.Signal, error)
}

// portfolio derives positions from signals and produces an equity curve.
type portfolio interface {
	Positions() []types.Position
	Backtest() (*types.EquityCurve, error)
}

var _ portfolio = (*MarketOnClosePortfolio)(nil)
