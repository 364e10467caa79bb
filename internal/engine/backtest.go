package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"quantbt/types"
)

// Backtest turns the derived position series and the underlying bar series
// into an equity curve. The curve is indexed by the position timestamps that
// have a matching bar; every row satisfies total = holdings + cash exactly.
// The computation is a pure function of (positions, bars, initial capital),
// so repeated calls yield identical curves.
func (p *MarketOnClosePortfolio) Backtest() (*types.EquityCurve, error) {
	closes := make(map[int64]decimal.Decimal, len(p.bars))
	for _, bar := range p.bars {
		closes[bar.Timestamp.UnixNano()] = bar.Close
	}

	points := make([]types.EquityPoint, 0, len(p.positions))

	// The first delta is the opening position itself: entering the market is
	// charged against cash like any later trade, there is no free starting
	// position.
	prevQty := decimal.Zero
	cash := p.initialCapital
	var prevTotal decimal.Decimal

	cum := 1.0
	peak := 1.0

	for _, pos := range p.positions {
		closePrice, ok := closes[pos.Timestamp.UnixNano()]
		if !ok {
			// Signal timestamp without a bar: outside the common index, no
			// valuation possible here.
			continue
		}

		holdings := pos.Quantity.Mul(closePrice)
		delta := pos.Quantity.Sub(prevQty)
		cash = cash.Sub(delta.Mul(closePrice))
		total := holdings.Add(cash)

		ret := math.NaN()
		if len(points) > 0 {
			ret = total.InexactFloat64()/prevTotal.InexactFloat64() - 1
			cum *= 1 + ret
		}
		if cum > peak {
			peak = cum
		}

		points = append(points, types.EquityPoint{
			Timestamp: pos.Timestamp,
			Holdings:  holdings,
			Cash:      cash,
			Total:     total,
			Return:    ret,
			CumReturn: cum,
			Drawdown:  1 - cum/peak,
		})
		prevQty = pos.Quantity
		prevTotal = total
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no overlap between position and price index", ErrMisalignedSeries)
	}

	return &types.EquityCurve{
		Symbol: p.symbol,
		Points: points,
	}, nil
}
