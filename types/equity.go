package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityPoint is one row of the equity curve. Holdings, cash and total are
// exact decimals; the return columns are floating-point ratios. Return at the
// very first row is NaN since there is no prior total to compare against.
type EquityPoint struct {
	Timestamp time.Time
	Holdings  decimal.Decimal
	Cash      decimal.Decimal
	Total     decimal.Decimal
	Return    float64
	CumReturn float64
	Drawdown  float64
}

// EquityCurve is the terminal artifact of a backtest run. Rows are ordered by
// ascending timestamp and the curve is never mutated once built.
type EquityCurve struct {
	Symbol string
	Points []EquityPoint
}

func (ec *EquityCurve) Len() int {
	return len(ec.Points)
}

func (ec *EquityCurve) First() EquityPoint {
	return ec.Points[0]
}

func (ec *EquityCurve) Last() EquityPoint {
	return ec.Points[len(ec.Points)-1]
}
