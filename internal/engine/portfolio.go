package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"quantbt/types"
)

var ErrInvalidCapital = errors.New("initial capital must be a finite non-negative number")
var ErrInvalidSignalValue = errors.New("signal value outside {-1, 0, 1}")
var ErrMisalignedSeries = errors.New("signal and price series do not share a usable time index")

const DefaultLotSize = 100
const DefaultInitialCapital = 10000.0

// MarketOnClosePortfolio holds one symbol and trades every position change at
// the closing price of the bar it was decided on. Positions are derived once
// at construction; the equity curve is computed per Backtest call.
type MarketOnClosePortfolio struct {
	symbol         string
	bars           []types.Bar
	signals        []types.Signal
	initialCapital decimal.Decimal
	lotSize        decimal.Decimal
	positions      []types.Position
}

type PortfolioOption func(*MarketOnClosePortfolio)

// WithLotSize overrides the number of units bought or sold per unit of
// signal.
func WithLotSize(lotSize int64) PortfolioOption {
	return func(p *MarketOnClosePortfolio) {
		p.lotSize = decimal.NewFromInt(lotSize)
	}
}

// NewMarketOnClosePortfolio validates its inputs and derives the position
// series in one step, so a returned portfolio is always fully formed.
func NewMarketOnClosePortfolio(
	symbol string,
	bars []types.Bar,
	signals []types.Signal,
	initialCapital float64,
	opts ...PortfolioOption,
) (*MarketOnClosePortfolio, error) {
	if math.IsNaN(initialCapital) || math.IsInf(initialCapital, 0) || initialCapital < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCapital, initialCapital)
	}
	if len(signals) == 0 {
		return nil, fmt.Errorf("%w: empty signal series", ErrMisalignedSeries)
	}
	if err := validateAscending(bars); err != nil {
		return nil, err
	}

	p := &MarketOnClosePortfolio{
		symbol:         symbol,
		bars:           bars,
		signals:        signals,
		initialCapital: decimal.NewFromFloat(initialCapital),
		lotSize:        decimal.NewFromInt(DefaultLotSize),
	}
	for _, opt := range opts {
		opt(p)
	}

	positions, err := p.generatePositions()
	if err != nil {
		return nil, err
	}
	p.positions = positions
	return p, nil
}

// generatePositions maps each signal value to a held quantity of
// lotSize * value. Signals outside the discrete domain are rejected rather
// than scaled.
func (p *MarketOnClosePortfolio) generatePositions() ([]types.Position, error) {
	positions := make([]types.Position, 0, len(p.signals))
	for i, s := range p.signals {
		if s.Value < types.SignalShort || s.Value > types.SignalLong {
			return nil, fmt.Errorf("%w: %d at %s", ErrInvalidSignalValue, s.Value, s.Timestamp)
		}
		if i > 0 && !s.Timestamp.After(p.signals[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: signal index not strictly increasing at %s",
				ErrMisalignedSeries, s.Timestamp)
		}
		positions = append(positions, types.Position{
			Symbol:    p.symbol,
			Timestamp: s.Timestamp,
			Quantity:  p.lotSize.Mul(decimal.NewFromInt(int64(s.Value))),
		})
	}
	return positions, nil
}

// Positions returns a copy of the derived position series.
func (p *MarketOnClosePortfolio) Positions() []types.Position {
	return append([]types.Position(nil), p.positions...)
}

func validateAscending(bars []types.Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			return fmt.Errorf("%w: price index not strictly increasing at %s",
				ErrMisalignedSeries, bars[i].Timestamp)
		}
	}
	return nil
}
