// Package macdcross derives crossover signals from the MACD indicator: +1
// when the indicator line crosses above its signal smoothing, -1 when it
// crosses back under, 0 everywhere else.
package macdcross

import (
	"fmt"

	"quantbt/internal/engine"
	"quantbt/internal/indicator"
	"quantbt/types"
)

// Compile-time interface check.
var _ engine.Strategy = (*Strategy)(nil)

type Strategy struct {
	fast       int
	slow       int
	signal     int
	logReturns bool
}

// New creates a crossover strategy. Non-positive window lengths fall back to
// the conventional 12/26/9 parameterization.
func New(fast, slow, signal int, logReturns bool) *Strategy {
	if fast <= 0 {
		fast = 12
	}
	if slow <= 0 {
		slow = 26
	}
	if signal <= 0 {
		signal = 9
	}
	return &Strategy{
		fast:       fast,
		slow:       slow,
		signal:     signal,
		logReturns: logReturns,
	}
}

// Name identifies the strategy parameterization, e.g. "macd-cross-12-26-9".
func (s *Strategy) Name() string {
	return fmt.Sprintf("macd-cross-%d-%d-%d", s.fast, s.slow, s.signal)
}

// GenerateSignals emits one signal per bar starting at the third bar: the
// first observation is consumed by return differencing, the second by the
// crossover differencing. Nonzero values appear exactly where the indicator
// and signal lines flip relative order.
func (s *Strategy) GenerateSignals(bars []types.Bar) ([]types.Signal, error) {
	line, err := indicator.MACD(bars, s.fast, s.slow, s.signal, s.logReturns)
	if err != nil {
		return nil, err
	}

	signals := make([]types.Signal, 0, len(line.MACD)-1)
	prevAbove := above(line, 0)
	for i := 1; i < len(line.MACD); i++ {
		cur := above(line, i)
		signals = append(signals, types.NewSignal(line.Timestamps[i], types.SignalValue(cur-prevAbove)))
		prevAbove = cur
	}
	return signals, nil
}

func above(line *indicator.MACDLine, i int) int {
	if line.MACD[i] > line.Signal[i] {
		return 1
	}
	return 0
}
