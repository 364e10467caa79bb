package indicator

import (
	"errors"
	"math"
	"time"

	"quantbt/types"
)

var ErrInvalidSpan = errors.New("ewm span must be at least 1")
var ErrNotEnoughBars = errors.New("not enough bars to compute returns")

// MACDLine holds the MACD indicator line and its signal smoothing. Both
// columns share Timestamps, which starts at the second bar of the input
// series since the first observation is consumed by the return differencing.
type MACDLine struct {
	Timestamps []time.Time
	MACD       []float64
	Signal     []float64
}

// MACD computes the difference of the fast and slow exponentially weighted
// averages of the close-to-close return series, and its own exponential
// smoothing over the signal span. Returns are percentage changes by default;
// with logReturns they are log differences.
func MACD(bars []types.Bar, fast, slow, signal int, logReturns bool) (*MACDLine, error) {
	if fast < 1 || slow < 1 || signal < 1 {
		return nil, ErrInvalidSpan
	}
	if len(bars) < 2 {
		return nil, ErrNotEnoughBars
	}

	returns := make([]float64, len(bars)-1)
	timestamps := make([]time.Time, len(bars)-1)
	prev := bars[0].Close.InexactFloat64()
	for i := 1; i < len(bars); i++ {
		cur := bars[i].Close.InexactFloat64()
		if logReturns {
			returns[i-1] = math.Log(cur) - math.Log(prev)
		} else {
			returns[i-1] = cur/prev - 1
		}
		timestamps[i-1] = bars[i].Timestamp
		prev = cur
	}

	fastEWM := EWMA(returns, fast)
	slowEWM := EWMA(returns, slow)

	macd := make([]float64, len(returns))
	for i := range returns {
		macd[i] = fastEWM[i] - slowEWM[i]
	}

	return &MACDLine{
		Timestamps: timestamps,
		MACD:       macd,
		Signal:     EWMA(macd, signal),
	}, nil
}
