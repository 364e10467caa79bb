package engine

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quantbt/types"
)

func testCurve(totals map[time.Time]int64) *types.EquityCurve {
	timestamps := make([]time.Time, 0, len(totals))
	for ts := range totals {
		timestamps = append(timestamps, ts)
	}
	// map iteration order is random; sort by hand
	for i := 0; i < len(timestamps); i++ {
		for j := i + 1; j < len(timestamps); j++ {
			if timestamps[j].Before(timestamps[i]) {
				timestamps[i], timestamps[j] = timestamps[j], timestamps[i]
			}
		}
	}
	points := make([]types.EquityPoint, 0, len(timestamps))
	for _, ts := range timestamps {
		points = append(points, types.EquityPoint{
			Timestamp: ts,
			Total:     decimal.NewFromInt(totals[ts]),
		})
	}
	return &types.EquityCurve{Symbol: "AAPL", Points: points}
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestCalcNetProfit(t *testing.T) {
	curve := testCurve(map[time.Time]int64{
		day(2022, 1, 3): 10000,
		day(2022, 1, 4): 10500,
		day(2022, 1, 5): 11000,
	})
	var wg sync.WaitGroup
	wg.Add(1)
	profit, totalReturn := calcNetProfit(curve, &wg)
	if !profit.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("calcNetProfit() profit = %s, want 1000", profit)
	}
	if !totalReturn.Equal(decimal.NewFromFloat(0.1)) {
		t.Errorf("calcNetProfit() return = %s, want 0.1", totalReturn)
	}
}

func TestCalcTotalTrades(t *testing.T) {
	qty := func(q int64) decimal.Decimal { return decimal.NewFromInt(q) }
	tests := []struct {
		name      string
		positions []types.Position
		want      int
	}{
		{"no positions", nil, 0},
		{"flat throughout", []types.Position{{Quantity: qty(0)}, {Quantity: qty(0)}}, 0},
		{"opening position counts", []types.Position{{Quantity: qty(100)}, {Quantity: qty(100)}}, 1},
		{"enter exit enter", []types.Position{
			{Quantity: qty(0)}, {Quantity: qty(100)}, {Quantity: qty(0)}, {Quantity: qty(-100)},
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wg sync.WaitGroup
			wg.Add(1)
			if got := calcTotalTrades(tt.positions, &wg); got != tt.want {
				t.Errorf("calcTotalTrades() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalcCAGRDoublingInTwoYears(t *testing.T) {
	curve := testCurve(map[time.Time]int64{
		day(2020, 1, 1): 10000,
		day(2022, 1, 1): 20000,
	})
	var wg sync.WaitGroup
	wg.Add(1)
	got := calcCAGR(curve, &wg)
	// Doubling over two years is ~41.4% a year; the 365.25-day year nudges it
	// slightly off the exact sqrt(2)-1.
	want := math.Pow(2, 1.0/(curve.Last().Timestamp.Sub(curve.First().Timestamp).Hours()/(24*365.25))) - 1
	if math.Abs(got.InexactFloat64()-want) > 1e-9 {
		t.Errorf("calcCAGR() = %s, want %v", got, want)
	}
}

func TestCalcDrawdownMetrics(t *testing.T) {
	curve := testCurve(map[time.Time]int64{
		day(2022, 1, 3): 10000,
		day(2022, 1, 4): 12000,
		day(2022, 1, 5): 9000,
		day(2022, 1, 6): 9600,
		day(2022, 1, 7): 13000,
	})
	var wg sync.WaitGroup
	wg.Add(1)
	maxDD, maxDDPct, maxDDDays := calcDrawdownMetrics(curve, &wg)

	if !maxDD.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("max drawdown = %s, want 3000", maxDD)
	}
	if !maxDDPct.Equal(decimal.NewFromFloat(0.25)) {
		t.Errorf("max drawdown pct = %s, want 0.25", maxDDPct)
	}
	if maxDDDays != 24*time.Hour {
		t.Errorf("max drawdown duration = %v, want 24h", maxDDDays)
	}
}

func TestCalcSharpeRatioFlatEquityIsZero(t *testing.T) {
	curve := testCurve(map[time.Time]int64{
		day(2022, 1, 31): 10000,
		day(2022, 2, 28): 10000,
		day(2022, 3, 31): 10000,
		day(2022, 4, 29): 10000,
	})
	var wg sync.WaitGroup
	wg.Add(1)
	got := calcSharpeRatio(curve, decimal.Zero, &wg)
	if !got.IsZero() {
		t.Errorf("calcSharpeRatio() = %s, want 0 for flat equity", got)
	}
}

func TestGetMonthlyReturns(t *testing.T) {
	curve := testCurve(map[time.Time]int64{
		day(2022, 1, 10): 10000,
		day(2022, 1, 31): 11000,
		day(2022, 2, 15): 10500,
		day(2022, 2, 28): 12100,
		day(2022, 3, 31): 6050,
	})
	got := getMonthlyReturns(curve)
	want := []float64{0.1, -0.5}
	if len(got) != len(want) {
		t.Fatalf("getMonthlyReturns() length = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("getMonthlyReturns()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateReport(t *testing.T) {
	p, err := NewMarketOnClosePortfolio("AAPL", testBars(50, 55), testSignals(1, 1), 10000)
	if err != nil {
		t.Fatalf("NewMarketOnClosePortfolio() error = %v", err)
	}
	curve, err := p.Backtest()
	if err != nil {
		t.Fatalf("Backtest() error = %v", err)
	}

	e := NewEngine(
		NewBacktestConfig("AAPL", types.Day, testStart, testStart.Add(48*time.Hour), 10000, 100),
		NewReportingConfig(decimal.Zero, false, ""),
		nil, nil, nil,
	)
	report := e.generateReport(curve, p.Positions())

	if report.Symbol != "AAPL" {
		t.Errorf("report.Symbol = %s, want AAPL", report.Symbol)
	}
	if !report.NetProfit.Equal(decimal.NewFromInt(500)) {
		t.Errorf("report.NetProfit = %s, want 500", report.NetProfit)
	}
	if !report.TotalReturn.Equal(decimal.NewFromFloat(0.05)) {
		t.Errorf("report.TotalReturn = %s, want 0.05", report.TotalReturn)
	}
	if report.TotalTrades != 1 {
		t.Errorf("report.TotalTrades = %d, want 1", report.TotalTrades)
	}
	if !report.MaxDrawdown.IsZero() {
		t.Errorf("report.MaxDrawdown = %s, want 0", report.MaxDrawdown)
	}
}
