package engine

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"quantbt/types"
)

type Report struct {
	// Meta / period info
	Symbol      string
	StartDate   time.Time
	TotalPeriod time.Duration
	TotalTrades int

	// Absolute performance
	NetProfit   decimal.Decimal
	TotalReturn decimal.Decimal
	CAGR        decimal.Decimal

	// Drawdown metrics
	MaxDrawdown        decimal.Decimal
	MaxDrawdownPercent decimal.Decimal
	MaxDrawdownDays    time.Duration

	// Risk-adjusted metrics
	SharpeRatio decimal.Decimal
}

func (e *Engine) PrintReport(report *Report) {
	fmt.Println("===== Backtest Report =====")
	fmt.Printf("Symbol:                %s\n", report.Symbol)
	fmt.Printf("Start Date:            %s\n", report.StartDate.Format("2006-01-02"))
	fmt.Printf("Total Period:          %d days\n", report.TotalPeriod/(24*time.Hour))
	fmt.Printf("Total Trades:          %d\n", report.TotalTrades)

	fmt.Println("\n-- Absolute Performance --")
	fmt.Printf("Net Profit:            %s\n", report.NetProfit)
	fmt.Printf("Total Return:          %s\n", report.TotalReturn)
	fmt.Printf("CAGR:                  %s\n", report.CAGR)

	fmt.Println("\n-- Drawdown Metrics --")
	fmt.Printf("Max Drawdown:          %s\n", report.MaxDrawdown)
	fmt.Printf("Max Drawdown %%:        %s\n", report.MaxDrawdownPercent)
	fmt.Printf("Max Drawdown Days:     %v\n", report.MaxDrawdownDays)

	fmt.Println("\n-- Risk-Adjusted Metrics --")
	fmt.Printf("Sharpe Ratio:          %s\n", report.SharpeRatio)

	fmt.Println("===========================")
}

func (e *Engine) generateReport(curve *types.EquityCurve, positions []types.Position) *Report {
	report := &Report{Symbol: curve.Symbol}
	report.StartDate = curve.First().Timestamp
	report.TotalPeriod = curve.Last().Timestamp.Sub(curve.First().Timestamp).Truncate(time.Hour * 24)

	riskFree := decimal.Zero
	if e.reportingConfig != nil {
		riskFree = e.reportingConfig.sharpeRiskFreeRate
	}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		report.NetProfit, report.TotalReturn = calcNetProfit(curve, &wg)
	}()
	go func() {
		report.TotalTrades = calcTotalTrades(positions, &wg)
	}()
	go func() {
		report.CAGR = calcCAGR(curve, &wg)
	}()
	go func() {
		report.MaxDrawdown, report.MaxDrawdownPercent, report.MaxDrawdownDays = calcDrawdownMetrics(curve, &wg)
	}()
	go func() {
		report.SharpeRatio = calcSharpeRatio(curve, riskFree, &wg)
	}()
	wg.Wait()

	return report
}

// calcNetProfit measures the equity gained over the run. The first total of
// the curve always equals the initial capital (the opening trade moves value
// between cash and holdings, it does not create any).
func calcNetProfit(curve *types.EquityCurve, wg *sync.WaitGroup) (decimal.Decimal, decimal.Decimal) {
	defer wg.Done()

	startVal := curve.First().Total
	endVal := curve.Last().Total
	profit := endVal.Sub(startVal)

	if !startVal.GreaterThan(decimal.Zero) {
		return profit, decimal.Zero
	}
	return profit, profit.Div(startVal)
}

// calcTotalTrades counts position changes; the opening position counts as the
// first trade.
func calcTotalTrades(positions []types.Position, wg *sync.WaitGroup) int {
	defer wg.Done()

	trades := 0
	prev := decimal.Zero
	for _, pos := range positions {
		if !pos.Quantity.Equal(prev) {
			trades++
		}
		prev = pos.Quantity
	}
	return trades
}

func calcCAGR(curve *types.EquityCurve, wg *sync.WaitGroup) decimal.Decimal {
	defer wg.Done()
	if curve.Len() < 2 {
		return decimal.Zero
	}

	startVal := curve.First().Total
	endVal := curve.Last().Total

	// If starting value is <= 0, CAGR is not well-defined
	if !startVal.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}

	// time difference in years (using 365.25 days to account for leap years)
	duration := curve.Last().Timestamp.Sub(curve.First().Timestamp)
	if duration <= 0 {
		return decimal.Zero
	}
	years := duration.Hours() / (24.0 * 365.25)

	ratio := endVal.Div(startVal)
	if !ratio.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}

	cagrFloat := math.Pow(ratio.InexactFloat64(), 1.0/years) - 1.0

	return decimal.NewFromFloat(cagrFloat)
}

func calcDrawdownMetrics(curve *types.EquityCurve, wg *sync.WaitGroup) (decimal.Decimal, decimal.Decimal, time.Duration) {
	defer wg.Done()

	if curve.Len() == 0 {
		return decimal.Zero, decimal.Zero, 0
	}

	peak := decimal.Zero
	var peakTime time.Time

	maxDD := decimal.Zero
	maxDDPct := decimal.Zero
	var maxDDDuration time.Duration

	for i, point := range curve.Points {
		equity := point.Total

		if i == 0 || equity.GreaterThan(peak) || peak.IsZero() {
			peak = equity
			peakTime = point.Timestamp
		}

		if peak.GreaterThan(decimal.Zero) {
			dd := peak.Sub(equity) // absolute drawdown

			if dd.GreaterThan(maxDD) {
				maxDD = dd
				maxDDPct = dd.Div(peak)
				maxDDDuration = point.Timestamp.Sub(peakTime)
			}
		}
	}

	return maxDD, maxDDPct, maxDDDuration
}

func calcSharpeRatio(curve *types.EquityCurve, annualRiskFree decimal.Decimal, wg *sync.WaitGroup) decimal.Decimal {
	defer wg.Done()
	monthlyReturns := getMonthlyReturns(curve)
	if len(monthlyReturns) < 2 {
		// Need at least 2 months to compute stddev
		return decimal.Zero
	}

	// Convert annual risk-free to *monthly* risk-free:
	// rf_monthly = (1 + rf_annual)^(1/12) - 1
	rfAnnualFloat := annualRiskFree.InexactFloat64()
	rfMonthlyFloat := math.Pow(1.0+rfAnnualFloat, 1.0/12.0) - 1.0

	excess := make([]float64, 0, len(monthlyReturns))
	for _, r := range monthlyReturns {
		excess = append(excess, r-rfMonthlyFloat)
	}

	var sum float64
	for _, x := range excess {
		sum += x
	}
	meanMonthlyExcess := sum / float64(len(excess))

	// Sample standard deviation of monthly excess returns
	var varianceSum float64
	for _, x := range excess {
		diff := x - meanMonthlyExcess
		varianceSum += diff * diff
	}
	stdMonthly := math.Sqrt(varianceSum / float64(len(excess)-1))
	if stdMonthly == 0 {
		return decimal.Zero
	}

	// Monthly Sharpe, then annualize by sqrt(12)
	sharpeMonthly := meanMonthlyExcess / stdMonthly
	sharpeAnnual := sharpeMonthly * math.Sqrt(12.0)

	return decimal.NewFromFloat(sharpeAnnual)
}

func getMonthlyReturns(curve *types.EquityCurve) []float64 {
	if curve.Len() == 0 {
		return nil
	}

	type monthKey struct {
		year  int
		month time.Month
	}

	// Curve rows are already chronological, so the last row seen per month is
	// the month end.
	monthEndByKey := make(map[monthKey]decimal.Decimal)
	keys := make([]monthKey, 0)

	for _, point := range curve.Points {
		y, m, _ := point.Timestamp.Date()
		key := monthKey{year: y, month: m}
		if _, ok := monthEndByKey[key]; !ok {
			keys = append(keys, key)
		}
		monthEndByKey[key] = point.Total
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	if len(keys) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(keys)-1)
	prev := monthEndByKey[keys[0]]

	for i := 1; i < len(keys); i++ {
		curr := monthEndByKey[keys[i]]

		if !prev.GreaterThan(decimal.Zero) {
			prev = curr
			continue
		}

		r := curr.Div(prev).Sub(decimal.NewFromInt(1))
		returns = append(returns, r.InexactFloat64())

		prev = curr
	}

	return returns
}
