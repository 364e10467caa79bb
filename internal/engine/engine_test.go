package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quantbt/types"
)

type mockDataStore struct {
	asset    *types.Asset
	assetErr error
	bars     []types.Bar
	barsErr  error
}

func (m *mockDataStore) GetAssetByTicker(ticker string, _ context.Context) (*types.Asset, error) {
	if m.assetErr != nil {
		return nil, m.assetErr
	}
	return m.asset, nil
}

func (m *mockDataStore) GetBars(_ int, _ string, _ types.Interval, _, _ time.Time, _ context.Context) ([]types.Bar, error) {
	if m.barsErr != nil {
		return nil, m.barsErr
	}
	return m.bars, nil
}

type fixedSignalStrategy struct {
	signals []types.Signal
	err     error
}

func (s *fixedSignalStrategy) GenerateSignals(_ []types.Bar) ([]types.Signal, error) {
	return s.signals, s.err
}

func testEngine(db dataStore, strat Strategy) *Engine {
	cfg := NewBacktestConfig("AAPL", types.Day, testStart, testStart.Add(10*24*time.Hour), 10000, 100)
	return NewEngine(cfg, NewReportingConfig(decimal.Zero, false, ""), strat, db, nil)
}

func TestEngineRun(t *testing.T) {
	bars := testBars(50, 55)
	db := &mockDataStore{
		asset: &types.Asset{Id: 1, Ticker: "AAPL"},
		bars:  bars,
	}
	strat := &fixedSignalStrategy{signals: testSignals(1, 1)}

	result, err := testEngine(db, strat).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Curve.Len() != 2 {
		t.Errorf("curve length = %d, want 2", result.Curve.Len())
	}
	if !result.Report.NetProfit.Equal(decimal.NewFromInt(500)) {
		t.Errorf("report.NetProfit = %s, want 500", result.Report.NetProfit)
	}
}

func TestEngineRunPropagatesErrors(t *testing.T) {
	bars := testBars(50, 55)
	assetErr := errors.New("asset lookup failed")
	barsErr := errors.New("bars lookup failed")
	signalErr := errors.New("indicator blew up")

	tests := []struct {
		name    string
		db      dataStore
		strat   Strategy
		wantErr error
	}{
		{
			"asset lookup failure",
			&mockDataStore{assetErr: assetErr},
			&fixedSignalStrategy{signals: testSignals(1, 1)},
			assetErr,
		},
		{
			"bar lookup failure",
			&mockDataStore{asset: &types.Asset{Id: 1}, barsErr: barsErr},
			&fixedSignalStrategy{signals: testSignals(1, 1)},
			barsErr,
		},
		{
			"strategy failure",
			&mockDataStore{asset: &types.Asset{Id: 1}, bars: bars},
			&fixedSignalStrategy{err: signalErr},
			signalErr,
		},
		{
			"empty signal series",
			&mockDataStore{asset: &types.Asset{Id: 1}, bars: bars},
			&fixedSignalStrategy{},
			ErrMisalignedSeries,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testEngine(tt.db, tt.strat).Run(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
