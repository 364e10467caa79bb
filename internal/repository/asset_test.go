package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type mockAssetsRepository struct {
	sqlError error
	asset    assetRow
}

func (m mockAssetsRepository) GetAssetByTicker(_ context.Context, _ string) (assetRow, error) {
	if m.sqlError != nil {
		return assetRow{}, m.sqlError
	}
	return m.asset, nil
}

func TestDatabase_GetAssetByTicker(t *testing.T) {
	created := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		ticker  string
		row     assetRow
		sqlErr  error
		wantErr error
	}{
		{"should throw ErrAssetNotFound", "MISSING", assetRow{}, pgx.ErrNoRows, ErrAssetNotFound},
		{"should pass through other errors", "AAPL", assetRow{}, errors.New("connection reset"), nil},
		{"should return asset", "AAPL", assetRow{
			ID:         42,
			Ticker:     "AAPL",
			Name:       "Apple Inc.",
			Type:       "STOCK",
			CreatedAt:  &created,
			ModifiedAt: &created,
		}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{
				assets: mockAssetsRepository{
					sqlError: tt.sqlErr,
					asset:    tt.row,
				},
			}
			got, err := db.GetAssetByTicker(tt.ticker, context.Background())

			if tt.sqlErr != nil {
				if err == nil {
					t.Fatal("GetAssetByTicker() expected an error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("GetAssetByTicker() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetAssetByTicker() error = %v", err)
			}
			if got.Id != int(tt.row.ID) || got.Ticker != tt.row.Ticker || got.Name != tt.row.Name {
				t.Errorf("GetAssetByTicker() = %+v, want row %+v", got, tt.row)
			}
			if !got.CreatedAt.Equal(created) {
				t.Errorf("GetAssetByTicker() createdAt = %v, want %v", got.CreatedAt, created)
			}
		})
	}
}
