package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"quantbt/types"
)

// writeEquityCurveCSVFile writes the equity curve to a CSV file at the given path.
func writeEquityCurveCSVFile(path string, curve *types.EquityCurve) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create equity curve file: %w", err)
	}
	defer f.Close()

	return writeEquityCurveCSV(f, curve)
}

// writeEquityCurveCSV writes the equity curve to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func writeEquityCurveCSV(w io.Writer, curve *types.EquityCurve) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"timestamp", // RFC3339
		"holdings",
		"cash",
		"total",
		"returns",
		"cum_returns",
		"drawdown",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, point := range curve.Points {
		// The first-row return is undefined; an empty cell keeps that
		// distinction visible downstream.
		returns := ""
		if !math.IsNaN(point.Return) {
			returns = strconv.FormatFloat(point.Return, 'g', -1, 64)
		}

		record := []string{
			point.Timestamp.Format(time.RFC3339),
			point.Holdings.String(),
			point.Cash.String(),
			point.Total.String(),
			returns,
			strconv.FormatFloat(point.CumReturn, 'g', -1, 64),
			strconv.FormatFloat(point.Drawdown, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}
