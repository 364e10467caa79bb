package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the quantity of a symbol held at a point in time.
type Position struct {
	Symbol    string
	Timestamp time.Time
	Quantity  decimal.Decimal
}
