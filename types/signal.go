package types

import (
	"time"
)

// SignalValue is a directional trading decision at a point in time.
type SignalValue int

const (
	SignalShort SignalValue = -1
	SignalFlat  SignalValue = 0
	SignalLong  SignalValue = 1
)

// Signal pairs a decision with the close timestamp it was made on.
type Signal struct {
	Timestamp time.Time
	Value     SignalValue
}

func NewSignal(timestamp time.Time, value SignalValue) Signal {
	return Signal{
		Timestamp: timestamp,
		Value:     value,
	}
}
