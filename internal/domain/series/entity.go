package series

import (
	"time"

	"arachne/pkg/errors"
)

// PriceBar represents a single OHLC candlestick
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume,omitempty"` // 0 when the source carries no volume
}

// Series is a chronologically ordered run of price bars
type Series []PriceBar

// Len returns the number of bars
func (s Series) Len() int {
	return len(s)
}

// Closes extracts the close prices in order
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}
	return closes
}

// Validate checks OHLC bounds and timestamp ordering.
// Prices must be positive, Low <= min(Open, Close), max(Open, Close) <= High,
// and timestamps strictly increasing.
func (s Series) Validate() error {
	for i, bar := range s {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return errors.Wrapf(errors.ErrInvalidSeries, "bar %d: non-positive price", i)
		}
		if bar.Low > bar.Open || bar.Low > bar.Close {
			return errors.Wrapf(errors.ErrInvalidSeries, "bar %d: low %.8f above open/close", i, bar.Low)
		}
		if bar.High < bar.Open || bar.High < bar.Close {
			return errors.Wrapf(errors.ErrInvalidSeries, "bar %d: high %.8f below open/close", i, bar.High)
		}
		if bar.Volume < 0 {
			return errors.Wrapf(errors.ErrInvalidSeries, "bar %d: negative volume", i)
		}
		if i > 0 && !bar.Timestamp.After(s[i-1].Timestamp) {
			return errors.Wrapf(errors.ErrInvalidSeries, "bar %d: timestamp not after previous bar", i)
		}
	}
	return nil
}
