package series

import "time"

// Alignment describes the ordering of the fast/medium/slow EMAs
type Alignment string

const (
	AlignBullish Alignment = "bullish" // EMA9 > EMA21 > EMA55
	AlignBearish Alignment = "bearish" // EMA9 < EMA21 < EMA55
	AlignMixed   Alignment = "mixed"
)

// Valid checks if alignment is valid
func (a Alignment) Valid() bool {
	switch a {
	case AlignBullish, AlignBearish, AlignMixed:
		return true
	}
	return false
}

// String returns string representation
func (a Alignment) String() string {
	return string(a)
}

// Snapshot summarizes a price series for run metadata and logs.
// Indicator fields stay zero when the series is shorter than their lookbacks.
type Snapshot struct {
	Bars     int       `json:"bars"`
	FirstBar time.Time `json:"first_bar"`
	LastBar  time.Time `json:"last_bar"`

	HistoricalVolatility float64 `json:"historical_volatility"` // stddev of simple returns, percent
	ATRPercent           float64 `json:"atr_percent"`           // ATR(14) over last close, percent
	MeanBarRangePercent  float64 `json:"mean_bar_range_percent"`

	EMA9         float64   `json:"ema_9,omitempty"`
	EMA21        float64   `json:"ema_21,omitempty"`
	EMA55        float64   `json:"ema_55,omitempty"`
	EMAAlignment Alignment `json:"ema_alignment,omitempty"`
}
