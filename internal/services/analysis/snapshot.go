package analysis

import (
	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"arachne/internal/domain/series"
)

const (
	atrPeriod = 14
	emaFast   = 9
	emaMid    = 21
	emaSlow   = 55
)

// Snapshot summarizes a price series for run metadata and logs. Pure, no I/O.
// Returns nil for an empty series; indicator fields stay zero when the series
// is shorter than their lookbacks.
func Snapshot(srs series.Series) *series.Snapshot {
	if srs.Len() == 0 {
		return nil
	}

	closes := srs.Closes()
	highs := make([]float64, len(srs))
	lows := make([]float64, len(srs))
	for i, bar := range srs {
		highs[i] = bar.High
		lows[i] = bar.Low
	}

	snap := &series.Snapshot{
		Bars:     srs.Len(),
		FirstBar: srs[0].Timestamp,
		LastBar:  srs[len(srs)-1].Timestamp,
	}
	lastClose := closes[len(closes)-1]

	// Historical volatility: stddev of simple returns as a percentage
	if len(closes) >= 2 {
		returns := make([]float64, len(closes)-1)
		for i := 1; i < len(closes); i++ {
			returns[i-1] = closes[i]/closes[i-1] - 1
		}
		snap.HistoricalVolatility = stat.PopStdDev(returns, nil) * 100
	}

	rangeSum := 0.0
	for i := range srs {
		rangeSum += (highs[i] - lows[i]) / closes[i]
	}
	snap.MeanBarRangePercent = rangeSum / float64(srs.Len()) * 100

	// ATR (14-period), relative to the last close
	if len(closes) > atrPeriod {
		atr := talib.Atr(highs, lows, closes, atrPeriod)
		if len(atr) > 0 && lastClose > 0 {
			snap.ATRPercent = atr[len(atr)-1] / lastClose * 100
		}
	}

	// EMA stack
	if len(closes) >= emaSlow {
		ema9 := talib.Ema(closes, emaFast)
		ema21 := talib.Ema(closes, emaMid)
		ema55 := talib.Ema(closes, emaSlow)
		snap.EMA9 = ema9[len(ema9)-1]
		snap.EMA21 = ema21[len(ema21)-1]
		snap.EMA55 = ema55[len(ema55)-1]
		snap.EMAAlignment = determineAlignment(snap.EMA9, snap.EMA21, snap.EMA55)
	}

	return snap
}

func determineAlignment(fast, mid, slow float64) series.Alignment {
	switch {
	case fast > mid && mid > slow:
		return series.AlignBullish
	case fast < mid && mid < slow:
		return series.AlignBearish
	}
	return series.AlignMixed
}
