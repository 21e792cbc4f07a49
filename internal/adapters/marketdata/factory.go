package marketdata

import (
	"strings"

	"arachne/internal/adapters/config"
	"arachne/internal/domain/series"
	"arachne/pkg/errors"
)

// NewProvider builds the provider named by cfg.Provider. seed feeds the
// synthetic generator; the csv provider ignores it.
func NewProvider(cfg config.SeriesConfig, seed int64) (series.Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "synthetic":
		return NewSynthetic(SyntheticConfig{
			StartPrice:  cfg.StartPrice,
			Drift:       cfg.Drift,
			Volatility:  cfg.Volatility,
			BarInterval: cfg.BarInterval,
			Seed:        seed,
		})
	case "csv":
		return NewCSV(CSVConfig{Dir: cfg.CSVDir})
	}
	return nil, errors.Wrapf(errors.ErrUnknownProvider, "%q (want synthetic or csv)", cfg.Provider)
}
