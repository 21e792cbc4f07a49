package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arachne/internal/adapters/config"
	"arachne/pkg/errors"
)

func TestNewProvider(t *testing.T) {
	cfg := config.SeriesConfig{
		Provider:    "synthetic",
		Bars:        1000,
		BarInterval: time.Minute,
		Drift:       0.0002,
		Volatility:  0.01,
		StartPrice:  100,
		CSVDir:      t.TempDir(),
	}

	p, err := NewProvider(cfg, 42)
	require.NoError(t, err)
	assert.Equal(t, "synthetic", p.Name())

	cfg.Provider = "CSV"
	p, err = NewProvider(cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Name(), "provider names are case-insensitive")

	cfg.Provider = "postgres"
	_, err = NewProvider(cfg, 0)
	assert.ErrorIs(t, err, errors.ErrUnknownProvider)
}

func TestNewProvider_SeedFlowsToSynthetic(t *testing.T) {
	cfg := config.SeriesConfig{
		Provider:    "synthetic",
		BarInterval: time.Minute,
		Volatility:  0.01,
		StartPrice:  100,
	}

	a, err := NewProvider(cfg, 42)
	require.NoError(t, err)
	b, err := NewProvider(cfg, 42)
	require.NoError(t, err)

	first, err := a.Series("BTCUSDT", 200)
	require.NoError(t, err)
	second, err := b.Series("BTCUSDT", 200)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
