package marketdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arachne/pkg/errors"
)

func writeFixture(t *testing.T, dir, symbol, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(content), 0o644))
}

func TestCSV_ReadsFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "BTCUSDT", `timestamp,open,high,low,close,volume
2025-06-02T09:30:00Z,100,101,99,100.5,1200
2025-06-02T09:31:00Z,100.5,102,100,101.5,900
2025-06-02T09:32:00Z,101.5,101.8,100.9,101,1100
`)

	p, err := NewCSV(CSVConfig{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Name())

	srs, err := p.Series("BTCUSDT", 100)
	require.NoError(t, err)
	require.Len(t, srs, 3)

	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), srs[0].Timestamp)
	assert.Equal(t, 100.0, srs[0].Open)
	assert.Equal(t, 101.0, srs[0].High)
	assert.Equal(t, 99.0, srs[0].Low)
	assert.Equal(t, 100.5, srs[0].Close)
	assert.Equal(t, 1200.0, srs[0].Volume)
}

func TestCSV_UnixTimestampsWithoutVolume(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "ETHUSDT", `1748856600,100,101,99,100.5
1748856660,100.5,102,100,101.5
`)

	p, err := NewCSV(CSVConfig{Dir: dir})
	require.NoError(t, err)

	srs, err := p.Series("ETHUSDT", 100)
	require.NoError(t, err)
	require.Len(t, srs, 2)

	assert.Equal(t, time.Unix(1748856600, 0).UTC(), srs[0].Timestamp)
	assert.Zero(t, srs[0].Volume, "volume column is optional")
}

func TestCSV_KeepsMostRecentBars(t *testing.T) {
	dir := t.TempDir()
	content := ""
	base := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		content += ts.Format(time.RFC3339) + ",100,101,99,100.5,1000\n"
	}
	writeFixture(t, dir, "BTCUSDT", content)

	p, err := NewCSV(CSVConfig{Dir: dir})
	require.NoError(t, err)

	srs, err := p.Series("BTCUSDT", 3)
	require.NoError(t, err)
	require.Len(t, srs, 3)
	assert.Equal(t, base.Add(7*time.Minute), srs[0].Timestamp, "trim keeps the tail")
}

func TestCSV_MissingFile(t *testing.T) {
	p, err := NewCSV(CSVConfig{Dir: t.TempDir()})
	require.NoError(t, err)

	_, err = p.Series("NOPE", 100)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestCSV_MalformedRow(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "BTCUSDT", `2025-06-02T09:30:00Z,100,101,99,100.5,1200
2025-06-02T09:31:00Z,not-a-number,102,100,101.5,900
`)

	p, err := NewCSV(CSVConfig{Dir: dir})
	require.NoError(t, err)

	_, err = p.Series("BTCUSDT", 100)
	assert.ErrorIs(t, err, errors.ErrInvalidSeries)

	var domainErr *errors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CSV_PARSE", domainErr.Code)
	assert.Contains(t, domainErr.Message, "line 2")
}

func TestCSV_RejectsUnsortedBars(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "BTCUSDT", `2025-06-02T09:31:00Z,100,101,99,100.5,1200
2025-06-02T09:30:00Z,100.5,102,100,101.5,900
`)

	p, err := NewCSV(CSVConfig{Dir: dir})
	require.NoError(t, err)

	_, err = p.Series("BTCUSDT", 100)
	assert.ErrorIs(t, err, errors.ErrInvalidSeries)
}

func TestCSV_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "BTCUSDT", "timestamp,open,high,low,close,volume\n")

	p, err := NewCSV(CSVConfig{Dir: dir})
	require.NoError(t, err)

	_, err = p.Series("BTCUSDT", 100)
	assert.ErrorIs(t, err, errors.ErrInvalidSeries)
}

func TestCSV_EmptyDirConfig(t *testing.T) {
	_, err := NewCSV(CSVConfig{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
