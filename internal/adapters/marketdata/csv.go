package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"arachne/internal/domain/series"
	"arachne/pkg/errors"
)

// CSVConfig points the provider at a directory of <SYMBOL>.csv files.
//
// Row format: timestamp,open,high,low,close[,volume] with an optional header.
// Timestamps are RFC3339 or unix seconds.
type CSVConfig struct {
	Dir string
}

type csvProvider struct {
	dir string
}

func NewCSV(cfg CSVConfig) (series.Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "csv directory required")
	}
	return &csvProvider{dir: cfg.Dir}, nil
}

func (p *csvProvider) Name() string {
	return "csv"
}

func (p *csvProvider) Series(symbol string, bars int) (series.Series, error) {
	if bars < 1 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "bars must be positive")
	}

	path := filepath.Join(p.dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "series file %s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	srs, err := readBars(f, path)
	if err != nil {
		return nil, err
	}
	if len(srs) > bars {
		srs = srs[len(srs)-bars:]
	}
	if err := srs.Validate(); err != nil {
		return nil, errors.Wrapf(err, "series file %s", path)
	}
	return srs, nil
}

func readBars(f io.Reader, path string) (series.Series, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var srs series.Series
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(path, line+1, err.Error())
		}
		line++

		// A first row whose timestamp does not parse is a header
		if line == 1 {
			if _, tsErr := parseTimestamp(rec[0]); tsErr != nil {
				continue
			}
		}

		bar, err := parseBar(rec)
		if err != nil {
			return nil, parseError(path, line, err.Error())
		}
		srs = append(srs, bar)
	}
	if len(srs) == 0 {
		return nil, errors.NewDomainError(
			"CSV_PARSE",
			fmt.Sprintf("%s: no data rows", path),
			errors.ErrInvalidSeries,
		)
	}
	return srs, nil
}

func parseBar(rec []string) (series.PriceBar, error) {
	if len(rec) != 5 && len(rec) != 6 {
		return series.PriceBar{}, fmt.Errorf("want 5 or 6 fields, got %d", len(rec))
	}

	ts, err := parseTimestamp(rec[0])
	if err != nil {
		return series.PriceBar{}, err
	}

	vals := make([]float64, 0, 5)
	for _, field := range rec[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return series.PriceBar{}, fmt.Errorf("bad number %q", field)
		}
		vals = append(vals, v)
	}

	bar := series.PriceBar{
		Timestamp: ts,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
	}
	if len(vals) == 5 {
		bar.Volume = vals[4]
	}
	return bar, nil
}

func parseTimestamp(field string) (time.Time, error) {
	field = strings.TrimSpace(field)
	if ts, err := time.Parse(time.RFC3339, field); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(field, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", field)
}

func parseError(path string, line int, detail string) error {
	return errors.NewDomainError(
		"CSV_PARSE",
		fmt.Sprintf("%s line %d: %s", path, line, detail),
		errors.ErrInvalidSeries,
	)
}
