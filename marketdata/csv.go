// Package marketdata loads curve quotes and index fixings from external
// sources: CSV files for batch inputs and Postgres for the fixing history.
package marketdata

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/utils"
)

// curveQuoteRow is the CSV row shape for a single curve node.
//
//	date,quote
//	2025-06-30,0.0215
type curveQuoteRow struct {
	Date  string  `csv:"date"`
	Quote float64 `csv:"quote"`
}

// ReadCurveNodes parses curve nodes from r and builds a curve of the given
// kind anchored at asOf.
func ReadCurveNodes(r io.Reader, asOf time.Time, kind curve.QuoteKind, dayCount string) (*curve.CurveNodes, error) {
	var rows []curveQuoteRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse curve csv: %w", err)
	}

	dates := make([]time.Time, 0, len(rows))
	quotes := make([]float64, 0, len(rows))
	for i, row := range rows {
		d, err := utils.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("curve csv row %d: %w", i+1, err)
		}
		dates = append(dates, d)
		quotes = append(quotes, row.Quote)
	}
	return curve.NewCurveNodes(asOf, dates, quotes, dayCount, kind, curve.RoleOther)
}

// LoadCurveNodes reads curve nodes from a CSV file on disk.
func LoadCurveNodes(path string, asOf time.Time, kind curve.QuoteKind, dayCount string) (*curve.CurveNodes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curve csv: %w", err)
	}
	defer f.Close()
	return ReadCurveNodes(f, asOf, kind, dayCount)
}

// fixingRow is the CSV row shape for an index fixing.
type fixingRow struct {
	Index  string  `csv:"index"`
	Date   string  `csv:"date"`
	Fixing float64 `csv:"fixing"`
}

// Fixing is a published index fixing for a date.
type Fixing struct {
	Index string
	Date  time.Time
	Value float64
}

// ReadFixings parses index fixings from r.
func ReadFixings(r io.Reader) ([]Fixing, error) {
	var rows []fixingRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse fixings csv: %w", err)
	}
	fixings := make([]Fixing, 0, len(rows))
	for i, row := range rows {
		d, err := utils.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("fixings csv row %d: %w", i+1, err)
		}
		fixings = append(fixings, Fixing{Index: row.Index, Date: d, Value: row.Fixing})
	}
	return fixings, nil
}

// LoadFixings reads index fixings from a CSV file on disk.
func LoadFixings(path string) ([]Fixing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixings csv: %w", err)
	}
	defer f.Close()
	return ReadFixings(f)
}
