// Package index models forward-rate indices bound to a forecasting curve.
package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/pricinglib/calendar"
	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/schedule"
	"github.com/meenmo/pricinglib/utils"
)

// ErrNilCurve is returned when projection is requested without a forecasting curve.
var ErrNilCurve = errors.New("nil forecast curve")

// ForwardRateIndex projects simple forward rates off a forecasting curve.
//
// The settlement lag is intrinsic to the index (2 business days for
// Libor-style fixings, 0 for overnight-style) and is applied when computing
// fixing dates. An index is immutable; Clone produces a copy bound to a
// different forecasting curve.
type ForwardRateIndex struct {
	Name      string
	Tenor     schedule.Tenor
	FixingLag int // business days between fixing and value date
	DayCount  string
	Calendar  calendar.CalendarID

	forecast *curve.CurveNodes
}

// New builds an index bound to the given forecasting curve (may be nil; bind
// later with Clone).
func New(name string, tenor schedule.Tenor, fixingLag int, dayCount string, cal calendar.CalendarID, forecast *curve.CurveNodes) *ForwardRateIndex {
	return &ForwardRateIndex{
		Name:      name,
		Tenor:     tenor,
		FixingLag: fixingLag,
		DayCount:  dayCount,
		Calendar:  cal,
		forecast:  forecast,
	}
}

// Euribor6M returns the standard 6M Euribor index on the TARGET calendar.
func Euribor6M(forecast *curve.CurveNodes) *ForwardRateIndex {
	return New("EURIBOR6M", schedule.Semiannual, 2, "ACT/360", calendar.TARGET, forecast)
}

// Euribor3M returns the standard 3M Euribor index on the TARGET calendar.
func Euribor3M(forecast *curve.CurveNodes) *ForwardRateIndex {
	return New("EURIBOR3M", schedule.Quarterly, 2, "ACT/360", calendar.TARGET, forecast)
}

// USDLibor3M returns a 3M USD Libor-style index.
func USDLibor3M(forecast *curve.CurveNodes) *ForwardRateIndex {
	return New("USDLIBOR3M", schedule.Quarterly, 2, "ACT/360", calendar.USD, forecast)
}

// SOFR returns an overnight-style index with no settlement lag.
func SOFR(forecast *curve.CurveNodes) *ForwardRateIndex {
	return New("SOFR", schedule.Quarterly, 0, "ACT/360", calendar.USD, forecast)
}

// Forecast returns the bound forecasting curve, or nil.
func (ix *ForwardRateIndex) Forecast() *curve.CurveNodes { return ix.forecast }

// Clone returns a copy of the index bound to a different forecasting curve.
// The receiver is unchanged.
func (ix *ForwardRateIndex) Clone(forecast *curve.CurveNodes) *ForwardRateIndex {
	out := *ix
	out.forecast = forecast
	return &out
}

// FixingDate returns the fixing date for a period starting at valueDate.
func (ix *ForwardRateIndex) FixingDate(valueDate time.Time) time.Time {
	return calendar.AddBusinessDays(ix.Calendar, valueDate, -ix.FixingLag)
}

// Forward projects the simple forward rate over [start, end].
//
// Periods whose start already lies behind the curve date are projected off
// the front end of the curve, mirroring how the original system seeds the
// current fixing from the spot forward.
func (ix *ForwardRateIndex) Forward(start, end time.Time) (float64, error) {
	if ix.forecast == nil {
		return 0, fmt.Errorf("index %s: %w", ix.Name, ErrNilCurve)
	}
	asOf := ix.forecast.AsOf()
	if start.Before(asOf) {
		shifted := utils.AddMonth(asOf, ix.Tenor.Months())
		if !end.After(asOf) {
			end = shifted
		}
		start = asOf
	}

	alpha := utils.YearFraction(start, end, ix.DayCount)
	if alpha == 0 {
		return 0, nil
	}
	dfStart, err := ix.forecast.DiscountFactor(start)
	if err != nil {
		return 0, fmt.Errorf("index %s: %w", ix.Name, err)
	}
	dfEnd, err := ix.forecast.DiscountFactor(end)
	if err != nil {
		return 0, fmt.Errorf("index %s: %w", ix.Name, err)
	}
	return (dfStart/dfEnd - 1.0) / alpha, nil
}
