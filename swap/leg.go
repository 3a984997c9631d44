// Package swap models swap legs, their cashflow schedules and the vanilla
// interest-rate swap built from them.
package swap

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/pricinglib/calendar"
	"github.com/meenmo/pricinglib/index"
	"github.com/meenmo/pricinglib/schedule"
	"github.com/meenmo/pricinglib/utils"
)

var (
	// ErrValidation is returned for malformed leg definitions.
	ErrValidation = errors.New("invalid leg")
	// ErrMissingIndex is returned when floating cashflows are requested
	// without a forward-rate index bound or supplied.
	ErrMissingIndex = errors.New("missing forecast index")
	// ErrStructuralMismatch is returned for invalid leg pairings.
	ErrStructuralMismatch = errors.New("leg mismatch")
)

// Leg holds the fields shared by every leg variant. Immutable once built.
type Leg struct {
	ValuationDate time.Time
	IssueDate     time.Time
	Maturity      time.Time
	Currency      string
	Nominal       float64
	Tenor         schedule.Tenor
	Calendar      calendar.CalendarID
	DayCount      string

	// Amort, when set, reduces the per-period nominal by the cumulative
	// amortization, floored at zero.
	Amort *Amortization
}

func (l *Leg) validate() error {
	if l.Nominal < 0 {
		return fmt.Errorf("%w: nominal %g is negative", ErrValidation, l.Nominal)
	}
	if l.Maturity.Before(l.IssueDate) {
		return fmt.Errorf("%w: maturity %s before issue %s", ErrValidation,
			l.Maturity.Format("2006-01-02"), l.IssueDate.Format("2006-01-02"))
	}
	if l.Tenor <= 0 {
		return fmt.Errorf("%w: tenor %d", ErrValidation, l.Tenor)
	}
	if l.Amort != nil {
		if err := l.Amort.validate(); err != nil {
			return err
		}
		if err := l.validateAmortizedNominals(); err != nil {
			return err
		}
	}
	return nil
}

// validateAmortizedNominals rejects paydown schedules that would drive any
// per-period nominal below zero. Paying down to exactly zero is allowed.
func (l *Leg) validateAmortizedNominals() error {
	dates, err := l.Schedule()
	if err != nil {
		return err
	}
	amortDates, err := l.Amort.dates(l.Calendar)
	if err != nil {
		return err
	}
	for _, d := range dates {
		if n := l.Nominal - l.Amort.cumulative(amortDates, d); n < 0 {
			return fmt.Errorf("%w: amortization drives nominal to %g at %s", ErrValidation,
				n, d.Format("2006-01-02"))
		}
	}
	return nil
}

// IsExpired reports whether the valuation date has reached maturity.
func (l *Leg) IsExpired() bool {
	return !l.ValuationDate.Before(l.Maturity)
}

// Schedule returns all adjusted payment date boundaries from issue to
// maturity stepped by the leg tenor.
func (l *Leg) Schedule() ([]time.Time, error) {
	return schedule.Generate(l.IssueDate, l.Maturity, l.Tenor, l.Calendar)
}

// futureCutoff is the inclusion threshold for future payment dates. Dates
// strictly after valuationDate - tenor are kept, so a payment whose accrual
// period started before the valuation date still counts as future.
func (l *Leg) futureCutoff() time.Time {
	return utils.AddMonth(l.ValuationDate, -l.Tenor.Months())
}

// FutureSchedule returns the schedule dates strictly after the cutoff.
func (l *Leg) FutureSchedule() ([]time.Time, error) {
	dates, err := l.Schedule()
	if err != nil {
		return nil, err
	}
	cutoff := l.futureCutoff()
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.After(cutoff) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Nominals returns the per-period notional aligned to Schedule.
func (l *Leg) Nominals() ([]float64, error) {
	dates, err := l.Schedule()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(dates))
	if l.Amort == nil {
		for i := range out {
			out[i] = l.Nominal
		}
		return out, nil
	}

	amortDates, err := l.Amort.dates(l.Calendar)
	if err != nil {
		return nil, err
	}
	for i, d := range dates {
		n := l.Nominal - l.Amort.cumulative(amortDates, d)
		if n < 0 {
			n = 0
		}
		out[i] = n
	}
	return out, nil
}

// FutureNominals filters Nominals with the same cutoff as FutureSchedule,
// zipped against the full schedule to keep index alignment.
func (l *Leg) FutureNominals() ([]float64, error) {
	dates, err := l.Schedule()
	if err != nil {
		return nil, err
	}
	nominals, err := l.Nominals()
	if err != nil {
		return nil, err
	}
	cutoff := l.futureCutoff()
	out := make([]float64, 0, len(nominals))
	for i, d := range dates {
		if d.After(cutoff) {
			out = append(out, nominals[i])
		}
	}
	return out, nil
}

// SwapLeg is one side of a swap: a fixed or floating leg variant.
type SwapLeg interface {
	Terms() *Leg
	// Cashflows builds the future coupons of the leg. The forecast index is
	// required for floating legs without a bound index and ignored for fixed
	// legs.
	Cashflows(forecast *index.ForwardRateIndex) ([]Coupon, error)
}

// FixedLeg pays a constant rate.
type FixedLeg struct {
	Leg
	Rate float64
}

// NewFixedLeg validates and builds a fixed leg.
func NewFixedLeg(leg Leg, rate float64) (*FixedLeg, error) {
	if err := leg.validate(); err != nil {
		return nil, err
	}
	return &FixedLeg{Leg: leg, Rate: rate}, nil
}

func (fl *FixedLeg) Terms() *Leg { return &fl.Leg }

// Cashflows builds fixed-rate coupons over the future schedule. The forecast
// index argument is ignored.
func (fl *FixedLeg) Cashflows(_ *index.ForwardRateIndex) ([]Coupon, error) {
	dates, err := fl.FutureSchedule()
	if err != nil {
		return nil, err
	}
	nominals, err := fl.FutureNominals()
	if err != nil {
		return nil, err
	}

	coupons := make([]Coupon, 0, len(dates))
	for i := 0; i+1 < len(dates); i++ {
		coupons = append(coupons, Coupon{
			AccrualStart: dates[i],
			AccrualEnd:   dates[i+1],
			PayDate:      dates[i+1],
			Nominal:      nominals[i],
			Rate:         fl.Rate,
			DayCount:     fl.DayCount,
		})
	}
	return coupons, nil
}

// FloatingLeg pays a projected index rate with gearing and spread.
type FloatingLeg struct {
	Leg
	Gearing float64
	Spread  float64
	Index   *index.ForwardRateIndex
}

// NewFloatingLeg validates and builds a floating leg. The index may be nil
// and supplied later, either via WithIndex or per Cashflows call.
func NewFloatingLeg(leg Leg, gearing, spread float64, idx *index.ForwardRateIndex) (*FloatingLeg, error) {
	if err := leg.validate(); err != nil {
		return nil, err
	}
	return &FloatingLeg{Leg: leg, Gearing: gearing, Spread: spread, Index: idx}, nil
}

func (fl *FloatingLeg) Terms() *Leg { return &fl.Leg }

// WithIndex returns a copy of the leg bound to a different index. The
// receiver is unchanged.
func (fl *FloatingLeg) WithIndex(idx *index.ForwardRateIndex) *FloatingLeg {
	out := *fl
	out.Index = idx
	return &out
}

func (fl *FloatingLeg) resolveIndex(forecast *index.ForwardRateIndex) (*index.ForwardRateIndex, error) {
	if forecast != nil {
		return forecast, nil
	}
	if fl.Index != nil {
		return fl.Index, nil
	}
	return nil, fmt.Errorf("%w: pass a forecast index or bind one with WithIndex", ErrMissingIndex)
}

// Cashflows projects floating coupons over the future schedule.
func (fl *FloatingLeg) Cashflows(forecast *index.ForwardRateIndex) ([]Coupon, error) {
	idx, err := fl.resolveIndex(forecast)
	if err != nil {
		return nil, err
	}
	dates, err := fl.FutureSchedule()
	if err != nil {
		return nil, err
	}
	nominals, err := fl.FutureNominals()
	if err != nil {
		return nil, err
	}

	coupons := make([]Coupon, 0, len(dates))
	for i := 0; i+1 < len(dates); i++ {
		fwd, err := idx.Forward(dates[i], dates[i+1])
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, Coupon{
			AccrualStart: dates[i],
			AccrualEnd:   dates[i+1],
			PayDate:      dates[i+1],
			Nominal:      nominals[i],
			Rate:         fl.Gearing*fwd + fl.Spread,
			DayCount:     fl.DayCount,
			FixingDate:   idx.FixingDate(dates[i]),
		})
	}
	return coupons, nil
}
