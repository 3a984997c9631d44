package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/pricinglib/calendar"
	"github.com/meenmo/pricinglib/index"
	"github.com/meenmo/pricinglib/schedule"
)

// Amortization describes a regular notional paydown: Amount is subtracted
// from the leg nominal at each amortization date from FirstDate to LastDate
// stepped by Period. Per-period nominals never go below zero.
type Amortization struct {
	Amount    float64
	Period    schedule.Tenor
	FirstDate time.Time
	LastDate  time.Time
}

func (a *Amortization) validate() error {
	if a.Amount < 0 {
		return fmt.Errorf("%w: amortization amount %g is negative", ErrValidation, a.Amount)
	}
	if a.Period <= 0 {
		return fmt.Errorf("%w: amortization period %d", ErrValidation, a.Period)
	}
	if a.LastDate.Before(a.FirstDate) {
		return fmt.Errorf("%w: amortization last date %s before first date %s", ErrValidation,
			a.LastDate.Format("2006-01-02"), a.FirstDate.Format("2006-01-02"))
	}
	return nil
}

// dates generates the amortization dates the same way payment schedules are
// generated.
func (a *Amortization) dates(cal calendar.CalendarID) ([]time.Time, error) {
	return schedule.Generate(a.FirstDate, a.LastDate, a.Period, cal)
}

// cumulative sums the paydowns settled on or before asOf.
func (a *Amortization) cumulative(amortDates []time.Time, asOf time.Time) float64 {
	cum := 0.0
	for _, d := range amortDates {
		if !d.After(asOf) {
			cum += a.Amount
		}
	}
	return cum
}

// NewAmortizedFixedLeg builds a fixed leg whose nominal amortizes.
func NewAmortizedFixedLeg(leg Leg, rate float64, amort Amortization) (*FixedLeg, error) {
	leg.Amort = &amort
	return NewFixedLeg(leg, rate)
}

// NewAmortizedFloatingLeg builds a floating leg whose nominal amortizes.
func NewAmortizedFloatingLeg(leg Leg, gearing, spread float64, idx *index.ForwardRateIndex, amort Amortization) (*FloatingLeg, error) {
	leg.Amort = &amort
	return NewFloatingLeg(leg, gearing, spread, idx)
}
