package instrument

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/utils"
)

// FXForward is an agreement to exchange baseNotional units of the base
// currency for baseNotional*strike units of the quote currency at delivery.
// Long means long the base currency.
type FXForward struct {
	ValuationDate time.Time
	DeliveryDate  time.Time
	BaseNotional  float64
	Strike        float64 // quote units per base unit
	Spot          float64 // quote units per base unit
	IsLong        bool
}

// NewFXForward validates the economics of the contract.
func NewFXForward(valuation, delivery time.Time, baseNotional, strike, spot float64, long bool) (*FXForward, error) {
	if baseNotional < 0 {
		return nil, fmt.Errorf("%w: negative notional %g", curve.ErrValidation, baseNotional)
	}
	if strike <= 0 || spot <= 0 {
		return nil, fmt.Errorf("%w: strike and spot must be positive (strike=%g spot=%g)", curve.ErrValidation, strike, spot)
	}
	if delivery.Before(valuation) {
		return nil, fmt.Errorf("%w: delivery %s precedes valuation %s",
			curve.ErrValidation, delivery.Format("2006-01-02"), valuation.Format("2006-01-02"))
	}
	return &FXForward{
		ValuationDate: valuation,
		DeliveryDate:  delivery,
		BaseNotional:  baseNotional,
		Strike:        strike,
		Spot:          spot,
		IsLong:        long,
	}, nil
}

// IsExpired reports whether the valuation date has reached delivery.
func (f *FXForward) IsExpired() bool { return !f.ValuationDate.Before(f.DeliveryDate) }

// ForwardRate returns the covered-parity forward: spot scaled by the ratio
// of domestic (quote) to foreign (base) discount factors to delivery.
func (f *FXForward) ForwardRate(domestic, foreign *curve.CurveNodes) (float64, error) {
	dfDom, err := domestic.DiscountFactor(f.DeliveryDate)
	if err != nil {
		return 0, err
	}
	dfFor, err := foreign.DiscountFactor(f.DeliveryDate)
	if err != nil {
		return 0, err
	}
	return f.Spot * dfFor / dfDom, nil
}

// MarkToMarket values the contract in quote currency units:
// notional * (forward - strike) * dfDomestic, negated for short positions.
func (f *FXForward) MarkToMarket(domestic, foreign *curve.CurveNodes) (float64, error) {
	if f.IsExpired() {
		return 0, nil
	}
	fwd, err := f.ForwardRate(domestic, foreign)
	if err != nil {
		return 0, err
	}
	dfDom, err := domestic.DiscountFactor(f.DeliveryDate)
	if err != nil {
		return 0, err
	}
	v := f.BaseNotional * (fwd - f.Strike) * dfDom
	if !f.IsLong {
		v = -v
	}
	return v, nil
}

// Delta returns the sensitivity of the value to the spot rate, which for a
// forward is the foreign discount factor scaled by notional and position.
func (f *FXForward) Delta(foreign *curve.CurveNodes) (float64, error) {
	if f.IsExpired() {
		return 0, nil
	}
	dfFor, err := foreign.DiscountFactor(f.DeliveryDate)
	if err != nil {
		return 0, err
	}
	v := f.BaseNotional * dfFor
	if !f.IsLong {
		v = -v
	}
	return v, nil
}

// TimeToDelivery returns the ACT/365F year fraction to delivery, floored
// at zero.
func (f *FXForward) TimeToDelivery() float64 {
	return math.Max(0, utils.YearFraction(f.ValuationDate, f.DeliveryDate, "ACT/365F"))
}
