package instrument

import (
	"fmt"
	"time"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/engine"
	"github.com/meenmo/pricinglib/utils"
)

// EquityOption is a European vanilla option on a dividend-paying equity,
// priced analytically.
type EquityOption struct {
	ValuationDate time.Time
	ExpiryDate    time.Time
	Spot          float64
	Strike        float64
	Rate          float64 // continuously compounded risk-free rate
	DividendYield float64 // continuously compounded
	Volatility    float64
	IsCall        bool
	IsLong        bool
	Quantity      float64
}

// NewEquityOption validates the option terms.
func NewEquityOption(o EquityOption) (*EquityOption, error) {
	if o.Spot <= 0 || o.Strike <= 0 {
		return nil, fmt.Errorf("%w: spot and strike must be positive (spot=%g strike=%g)", curve.ErrValidation, o.Spot, o.Strike)
	}
	if o.Volatility < 0 {
		return nil, fmt.Errorf("%w: negative volatility %g", curve.ErrValidation, o.Volatility)
	}
	if o.Quantity < 0 {
		return nil, fmt.Errorf("%w: negative quantity %g", curve.ErrValidation, o.Quantity)
	}
	if o.Quantity == 0 {
		o.Quantity = 1
	}
	return &o, nil
}

// IsExpired reports whether the valuation date has reached expiry.
func (o *EquityOption) IsExpired() bool { return !o.ValuationDate.Before(o.ExpiryDate) }

func (o *EquityOption) model() engine.BlackScholes {
	return engine.BlackScholes{
		Spot:     o.Spot,
		Strike:   o.Strike,
		Rate:     o.Rate,
		Dividend: o.DividendYield,
		Vol:      o.Volatility,
		Expiry:   utils.YearFraction(o.ValuationDate, o.ExpiryDate, "ACT/365F"),
		IsCall:   o.IsCall,
	}
}

func (o *EquityOption) signed(v float64) float64 {
	v *= o.Quantity
	if !o.IsLong {
		v = -v
	}
	return v
}

// MarkToMarket returns the position value. Expired options are worth 0.
func (o *EquityOption) MarkToMarket() float64 {
	if o.IsExpired() {
		return 0
	}
	m := o.model()
	return o.signed(m.NPV())
}

// Delta returns the position delta.
func (o *EquityOption) Delta() float64 {
	if o.IsExpired() {
		return 0
	}
	m := o.model()
	return o.signed(m.Delta())
}

// Gamma returns the position gamma.
func (o *EquityOption) Gamma() float64 {
	if o.IsExpired() {
		return 0
	}
	m := o.model()
	return o.signed(m.Gamma())
}

// Vega returns the position vega per unit of volatility.
func (o *EquityOption) Vega() float64 {
	if o.IsExpired() {
		return 0
	}
	m := o.model()
	return o.signed(m.Vega())
}
