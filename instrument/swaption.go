// Package instrument composes the tradable instruments built on the curve,
// leg and engine layers.
package instrument

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/engine"
	"github.com/meenmo/pricinglib/index"
	"github.com/meenmo/pricinglib/swap"
	"github.com/meenmo/pricinglib/utils"
)

// VolType selects the volatility convention of the swaption engine.
type VolType string

const (
	// Lognormal prices with a Black-style engine.
	Lognormal VolType = "lognormal"
	// Normal prices with a Bachelier-style engine.
	Normal VolType = "normal"
)

// Settlement selects how an exercised swaption settles.
type Settlement string

const (
	Physical Settlement = "physical"
	Cash     Settlement = "cash"
)

// SwaptionSpec carries the construction inputs for a Swaption.
type SwaptionSpec struct {
	Swap       *swap.InterestRateSwap
	Expiries   []time.Time // defaults to [swap issue date]
	Strike     *float64    // nil means at-the-money (underlying fair rate)
	Volatility float64
	VolType    VolType    // defaults to Lognormal
	Settlement Settlement // defaults to Physical
	Short      bool
}

// Swaption is an option to enter the wrapped swap on one (European) or
// several (Bermudan) exercise dates. Immutable; pricing is purely
// functional over the supplied curves.
type Swaption struct {
	swap       *swap.InterestRateSwap
	expiries   []time.Time
	strike     *float64
	volatility float64
	volType    VolType
	settlement Settlement
	isLong     bool
}

// NewSwaption validates and builds a swaption from its spec.
func NewSwaption(spec SwaptionSpec) (*Swaption, error) {
	if spec.Swap == nil {
		return nil, fmt.Errorf("%w: underlying swap is required", swap.ErrStructuralMismatch)
	}

	expiries := append([]time.Time(nil), spec.Expiries...)
	if len(expiries) == 0 {
		expiries = []time.Time{spec.Swap.IssueDate()}
	}
	utils.SortDates(expiries)

	volType := spec.VolType
	if volType == "" {
		volType = Lognormal
	}
	if volType != Lognormal && volType != Normal {
		return nil, fmt.Errorf("%w: unsupported vol type %q", curve.ErrConfiguration, volType)
	}

	settlement := spec.Settlement
	if settlement == "" {
		settlement = Physical
	}
	if settlement != Physical && settlement != Cash {
		return nil, fmt.Errorf("%w: unsupported settlement %q", curve.ErrConfiguration, settlement)
	}

	if spec.Volatility < 0 {
		return nil, fmt.Errorf("%w: negative volatility %g", curve.ErrConfiguration, spec.Volatility)
	}

	return &Swaption{
		swap:       spec.Swap,
		expiries:   expiries,
		strike:     spec.Strike,
		volatility: spec.Volatility,
		volType:    volType,
		settlement: settlement,
		isLong:     !spec.Short,
	}, nil
}

// Underlying returns the wrapped swap.
func (sw *Swaption) Underlying() *swap.InterestRateSwap { return sw.swap }

// Expiries returns the sorted exercise dates.
func (sw *Swaption) Expiries() []time.Time {
	return append([]time.Time(nil), sw.expiries...)
}

// Expiry returns the first exercise date.
func (sw *Swaption) Expiry() time.Time { return sw.expiries[0] }

// IsEuropean reports whether there is exactly one exercise date.
func (sw *Swaption) IsEuropean() bool { return len(sw.expiries) == 1 }

// IsExpired reports whether the valuation date has reached the first expiry.
func (sw *Swaption) IsExpired() bool {
	return !sw.swap.ValuationDate().Before(sw.Expiry())
}

// Volatility returns the stored volatility input.
func (sw *Swaption) Volatility() float64 { return sw.volatility }

// ATMStrike returns the underlying swap's fair rate, independent of the
// stored strike and volatility.
func (sw *Swaption) ATMStrike(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	return sw.swap.FairRate(disc, forecast)
}

func (sw *Swaption) effectiveStrike(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	if sw.strike != nil {
		return *sw.strike, nil
	}
	return sw.swap.FairRate(disc, forecast)
}

// annuity returns the exercise-into level used to scale the unit option
// value. Physical settlement uses the curve annuity of the fixed leg; cash
// settlement uses the cash level Sum nominal*accrual*(1+F)^-t discounted to
// expiry.
func (sw *Swaption) annuity(expiry time.Time, fairRate float64, disc *curve.CurveNodes) (float64, error) {
	if sw.settlement == Physical {
		return sw.swap.FixedAnnuity(disc)
	}

	coupons, err := sw.swap.FixedLeg().Cashflows(nil)
	if err != nil {
		return 0, err
	}
	dfExp, err := disc.DiscountFactor(expiry)
	if err != nil {
		return 0, err
	}
	level := 0.0
	for _, c := range coupons {
		t := utils.YearFraction(expiry, c.PayDate, "ACT/365F")
		if t < 0 {
			continue
		}
		level += c.Nominal * c.Accrual() / math.Pow(1+fairRate, t)
	}
	return level * dfExp, nil
}

// europeanValue prices a single-exercise swaption with the given vol,
// unsigned (long perspective).
func (sw *Swaption) europeanValue(expiry time.Time, vol float64, disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	fair, err := sw.swap.FairRate(disc, forecast)
	if err != nil {
		return 0, err
	}
	strike, err := sw.effectiveStrike(disc, forecast)
	if err != nil {
		return 0, err
	}
	annuity, err := sw.annuity(expiry, fair, disc)
	if err != nil {
		return 0, err
	}

	t := utils.YearFraction(sw.swap.ValuationDate(), expiry, "ACT/365F")
	isPayer := sw.swap.FixedIsPayer()

	var unit float64
	switch sw.volType {
	case Normal:
		unit = engine.Bachelier(fair, strike, vol, t, isPayer)
	default:
		unit = engine.Black(fair, strike, vol, t, isPayer)
	}
	return annuity * unit, nil
}

// value prices across the exercise set: European on the single expiry, and
// the maximum single-exercise value over the set for Bermudans.
func (sw *Swaption) value(vol float64, disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, time.Time, error) {
	best := math.Inf(-1)
	bestExpiry := sw.expiries[0]
	for _, e := range sw.expiries {
		if !sw.swap.ValuationDate().Before(e) {
			continue
		}
		v, err := sw.europeanValue(e, vol, disc, forecast)
		if err != nil {
			return 0, time.Time{}, err
		}
		if v > best {
			best, bestExpiry = v, e
		}
	}
	if math.IsInf(best, -1) {
		return 0, bestExpiry, nil
	}
	return best, bestExpiry, nil
}

func (sw *Swaption) signed(v float64) float64 {
	if sw.isLong {
		return v
	}
	return -v
}

// MarkToMarket returns the swaption value with the stored volatility.
// Expired swaptions are worth exactly 0. Short positions have the opposite
// sign of the raw engine value.
func (sw *Swaption) MarkToMarket(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	return sw.markToMarket(sw.volatility, disc, forecast)
}

func (sw *Swaption) markToMarket(vol float64, disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	if sw.IsExpired() {
		return 0, nil
	}
	v, _, err := sw.value(vol, disc, forecast)
	if err != nil {
		return 0, err
	}
	return sw.signed(v), nil
}

// MTM is shorthand for MarkToMarket.
func (sw *Swaption) MTM(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	return sw.MarkToMarket(disc, forecast)
}

// Vega returns the engine vega at the stored volatility, evaluated at the
// value-maximizing expiry, with position sign applied.
func (sw *Swaption) Vega(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	if sw.IsExpired() {
		return 0, nil
	}
	fair, err := sw.swap.FairRate(disc, forecast)
	if err != nil {
		return 0, err
	}
	strike, err := sw.effectiveStrike(disc, forecast)
	if err != nil {
		return 0, err
	}
	_, expiry, err := sw.value(sw.volatility, disc, forecast)
	if err != nil {
		return 0, err
	}
	annuity, err := sw.annuity(expiry, fair, disc)
	if err != nil {
		return 0, err
	}

	t := utils.YearFraction(sw.swap.ValuationDate(), expiry, "ACT/365F")
	var vega float64
	switch sw.volType {
	case Normal:
		vega = engine.BachelierVega(fair, strike, sw.volatility, t)
	default:
		vega = engine.BlackVega(fair, strike, sw.volatility, t)
	}
	return sw.signed(annuity * vega), nil
}

// ImpliedVolOptions configures the implied-volatility search.
type ImpliedVolOptions struct {
	Accuracy       float64 // default 1e-6
	MaxEvaluations int     // default 100
	MinVol         float64 // default 1e-7
	MaxVol         float64 // default 4.0
}

func (o ImpliedVolOptions) withDefaults() ImpliedVolOptions {
	if o.Accuracy <= 0 {
		o.Accuracy = 1e-6
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = 100
	}
	if o.MinVol <= 0 {
		o.MinVol = 1e-7
	}
	if o.MaxVol <= 0 {
		o.MaxVol = 4.0
	}
	return o
}

// ImpliedVolatility solves for the volatility that reproduces targetNPV
// under the selected engine, using a bracketed search.
func (sw *Swaption) ImpliedVolatility(targetNPV float64, disc *curve.CurveNodes, forecast *index.ForwardRateIndex, opts ImpliedVolOptions) (float64, error) {
	opts = opts.withDefaults()
	f := func(vol float64) (float64, error) {
		return sw.markToMarket(vol, disc, forecast)
	}
	return engine.Solve(f, targetNPV, opts.MinVol, opts.MaxVol, opts.Accuracy, opts.MaxEvaluations)
}
