package swap

import (
	"fmt"
	"sort"
	"time"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/index"
)

// InterestRateSwap pairs exactly one fixed-rate leg with one floating-rate
// leg. It is immutable; risk methods build transient bumped curves and
// indices and never touch the swap or its inputs.
type InterestRateSwap struct {
	payingLeg    SwapLeg
	receivingLeg SwapLeg

	fixed        *FixedLeg
	floating     *FloatingLeg
	fixedIsPayer bool
}

// NewInterestRateSwap validates the leg pairing and alignment invariants.
func NewInterestRateSwap(paying, receiving SwapLeg) (*InterestRateSwap, error) {
	if paying == nil || receiving == nil {
		return nil, fmt.Errorf("%w: both legs are required", ErrStructuralMismatch)
	}

	s := &InterestRateSwap{payingLeg: paying, receivingLeg: receiving}

	switch p := paying.(type) {
	case *FixedLeg:
		r, ok := receiving.(*FloatingLeg)
		if !ok {
			return nil, fmt.Errorf("%w: both legs are fixed", ErrStructuralMismatch)
		}
		s.fixed, s.floating, s.fixedIsPayer = p, r, true
	case *FloatingLeg:
		r, ok := receiving.(*FixedLeg)
		if !ok {
			return nil, fmt.Errorf("%w: both legs are floating", ErrStructuralMismatch)
		}
		s.fixed, s.floating, s.fixedIsPayer = r, p, false
	default:
		return nil, fmt.Errorf("%w: unsupported leg type %T", ErrStructuralMismatch, paying)
	}

	pt, rt := paying.Terms(), receiving.Terms()
	switch {
	case !pt.ValuationDate.Equal(rt.ValuationDate):
		return nil, fmt.Errorf("%w: legs disagree on valuation date", ErrStructuralMismatch)
	case !pt.IssueDate.Equal(rt.IssueDate):
		return nil, fmt.Errorf("%w: legs disagree on issue date", ErrStructuralMismatch)
	case !pt.Maturity.Equal(rt.Maturity):
		return nil, fmt.Errorf("%w: legs disagree on maturity", ErrStructuralMismatch)
	case pt.Currency != rt.Currency:
		return nil, fmt.Errorf("%w: legs disagree on currency (%s vs %s)", ErrStructuralMismatch, pt.Currency, rt.Currency)
	}

	return s, nil
}

// PayingLeg returns the leg whose cashflows are paid.
func (s *InterestRateSwap) PayingLeg() SwapLeg { return s.payingLeg }

// ReceivingLeg returns the leg whose cashflows are received.
func (s *InterestRateSwap) ReceivingLeg() SwapLeg { return s.receivingLeg }

// FixedLeg returns the fixed-rate side.
func (s *InterestRateSwap) FixedLeg() *FixedLeg { return s.fixed }

// FloatingLeg returns the floating-rate side.
func (s *InterestRateSwap) FloatingLeg() *FloatingLeg { return s.floating }

// FixedIsPayer reports whether the fixed leg is the paying leg.
func (s *InterestRateSwap) FixedIsPayer() bool { return s.fixedIsPayer }

// ValuationDate returns the shared valuation date of both legs.
func (s *InterestRateSwap) ValuationDate() time.Time { return s.receivingLeg.Terms().ValuationDate }

// IssueDate returns the shared issue date of both legs.
func (s *InterestRateSwap) IssueDate() time.Time { return s.receivingLeg.Terms().IssueDate }

// Maturity returns the shared maturity of both legs.
func (s *InterestRateSwap) Maturity() time.Time { return s.receivingLeg.Terms().Maturity }

// Currency returns the shared currency of both legs.
func (s *InterestRateSwap) Currency() string { return s.receivingLeg.Terms().Currency }

// IsExpired reports whether the valuation date has reached maturity.
func (s *InterestRateSwap) IsExpired() bool { return !s.ValuationDate().Before(s.Maturity()) }

func (s *InterestRateSwap) resolveIndex(forecast *index.ForwardRateIndex) (*index.ForwardRateIndex, error) {
	return s.floating.resolveIndex(forecast)
}

// legPV discounts a coupon stream on disc.
func legPV(coupons []Coupon, disc *curve.CurveNodes) (float64, error) {
	pv := 0.0
	for _, c := range coupons {
		df, err := disc.DiscountFactor(c.PayDate)
		if err != nil {
			return 0, err
		}
		pv += c.Amount() * df
	}
	return pv, nil
}

// legBPS is the present value of one basis point accruing on the coupon
// nominals, signed negative for the paying leg.
func legBPS(coupons []Coupon, disc *curve.CurveNodes, isPayer bool) (float64, error) {
	bps := 0.0
	for _, c := range coupons {
		df, err := disc.DiscountFactor(c.PayDate)
		if err != nil {
			return 0, err
		}
		bps += c.Nominal * c.Accrual() * df
	}
	bps *= 1e-4
	if isPayer {
		bps = -bps
	}
	return bps, nil
}

func (s *InterestRateSwap) legCoupons(forecast *index.ForwardRateIndex) (pay, recv []Coupon, err error) {
	idx, err := s.resolveIndex(forecast)
	if err != nil {
		return nil, nil, err
	}
	pay, err = s.payingLeg.Cashflows(idx)
	if err != nil {
		return nil, nil, fmt.Errorf("paying leg: %w", err)
	}
	recv, err = s.receivingLeg.Cashflows(idx)
	if err != nil {
		return nil, nil, fmt.Errorf("receiving leg: %w", err)
	}
	return pay, recv, nil
}

// MarkToMarket returns the swap NPV discounted on disc, with floating
// coupons projected off forecast (or the leg's bound index). Expired swaps
// are worth exactly 0 and require neither curve nor index.
func (s *InterestRateSwap) MarkToMarket(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	if s.IsExpired() {
		return 0, nil
	}
	pay, recv, err := s.legCoupons(forecast)
	if err != nil {
		return 0, err
	}
	payPV, err := legPV(pay, disc)
	if err != nil {
		return 0, err
	}
	recvPV, err := legPV(recv, disc)
	if err != nil {
		return 0, err
	}
	return recvPV - payPV, nil
}

// MTM is shorthand for MarkToMarket.
func (s *InterestRateSwap) MTM(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	return s.MarkToMarket(disc, forecast)
}

// PV01 is the fixed-leg basis-point value: the analytic NPV change for a
// +1 bp move in the fixed coupon, signed by the leg direction.
func (s *InterestRateSwap) PV01(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	if s.IsExpired() {
		return 0, nil
	}
	coupons, err := s.fixed.Cashflows(nil)
	if err != nil {
		return 0, err
	}
	return legBPS(coupons, disc, s.fixedIsPayer)
}

// DV01 is the floating-leg basis-point value: the analytic NPV change for a
// +1 bp move in the floating spread, signed by the leg direction.
func (s *InterestRateSwap) DV01(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	if s.IsExpired() {
		return 0, nil
	}
	idx, err := s.resolveIndex(forecast)
	if err != nil {
		return 0, err
	}
	coupons, err := s.floating.Cashflows(idx)
	if err != nil {
		return 0, err
	}
	return legBPS(coupons, disc, !s.fixedIsPayer)
}

// IR01Discount is the finite-difference sensitivity to a parallel shift of
// the discounting curve: (NPV(bumped) - NPV(base)) / bumpBP. The cashflows
// themselves are unchanged; only discounting moves.
func (s *InterestRateSwap) IR01Discount(disc *curve.CurveNodes, forecast *index.ForwardRateIndex, bumpBP float64) (float64, error) {
	if s.IsExpired() {
		return 0, nil
	}
	if bumpBP == 0 {
		return 0, fmt.Errorf("%w: zero bump size", curve.ErrConfiguration)
	}
	base, err := s.MarkToMarket(disc, forecast)
	if err != nil {
		return 0, err
	}
	bumpedNodes, err := disc.Bump(bumpBP)
	if err != nil {
		return 0, err
	}
	bumped, err := s.MarkToMarket(bumpedNodes, forecast)
	if err != nil {
		return 0, err
	}
	return (bumped - base) / bumpBP, nil
}

// IR01Forecast is the finite-difference sensitivity to a parallel shift of
// the forecasting curve. The floating leg is re-projected off an index clone
// bound to the bumped curve while discounting stays on the original curve.
func (s *InterestRateSwap) IR01Forecast(forecastNodes, disc *curve.CurveNodes, baseIndex *index.ForwardRateIndex, bumpBP float64) (float64, error) {
	if s.IsExpired() {
		return 0, nil
	}
	if bumpBP == 0 {
		return 0, fmt.Errorf("%w: zero bump size", curve.ErrConfiguration)
	}
	idx, err := s.resolveIndex(baseIndex)
	if err != nil {
		return 0, err
	}
	bumpedNodes, err := forecastNodes.Bump(bumpBP)
	if err != nil {
		return 0, err
	}
	base, err := s.MarkToMarket(disc, idx)
	if err != nil {
		return 0, err
	}
	bumped, err := s.MarkToMarket(disc, idx.Clone(bumpedNodes))
	if err != nil {
		return 0, err
	}
	return (bumped - base) / bumpBP, nil
}

// FairRate returns the fixed rate that makes the swap NPV zero: the
// discounted floating leg over the fixed-leg annuity.
func (s *InterestRateSwap) FairRate(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) (float64, error) {
	idx, err := s.resolveIndex(forecast)
	if err != nil {
		return 0, err
	}
	floatCoupons, err := s.floating.Cashflows(idx)
	if err != nil {
		return 0, err
	}
	floatPV, err := legPV(floatCoupons, disc)
	if err != nil {
		return 0, err
	}
	annuity, err := s.FixedAnnuity(disc)
	if err != nil {
		return 0, err
	}
	return floatPV / annuity, nil
}

// FixedAnnuity returns the unsigned PV of a unit rate accruing on the fixed
// leg: sum of nominal * accrual * DF over the fixed coupons.
func (s *InterestRateSwap) FixedAnnuity(disc *curve.CurveNodes) (float64, error) {
	coupons, err := s.fixed.Cashflows(nil)
	if err != nil {
		return 0, err
	}
	annuity := 0.0
	for _, c := range coupons {
		df, err := disc.DiscountFactor(c.PayDate)
		if err != nil {
			return 0, err
		}
		annuity += c.Nominal * c.Accrual() * df
	}
	if annuity == 0 {
		return 0, fmt.Errorf("%w: fixed-leg annuity is zero", ErrValidation)
	}
	return annuity, nil
}

// CashflowRow is one payment date of the swap cashflow table.
type CashflowRow struct {
	Date           time.Time
	Pay            float64
	Receive        float64
	Net            float64
	DiscountFactor float64
	PresentValue   float64
}

// CashflowRows merges both legs' coupons by payment date, in the shape of a
// SWPM-style cashflow view.
func (s *InterestRateSwap) CashflowRows(disc *curve.CurveNodes, forecast *index.ForwardRateIndex) ([]CashflowRow, error) {
	pay, recv, err := s.legCoupons(forecast)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]*CashflowRow)
	for _, c := range pay {
		row := byDate[c.PayDate]
		if row == nil {
			row = &CashflowRow{Date: c.PayDate}
			byDate[c.PayDate] = row
		}
		row.Pay -= c.Amount()
	}
	for _, c := range recv {
		row := byDate[c.PayDate]
		if row == nil {
			row = &CashflowRow{Date: c.PayDate}
			byDate[c.PayDate] = row
		}
		row.Receive += c.Amount()
	}

	rows := make([]CashflowRow, 0, len(byDate))
	for _, row := range byDate {
		df, err := disc.DiscountFactor(row.Date)
		if err != nil {
			return nil, err
		}
		row.Net = row.Pay + row.Receive
		row.DiscountFactor = df
		row.PresentValue = row.Net * df
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}
