package swap_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/index"
	"github.com/meenmo/pricinglib/schedule"
	"github.com/meenmo/pricinglib/swap"
)

// payerSwap builds a seasoned-or-forward 5Y EUR 1mm payer swap: pay 2.3%
// fixed annual 30E/360, receive Euribor6M flat semiannual ACT/360.
func payerSwap(t *testing.T, valuation, issue, maturity time.Time, idx *index.ForwardRateIndex) *swap.InterestRateSwap {
	t.Helper()

	fixedTerms := fixedTerms(valuation)
	fixedTerms.IssueDate = issue
	fixedTerms.Maturity = maturity

	floatTerms := fixedTerms
	floatTerms.Tenor = schedule.Semiannual
	floatTerms.DayCount = "ACT/360"

	fixed, err := swap.NewFixedLeg(fixedTerms, 0.023)
	if err != nil {
		t.Fatalf("NewFixedLeg error: %v", err)
	}
	floating, err := swap.NewFloatingLeg(floatTerms, 1.0, 0.0, idx)
	if err != nil {
		t.Fatalf("NewFloatingLeg error: %v", err)
	}
	irs, err := swap.NewInterestRateSwap(fixed, floating)
	if err != nil {
		t.Fatalf("NewInterestRateSwap error: %v", err)
	}
	return irs
}

func TestNewInterestRateSwap_StructuralInvariants(t *testing.T) {
	t.Parallel()

	terms := fixedTerms(asOf)
	idx := index.Euribor6M(flatCurve(t, 0.025))

	fixed, _ := swap.NewFixedLeg(terms, 0.023)
	otherFixed, _ := swap.NewFixedLeg(terms, 0.03)
	floating, _ := swap.NewFloatingLeg(terms, 1.0, 0.0, idx)
	otherFloating, _ := swap.NewFloatingLeg(terms, 1.0, 0.001, idx)

	if _, err := swap.NewInterestRateSwap(fixed, otherFixed); !errors.Is(err, swap.ErrStructuralMismatch) {
		t.Fatalf("two fixed legs: got %v", err)
	}
	if _, err := swap.NewInterestRateSwap(floating, otherFloating); !errors.Is(err, swap.ErrStructuralMismatch) {
		t.Fatalf("two floating legs: got %v", err)
	}
	if _, err := swap.NewInterestRateSwap(nil, floating); !errors.Is(err, swap.ErrStructuralMismatch) {
		t.Fatalf("nil leg: got %v", err)
	}

	mismatched := terms
	mismatched.Maturity = date(2030, 6, 30)
	laterFloating, _ := swap.NewFloatingLeg(mismatched, 1.0, 0.0, idx)
	if _, err := swap.NewInterestRateSwap(fixed, laterFloating); !errors.Is(err, swap.ErrStructuralMismatch) {
		t.Fatalf("maturity mismatch: got %v", err)
	}

	foreign := terms
	foreign.Currency = "USD"
	usdFloating, _ := swap.NewFloatingLeg(foreign, 1.0, 0.0, idx)
	if _, err := swap.NewInterestRateSwap(fixed, usdFloating); !errors.Is(err, swap.ErrStructuralMismatch) {
		t.Fatalf("currency mismatch: got %v", err)
	}

	forwardStart := terms
	forwardStart.IssueDate = date(2024, 6, 28)
	earlierFloating, _ := swap.NewFloatingLeg(forwardStart, 1.0, 0.0, idx)
	if _, err := swap.NewInterestRateSwap(fixed, earlierFloating); !errors.Is(err, swap.ErrStructuralMismatch) {
		t.Fatalf("issue date mismatch: got %v", err)
	}

	stale := terms
	stale.ValuationDate = date(2025, 6, 27)
	staleFloating, _ := swap.NewFloatingLeg(stale, 1.0, 0.0, idx)
	if _, err := swap.NewInterestRateSwap(fixed, staleFloating); !errors.Is(err, swap.ErrStructuralMismatch) {
		t.Fatalf("valuation date mismatch: got %v", err)
	}

	irs, err := swap.NewInterestRateSwap(fixed, floating)
	if err != nil {
		t.Fatalf("valid pairing rejected: %v", err)
	}
	if !irs.FixedIsPayer() {
		t.Fatalf("expected fixed payer")
	}

	reversed, err := swap.NewInterestRateSwap(floating, fixed)
	if err != nil {
		t.Fatalf("valid pairing rejected: %v", err)
	}
	if reversed.FixedIsPayer() {
		t.Fatalf("expected fixed receiver")
	}
}

func TestMarkToMarket_PayerReceiverMirror(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, 0.02)
	idx := index.Euribor6M(flatCurve(t, 0.025))
	issue, maturity := date(2026, 6, 30), date(2031, 6, 30)

	payer := payerSwap(t, asOf, issue, maturity, idx)
	npvPayer, err := payer.MarkToMarket(disc, nil)
	if err != nil {
		t.Fatalf("MarkToMarket error: %v", err)
	}

	receiver, err := swap.NewInterestRateSwap(payer.FloatingLeg(), payer.FixedLeg())
	if err != nil {
		t.Fatalf("NewInterestRateSwap error: %v", err)
	}
	npvReceiver, err := receiver.MarkToMarket(disc, nil)
	if err != nil {
		t.Fatalf("MarkToMarket error: %v", err)
	}

	if math.Abs(npvPayer+npvReceiver) > 1e-6 {
		t.Fatalf("payer and receiver NPVs must mirror: %.6f vs %.6f", npvPayer, npvReceiver)
	}

	// Forwards near 2.5% vs a 2.3% fixed coupon: the payer is in the money.
	if npvPayer <= 0 {
		t.Fatalf("expected positive payer NPV, got %.2f", npvPayer)
	}
}

func TestMarkToMarket_Expired(t *testing.T) {
	t.Parallel()

	idx := index.Euribor6M(flatCurve(t, 0.025))
	irs := payerSwap(t, date(2031, 7, 1), date(2023, 6, 30), date(2031, 6, 30), idx)

	if !irs.IsExpired() {
		t.Fatalf("expected expired swap")
	}
	// No curve or index needed for an expired swap.
	npv, err := irs.MarkToMarket(nil, nil)
	if err != nil {
		t.Fatalf("MarkToMarket error: %v", err)
	}
	if npv != 0 {
		t.Fatalf("expected 0 NPV, got %.6f", npv)
	}
	pv01, err := irs.PV01(nil, nil)
	if err != nil {
		t.Fatalf("PV01 error: %v", err)
	}
	if pv01 != 0 {
		t.Fatalf("expected 0 PV01, got %.6f", pv01)
	}
}

func TestFairRate_ZeroesTheSwap(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, 0.02)
	idx := index.Euribor6M(flatCurve(t, 0.025))
	issue, maturity := date(2026, 6, 30), date(2031, 6, 30)

	irs := payerSwap(t, asOf, issue, maturity, idx)
	fair, err := irs.FairRate(disc, nil)
	if err != nil {
		t.Fatalf("FairRate error: %v", err)
	}
	if fair < 0.02 || fair > 0.03 {
		t.Fatalf("fair rate out of plausible range: %.6f", fair)
	}

	// Re-striking the fixed leg at the fair rate zeroes the NPV.
	terms := *irs.FixedLeg().Terms()
	parFixed, err := swap.NewFixedLeg(terms, fair)
	if err != nil {
		t.Fatalf("NewFixedLeg error: %v", err)
	}
	par, err := swap.NewInterestRateSwap(parFixed, irs.FloatingLeg())
	if err != nil {
		t.Fatalf("NewInterestRateSwap error: %v", err)
	}
	npv, err := par.MarkToMarket(disc, nil)
	if err != nil {
		t.Fatalf("MarkToMarket error: %v", err)
	}
	if math.Abs(npv) > 1e-4 {
		t.Fatalf("par swap NPV not zero: %.8f", npv)
	}
}

func TestPV01DV01_Signs(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, 0.02)
	idx := index.Euribor6M(flatCurve(t, 0.025))
	irs := payerSwap(t, asOf, date(2026, 6, 30), date(2031, 6, 30), idx)

	pv01, err := irs.PV01(disc, nil)
	if err != nil {
		t.Fatalf("PV01 error: %v", err)
	}
	dv01, err := irs.DV01(disc, nil)
	if err != nil {
		t.Fatalf("DV01 error: %v", err)
	}

	// Paying fixed: a higher fixed coupon loses money, a higher spread on the
	// received float gains.
	if pv01 >= 0 {
		t.Fatalf("expected negative PV01 for payer, got %.6f", pv01)
	}
	if dv01 <= 0 {
		t.Fatalf("expected positive DV01 for payer, got %.6f", dv01)
	}

	// Roughly one basis point accruing on ~5 years of 1mm notional.
	if math.Abs(pv01) < 100 || math.Abs(pv01) > 600 {
		t.Fatalf("PV01 magnitude implausible: %.2f", pv01)
	}
}

func TestIR01_BumpAndReprice(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, 0.02)
	forecast := flatCurve(t, 0.025)
	idx := index.Euribor6M(forecast)
	irs := payerSwap(t, asOf, date(2026, 6, 30), date(2031, 6, 30), idx)

	ir01Fcst, err := irs.IR01Forecast(forecast, disc, nil, 1.0)
	if err != nil {
		t.Fatalf("IR01Forecast error: %v", err)
	}
	// Payer gains when projected forwards rise.
	if ir01Fcst <= 0 {
		t.Fatalf("expected positive forecast IR01 for payer, got %.6f", ir01Fcst)
	}

	// Near-linearity: the per-bp sensitivity is stable across bump sizes.
	small, err := irs.IR01Forecast(forecast, disc, nil, 0.01)
	if err != nil {
		t.Fatalf("IR01Forecast error: %v", err)
	}
	if math.Abs(ir01Fcst-small) > 0.01*math.Abs(small) {
		t.Fatalf("forecast IR01 not linear: %.6f vs %.6f", ir01Fcst, small)
	}

	ir01Disc, err := irs.IR01Discount(disc, nil, 1.0)
	if err != nil {
		t.Fatalf("IR01Discount error: %v", err)
	}
	smallDisc, err := irs.IR01Discount(disc, nil, 0.01)
	if err != nil {
		t.Fatalf("IR01Discount error: %v", err)
	}
	if math.Abs(ir01Disc-smallDisc) > 0.01*math.Abs(smallDisc)+1e-9 {
		t.Fatalf("discount IR01 not linear: %.6f vs %.6f", ir01Disc, smallDisc)
	}

	// Forecast IR01 dominates: it is close to the floating-leg BPS.
	dv01, err := irs.DV01(disc, nil)
	if err != nil {
		t.Fatalf("DV01 error: %v", err)
	}
	if ir01Fcst < 0.5*dv01 || ir01Fcst > 2.0*dv01 {
		t.Fatalf("forecast IR01 %.2f far from DV01 %.2f", ir01Fcst, dv01)
	}

	// Zero bump size is rejected.
	if _, err := irs.IR01Discount(disc, nil, 0); !errors.Is(err, curve.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for zero bump, got %v", err)
	}
	if _, err := irs.IR01Forecast(forecast, disc, nil, 0); !errors.Is(err, curve.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for zero bump, got %v", err)
	}
}

func TestCashflowRows_SumToNPV(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, 0.02)
	idx := index.Euribor6M(flatCurve(t, 0.025))
	irs := payerSwap(t, asOf, date(2026, 6, 30), date(2031, 6, 30), idx)

	rows, err := irs.CashflowRows(disc, nil)
	if err != nil {
		t.Fatalf("CashflowRows error: %v", err)
	}
	if len(rows) == 0 {
		t.Fatalf("expected cashflow rows")
	}

	sum := 0.0
	for i, row := range rows {
		if i > 0 && !rows[i-1].Date.Before(row.Date) {
			t.Fatalf("rows not sorted at %d", i)
		}
		if row.Pay > 0 {
			t.Fatalf("pay amounts must be non-positive, got %.2f", row.Pay)
		}
		if math.Abs(row.Net-(row.Pay+row.Receive)) > 1e-9 {
			t.Fatalf("net mismatch at %d", i)
		}
		sum += row.PresentValue
	}

	npv, err := irs.MarkToMarket(disc, nil)
	if err != nil {
		t.Fatalf("MarkToMarket error: %v", err)
	}
	if math.Abs(sum-npv) > 1e-6 {
		t.Fatalf("row PVs %.8f do not sum to NPV %.8f", sum, npv)
	}
}
