package engine

import "math"

// BlackScholes evaluates the analytic European option formulas for a spot
// process with continuous carry: rate r, dividend yield q, lognormal vol
// sigma, expiry t.
type BlackScholes struct {
	Spot     float64
	Strike   float64
	Rate     float64
	Dividend float64
	Vol      float64
	Expiry   float64 // year fraction
	IsCall   bool
}

func (bs BlackScholes) d1d2() (float64, float64) {
	sd := bs.Vol * math.Sqrt(bs.Expiry)
	d1 := (math.Log(bs.Spot/bs.Strike) + (bs.Rate-bs.Dividend+0.5*bs.Vol*bs.Vol)*bs.Expiry) / sd
	return d1, d1 - sd
}

func (bs BlackScholes) degenerate() bool {
	return bs.Expiry <= 0 || bs.Vol <= 0 || bs.Spot <= 0 || bs.Strike <= 0
}

// NPV returns the option present value.
func (bs BlackScholes) NPV() float64 {
	if bs.degenerate() {
		fwd := bs.Spot * math.Exp((bs.Rate-bs.Dividend)*math.Max(bs.Expiry, 0))
		return math.Exp(-bs.Rate*math.Max(bs.Expiry, 0)) * intrinsic(fwd, bs.Strike, bs.IsCall)
	}
	d1, d2 := bs.d1d2()
	dfQ := math.Exp(-bs.Dividend * bs.Expiry)
	dfR := math.Exp(-bs.Rate * bs.Expiry)
	if bs.IsCall {
		return bs.Spot*dfQ*normalCDF(d1) - bs.Strike*dfR*normalCDF(d2)
	}
	return bs.Strike*dfR*normalCDF(-d2) - bs.Spot*dfQ*normalCDF(-d1)
}

// Delta returns the sensitivity of NPV to the spot.
func (bs BlackScholes) Delta() float64 {
	if bs.degenerate() {
		return 0
	}
	d1, _ := bs.d1d2()
	dfQ := math.Exp(-bs.Dividend * bs.Expiry)
	if bs.IsCall {
		return dfQ * normalCDF(d1)
	}
	return dfQ * (normalCDF(d1) - 1)
}

// Gamma returns the second derivative of NPV with respect to the spot.
func (bs BlackScholes) Gamma() float64 {
	if bs.degenerate() {
		return 0
	}
	d1, _ := bs.d1d2()
	dfQ := math.Exp(-bs.Dividend * bs.Expiry)
	return dfQ * normalPDF(d1) / (bs.Spot * bs.Vol * math.Sqrt(bs.Expiry))
}

// Vega returns the derivative of NPV with respect to the vol.
func (bs BlackScholes) Vega() float64 {
	if bs.degenerate() {
		return 0
	}
	d1, _ := bs.d1d2()
	dfQ := math.Exp(-bs.Dividend * bs.Expiry)
	return bs.Spot * dfQ * normalPDF(d1) * math.Sqrt(bs.Expiry)
}
