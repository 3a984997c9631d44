package engine

import "math"

// normalCDF returns the standard normal cumulative distribution function.
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normalPDF returns the standard normal density.
func normalPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// Black returns the undiscounted Black-76 value per unit annuity of an
// option on forward F struck at K with lognormal vol sigma and expiry T.
// isCall selects a payer-style payoff max(F-K, 0).
func Black(f, k, sigma, t float64, isCall bool) float64 {
	if t <= 0 || sigma <= 0 {
		return intrinsic(f, k, isCall)
	}
	if f <= 0 || k <= 0 {
		return intrinsic(f, k, isCall)
	}
	sd := sigma * math.Sqrt(t)
	d1 := (math.Log(f/k) + 0.5*sd*sd) / sd
	d2 := d1 - sd
	if isCall {
		return f*normalCDF(d1) - k*normalCDF(d2)
	}
	return k*normalCDF(-d2) - f*normalCDF(-d1)
}

// BlackVega returns the derivative of Black with respect to sigma.
func BlackVega(f, k, sigma, t float64) float64 {
	if t <= 0 || sigma <= 0 || f <= 0 || k <= 0 {
		return 0
	}
	sd := sigma * math.Sqrt(t)
	d1 := (math.Log(f/k) + 0.5*sd*sd) / sd
	return f * normalPDF(d1) * math.Sqrt(t)
}

// Bachelier returns the undiscounted normal-model value per unit annuity of
// an option on forward F struck at K with absolute vol sigma and expiry T.
func Bachelier(f, k, sigma, t float64, isCall bool) float64 {
	if t <= 0 || sigma <= 0 {
		return intrinsic(f, k, isCall)
	}
	sd := sigma * math.Sqrt(t)
	d := (f - k) / sd
	if !isCall {
		d = -d
	}
	v := sd * (d*normalCDF(d) + normalPDF(d))
	return v
}

// BachelierVega returns the derivative of Bachelier with respect to sigma.
func BachelierVega(f, k, sigma, t float64) float64 {
	if t <= 0 || sigma <= 0 {
		return 0
	}
	sd := sigma * math.Sqrt(t)
	d := (f - k) / sd
	return math.Sqrt(t) * normalPDF(d)
}

func intrinsic(f, k float64, isCall bool) float64 {
	if isCall {
		return math.Max(f-k, 0)
	}
	return math.Max(k-f, 0)
}
