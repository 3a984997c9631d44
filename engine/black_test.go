package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/pricinglib/engine"
)

func TestBlack_PutCallParity(t *testing.T) {
	t.Parallel()

	f, k, sigma, tt := 0.025, 0.023, 0.20, 2.0
	call := engine.Black(f, k, sigma, tt, true)
	put := engine.Black(f, k, sigma, tt, false)

	assert.InDelta(t, f-k, call-put, 1e-12, "call-put parity")
	assert.Greater(t, call, 0.0)
	assert.Greater(t, put, 0.0)
}

func TestBlack_DegenerateInputsReturnIntrinsic(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.002, engine.Black(0.025, 0.023, 0.2, 0, true), 1e-15)
	assert.InDelta(t, 0.0, engine.Black(0.023, 0.025, 0.2, 0, true), 1e-15)
	assert.InDelta(t, 0.002, engine.Black(0.025, 0.023, 0, 1, true), 1e-15)
	// Negative forwards fall back to intrinsic under the lognormal model.
	assert.InDelta(t, 0.028, engine.Black(-0.005, 0.023, 0.2, 1, false), 1e-15)
}

func TestBachelier_ATMClosedForm(t *testing.T) {
	t.Parallel()

	// At the money the normal model collapses to sigma*sqrt(T/2pi).
	sigma, tt := 0.0065, 1.0
	want := sigma * math.Sqrt(tt) / math.Sqrt(2*math.Pi)

	got := engine.Bachelier(0.025, 0.025, sigma, tt, true)
	assert.InDelta(t, want, got, 1e-12)

	// Payer and receiver coincide at the money.
	put := engine.Bachelier(0.025, 0.025, sigma, tt, false)
	assert.InDelta(t, got, put, 1e-15)
}

func TestBachelier_HandlesNegativeRates(t *testing.T) {
	t.Parallel()

	// The normal model prices through zero without special-casing.
	v := engine.Bachelier(-0.003, -0.001, 0.0065, 1.0, true)
	assert.Greater(t, v, 0.0)

	parityGap := engine.Bachelier(-0.003, -0.001, 0.0065, 1.0, true) -
		engine.Bachelier(-0.003, -0.001, 0.0065, 1.0, false)
	assert.InDelta(t, -0.002, parityGap, 1e-12)
}

func TestVegas_PositiveAndConsistent(t *testing.T) {
	t.Parallel()

	f, k, sigma, tt := 0.025, 0.024, 0.2, 1.5

	vega := engine.BlackVega(f, k, sigma, tt)
	require.Greater(t, vega, 0.0)

	// Finite-difference check of the analytic vega.
	h := 1e-6
	fd := (engine.Black(f, k, sigma+h, tt, true) - engine.Black(f, k, sigma-h, tt, true)) / (2 * h)
	assert.InDelta(t, fd, vega, 1e-6)

	nVega := engine.BachelierVega(f, k, 0.0065, tt)
	require.Greater(t, nVega, 0.0)
	fdN := (engine.Bachelier(f, k, 0.0065+h, tt, true) - engine.Bachelier(f, k, 0.0065-h, tt, true)) / (2 * h)
	assert.InDelta(t, fdN, nVega, 1e-6)
}

func TestBlackScholes_KnownValue(t *testing.T) {
	t.Parallel()

	bs := engine.BlackScholes{
		Spot:   100,
		Strike: 100,
		Rate:   0.05,
		Vol:    0.2,
		Expiry: 1.0,
		IsCall: true,
	}
	// Standard textbook reference value.
	assert.InDelta(t, 10.4506, bs.NPV(), 1e-3)

	put := bs
	put.IsCall = false
	// Put-call parity: C - P = S - K*exp(-rT).
	assert.InDelta(t, 100-100*math.Exp(-0.05), bs.NPV()-put.NPV(), 1e-10)
}

func TestBlackScholes_Greeks(t *testing.T) {
	t.Parallel()

	bs := engine.BlackScholes{
		Spot:     100,
		Strike:   95,
		Rate:     0.03,
		Dividend: 0.01,
		Vol:      0.25,
		Expiry:   0.5,
		IsCall:   true,
	}

	h := 1e-4
	up, down := bs, bs
	up.Spot += h
	down.Spot -= h

	fdDelta := (up.NPV() - down.NPV()) / (2 * h)
	assert.InDelta(t, fdDelta, bs.Delta(), 1e-6)

	fdGamma := (up.NPV() - 2*bs.NPV() + down.NPV()) / (h * h)
	assert.InDelta(t, fdGamma, bs.Gamma(), 1e-4)

	vUp, vDown := bs, bs
	vUp.Vol += h
	vDown.Vol -= h
	fdVega := (vUp.NPV() - vDown.NPV()) / (2 * h)
	assert.InDelta(t, fdVega, bs.Vega(), 1e-4)

	// Call delta bounded by the dividend discount factor.
	assert.Greater(t, bs.Delta(), 0.0)
	assert.Less(t, bs.Delta(), 1.0)
}

func TestBlackScholes_Degenerate(t *testing.T) {
	t.Parallel()

	expired := engine.BlackScholes{Spot: 110, Strike: 100, Rate: 0.05, Vol: 0.2, Expiry: 0, IsCall: true}
	assert.InDelta(t, 10.0, expired.NPV(), 1e-12)
	assert.Zero(t, expired.Delta())
	assert.Zero(t, expired.Gamma())
	assert.Zero(t, expired.Vega())
}
