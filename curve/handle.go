package curve

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/pricinglib/utils"
)

// termStructure is the internal discounting handle built from a node set.
// Implementations are pure functions of the nodes they were built from.
type termStructure interface {
	df(t time.Time) float64
}

func yearFrac(c *CurveNodes, d time.Time) float64 {
	return utils.YearFraction(c.asOf, d, c.dayCount)
}

func buildHandle(c *CurveNodes) (termStructure, error) {
	switch c.kind {
	case KindFlat:
		return &flatHandle{rate: c.quotes[0], asOf: c.asOf, dayCount: c.dayCount}, nil

	case KindZero:
		if len(c.quotes) == 1 {
			return &flatHandle{rate: c.quotes[0], asOf: c.asOf, dayCount: c.dayCount}, nil
		}
		times := make([]float64, len(c.dates))
		for i, d := range c.dates {
			times[i] = yearFrac(c, d)
		}
		return &zeroHandle{
			asOf:     c.asOf,
			dayCount: c.dayCount,
			times:    times,
			zeros:    append([]float64(nil), c.quotes...),
		}, nil

	case KindDiscount:
		times := []float64{0.0}
		dfs := []float64{1.0}
		for i, d := range c.dates {
			t := yearFrac(c, d)
			if t == 0 {
				// node at asOf replaces the implicit unit pillar
				dfs[0] = c.quotes[i]
				continue
			}
			times = append(times, t)
			dfs = append(dfs, c.quotes[i])
		}
		return &discountHandle{
			asOf:     c.asOf,
			dayCount: c.dayCount,
			times:    times,
			dfs:      dfs,
		}, nil

	case KindForward:
		times := make([]float64, len(c.dates))
		for i, d := range c.dates {
			times[i] = yearFrac(c, d)
		}
		return &forwardHandle{
			asOf:     c.asOf,
			dayCount: c.dayCount,
			times:    times,
			fwds:     append([]float64(nil), c.quotes...),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported quote kind %q", ErrConfiguration, c.kind)
	}
}

// flatHandle discounts at a single continuously-compounded zero rate.
type flatHandle struct {
	rate     float64
	asOf     time.Time
	dayCount string
}

func (h *flatHandle) df(d time.Time) float64 {
	t := utils.YearFraction(h.asOf, d, h.dayCount)
	return math.Exp(-h.rate * t)
}

// zeroHandle interpolates zero rates linearly in curve time, flat outside
// the pillar range.
type zeroHandle struct {
	asOf     time.Time
	dayCount string
	times    []float64
	zeros    []float64
}

func (h *zeroHandle) df(d time.Time) float64 {
	t := utils.YearFraction(h.asOf, d, h.dayCount)
	if t <= 0 {
		return 1.0
	}
	r := interpLinear(h.times, h.zeros, t)
	return math.Exp(-r * t)
}

// discountHandle interpolates discount factors log-linearly between pillars
// and extrapolates on the boundary segment outside them.
type discountHandle struct {
	asOf     time.Time
	dayCount string
	times    []float64 // includes t=0
	dfs      []float64
}

func (h *discountHandle) df(d time.Time) float64 {
	t := utils.YearFraction(h.asOf, d, h.dayCount)
	if t <= 0 {
		return h.dfs[0]
	}
	n := len(h.times)

	i := sort.SearchFloat64s(h.times, t)
	if i < n && h.times[i] == t {
		return h.dfs[i]
	}
	// boundary pair for extrapolation, bracketing pair otherwise
	lo, hi := i-1, i
	if i <= 0 {
		lo, hi = 0, 1
	} else if i >= n {
		lo, hi = n-2, n-1
	}

	t1, t2 := h.times[lo], h.times[hi]
	df1, df2 := h.dfs[lo], h.dfs[hi]
	if t2 == t1 {
		return df1
	}
	fwd := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-fwd*(t-t1))
}

// forwardHandle integrates linearly-interpolated instantaneous forwards:
// DF(t) = exp(-integral of f from 0 to t), with f flat outside the pillars.
type forwardHandle struct {
	asOf     time.Time
	dayCount string
	times    []float64
	fwds     []float64
}

func (h *forwardHandle) df(d time.Time) float64 {
	t := utils.YearFraction(h.asOf, d, h.dayCount)
	if t <= 0 {
		return 1.0
	}
	return math.Exp(-h.integral(t))
}

func (h *forwardHandle) integral(t float64) float64 {
	sum := 0.0
	prevT := 0.0
	prevF := h.fwds[0]

	for i := range h.times {
		ti, fi := h.times[i], h.fwds[i]
		if ti <= prevT {
			prevF = fi
			continue
		}
		if t <= ti {
			fT := prevF + (fi-prevF)*(t-prevT)/(ti-prevT)
			return sum + 0.5*(prevF+fT)*(t-prevT)
		}
		sum += 0.5 * (prevF + fi) * (ti - prevT)
		prevT, prevF = ti, fi
	}
	// beyond the last pillar: flat forward
	return sum + prevF*(t-prevT)
}

// interpLinear linearly interpolates y(t) over sorted times, with flat
// extrapolation on both ends.
func interpLinear(times, ys []float64, t float64) float64 {
	n := len(times)
	if t <= times[0] {
		return ys[0]
	}
	if t >= times[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(times, t)
	if times[i] == t {
		return ys[i]
	}
	t1, t2 := times[i-1], times[i]
	y1, y2 := ys[i-1], ys[i]
	return y1 + (y2-y1)*(t-t1)/(t2-t1)
}
