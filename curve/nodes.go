// Package curve holds immutable term-structure node sets and the discounting
// handles derived from them.
package curve

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

var (
	// ErrValidation is returned for malformed node sets.
	ErrValidation = errors.New("invalid curve nodes")
	// ErrConfiguration is returned for unsupported quote kinds or
	// discount-factor queries outside the supported range.
	ErrConfiguration = errors.New("curve configuration")
)

// QuoteKind describes what the node quotes represent.
type QuoteKind string

const (
	KindZero     QuoteKind = "zero"
	KindDiscount QuoteKind = "discount"
	KindForward  QuoteKind = "forward"
	KindFlat     QuoteKind = "flat"
)

// Role records how the curve is intended to be used. Metadata only.
type Role string

const (
	RoleDiscounting Role = "discounting"
	RoleForecasting Role = "forecasting"
	RoleOther       Role = "other"
)

// Node is a single (date, quote) pillar.
type Node struct {
	Date  time.Time
	Quote float64
}

// CurveNodes is an immutable set of term-structure nodes.
//
// It is a container of pillars, not a curve itself: the interpolating handle
// is built lazily on first use and cached. A bumped curve is always a new
// value; nothing is mutated after construction.
type CurveNodes struct {
	asOf     time.Time
	dates    []time.Time
	quotes   []float64
	dayCount string
	kind     QuoteKind
	role     Role

	once      sync.Once
	handle    termStructure
	handleErr error
}

// NewCurveNodes validates and constructs a node set.
func NewCurveNodes(asOf time.Time, dates []time.Time, quotes []float64, dayCount string, kind QuoteKind, role Role) (*CurveNodes, error) {
	switch kind {
	case KindZero, KindDiscount, KindForward, KindFlat:
	default:
		return nil, fmt.Errorf("%w: unsupported quote kind %q", ErrConfiguration, kind)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: at least one node is required", ErrValidation)
	}
	if len(dates) != len(quotes) {
		return nil, fmt.Errorf("%w: %d dates vs %d quotes", ErrValidation, len(dates), len(quotes))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("%w: dates must be strictly increasing at index %d", ErrValidation, i)
		}
	}
	if kind == KindDiscount {
		for i, q := range quotes {
			if q <= 0 || q > 1 {
				return nil, fmt.Errorf("%w: discount factor %g at index %d outside (0, 1]", ErrValidation, q, i)
			}
		}
	}
	if kind == KindFlat && len(quotes) != 1 {
		return nil, fmt.Errorf("%w: flat curve expects exactly one quote, got %d", ErrValidation, len(quotes))
	}
	// Interpolating kinds need a segment to interpolate on; a single-node
	// curve is only meaningful as zero or flat.
	if (kind == KindDiscount || kind == KindForward) && len(quotes) < 2 {
		return nil, fmt.Errorf("%w: %s curve needs at least two nodes", ErrValidation, kind)
	}

	c := &CurveNodes{
		asOf:     asOf,
		dates:    append([]time.Time(nil), dates...),
		quotes:   append([]float64(nil), quotes...),
		dayCount: dayCount,
		kind:     kind,
		role:     role,
	}
	return c, nil
}

// FromZeros builds a zero-rate curve.
func FromZeros(asOf time.Time, dates []time.Time, zeros []float64, dayCount string, role Role) (*CurveNodes, error) {
	return NewCurveNodes(asOf, dates, zeros, dayCount, KindZero, role)
}

// FromDiscounts builds a discount-factor curve.
func FromDiscounts(asOf time.Time, dates []time.Time, discounts []float64, dayCount string, role Role) (*CurveNodes, error) {
	return NewCurveNodes(asOf, dates, discounts, dayCount, KindDiscount, role)
}

// FromForwards builds a forward-rate curve.
func FromForwards(asOf time.Time, dates []time.Time, forwards []float64, dayCount string, role Role) (*CurveNodes, error) {
	return NewCurveNodes(asOf, dates, forwards, dayCount, KindForward, role)
}

// FromFlat builds a flat zero-rate curve out to maturity.
func FromFlat(asOf, maturity time.Time, zero float64, dayCount string, role Role) (*CurveNodes, error) {
	return NewCurveNodes(asOf, []time.Time{maturity}, []float64{zero}, dayCount, KindFlat, role)
}

// AsOf returns the curve reference date.
func (c *CurveNodes) AsOf() time.Time { return c.asOf }

// Kind returns the quote kind.
func (c *CurveNodes) Kind() QuoteKind { return c.kind }

// Role returns the intended usage.
func (c *CurveNodes) Role() Role { return c.role }

// DayCount returns the day count convention of the curve time axis.
func (c *CurveNodes) DayCount() string { return c.dayCount }

// Nodes returns the (date, quote) pillars in order.
func (c *CurveNodes) Nodes() []Node {
	out := make([]Node, len(c.dates))
	for i := range c.dates {
		out[i] = Node{Date: c.dates[i], Quote: c.quotes[i]}
	}
	return out
}

// cachedHandle returns the interpolating term structure, building it on
// first use. The build is write-once; concurrent readers share the result.
func (c *CurveNodes) cachedHandle() (termStructure, error) {
	c.once.Do(func() {
		c.handle, c.handleErr = buildHandle(c)
	})
	return c.handle, c.handleErr
}

// DiscountFactor returns DF(asOf, date) via the cached handle.
func (c *CurveNodes) DiscountFactor(date time.Time) (float64, error) {
	if date.Before(c.asOf) {
		return 0, fmt.Errorf("%w: discount query %s before curve date %s",
			ErrConfiguration, date.Format("2006-01-02"), c.asOf.Format("2006-01-02"))
	}
	h, err := c.cachedHandle()
	if err != nil {
		return 0, err
	}
	return h.df(date), nil
}

// ZeroRate returns the continuously-compounded zero rate to date, as a decimal.
func (c *CurveNodes) ZeroRate(date time.Time) (float64, error) {
	df, err := c.DiscountFactor(date)
	if err != nil {
		return 0, err
	}
	t := yearFrac(c, date)
	if t <= 0 {
		return 0, nil
	}
	return -math.Log(df) / t, nil
}

// Bump returns a new curve representing a parallel shift of bp basis points.
//
// Zero, flat and forward quotes are shifted directly by bp/1e4. Discount
// factors are converted to implied continuously-compounded zeros, shifted,
// and converted back; nodes at or before asOf are left unchanged.
func (c *CurveNodes) Bump(bp float64) (*CurveNodes, error) {
	shift := bp / 10_000.0

	switch c.kind {
	case KindZero, KindFlat, KindForward:
		quotes := make([]float64, len(c.quotes))
		for i, q := range c.quotes {
			quotes[i] = q + shift
		}
		return NewCurveNodes(c.asOf, c.dates, quotes, c.dayCount, c.kind, c.role)

	case KindDiscount:
		quotes := make([]float64, len(c.quotes))
		for i, df := range c.quotes {
			t := yearFrac(c, c.dates[i])
			if t <= 0 {
				quotes[i] = df
				continue
			}
			r := -math.Log(df) / t
			quotes[i] = math.Exp(-(r + shift) * t)
		}
		return NewCurveNodes(c.asOf, c.dates, quotes, c.dayCount, c.kind, c.role)

	default:
		return nil, fmt.Errorf("%w: unsupported quote kind %q", ErrConfiguration, c.kind)
	}
}
