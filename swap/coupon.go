package swap

import (
	"time"

	"github.com/meenmo/pricinglib/utils"
)

// Coupon is a single cashflow of a leg.
//
// Rate is the final coupon rate (for floating coupons, gearing and spread
// already applied). FixingDate is zero for fixed coupons.
type Coupon struct {
	AccrualStart time.Time
	AccrualEnd   time.Time
	PayDate      time.Time
	Nominal      float64
	Rate         float64
	DayCount     string
	FixingDate   time.Time
}

// Date returns the payment date.
func (c Coupon) Date() time.Time { return c.PayDate }

// Accrual returns the period year fraction under the coupon's day count.
func (c Coupon) Accrual() float64 {
	return utils.YearFraction(c.AccrualStart, c.AccrualEnd, c.DayCount)
}

// Amount returns the undiscounted cashflow.
func (c Coupon) Amount() float64 {
	return c.Nominal * c.Rate * c.Accrual()
}
