// Package schedule generates business-day adjusted payment schedules.
//
// The generation conventions are fixed system-wide: periods roll forward from
// the issue date, intermediate dates use Modified Following, the termination
// date uses Preceding, and no end-of-month roll is applied.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/pricinglib/calendar"
	"github.com/meenmo/pricinglib/utils"
)

// Tenor is a period expressed in whole months.
type Tenor int

const (
	Monthly    Tenor = 1
	Quarterly  Tenor = 3
	Semiannual Tenor = 6
	Annual     Tenor = 12
)

// Months returns the tenor length in months.
func (t Tenor) Months() int { return int(t) }

func (t Tenor) String() string {
	if t%12 == 0 {
		return fmt.Sprintf("%dY", t/12)
	}
	return fmt.Sprintf("%dM", int(t))
}

// ParseTenor reads tenor strings like "6M", "1Y".
func ParseTenor(s string) (Tenor, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("ParseTenor: empty tenor")
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("ParseTenor: %q: %w", s, err)
	}
	switch unit {
	case 'M':
		return Tenor(n), nil
	case 'Y':
		return Tenor(12 * n), nil
	default:
		return 0, fmt.Errorf("ParseTenor: unsupported unit in %q", s)
	}
}

// Generate builds the adjusted payment date boundaries from issue to maturity
// stepped by tenor. The first element is the adjusted issue date and the last
// is the adjusted maturity; coupon periods run between consecutive elements.
func Generate(issue, maturity time.Time, tenor Tenor, cal calendar.CalendarID) ([]time.Time, error) {
	if maturity.Before(issue) {
		return nil, fmt.Errorf("schedule.Generate: maturity %s before issue %s",
			maturity.Format("2006-01-02"), issue.Format("2006-01-02"))
	}
	if tenor <= 0 {
		return nil, fmt.Errorf("schedule.Generate: unsupported tenor %d", tenor)
	}

	dates := make([]time.Time, 0, 64)
	dates = append(dates, calendar.Adjust(cal, issue))

	months := tenor.Months()
	for i := 1; ; i++ {
		next := utils.AddMonth(issue, i*months)
		if next.After(maturity.AddDate(0, 0, -1)) {
			break
		}
		dates = append(dates, calendar.Adjust(cal, next))
	}

	end := calendar.AdjustPreceding(cal, maturity)
	if end.After(dates[len(dates)-1]) {
		dates = append(dates, end)
	}
	return dates, nil
}
