package schedule_test

import (
	"testing"
	"time"

	"github.com/meenmo/pricinglib/calendar"
	"github.com/meenmo/pricinglib/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTenor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want schedule.Tenor
	}{
		{"1M", schedule.Monthly},
		{"3M", schedule.Quarterly},
		{"6M", schedule.Semiannual},
		{"1Y", schedule.Annual},
		{"5Y", schedule.Tenor(60)},
		{" 6m ", schedule.Semiannual},
	}
	for _, c := range cases {
		got, err := schedule.ParseTenor(c.in)
		if err != nil {
			t.Fatalf("ParseTenor(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseTenor(%q) mismatch: got %d want %d", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "6", "6W", "xY"} {
		if _, err := schedule.ParseTenor(bad); err == nil {
			t.Fatalf("ParseTenor(%q): expected error", bad)
		}
	}
}

func TestTenorString(t *testing.T) {
	t.Parallel()

	if got := schedule.Semiannual.String(); got != "6M" {
		t.Fatalf("String mismatch: got %s", got)
	}
	if got := schedule.Tenor(24).String(); got != "2Y" {
		t.Fatalf("String mismatch: got %s", got)
	}
}

func TestGenerate_AnnualCounts(t *testing.T) {
	t.Parallel()

	dates, err := schedule.Generate(date(2026, 6, 30), date(2031, 6, 30), schedule.Annual, calendar.TARGET)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	// issue + 4 intermediate anniversaries + maturity = 6 boundaries
	if len(dates) != 6 {
		t.Fatalf("expected 6 boundaries, got %d", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Fatalf("dates not strictly increasing at %d", i)
		}
	}
	for _, d := range dates {
		if !calendar.IsBusinessDay(calendar.TARGET, d) {
			t.Fatalf("unadjusted boundary %s", d.Format("2006-01-02"))
		}
	}
}

func TestGenerate_SemiannualCounts(t *testing.T) {
	t.Parallel()

	dates, err := schedule.Generate(date(2026, 6, 30), date(2031, 6, 30), schedule.Semiannual, calendar.TARGET)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(dates) != 11 {
		t.Fatalf("expected 11 boundaries, got %d", len(dates))
	}
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	if _, err := schedule.Generate(date(2026, 1, 1), date(2025, 1, 1), schedule.Annual, calendar.TARGET); err == nil {
		t.Fatalf("expected error for maturity before issue")
	}
	if _, err := schedule.Generate(date(2025, 1, 1), date(2026, 1, 1), 0, calendar.TARGET); err == nil {
		t.Fatalf("expected error for zero tenor")
	}
}
