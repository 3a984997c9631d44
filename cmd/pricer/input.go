package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/meenmo/pricinglib/calendar"
	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/index"
	"github.com/meenmo/pricinglib/instrument"
	"github.com/meenmo/pricinglib/marketdata"
	"github.com/meenmo/pricinglib/schedule"
	"github.com/meenmo/pricinglib/swap"
	"github.com/meenmo/pricinglib/utils"
)

// inputFile is the YAML trade-and-market file the pricer commands consume.
type inputFile struct {
	ValuationDate string       `mapstructure:"valuation_date"`
	Currency      string       `mapstructure:"currency"`
	DiscountCurve curveInput   `mapstructure:"discount_curve"`
	ForecastCurve *curveInput  `mapstructure:"forecast_curve"`
	Index         string       `mapstructure:"index"`
	Swap          *swapInput   `mapstructure:"swap"`
	Swaption      *optionInput `mapstructure:"swaption"`
}

type curveInput struct {
	Kind     string      `mapstructure:"kind"`      // zero|discount|forward|flat
	DayCount string      `mapstructure:"day_count"` // defaults to ACT/365
	CSV      string      `mapstructure:"csv"`       // alternative to inline nodes
	Nodes    []nodeInput `mapstructure:"nodes"`
}

type nodeInput struct {
	Date  string  `mapstructure:"date"`
	Quote float64 `mapstructure:"quote"`
}

type swapInput struct {
	IssueDate     string  `mapstructure:"issue_date"`
	MaturityDate  string  `mapstructure:"maturity_date"`
	Notional      float64 `mapstructure:"notional"`
	FixedRate     float64 `mapstructure:"fixed_rate"`
	FixedTenor    string  `mapstructure:"fixed_tenor"` // e.g. 1Y
	FloatTenor    string  `mapstructure:"float_tenor"` // e.g. 6M
	PayFixed      bool    `mapstructure:"pay_fixed"`
	Spread        float64 `mapstructure:"spread"`
	Gearing       float64 `mapstructure:"gearing"`
	Calendar      string  `mapstructure:"calendar"`
	FixedDayCount string  `mapstructure:"fixed_day_count"`
	FloatDayCount string  `mapstructure:"float_day_count"`
}

type optionInput struct {
	Expiries   []string `mapstructure:"expiries"`
	Strike     *float64 `mapstructure:"strike"`
	Volatility float64  `mapstructure:"volatility"`
	VolType    string   `mapstructure:"vol_type"`
	Settlement string   `mapstructure:"settlement"`
	Short      bool     `mapstructure:"short"`
}

func loadInput(path string) (*inputFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	var in inputFile
	if err := v.Unmarshal(&in); err != nil {
		return nil, fmt.Errorf("decode input file: %w", err)
	}
	if in.ValuationDate == "" {
		return nil, fmt.Errorf("%w: valuation_date is required", curve.ErrConfiguration)
	}
	return &in, nil
}

func (in *inputFile) valuationDate() (time.Time, error) {
	return utils.ParseDate(in.ValuationDate)
}

func (ci *curveInput) build(asOf time.Time) (*curve.CurveNodes, error) {
	kind := curve.QuoteKind(ci.Kind)
	if ci.Kind == "" {
		kind = curve.KindZero
	}
	dayCount := ci.DayCount
	if dayCount == "" {
		dayCount = "ACT/365"
	}
	if ci.CSV != "" {
		return marketdata.LoadCurveNodes(ci.CSV, asOf, kind, dayCount)
	}
	dates := make([]time.Time, 0, len(ci.Nodes))
	quotes := make([]float64, 0, len(ci.Nodes))
	for i, n := range ci.Nodes {
		d, err := utils.ParseDate(n.Date)
		if err != nil {
			return nil, fmt.Errorf("curve node %d: %w", i+1, err)
		}
		dates = append(dates, d)
		quotes = append(quotes, n.Quote)
	}
	return curve.NewCurveNodes(asOf, dates, quotes, dayCount, kind, curve.RoleOther)
}

// curves builds the discount curve and, when configured, a distinct
// forecast curve. The forecast curve defaults to the discount curve.
func (in *inputFile) curves() (disc, forecast *curve.CurveNodes, err error) {
	asOf, err := in.valuationDate()
	if err != nil {
		return nil, nil, err
	}
	disc, err = in.DiscountCurve.build(asOf)
	if err != nil {
		return nil, nil, fmt.Errorf("discount curve: %w", err)
	}
	forecast = disc
	if in.ForecastCurve != nil {
		forecast, err = in.ForecastCurve.build(asOf)
		if err != nil {
			return nil, nil, fmt.Errorf("forecast curve: %w", err)
		}
	}
	return disc, forecast, nil
}

func (in *inputFile) forwardIndex(forecast *curve.CurveNodes) (*index.ForwardRateIndex, error) {
	name := in.Index
	if name == "" {
		name = "EURIBOR6M"
	}
	var idx *index.ForwardRateIndex
	switch name {
	case "EURIBOR6M":
		idx = index.Euribor6M(forecast)
	case "EURIBOR3M":
		idx = index.Euribor3M(forecast)
	case "USDLIBOR3M":
		idx = index.USDLibor3M(forecast)
	case "SOFR":
		idx = index.SOFR(forecast)
	default:
		return nil, fmt.Errorf("%w: unknown index %q", curve.ErrConfiguration, name)
	}
	return idx, nil
}

func (in *inputFile) buildSwap(idx *index.ForwardRateIndex) (*swap.InterestRateSwap, error) {
	if in.Swap == nil {
		return nil, fmt.Errorf("%w: swap section is required", curve.ErrConfiguration)
	}
	si := in.Swap

	asOf, err := in.valuationDate()
	if err != nil {
		return nil, err
	}
	issue, err := utils.ParseDate(si.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("issue_date: %w", err)
	}
	maturity, err := utils.ParseDate(si.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("maturity_date: %w", err)
	}

	fixedTenor, err := parseTenorDefault(si.FixedTenor, schedule.Annual)
	if err != nil {
		return nil, fmt.Errorf("fixed_tenor: %w", err)
	}
	floatTenor, err := parseTenorDefault(si.FloatTenor, schedule.Semiannual)
	if err != nil {
		return nil, fmt.Errorf("float_tenor: %w", err)
	}

	cal := calendar.CalendarID(si.Calendar)
	if si.Calendar == "" {
		cal = calendar.TARGET
	}
	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}
	fixedDC := si.FixedDayCount
	if fixedDC == "" {
		fixedDC = "30E/360"
	}
	floatDC := si.FloatDayCount
	if floatDC == "" {
		floatDC = "ACT/360"
	}
	gearing := si.Gearing
	if gearing == 0 {
		gearing = 1
	}

	fixedTerms := swap.Leg{
		ValuationDate: asOf,
		IssueDate:     issue,
		Maturity:      maturity,
		Currency:      currency,
		Nominal:       si.Notional,
		Tenor:         fixedTenor,
		Calendar:      cal,
		DayCount:      fixedDC,
	}
	floatTerms := fixedTerms
	floatTerms.Tenor = floatTenor
	floatTerms.DayCount = floatDC

	fixed, err := swap.NewFixedLeg(fixedTerms, si.FixedRate)
	if err != nil {
		return nil, err
	}
	floating, err := swap.NewFloatingLeg(floatTerms, gearing, si.Spread, idx)
	if err != nil {
		return nil, err
	}

	if si.PayFixed {
		return swap.NewInterestRateSwap(fixed, floating)
	}
	return swap.NewInterestRateSwap(floating, fixed)
}

func (in *inputFile) buildSwaption(irs *swap.InterestRateSwap) (*instrument.Swaption, error) {
	if in.Swaption == nil {
		return nil, fmt.Errorf("%w: swaption section is required", curve.ErrConfiguration)
	}
	oi := in.Swaption

	expiries := make([]time.Time, 0, len(oi.Expiries))
	for i, s := range oi.Expiries {
		d, err := utils.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("expiry %d: %w", i+1, err)
		}
		expiries = append(expiries, d)
	}

	return instrument.NewSwaption(instrument.SwaptionSpec{
		Swap:       irs,
		Expiries:   expiries,
		Strike:     oi.Strike,
		Volatility: oi.Volatility,
		VolType:    instrument.VolType(oi.VolType),
		Settlement: instrument.Settlement(oi.Settlement),
		Short:      oi.Short,
	})
}

func parseTenorDefault(s string, def schedule.Tenor) (schedule.Tenor, error) {
	if s == "" {
		return def, nil
	}
	return schedule.ParseTenor(s)
}
