package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/index"
	"github.com/meenmo/pricinglib/internal/logging"
	"github.com/meenmo/pricinglib/swap"
)

func newSwapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Interest-rate swap valuation and risk",
	}
	cmd.AddCommand(newSwapNPVCmd(a))
	cmd.AddCommand(newSwapRiskCmd(a))
	cmd.AddCommand(newSwapCashflowsCmd(a))
	return cmd
}

// loadSwap assembles the curves, index and swap from the input file.
func loadSwap(a *app) (*swap.InterestRateSwap, *curve.CurveNodes, *curve.CurveNodes, *index.ForwardRateIndex, error) {
	in, err := loadInput(a.inputPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	disc, forecast, err := in.curves()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	idx, err := in.forwardIndex(forecast)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	irs, err := in.buildSwap(idx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return irs, disc, forecast, idx, nil
}

func newSwapNPVCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "npv",
		Short: "Mark-to-market of the swap",
		RunE: func(cmd *cobra.Command, args []string) error {
			irs, disc, _, idx, err := loadSwap(a)
			if err != nil {
				return err
			}
			npv, err := irs.MarkToMarket(disc, idx)
			if err != nil {
				return err
			}
			logger := logging.WithInstrument(a.logger, "swap")
			logger.Debug().Float64("npv", npv).Msg("priced swap")
			fmt.Printf("NPV (%s): %s\n", irs.Currency(), money(npv))
			return nil
		},
	}
}

func newSwapRiskCmd(a *app) *cobra.Command {
	var bumpBP float64
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "PV01, DV01 and bump-and-reprice IR01s",
		RunE: func(cmd *cobra.Command, args []string) error {
			irs, disc, forecast, idx, err := loadSwap(a)
			if err != nil {
				return err
			}

			pv01, err := irs.PV01(disc, idx)
			if err != nil {
				return err
			}
			dv01, err := irs.DV01(disc, idx)
			if err != nil {
				return err
			}
			ir01Disc, err := irs.IR01Discount(disc, idx, bumpBP)
			if err != nil {
				return err
			}
			ir01Fcst, err := irs.IR01Forecast(forecast, disc, idx, bumpBP)
			if err != nil {
				return err
			}
			fair, err := irs.FairRate(disc, idx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Fair rate\t%.6f%%\n", fair*100)
			fmt.Fprintf(w, "PV01\t%s\n", money(pv01))
			fmt.Fprintf(w, "DV01\t%s\n", money(dv01))
			fmt.Fprintf(w, "IR01 (discount, %.2fbp)\t%s\n", bumpBP, money(ir01Disc))
			fmt.Fprintf(w, "IR01 (forecast, %.2fbp)\t%s\n", bumpBP, money(ir01Fcst))
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&bumpBP, "bump", 1.0, "bump size in basis points")
	return cmd
}

func newSwapCashflowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cashflows",
		Short: "Projected cashflow table of both legs",
		RunE: func(cmd *cobra.Command, args []string) error {
			irs, disc, _, idx, err := loadSwap(a)
			if err != nil {
				return err
			}
			rows, err := irs.CashflowRows(disc, idx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Date\tPay\tReceive\tNet\tDF\tPV\t")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.6f\t%s\t\n",
					row.Date.Format("2006-01-02"),
					money(row.Pay), money(row.Receive), money(row.Net),
					row.DiscountFactor, money(row.PresentValue))
			}
			return w.Flush()
		},
	}
}

// money renders an amount with two decimals and exact rounding.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
