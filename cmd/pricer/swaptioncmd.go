package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meenmo/pricinglib/curve"
	"github.com/meenmo/pricinglib/index"
	"github.com/meenmo/pricinglib/instrument"
	"github.com/meenmo/pricinglib/utils"
)

func newSwaptionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swaption",
		Short: "Swaption valuation and implied volatility",
	}
	cmd.AddCommand(newSwaptionPriceCmd(a))
	cmd.AddCommand(newSwaptionImpliedVolCmd(a))
	return cmd
}

func loadSwaption(a *app) (*instrument.Swaption, *loadedMarket, error) {
	in, err := loadInput(a.inputPath)
	if err != nil {
		return nil, nil, err
	}
	disc, forecast, err := in.curves()
	if err != nil {
		return nil, nil, err
	}
	idx, err := in.forwardIndex(forecast)
	if err != nil {
		return nil, nil, err
	}
	irs, err := in.buildSwap(idx)
	if err != nil {
		return nil, nil, err
	}
	sw, err := in.buildSwaption(irs)
	if err != nil {
		return nil, nil, err
	}
	return sw, &loadedMarket{disc: disc, idx: idx}, nil
}

type loadedMarket struct {
	disc *curve.CurveNodes
	idx  *index.ForwardRateIndex
}

func newSwaptionPriceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Mark-to-market and vega of the swaption",
		RunE: func(cmd *cobra.Command, args []string) error {
			sw, mkt, err := loadSwaption(a)
			if err != nil {
				return err
			}
			npv, err := sw.MarkToMarket(mkt.disc, mkt.idx)
			if err != nil {
				return err
			}
			vega, err := sw.Vega(mkt.disc, mkt.idx)
			if err != nil {
				return err
			}
			atm, err := sw.ATMStrike(mkt.disc, mkt.idx)
			if err != nil {
				return err
			}
			fmt.Printf("NPV:        %s\n", money(npv))
			fmt.Printf("Vega:       %s\n", money(vega))
			fmt.Printf("ATM strike: %.6f%%\n", atm*100)
			return nil
		},
	}
}

func newSwaptionImpliedVolCmd(a *app) *cobra.Command {
	var target float64
	cmd := &cobra.Command{
		Use:   "impliedvol",
		Short: "Back out the volatility matching a target premium",
		RunE: func(cmd *cobra.Command, args []string) error {
			sw, mkt, err := loadSwaption(a)
			if err != nil {
				return err
			}
			vol, err := sw.ImpliedVolatility(target, mkt.disc, mkt.idx, instrument.ImpliedVolOptions{})
			if err != nil {
				return err
			}
			fmt.Printf("Implied vol: %g\n", utils.RoundTo(vol, 6))
			return nil
		},
	}
	cmd.Flags().Float64Var(&target, "target", 0, "target premium to match")
	cmd.MarkFlagRequired("target")
	return cmd
}
