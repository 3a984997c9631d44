package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meenmo/pricinglib/internal/logging"
)

func newCurveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Curve inspection",
	}
	cmd.AddCommand(newCurveShowCmd(a))
	return cmd
}

func newCurveShowCmd(a *app) *cobra.Command {
	var bumpBP float64
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the discount curve pillars, zero rates and discount factors",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(a.inputPath)
			if err != nil {
				return err
			}
			disc, _, err := in.curves()
			if err != nil {
				return err
			}
			if bumpBP != 0 {
				disc, err = disc.Bump(bumpBP)
				if err != nil {
					return err
				}
			}
			logger := logging.WithCurve(a.logger, string(disc.Role()))
			logger.Debug().Int("pillars", len(disc.Nodes())).Float64("bump_bp", bumpBP).Msg("showing curve")

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "Curve as of %s (%s, %s)\t\t\t\n",
				disc.AsOf().Format("2006-01-02"), disc.Kind(), disc.DayCount())
			fmt.Fprintln(w, "Date\tZero\tDF\t")
			for _, n := range disc.Nodes() {
				zero, err := disc.ZeroRate(n.Date)
				if err != nil {
					return err
				}
				df, err := disc.DiscountFactor(n.Date)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%.6f%%\t%.8f\t\n", n.Date.Format("2006-01-02"), zero*100, df)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&bumpBP, "bump", 0, "show the curve after a parallel bump (basis points)")
	return cmd
}
