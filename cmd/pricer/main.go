// Command pricer prices interest-rate swaps, swaptions and curves from a
// YAML trade-and-market input file.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meenmo/pricinglib/internal/logging"
)

type app struct {
	logger    zerolog.Logger
	inputPath string
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.New()}

	root := &cobra.Command{
		Use:           "pricer",
		Short:         "Price interest-rate swaps, swaptions and curves",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				a.logger = a.logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.inputPath, "input", "i", "pricer.yaml", "trade and market input file")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(newSwapCmd(a))
	root.AddCommand(newSwaptionCmd(a))
	root.AddCommand(newCurveCmd(a))
	root.AddCommand(newFixingsCmd(a))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := logging.New()
		logger.Error().Err(err).Msg("pricer failed")
		os.Exit(1)
	}
}
