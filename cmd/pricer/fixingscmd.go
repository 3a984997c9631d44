package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meenmo/pricinglib/marketdata"
	"github.com/meenmo/pricinglib/utils"
)

func newFixingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixings",
		Short: "Manage the index fixing history in Postgres",
	}
	cmd.PersistentFlags().String("dsn", os.Getenv("PRICER_PG_DSN"), "Postgres DSN (defaults to $PRICER_PG_DSN)")
	cmd.AddCommand(newFixingsLoadCmd(a))
	cmd.AddCommand(newFixingsShowCmd(a))
	return cmd
}

func newFixingsLoadCmd(a *app) *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load fixings from a CSV file into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, _ := cmd.Flags().GetString("dsn")
			ctx := cmd.Context()

			fixings, err := marketdata.LoadFixings(csvPath)
			if err != nil {
				return err
			}
			store, err := marketdata.OpenFixingStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := store.Upsert(ctx, fixings); err != nil {
				return err
			}
			a.logger.Info().Int("count", len(fixings)).Str("file", csvPath).Msg("fixings loaded")
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "fixings CSV file (index,date,fixing)")
	cmd.MarkFlagRequired("csv")
	return cmd
}

func newFixingsShowCmd(a *app) *cobra.Command {
	var indexName, from, to string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored fixings of an index over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, _ := cmd.Flags().GetString("dsn")
			ctx := cmd.Context()

			fromDate, err := utils.ParseDate(from)
			if err != nil {
				return err
			}
			toDate, err := utils.ParseDate(to)
			if err != nil {
				return err
			}

			store, err := marketdata.OpenFixingStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			history, err := store.History(ctx, indexName, fromDate, toDate)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Date\tFixing\t")
			for _, f := range history {
				fmt.Fprintf(w, "%s\t%.6f\t\n", f.Date.Format("2006-01-02"), f.Value)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&indexName, "index", "EURIBOR6M", "index name")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
