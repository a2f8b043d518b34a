package commands

import (
	"fmt"

	"escrow-wizard/internal/escrow/fees"
	"escrow-wizard/internal/render"

	"github.com/spf13/cobra"
)

// fees --total N: print the platform fee and grand total for a milestone total.
func feesCmd(a *app) *cobra.Command {
	var (
		total int64
		rate  string
	)

	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Show the platform fee and total to fund for a milestone total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if total < 0 {
				return fmt.Errorf("--total must not be negative")
			}
			if rate == "" {
				rate = a.cfg.Escrow.PlatformFeeRate
			}
			calc, err := fees.NewCalculator(rate)
			if err != nil {
				return err
			}
			summary := calc.Summary(total)
			return a.emit(render.Summary(a.styles, a.cfg.Escrow.Currency, summary), summary)
		},
	}
	cmd.Flags().Int64Var(&total, "total", 0, "sum of all milestone amounts")
	cmd.Flags().StringVar(&rate, "rate", "", "fee rate override, e.g. 0.025")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}
