package main

import (
	"fmt"
	"time"

	"github.com/aretw0/tendero/internal/output"
	"github.com/spf13/cobra"
)

func newSalesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales <identity>",
		Short: "List the recorded sales of an identity, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ui := uiFor(cmd)
			sales, err := app.Ledger.Sales(cmd.Context(), args[0], limit)
			if err != nil {
				return fmt.Errorf("failed to list sales: %w", err)
			}
			if len(sales) == 0 {
				ui.Info("No sales recorded for %s.", args[0])
				return nil
			}

			var total float64
			table := ui.Table([]string{"ID", "Date", "Client", "Items", "Payment", "Total"})
			for _, s := range sales {
				total += s.Total
				row := []string{
					s.ID,
					s.CreatedAt.Local().Format(time.DateTime),
					s.ClientName,
					fmt.Sprint(len(s.LineItems)),
					s.PaymentMethod,
					output.Money(s.Total),
				}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}
			ui.Info("%d sales, %s", len(sales), output.Cyan(output.Money(total)))
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of sales to show (0 for all)")
	return cmd
}
