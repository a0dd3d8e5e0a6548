// Transaction commands: list financial transactions and the portfolio
// summary.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/semilla-app/semilla/pkg/types"
)

var (
	txListKind   string
	txListTicker string
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Work with financial transactions",
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List financial transactions",
	Long: `List fetches the owner's financial transactions.

Example:
  semilla tx list
  semilla tx list --kind buy --ticker VWCE
  semilla tx list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := openApp()
		if err != nil {
			return err
		}
		defer closeFn()

		filter := make(map[string]any)
		if txListKind != "" {
			filter["kind"] = txListKind
		}
		if txListTicker != "" {
			filter["ticker"] = txListTicker
		}

		txs, err := a.stores.Financial.List(cmd.Context(), a.ownerID, filter)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}

		if flagJSON {
			return printJSON(txs)
		}

		printTxTable(txs)
		return nil
	},
}

var txSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the portfolio summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := openApp()
		if err != nil {
			return err
		}
		defer closeFn()

		prices, err := configPrices(a.cfg)
		if err != nil {
			return err
		}
		summary, err := a.stores.Financial.Summary(cmd.Context(), a.ownerID, prices)
		if err != nil {
			return fmt.Errorf("portfolio summary: %w", err)
		}

		if flagJSON {
			return printJSON(summary)
		}

		fmt.Println("Invested:", summary.TotalInvested.StringFixed(2))
		fmt.Println("Fees:    ", summary.TotalFees.StringFixed(2))
		fmt.Println("Current: ", summary.CurrentValue.StringFixed(2))
		for _, inst := range summary.Instruments {
			fmt.Printf("  %s: %s units, %s invested, %s%% return\n",
				inst.Ticker, inst.Units.String(),
				inst.Invested.StringFixed(2), inst.ReturnPercent.StringFixed(2))
		}
		fmt.Printf("Total: %d transaction(s)\n", summary.TransactionCount)
		return nil
	},
}

func init() {
	txListCmd.Flags().StringVar(&txListKind, "kind", "", "filter by kind (buy, contribution, dividend, fee)")
	txListCmd.Flags().StringVar(&txListTicker, "ticker", "", "filter by instrument ticker")

	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txSummaryCmd)
}

// printTxTable prints transactions in a human-readable table format.
func printTxTable(txs []types.FinancialTransaction) {
	if len(txs) == 0 {
		fmt.Println("No transactions found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "DATE\tKIND\tTICKER\tUNITS\tAMOUNT\tCURRENCY")
	fmt.Fprintln(w, "----\t----\t------\t-----\t------\t--------")
	for _, tx := range txs {
		ticker := tx.Ticker
		if ticker == "" {
			ticker = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.Date.Format("2006-01-02"),
			tx.Kind,
			ticker,
			tx.Units.String(),
			tx.TotalAmount.StringFixed(2),
			tx.Currency,
		)
	}
	w.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}
	fmt.Printf("Total: %d transaction(s)\n", len(txs))
}
