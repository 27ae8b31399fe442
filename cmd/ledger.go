package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"airdrop-ledger/feature/ledger"
	"airdrop-ledger/feature/ledger/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ledgerCmd is the parent command for direct ledger operations.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Read balances and adjust airdrop grants",
	Long: `Runs balance reads, debits and credits against the configured database.

Examples:
  ledger balances 0xDropContract 0xUserA 0xUserB
  ledger debit 0xDropContract 0xUserA 1000000000000000000
  ledger credit 0xDropContract 0xUserA 5000`,
}

var balancesCmd = &cobra.Command{
	Use:   "balances <contract> <address>...",
	Short: "Show allocated, consumed and remaining amounts per address",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		balances, err := rt.service().GetBalances(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), balances)
	},
}

var debitCmd = &cobra.Command{
	Use:   "debit <contract> <user> <amount>",
	Short: "Consume an amount from a user's grant",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjust(cmd, args, (*ledger.Service).Debit)
	},
}

var creditCmd = &cobra.Command{
	Use:   "credit <contract> <user> <amount>",
	Short: "Restore an amount to a user's grant",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjust(cmd, args, (*ledger.Service).Credit)
	},
}

type adjustOp func(*ledger.Service, context.Context, string, string, string) (models.AdjustmentLog, error)

func runAdjust(cmd *cobra.Command, args []string, op adjustOp) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	log, err := op(rt.service(), cmd.Context(), args[0], args[1], args[2])
	// The log is printed on failure too; partial adjustments are committed.
	if writeErr := writeJSON(cmd.OutOrStdout(), map[string]any{"amount_adjusted_log": log}); writeErr != nil {
		rt.logger.Warn("Failed to print adjustment log", zap.Error(writeErr))
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func init() {
	ledgerCmd.AddCommand(balancesCmd, debitCmd, creditCmd)
	RootCmd.AddCommand(ledgerCmd)
}
