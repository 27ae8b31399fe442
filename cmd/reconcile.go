package cmd

import (
	"fmt"

	"airdrop-ledger/feature/ledger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	auditCampaign string
	auditJSON     bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Verify stored ledger state",
}

// ledgerReconcileCmd audits ledger rows for consumption outside their grant.
var ledgerReconcileCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Audit ledger rows against 0 <= used <= amount",
	Long: `Scans user_airdrop_details for rows whose consumed amount is negative or
exceeds the allocation, and reports per-campaign totals. Read-only.

Examples:
  # Every campaign
  reconcile ledger

  # One campaign, machine readable
  reconcile ledger --campaign 0xDropContract --json`,
	RunE: runLedgerReconcile,
}

func init() {
	reconcileCmd.AddCommand(ledgerReconcileCmd)

	ledgerReconcileCmd.Flags().StringVar(&auditCampaign, "campaign", "", "Contract address of the campaign to audit (default all)")
	ledgerReconcileCmd.Flags().BoolVar(&auditJSON, "json", false, "Print the full report as JSON")

	RootCmd.AddCommand(reconcileCmd)
}

func runLedgerReconcile(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	rt.logger.Info("Starting ledger audit", zap.String("campaign", auditCampaign))

	report, err := rt.service().Audit(cmd.Context(), auditCampaign)
	if err != nil {
		return fmt.Errorf("failed to audit ledger: %w", err)
	}

	if auditJSON {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printAuditReport(rt.logger, report)
	}

	if !report.Healthy() {
		return fmt.Errorf("%d ledger rows violate their grant bounds", len(report.Violations))
	}
	return nil
}

// printAuditReport prints a formatted audit report using logger.
func printAuditReport(l *zap.Logger, report *ledger.AuditReport) {
	for _, c := range report.Campaigns {
		l.Info("Campaign totals",
			zap.Uint64("airdrop_id", c.AirdropID),
			zap.Int64("rows", c.RowCount),
			zap.Int64("users", c.UserCount),
			zap.String("allocated", c.TotalAmount),
			zap.String("consumed", c.TotalUsedAmount),
		)
	}

	maxShow := 5
	if len(report.Violations) < maxShow {
		maxShow = len(report.Violations)
	}
	for _, row := range report.Violations[:maxShow] {
		l.Warn("Invariant violation",
			zap.Uint64("row_id", row.ID),
			zap.Uint64("airdrop_id", row.AirdropID),
			zap.String("user_address", row.UserAddress),
			zap.String("amount", row.AirdropAmount.String()),
			zap.String("used", row.AirdropUsedAmount.String()),
		)
	}
	if len(report.Violations) > maxShow {
		l.Warn("Additional violations not shown", zap.Int("count", len(report.Violations)-maxShow))
	}
}
