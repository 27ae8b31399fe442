package cmd

import (
	"fmt"

	"airdrop-ledger/core/storage"
	"airdrop-ledger/feature/grants"
	"airdrop-ledger/feature/ledger/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importMigrate bool

// importCmd is the parent command for data imports.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import data into the ledger",
}

// grantsImportCmd loads grant batches from object storage.
var grantsImportCmd = &cobra.Command{
	Use:   "grants",
	Short: "Create ledger rows from grant batches in object storage",
	Long: `Reads every .json grant batch under the configured prefix and inserts
one ledger row per grant. Batches already imported are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.prepareSchema(importMigrate); err != nil {
			return err
		}
		if !rt.db.Migrator().HasTable(&models.ImportedBatch{}) {
			return fmt.Errorf("grant_batches table is missing; run with --migrate")
		}

		client, err := storage.NewClient(rt.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}

		imp := grants.NewImporter(client, rt.cfg.Storage.Bucket, rt.cfg.Ledger.GrantsPrefix, rt.cfg.Ledger.ImportWorkers, rt.db, rt.resolver, rt.logger)
		report, err := imp.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to import grants: %w", err)
		}

		rt.logger.Info("Grant import finished",
			zap.Int("imported", len(report.Imported)),
			zap.Int("skipped", len(report.Skipped)),
			zap.Int("failed", len(report.Failed)),
			zap.Int("rows", report.Rows),
		)
		if len(report.Failed) > 0 {
			return fmt.Errorf("%d grant batches rejected", len(report.Failed))
		}
		return nil
	},
}

func init() {
	grantsImportCmd.Flags().BoolVar(&importMigrate, "migrate", false, "Create or update the ledger tables before importing")
	importCmd.AddCommand(grantsImportCmd)
	RootCmd.AddCommand(importCmd)
}
