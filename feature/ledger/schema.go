package ledger

import (
	"fmt"

	"airdrop-ledger/core/database"
	"airdrop-ledger/feature/campaign"
	"airdrop-ledger/feature/ledger/models"

	"gorm.io/gorm"
)

// RequiredColumns lists the user_airdrop_details columns the ledger reads or writes.
var RequiredColumns = []string{
	"id",
	"airdrop_id",
	"user_address",
	"airdrop_amount",
	"airdrop_used_amount",
}

// CheckSchema reports the ledger columns missing from the connected database.
func CheckSchema(db *gorm.DB) ([]string, error) {
	return database.MissingColumns(db, models.LedgerRow{}.TableName(), RequiredColumns)
}

// sqliteLedgerTable stores amounts as TEXT. A DECIMAL column has NUMERIC
// affinity in SQLite and values beyond int64 degrade to REAL.
const sqliteLedgerTable = `CREATE TABLE IF NOT EXISTS user_airdrop_details (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	airdrop_id INTEGER NOT NULL,
	user_address TEXT NOT NULL,
	airdrop_amount TEXT NOT NULL,
	airdrop_used_amount TEXT NOT NULL DEFAULT '0',
	grant_batch TEXT,
	created_at DATETIME,
	updated_at DATETIME
)`

var sqliteLedgerIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_airdrop_user ON user_airdrop_details (airdrop_id, user_address)",
	"CREATE INDEX IF NOT EXISTS idx_user_airdrop_details_grant_batch ON user_airdrop_details (grant_batch)",
}

// Migrate creates or updates the campaign, grant batch and ledger tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&campaign.Airdrop{}, &models.ImportedBatch{}); err != nil {
		return fmt.Errorf("failed to migrate ledger tables: %w", err)
	}

	if db.Dialector.Name() == database.DriverSQLite {
		for _, stmt := range append([]string{sqliteLedgerTable}, sqliteLedgerIndexes...) {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to migrate ledger tables: %w", err)
			}
		}
		return nil
	}

	if err := db.AutoMigrate(&models.LedgerRow{}); err != nil {
		return fmt.Errorf("failed to migrate ledger tables: %w", err)
	}

	// Addresses compare byte for byte; MySQL's default collation would fold case.
	if db.Dialector.Name() == database.DriverMySQL {
		err := db.Exec("ALTER TABLE `user_airdrop_details` MODIFY `user_address` " +
			"VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL").Error
		if err != nil {
			return fmt.Errorf("failed to set user_address collation: %w", err)
		}
	}
	return nil
}
