// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL connections (or SQLite for local runs and
// tests) from the application's configuration.
//
// # Connect
//
// Connect opens the database named by Config.Driver, applies pool settings and
// verifies the connection with a bounded ping.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the service verify at startup that
// the ledger tables carry the columns the guarded updates depend on.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "user_airdrop_details", []string{"airdrop_amount"})
package database
