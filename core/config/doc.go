// Package config provides configuration management for the airdrop ledger.
//
// It uses Viper for loading configuration from environment variables and an
// optional .env file.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, shutdown budget
//   - Database: MySQL (or SQLite) connection details
//   - Storage: S3/MinIO credentials and the bucket holding grant batches
//   - Log: logging level and format
//   - Ledger: campaign cache TTL and grant batch prefix
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
