package cmd

import (
	"fmt"

	"airdrop-ledger/core/config"
	"airdrop-ledger/core/database"
	"airdrop-ledger/core/logger"
	"airdrop-ledger/feature/campaign"
	"airdrop-ledger/feature/ledger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every ledger command needs.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	resolver campaign.Resolver
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &runtime{
		cfg:      cfg,
		logger:   l,
		db:       db,
		resolver: campaign.NewCachedResolver(campaign.NewDBResolver(db), cfg.Ledger.CampaignCacheTTL(), cfg.Ledger.CampaignCacheSize),
	}, nil
}

// service builds the ledger service for this runtime.
func (r *runtime) service() *ledger.Service {
	return ledger.NewService(r.db, r.resolver, r.logger)
}

// prepareSchema migrates when asked, then verifies the ledger columns exist.
func (r *runtime) prepareSchema(migrate bool) error {
	if migrate {
		r.logger.Info("Migrating ledger schema")
		if err := ledger.Migrate(r.db); err != nil {
			return err
		}
	}

	missing, err := ledger.CheckSchema(r.db)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("user_airdrop_details is missing columns %v; run with --migrate", missing)
	}
	return nil
}

func (r *runtime) close() {
	_ = r.logger.Sync()
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
