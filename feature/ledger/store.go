package ledger

import (
	"context"
	"fmt"

	"airdrop-ledger/core/database"
	"airdrop-ledger/feature/ledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the persistence boundary of the ledger.
type Store interface {
	// SumByUsers aggregates allocated and consumed amounts per address.
	// Addresses without rows produce no entry.
	SumByUsers(ctx context.Context, airdropID uint64, addresses []string) ([]models.UserTotals, error)
	// ListAdjustable returns the user's rows eligible for dir, ordered by id.
	ListAdjustable(ctx context.Context, airdropID uint64, userAddress string, dir Direction) ([]models.LedgerRow, error)
	// ApplyDelta applies a guarded single-row update and reports how many
	// rows it changed (0 when the guard no longer holds).
	ApplyDelta(ctx context.Context, rowID uint64, dir Direction, amount decimal.Decimal) (int64, error)
	// FindViolations returns rows breaking 0 <= used <= amount. A zero
	// airdropID scans every campaign.
	FindViolations(ctx context.Context, airdropID uint64) ([]models.LedgerRow, error)
	// CampaignTotals summarises rows per campaign. A zero airdropID covers
	// every campaign.
	CampaignTotals(ctx context.Context, airdropID uint64) ([]models.CampaignTotals, error)
}

// NewStore returns the store for db's dialect. SQLite has no exact
// DECIMAL(65,0), so it gets a TextStore.
func NewStore(db *gorm.DB) Store {
	if db != nil && db.Dialector.Name() == database.DriverSQLite {
		return NewTextStore(db)
	}
	return NewGormStore(db)
}

// GormStore implements Store on the user_airdrop_details table, with the
// arithmetic and guards evaluated by MySQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// SumByUsers implements Store.
func (s *GormStore) SumByUsers(ctx context.Context, airdropID uint64, addresses []string) ([]models.UserTotals, error) {
	var totals []models.UserTotals
	err := s.db.WithContext(ctx).
		Model(&models.LedgerRow{}).
		Select("user_address, CAST(SUM(airdrop_amount) AS CHAR) AS total_amount, CAST(SUM(airdrop_used_amount) AS CHAR) AS total_used_amount").
		Where("airdrop_id = ? AND user_address IN ?", airdropID, addresses).
		Group("user_address").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	return totals, nil
}

// ListAdjustable implements Store.
func (s *GormStore) ListAdjustable(ctx context.Context, airdropID uint64, userAddress string, dir Direction) ([]models.LedgerRow, error) {
	var rows []models.LedgerRow
	err := s.db.WithContext(ctx).
		Where("airdrop_id = ? AND user_address = ?", airdropID, userAddress).
		Where(dir.eligibility()).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s candidates: %w", dir, err)
	}
	return rows, nil
}

// ApplyDelta implements Store.
func (s *GormStore) ApplyDelta(ctx context.Context, rowID uint64, dir Direction, amount decimal.Decimal) (int64, error) {
	amt := amount.StringFixed(0)
	result := s.db.WithContext(ctx).
		Model(&models.LedgerRow{}).
		Where(dir.guard(), rowID, amt).
		Update("airdrop_used_amount", gorm.Expr(dir.delta(), amt))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to %s row %d: %w", dir, rowID, result.Error)
	}
	return result.RowsAffected, nil
}

// FindViolations implements Store.
func (s *GormStore) FindViolations(ctx context.Context, airdropID uint64) ([]models.LedgerRow, error) {
	q := s.db.WithContext(ctx).
		Where("(airdrop_used_amount < 0 OR airdrop_amount < 0 OR airdrop_used_amount > airdrop_amount)")
	if airdropID != 0 {
		q = q.Where("airdrop_id = ?", airdropID)
	}

	var rows []models.LedgerRow
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to scan for invariant violations: %w", err)
	}
	return rows, nil
}

// CampaignTotals implements Store.
func (s *GormStore) CampaignTotals(ctx context.Context, airdropID uint64) ([]models.CampaignTotals, error) {
	q := s.db.WithContext(ctx).
		Model(&models.LedgerRow{}).
		Select("airdrop_id, COUNT(*) AS row_count, COUNT(DISTINCT user_address) AS user_count, " +
			"CAST(SUM(airdrop_amount) AS CHAR) AS total_amount, CAST(SUM(airdrop_used_amount) AS CHAR) AS total_used_amount")
	if airdropID != 0 {
		q = q.Where("airdrop_id = ?", airdropID)
	}

	var totals []models.CampaignTotals
	if err := q.Group("airdrop_id").Order("airdrop_id ASC").Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate campaign totals: %w", err)
	}
	return totals, nil
}
