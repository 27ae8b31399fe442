package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"airdrop-ledger/feature/ledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TextStore implements Store for databases without an exact 65-digit decimal
// type, such as SQLite. Amounts are kept as canonical decimal text; sums and
// comparisons run in Go, and updates compare-and-swap on the consumed value.
type TextStore struct {
	db *gorm.DB
}

// NewTextStore creates a text-backed store over db.
func NewTextStore(db *gorm.DB) *TextStore {
	return &TextStore{db: db}
}

// SumByUsers implements Store.
func (s *TextStore) SumByUsers(ctx context.Context, airdropID uint64, addresses []string) ([]models.UserTotals, error) {
	var rows []models.LedgerRow
	err := s.db.WithContext(ctx).
		Where("airdrop_id = ? AND user_address IN ?", airdropID, addresses).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}

	index := make(map[string]int)
	var amounts, used []decimal.Decimal
	var totals []models.UserTotals
	for _, row := range rows {
		n, ok := index[row.UserAddress]
		if !ok {
			n = len(totals)
			index[row.UserAddress] = n
			totals = append(totals, models.UserTotals{UserAddress: row.UserAddress})
			amounts = append(amounts, decimal.Zero)
			used = append(used, decimal.Zero)
		}
		amounts[n] = amounts[n].Add(row.AirdropAmount)
		used[n] = used[n].Add(row.AirdropUsedAmount)
	}
	for n := range totals {
		totals[n].TotalAmount = amounts[n].String()
		totals[n].TotalUsedAmount = used[n].String()
	}
	return totals, nil
}

// ListAdjustable implements Store.
func (s *TextStore) ListAdjustable(ctx context.Context, airdropID uint64, userAddress string, dir Direction) ([]models.LedgerRow, error) {
	var rows []models.LedgerRow
	err := s.db.WithContext(ctx).
		Where("airdrop_id = ? AND user_address = ?", airdropID, userAddress).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s candidates: %w", dir, err)
	}

	eligible := rows[:0]
	for _, row := range rows {
		if dir.eligible(row) {
			eligible = append(eligible, row)
		}
	}
	return eligible, nil
}

// ApplyDelta implements Store. The update only lands if the consumed value
// is still the one the guard was checked against.
func (s *TextStore) ApplyDelta(ctx context.Context, rowID uint64, dir Direction, amount decimal.Decimal) (int64, error) {
	var row models.LedgerRow
	err := s.db.WithContext(ctx).Where("id = ?", rowID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to %s row %d: %w", dir, rowID, err)
	}

	used, ok := dir.next(row, amount)
	if !ok {
		return 0, nil
	}

	result := s.db.WithContext(ctx).
		Model(&models.LedgerRow{}).
		Where("id = ? AND airdrop_used_amount = ?", rowID, row.AirdropUsedAmount.String()).
		Update("airdrop_used_amount", used.String())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to %s row %d: %w", dir, rowID, result.Error)
	}
	return result.RowsAffected, nil
}

// FindViolations implements Store.
func (s *TextStore) FindViolations(ctx context.Context, airdropID uint64) ([]models.LedgerRow, error) {
	rows, err := s.scan(ctx, airdropID)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for invariant violations: %w", err)
	}

	var violations []models.LedgerRow
	for _, row := range rows {
		if row.AirdropUsedAmount.IsNegative() || row.AirdropAmount.IsNegative() ||
			row.AirdropUsedAmount.GreaterThan(row.AirdropAmount) {
			violations = append(violations, row)
		}
	}
	return violations, nil
}

// CampaignTotals implements Store.
func (s *TextStore) CampaignTotals(ctx context.Context, airdropID uint64) ([]models.CampaignTotals, error) {
	rows, err := s.scan(ctx, airdropID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate campaign totals: %w", err)
	}

	type sums struct {
		rows, users  int64
		amount, used decimal.Decimal
		seen         map[string]struct{}
	}
	byCampaign := make(map[uint64]*sums)
	for _, row := range rows {
		c, ok := byCampaign[row.AirdropID]
		if !ok {
			c = &sums{seen: make(map[string]struct{})}
			byCampaign[row.AirdropID] = c
		}
		c.rows++
		if _, dup := c.seen[row.UserAddress]; !dup {
			c.seen[row.UserAddress] = struct{}{}
			c.users++
		}
		c.amount = c.amount.Add(row.AirdropAmount)
		c.used = c.used.Add(row.AirdropUsedAmount)
	}

	totals := make([]models.CampaignTotals, 0, len(byCampaign))
	for id, c := range byCampaign {
		totals = append(totals, models.CampaignTotals{
			AirdropID:       id,
			RowCount:        c.rows,
			UserCount:       c.users,
			TotalAmount:     c.amount.String(),
			TotalUsedAmount: c.used.String(),
		})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].AirdropID < totals[j].AirdropID })
	return totals, nil
}

func (s *TextStore) scan(ctx context.Context, airdropID uint64) ([]models.LedgerRow, error) {
	q := s.db.WithContext(ctx)
	if airdropID != 0 {
		q = q.Where("airdrop_id = ?", airdropID)
	}
	var rows []models.LedgerRow
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
