package mocks

import (
	"context"

	"airdrop-ledger/feature/ledger"
	"airdrop-ledger/feature/ledger/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of ledger.Store
type Store struct {
	mock.Mock
}

var _ ledger.Store = (*Store)(nil)

func (m *Store) SumByUsers(ctx context.Context, airdropID uint64, addresses []string) ([]models.UserTotals, error) {
	args := m.Called(ctx, airdropID, addresses)
	totals, _ := args.Get(0).([]models.UserTotals)
	return totals, args.Error(1)
}

func (m *Store) ListAdjustable(ctx context.Context, airdropID uint64, userAddress string, dir ledger.Direction) ([]models.LedgerRow, error) {
	args := m.Called(ctx, airdropID, userAddress, dir)
	rows, _ := args.Get(0).([]models.LedgerRow)
	return rows, args.Error(1)
}

func (m *Store) ApplyDelta(ctx context.Context, rowID uint64, dir ledger.Direction, amount decimal.Decimal) (int64, error) {
	args := m.Called(ctx, rowID, dir, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) FindViolations(ctx context.Context, airdropID uint64) ([]models.LedgerRow, error) {
	args := m.Called(ctx, airdropID)
	rows, _ := args.Get(0).([]models.LedgerRow)
	return rows, args.Error(1)
}

func (m *Store) CampaignTotals(ctx context.Context, airdropID uint64) ([]models.CampaignTotals, error) {
	args := m.Called(ctx, airdropID)
	totals, _ := args.Get(0).([]models.CampaignTotals)
	return totals, args.Error(1)
}
