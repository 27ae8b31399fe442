package ledger

import (
	"context"
	"errors"
	"testing"

	"airdrop-ledger/feature/ledger/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestDebit_FillsRowsInIDOrder(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 0)
	seedRow(t, db, 2, testUser, 50, 0)

	log, err := svc.Debit(context.Background(), testContract, testUser, "60")
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{1: "30", 2: "30"}, logStrings(log))

	assert.Equal(t, "30", usedOf(t, db, 1))
	assert.Equal(t, "30", usedOf(t, db, 2))
}

func TestDebit_PartialShortfall(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 10, 0)

	log, err := svc.Debit(context.Background(), testContract, testUser, "25")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartiallyAdjusted)
	assert.Equal(t, KindPartiallyAdjusted, KindOf(err))
	assert.Equal(t, map[uint64]string{1: "10"}, logStrings(log))
	assert.Equal(t, log, LogOf(err))

	var le *Error
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "15", le.Remaining.String())

	// Committed rows stay committed.
	assert.Equal(t, "10", usedOf(t, db, 1))
}

func TestDebit_NoEligibleRows(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 10, 10)

	log, err := svc.Debit(context.Background(), testContract, testUser, "1")
	assert.ErrorIs(t, err, ErrNoEligibleRows)
	assert.Empty(t, log)
	assert.NotNil(t, log)

	_, err = svc.Debit(context.Background(), testContract, "0xNobody", "1")
	assert.ErrorIs(t, err, ErrNoEligibleRows)
}

func TestAdjust_NonPositiveAmountIsNoOp(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 10, 5)

	for _, amount := range []string{"0", "-5", "0e3"} {
		log, err := svc.Debit(context.Background(), testContract, testUser, amount)
		assert.NoError(t, err, amount)
		assert.Empty(t, log, amount)

		log, err = svc.Credit(context.Background(), testContract, testUser, amount)
		assert.NoError(t, err, amount)
		assert.Empty(t, log, amount)
	}

	// The amount check precedes user validation.
	_, err := svc.Debit(context.Background(), testContract, "", "0")
	assert.NoError(t, err)

	assert.Equal(t, "5", usedOf(t, db, 1))
}

func TestAdjust_InvalidInput(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 10, 0)
	ctx := context.Background()

	_, err := svc.Debit(ctx, testContract, "", "5")
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.Debit(ctx, "0xUnknown", testUser, "5")
	assert.ErrorIs(t, err, ErrInvalidCampaign)
	assert.Equal(t, KindInvalidCampaign, KindOf(err))

	for _, amount := range []string{"", "abc", "1.5"} {
		log, err := svc.Credit(ctx, testContract, testUser, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, amount)
		assert.Empty(t, log)
	}

	assert.Equal(t, "0", usedOf(t, db, 1))
}

func TestDebit_AddressesAreCaseSensitive(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, "0xabc", 10, 0)

	_, err := svc.Debit(context.Background(), testContract, "0xABC", "5")
	assert.ErrorIs(t, err, ErrNoEligibleRows)
	assert.Equal(t, "0", usedOf(t, db, 1))
}

func TestCredit_RestoresRowsInIDOrder(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 30)
	seedRow(t, db, 2, testUser, 50, 10)
	seedRow(t, db, 3, testUser, 20, 0)

	log, err := svc.Credit(context.Background(), testContract, testUser, "35")
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{1: "30", 2: "5"}, logStrings(log))

	assert.Equal(t, "0", usedOf(t, db, 1))
	assert.Equal(t, "5", usedOf(t, db, 2))
	assert.Equal(t, "0", usedOf(t, db, 3))
}

func TestCredit_Shortfall(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 4)

	log, err := svc.Credit(context.Background(), testContract, testUser, "10")
	assert.ErrorIs(t, err, ErrPartiallyAdjusted)
	assert.Equal(t, map[uint64]string{1: "4"}, logStrings(log))
	assert.Equal(t, "0", usedOf(t, db, 1))

	_, err = svc.Credit(context.Background(), testContract, testUser, "1")
	assert.ErrorIs(t, err, ErrNoEligibleRows)
}

func TestAdjust_ConservesBalance(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 0)
	seedRow(t, db, 2, testUser, 50, 20)
	ctx := context.Background()

	balanceOf := func() decimal.Decimal {
		balances, err := svc.GetBalances(ctx, testContract, []string{testUser})
		require.NoError(t, err)
		return balances[testUser].Balance
	}

	before := balanceOf()
	log, err := svc.Debit(ctx, testContract, testUser, "45")
	require.NoError(t, err)
	after := balanceOf()
	assert.True(t, before.Sub(after).Equal(log.Total()), "debit moved %s, log says %s", before.Sub(after), log.Total())

	before = after
	log, err = svc.Credit(ctx, testContract, testUser, "60")
	require.NoError(t, err)
	after = balanceOf()
	assert.True(t, after.Sub(before).Equal(log.Total()))
	assert.Equal(t, "75", after.String())
}

func TestAdjust_KeepsRowsWithinBounds(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 7, 0)
	seedRow(t, db, 2, testUser, 3, 0)
	seedRow(t, db, 3, testUser, 11, 0)
	ctx := context.Background()

	ops := []struct {
		debit  bool
		amount string
	}{
		{true, "5"}, {true, "9"}, {false, "4"}, {true, "100"}, {false, "13"},
		{false, "50"}, {true, "21"}, {true, "1"}, {false, "2"},
	}
	for _, op := range ops {
		if op.debit {
			_, _ = svc.Debit(ctx, testContract, testUser, op.amount)
		} else {
			_, _ = svc.Credit(ctx, testContract, testUser, op.amount)
		}

		report, err := svc.Audit(ctx, testContract)
		require.NoError(t, err)
		assert.True(t, report.Healthy())
	}
}

// racingStore lets another writer touch a row between the candidate read and
// the guarded update.
type racingStore struct {
	Store
	db    *gorm.DB
	rowID uint64
	racer string
	raced bool
}

func (s *racingStore) ApplyDelta(ctx context.Context, rowID uint64, dir Direction, amount decimal.Decimal) (int64, error) {
	if rowID == s.rowID && !s.raced {
		s.raced = true
		if err := s.db.Exec(s.racer, rowID).Error; err != nil {
			return 0, err
		}
	}
	return s.Store.ApplyDelta(ctx, rowID, dir, amount)
}

func TestDebit_SkipsRowLostToConcurrentWriter(t *testing.T) {
	db, _ := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 0)
	seedRow(t, db, 2, testUser, 50, 0)

	store := &racingStore{
		Store: NewStore(db),
		db:    db,
		rowID: 1,
		racer: "UPDATE user_airdrop_details SET airdrop_used_amount = airdrop_amount WHERE id = ?",
	}
	adjuster := NewAdjuster(store, zap.NewNop())

	log, err := adjuster.Adjust(context.Background(), Debit, 1, testUser, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{2: "40"}, logStrings(log))
	assert.Equal(t, "30", usedOf(t, db, 1))
	assert.Equal(t, "40", usedOf(t, db, 2))
}

func TestDebit_RaceCausesShortfall(t *testing.T) {
	db, _ := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 0)

	store := &racingStore{
		Store: NewStore(db),
		db:    db,
		rowID: 1,
		racer: "UPDATE user_airdrop_details SET airdrop_used_amount = 25 WHERE id = ?",
	}
	adjuster := NewAdjuster(store, zap.NewNop())

	log, err := adjuster.Adjust(context.Background(), Debit, 1, testUser, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrPartiallyAdjusted)
	assert.Empty(t, log)
	assert.Equal(t, models.AdjustmentLog{}, LogOf(err))

	// The racer's write is untouched; no retry on the same row.
	assert.Equal(t, "25", usedOf(t, db, 1))
}

func TestCredit_SkipsRowLostToConcurrentWriter(t *testing.T) {
	db, _ := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 20)
	seedRow(t, db, 2, testUser, 30, 20)

	store := &racingStore{
		Store: NewStore(db),
		db:    db,
		rowID: 1,
		racer: "UPDATE user_airdrop_details SET airdrop_used_amount = 5 WHERE id = ?",
	}
	adjuster := NewAdjuster(store, zap.NewNop())

	log, err := adjuster.Adjust(context.Background(), Credit, 1, testUser, decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{2: "15"}, logStrings(log))
	assert.Equal(t, "5", usedOf(t, db, 1))
	assert.Equal(t, "5", usedOf(t, db, 2))
}

func TestLedger_AmountsBeyondInt64StayExact(t *testing.T) {
	db, svc := setupLedger(t)
	ctx := context.Background()
	const allocated = "1000000000000000000001"

	amount, err := decimal.NewFromString(allocated)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.LedgerRow{
		ID:                1,
		AirdropID:         1,
		UserAddress:       testUser,
		AirdropAmount:     amount,
		AirdropUsedAmount: decimal.Zero,
	}).Error)

	balances, err := svc.GetBalances(ctx, testContract, []string{testUser})
	require.NoError(t, err)
	assert.Equal(t, allocated, balances[testUser].Allocated.String())
	assert.Equal(t, allocated, balances[testUser].Balance.String())

	log, err := svc.Debit(ctx, testContract, testUser, allocated)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{1: allocated}, logStrings(log))
	assert.Equal(t, allocated, usedOf(t, db, 1))

	log, err = svc.Credit(ctx, testContract, testUser, "1")
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{1: "1"}, logStrings(log))
	assert.Equal(t, "1000000000000000000000", usedOf(t, db, 1))

	report, err := svc.Audit(ctx, testContract)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
}
