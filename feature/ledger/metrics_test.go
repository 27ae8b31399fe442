package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics(t *testing.T) {
	db, svc := setupLedger(t)
	seedRow(t, db, 1, testUser, 10, 0)

	m := NewMetrics(prometheus.NewRegistry())
	svc.WithMetrics(m)
	ctx := context.Background()

	_, err := svc.Debit(ctx, testContract, testUser, "4")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, testContract, testUser, "40")
	require.Error(t, err)
	_, err = svc.GetBalances(ctx, "0xMissing", []string{testUser})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("debit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("debit", string(KindPartiallyAdjusted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("balances", string(KindInvalidCampaign))))
}

func TestMetrics_RowSkips(t *testing.T) {
	db, _ := setupLedger(t)
	seedRow(t, db, 1, testUser, 30, 0)

	store := &racingStore{
		Store: NewStore(db),
		db:    db,
		rowID: 1,
		racer: "UPDATE user_airdrop_details SET airdrop_used_amount = airdrop_amount WHERE id = ?",
	}
	m := NewMetrics(prometheus.NewRegistry())
	adjuster := NewAdjuster(store, zap.NewNop())
	adjuster.metrics = m

	_, _ = adjuster.Adjust(context.Background(), Debit, 1, testUser, decimal.NewFromInt(5))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowSkips.WithLabelValues("debit")))
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe("debit", time.Now(), nil)
		m.rowSkipped("debit")
	})
}
