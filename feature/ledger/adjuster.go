package ledger

import (
	"context"

	"airdrop-ledger/feature/ledger/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Adjuster spreads a debit or credit over a user's ledger rows.
//
// Rows are walked in id order. Each row takes min(remaining, capacity) through
// a guarded conditional update; when the guard fails because a concurrent
// writer got there first the row is skipped and remaining is left untouched.
// Every committed row update is final, so failures after the first update
// carry the partial log instead of rolling back.
type Adjuster struct {
	store   Store
	logger  *zap.Logger
	metrics *Metrics
}

// NewAdjuster creates an adjuster over store.
func NewAdjuster(store Store, logger *zap.Logger) *Adjuster {
	return &Adjuster{store: store, logger: logger}
}

// Adjust applies amount in direction dir to userAddress's rows of airdropID.
// The returned log is never nil; on error it is also attached to the *Error.
func (a *Adjuster) Adjust(ctx context.Context, dir Direction, airdropID uint64, userAddress string, amount decimal.Decimal) (models.AdjustmentLog, error) {
	op := dir.String()
	log := models.AdjustmentLog{}

	if !amount.IsPositive() {
		return log, nil
	}
	if userAddress == "" {
		return log, newError(KindInvalidUser, op, log, nil)
	}

	l := a.logger.With(
		zap.String("op", op),
		zap.Uint64("airdrop_id", airdropID),
		zap.String("user_address", userAddress),
	)

	rows, err := a.store.ListAdjustable(ctx, airdropID, userAddress, dir)
	if err != nil {
		return log, newError(KindStoreFailure, op, log, err)
	}
	if len(rows) == 0 {
		// Either nothing was granted or concurrent adjustments exhausted every row.
		return log, newError(KindNoEligibleRows, op, log, nil)
	}

	remaining := amount
	for _, row := range rows {
		amountForRow := decimal.Min(remaining, dir.capacity(row))
		if !amountForRow.IsPositive() {
			return log, nil
		}

		if err := ctx.Err(); err != nil {
			return log, a.shortfall(op, log, remaining, err)
		}

		affected, err := a.store.ApplyDelta(ctx, row.ID, dir, amountForRow)
		if err != nil {
			e := newError(KindStoreFailure, op, log, err)
			e.Remaining = remaining
			return log, e
		}
		if affected < 1 {
			a.metrics.rowSkipped(op)
			l.Warn("Row changed concurrently, skipping",
				zap.Uint64("row_id", row.ID),
				zap.String("amount", amountForRow.String()),
			)
			continue
		}

		log[row.ID] = amountForRow
		remaining = remaining.Sub(amountForRow)
		l.Debug("Row adjusted",
			zap.Uint64("row_id", row.ID),
			zap.String("amount", amountForRow.String()),
			zap.String("remaining", remaining.String()),
		)
	}

	if remaining.IsPositive() {
		return log, a.shortfall(op, log, remaining, nil)
	}
	return log, nil
}

func (a *Adjuster) shortfall(op string, log models.AdjustmentLog, remaining decimal.Decimal, cause error) *Error {
	e := newError(KindPartiallyAdjusted, op, log, cause)
	e.Remaining = remaining
	return e
}
