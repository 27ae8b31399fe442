package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airdrop-ledger/core/utils"
	"airdrop-ledger/feature/campaign"
	"airdrop-ledger/feature/ledger/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the caller-facing entry point for balance reads and adjustments.
type Service struct {
	resolver campaign.Resolver
	store    Store
	reader   *Reader
	adjuster *Adjuster
	logger   *zap.Logger
	metrics  *Metrics
}

// NewService creates a ledger service on the user_airdrop_details table of db.
func NewService(db *gorm.DB, resolver campaign.Resolver, logger *zap.Logger) *Service {
	return NewServiceWithStore(NewStore(db), resolver, logger)
}

// NewServiceWithStore creates a ledger service over an arbitrary store.
func NewServiceWithStore(store Store, resolver campaign.Resolver, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		store:    store,
		reader:   NewReader(store),
		adjuster: NewAdjuster(store, logger),
		logger:   logger,
	}
}

// WithMetrics records operation outcomes and row skips in m.
func (s *Service) WithMetrics(m *Metrics) *Service {
	s.metrics = m
	s.adjuster.metrics = m
	return s
}

// GetBalances returns the balance of each address that holds rows in the campaign.
func (s *Service) GetBalances(ctx context.Context, campaignRef string, addresses []string) (_ map[string]models.Balance, err error) {
	defer func(started time.Time) { s.metrics.observe("balances", started, err) }(time.Now())

	airdropID, err := s.resolve(ctx, "balances", campaignRef)
	if err != nil {
		return nil, err
	}

	balances, err := s.reader.Balances(ctx, airdropID, addresses)
	if err != nil {
		s.logger.Error("Balance read failed",
			zap.String("campaign", campaignRef),
			zap.Int("addresses", len(addresses)),
			zap.Error(err))
		return nil, err
	}
	return balances, nil
}

// Debit consumes amount from the user's remaining allocation, oldest rows first.
func (s *Service) Debit(ctx context.Context, campaignRef, userAddress, amount string) (models.AdjustmentLog, error) {
	return s.adjust(ctx, Debit, campaignRef, userAddress, amount)
}

// Credit restores amount to the user's allocation, oldest rows first.
func (s *Service) Credit(ctx context.Context, campaignRef, userAddress, amount string) (models.AdjustmentLog, error) {
	return s.adjust(ctx, Credit, campaignRef, userAddress, amount)
}

func (s *Service) adjust(ctx context.Context, dir Direction, campaignRef, userAddress, amount string) (_ models.AdjustmentLog, err error) {
	op := dir.String()
	defer func(started time.Time) { s.metrics.observe(op, started, err) }(time.Now())
	empty := models.AdjustmentLog{}

	airdropID, err := s.resolve(ctx, op, campaignRef)
	if err != nil {
		var le *Error
		if errors.As(err, &le) {
			le.Log = empty
		}
		return empty, err
	}

	value, err := utils.ParseAmount(amount)
	if err != nil {
		return empty, newError(KindInvalidAmount, op, empty, err)
	}

	l := s.logger.With(
		zap.String("op", op),
		zap.String("campaign", campaignRef),
		zap.String("user_address", userAddress),
		zap.String("amount", value.String()),
	)
	if value.IsPositive() {
		l.Info("Adjusting balance")
	}

	log, err := s.adjuster.Adjust(ctx, dir, airdropID, userAddress, value)
	if err != nil {
		switch KindOf(err) {
		case KindPartiallyAdjusted, KindStoreFailure:
			l.Error("Adjustment incomplete",
				zap.String("adjusted", log.Total().String()),
				zap.Int("rows", len(log)),
				zap.Error(err))
		default:
			l.Warn("Adjustment rejected", zap.Error(err))
		}
		return log, err
	}

	if len(log) > 0 {
		l.Info("Adjustment complete", zap.Int("rows", len(log)))
	}
	return log, nil
}

// resolve maps a campaign reference to its id. Unknown references are
// InvalidCampaign; lookup failures are StoreFailure.
func (s *Service) resolve(ctx context.Context, op, campaignRef string) (uint64, error) {
	id, err := s.resolver.Resolve(ctx, campaignRef)
	if errors.Is(err, campaign.ErrNotFound) {
		return 0, newError(KindInvalidCampaign, op, nil, fmt.Errorf("%q", campaignRef))
	}
	if err != nil {
		return 0, newError(KindStoreFailure, op, nil, err)
	}
	return id, nil
}
