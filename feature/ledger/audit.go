package ledger

import (
	"context"

	"airdrop-ledger/feature/ledger/models"

	"go.uber.org/zap"
)

// AuditReport is a read-only snapshot of ledger health.
type AuditReport struct {
	Campaigns  []models.CampaignTotals `json:"campaigns"`
	Violations []models.LedgerRow      `json:"violations"`
}

// Healthy reports whether every scanned row satisfies 0 <= used <= amount.
func (r *AuditReport) Healthy() bool {
	return len(r.Violations) == 0
}

// Audit scans one campaign, or every campaign when campaignRef is empty, for
// rows breaking the consumption bounds and summarises their totals.
func (s *Service) Audit(ctx context.Context, campaignRef string) (*AuditReport, error) {
	var airdropID uint64
	if campaignRef != "" {
		id, err := s.resolve(ctx, "audit", campaignRef)
		if err != nil {
			return nil, err
		}
		airdropID = id
	}

	totals, err := s.store.CampaignTotals(ctx, airdropID)
	if err != nil {
		return nil, newError(KindStoreFailure, "audit", nil, err)
	}

	violations, err := s.store.FindViolations(ctx, airdropID)
	if err != nil {
		return nil, newError(KindStoreFailure, "audit", nil, err)
	}

	report := &AuditReport{Campaigns: totals, Violations: violations}
	if report.Campaigns == nil {
		report.Campaigns = []models.CampaignTotals{}
	}
	if report.Violations == nil {
		report.Violations = []models.LedgerRow{}
	}

	if !report.Healthy() {
		s.logger.Error("Ledger invariant violated",
			zap.String("campaign", campaignRef),
			zap.Int("rows", len(violations)))
	}
	return report, nil
}
