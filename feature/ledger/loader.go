package ledger

import (
	"airdrop-ledger/feature/campaign"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new ledger feature.
func NewFeature(db *gorm.DB, resolver campaign.Resolver, logger *zap.Logger) *Feature {
	return NewFeatureWithService(NewService(db, resolver, logger))
}

// NewFeatureWithService wraps an existing service.
func NewFeatureWithService(svc *Service) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "ledger"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
