package ledger

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config holds ledger tuning and the grant import location.
type Config struct {
	// CampaignCacheTTLSeconds is how long a resolved contract address is
	// reused. Zero disables the cache.
	CampaignCacheTTLSeconds int `mapstructure:"campaign_cache_ttl_seconds" default:"60"`
	// CampaignCacheSize bounds how many contract addresses are cached.
	CampaignCacheSize int `mapstructure:"campaign_cache_size" default:"1024"`
	// GrantsPrefix is the object storage prefix holding grant batch files.
	GrantsPrefix string `mapstructure:"grants_prefix" default:"grants/"`
	// ImportWorkers is how many grant batches are imported concurrently.
	ImportWorkers int `mapstructure:"import_workers" default:"4"`
}

// Bounds accepted by Validate.
const (
	MaxCampaignCacheTTLSeconds = 24 * 60 * 60
	MaxCampaignCacheSize       = 1 << 20
	MaxImportWorkers           = 64
)

// Validate reports every setting outside its accepted range.
func (c Config) Validate() error {
	var errs error
	if c.CampaignCacheTTLSeconds < 0 || c.CampaignCacheTTLSeconds > MaxCampaignCacheTTLSeconds {
		errs = multierr.Append(errs, fmt.Errorf("ledger.campaign_cache_ttl_seconds must be between 0 and %d, got %d",
			MaxCampaignCacheTTLSeconds, c.CampaignCacheTTLSeconds))
	}
	if c.CampaignCacheSize < 1 || c.CampaignCacheSize > MaxCampaignCacheSize {
		errs = multierr.Append(errs, fmt.Errorf("ledger.campaign_cache_size must be between 1 and %d, got %d",
			MaxCampaignCacheSize, c.CampaignCacheSize))
	}
	if c.ImportWorkers < 1 || c.ImportWorkers > MaxImportWorkers {
		errs = multierr.Append(errs, fmt.Errorf("ledger.import_workers must be between 1 and %d, got %d",
			MaxImportWorkers, c.ImportWorkers))
	}
	return errs
}

// CampaignCacheTTL returns the resolver cache lifetime.
func (c Config) CampaignCacheTTL() time.Duration {
	if c.CampaignCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CampaignCacheTTLSeconds) * time.Second
}
