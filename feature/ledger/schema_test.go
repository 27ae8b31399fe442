package ledger

import (
	"testing"

	"airdrop-ledger/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSchema(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	missing, err := CheckSchema(db)
	require.NoError(t, err)
	assert.Equal(t, RequiredColumns, missing)

	require.NoError(t, Migrate(db))

	missing, err = CheckSchema(db)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestConfig_CampaignCacheTTL(t *testing.T) {
	assert.Equal(t, "1m0s", Config{CampaignCacheTTLSeconds: 60}.CampaignCacheTTL().String())
	assert.Zero(t, Config{}.CampaignCacheTTL())
	assert.Zero(t, Config{CampaignCacheTTLSeconds: -3}.CampaignCacheTTL())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{CampaignCacheTTLSeconds: 60, CampaignCacheSize: 1024, ImportWorkers: 4}
	assert.NoError(t, valid.Validate())

	zeroTTL := valid
	zeroTTL.CampaignCacheTTLSeconds = 0
	assert.NoError(t, zeroTTL.Validate())

	tests := []struct {
		name  string
		apply func(*Config)
		field string
	}{
		{"Negative TTL", func(c *Config) { c.CampaignCacheTTLSeconds = -1 }, "campaign_cache_ttl_seconds"},
		{"TTL Over A Day", func(c *Config) { c.CampaignCacheTTLSeconds = MaxCampaignCacheTTLSeconds + 1 }, "campaign_cache_ttl_seconds"},
		{"Empty Cache", func(c *Config) { c.CampaignCacheSize = 0 }, "campaign_cache_size"},
		{"Huge Cache", func(c *Config) { c.CampaignCacheSize = MaxCampaignCacheSize + 1 }, "campaign_cache_size"},
		{"No Workers", func(c *Config) { c.ImportWorkers = 0 }, "import_workers"},
		{"Too Many Workers", func(c *Config) { c.ImportWorkers = MaxImportWorkers + 1 }, "import_workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.apply(&c)
			assert.ErrorContains(t, c.Validate(), tt.field)
		})
	}
}
