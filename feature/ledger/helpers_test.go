package ledger

import (
	"testing"

	"airdrop-ledger/core/database"
	"airdrop-ledger/feature/campaign"
	"airdrop-ledger/feature/ledger/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	testContract = "0xDrop"
	testUser     = "0xUser"
)

// setupLedger returns an in-memory ledger with one campaign (id 1, testContract).
func setupLedger(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Create(&campaign.Airdrop{ID: 1, ContractAddress: testContract, Name: "test"}).Error)

	svc := NewService(db, campaign.NewDBResolver(db), zap.NewNop())
	return db, svc
}

func seedRow(t *testing.T, db *gorm.DB, id uint64, user string, amount, used int64) {
	t.Helper()
	row := models.LedgerRow{
		ID:                id,
		AirdropID:         1,
		UserAddress:       user,
		AirdropAmount:     decimal.NewFromInt(amount),
		AirdropUsedAmount: decimal.NewFromInt(used),
	}
	require.NoError(t, db.Create(&row).Error)
}

func usedOf(t *testing.T, db *gorm.DB, id uint64) string {
	t.Helper()
	var row models.LedgerRow
	require.NoError(t, db.First(&row, id).Error)
	return row.AirdropUsedAmount.String()
}

func logStrings(log models.AdjustmentLog) map[uint64]string {
	out := make(map[uint64]string, len(log))
	for id, amount := range log {
		out[id] = amount.String()
	}
	return out
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}
