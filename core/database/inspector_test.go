package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_rows (id INTEGER PRIMARY KEY, user_address TEXT, airdrop_amount DECIMAL(65,0))").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_rows")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["user_address"])
	assert.Equal(t, "decimal(65,0)", colMap["airdrop_amount"])

	// PRAGMA table_info returns an empty result for unknown tables.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE user_airdrop_details (id INTEGER PRIMARY KEY, airdrop_id INTEGER, user_address TEXT)").Error)

	missing, err := MissingColumns(db, "user_airdrop_details", []string{"id", "airdrop_id", "user_address", "airdrop_amount", "AIRDROP_USED_AMOUNT"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"airdrop_amount", "AIRDROP_USED_AMOUNT"}, missing)

	missing, err = MissingColumns(db, "absent", []string{"id"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "BIGINT UNSIGNED", "NO", "PRI", nil, "auto_increment").
		AddRow("airdrop_amount", "DECIMAL(65,0)", "NO", "", "0", "")
	mock.ExpectQuery("SHOW COLUMNS FROM `user_airdrop_details`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "user_airdrop_details")
	assert.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "bigint unsigned", columns[0].Type)
	assert.Equal(t, "decimal(65,0)", columns[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
