package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one slice of a user's airdrop grant, stored in 'user_airdrop_details'.
// Only AirdropUsedAmount is ever mutated after creation, and only through
// guarded conditional updates that keep 0 <= used <= amount.
type LedgerRow struct {
	ID                uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AirdropID         uint64          `gorm:"column:airdrop_id;not null;index:idx_airdrop_user,priority:1" json:"airdrop_id"`
	UserAddress       string          `gorm:"column:user_address;type:varchar(255);not null;index:idx_airdrop_user,priority:2" json:"user_address"`
	AirdropAmount     decimal.Decimal `gorm:"column:airdrop_amount;type:decimal(65,0);not null" json:"airdrop_amount"`
	AirdropUsedAmount decimal.Decimal `gorm:"column:airdrop_used_amount;type:decimal(65,0);not null;default:0" json:"airdrop_used_amount"`
	GrantBatch        string          `gorm:"column:grant_batch;type:varchar(255);index" json:"grant_batch,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (LedgerRow) TableName() string {
	return "user_airdrop_details"
}

// Remaining is the unconsumed part of the row's allocation.
func (r LedgerRow) Remaining() decimal.Decimal {
	return r.AirdropAmount.Sub(r.AirdropUsedAmount)
}

// UserTotals is one row of the per-address aggregate. Sums arrive as strings
// so DECIMAL precision survives the driver.
type UserTotals struct {
	UserAddress     string `gorm:"column:user_address"`
	TotalAmount     string `gorm:"column:total_amount"`
	TotalUsedAmount string `gorm:"column:total_used_amount"`
}

// CampaignTotals summarises every row of one campaign.
type CampaignTotals struct {
	AirdropID       uint64 `gorm:"column:airdrop_id" json:"airdrop_id"`
	RowCount        int64  `gorm:"column:row_count" json:"row_count"`
	UserCount       int64  `gorm:"column:user_count" json:"user_count"`
	TotalAmount     string `gorm:"column:total_amount" json:"total_amount"`
	TotalUsedAmount string `gorm:"column:total_used_amount" json:"total_used_amount"`
}

// Balance is the aggregate grant position of one address in one campaign.
type Balance struct {
	Allocated decimal.Decimal `json:"allocated"`
	Consumed  decimal.Decimal `json:"consumed"`
	Balance   decimal.Decimal `json:"balance"`
}

// AdjustmentLog records, per ledger row id, the amount applied by one debit
// or credit call. It is returned to the caller and never persisted.
type AdjustmentLog map[uint64]decimal.Decimal

// Total is the sum of all logged adjustments.
func (l AdjustmentLog) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range l {
		total = total.Add(amount)
	}
	return total
}

// ImportedBatch records a grant file whose rows were written to the ledger.
// The primary key on the object key makes a second import of the same file
// fail, including one running concurrently.
type ImportedBatch struct {
	Key       string    `gorm:"column:object_key;type:varchar(255);primaryKey" json:"object_key"`
	AirdropID uint64    `gorm:"column:airdrop_id;not null" json:"airdrop_id"`
	RowCount  int       `gorm:"column:row_count;not null" json:"row_count"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name for ImportedBatch.
func (ImportedBatch) TableName() string {
	return "grant_batches"
}
