package campaign

import "time"

// Airdrop is a campaign row in the 'airdrops' table. Campaigns are referenced
// externally by the address of their allocation contract.
type Airdrop struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContractAddress string    `gorm:"column:contract_address;type:varchar(255);uniqueIndex;not null" json:"contract_address"`
	Name            string    `gorm:"column:name;type:varchar(255)" json:"name"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (Airdrop) TableName() string {
	return "airdrops"
}
