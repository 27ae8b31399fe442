package grants

import "encoding/json"

// Batch is one grant file in object storage.
type Batch struct {
	ContractAddress string  `json:"contract_address"`
	Grants          []Grant `json:"grants"`
}

// Grant allocates Amount to UserAddress. Amount accepts a JSON number or a
// decimal string.
type Grant struct {
	UserAddress string      `json:"user_address"`
	Amount      json.Number `json:"amount"`
}

// Report summarises one import run.
type Report struct {
	// Imported lists batch keys written in this run.
	Imported []string `json:"imported"`
	// Skipped lists batch keys already present in the ledger.
	Skipped []string `json:"skipped"`
	// Failed maps batch keys to the reason they were rejected.
	Failed map[string]string `json:"failed"`
	// Rows is the number of ledger rows created.
	Rows int `json:"rows"`
}
