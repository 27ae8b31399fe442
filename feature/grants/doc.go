// Package grants imports airdrop allocations into the ledger.
//
// Each JSON file under the configured storage prefix is one batch:
//
//	{"contract_address": "0x..", "grants": [{"user_address": "0x..", "amount": "1000"}]}
//
// The object key becomes the grant_batch of every row it creates, which makes
// re-running an import idempotent.
package grants
