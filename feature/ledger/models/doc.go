// Package models defines the persisted ledger row, the aggregate read shapes
// and the per-call adjustment log.
package models
