package ledger

import (
	"context"
	"fmt"

	"airdrop-ledger/core/utils"
	"airdrop-ledger/feature/ledger/models"
)

// Reader aggregates per-address balances. It never writes.
type Reader struct {
	store Store
}

// NewReader creates a balance reader over store.
func NewReader(store Store) *Reader {
	return &Reader{store: store}
}

// Balances returns allocated, consumed and remaining amounts per address.
// Addresses without ledger rows are absent from the result, which is
// distinct from a present entry with a zero balance. On failure no partial
// mapping is returned.
func (r *Reader) Balances(ctx context.Context, airdropID uint64, addresses []string) (map[string]models.Balance, error) {
	result := make(map[string]models.Balance)

	addresses = uniqueAddresses(addresses)
	if len(addresses) == 0 {
		return result, nil
	}

	totals, err := r.store.SumByUsers(ctx, airdropID, addresses)
	if err != nil {
		return nil, newError(KindStoreFailure, "balances", nil, err)
	}

	for _, t := range totals {
		allocated, err := utils.ParseAmount(t.TotalAmount)
		if err != nil {
			return nil, newError(KindStoreFailure, "balances", nil, fmt.Errorf("allocated total for %s: %w", t.UserAddress, err))
		}
		consumed, err := utils.ParseAmount(t.TotalUsedAmount)
		if err != nil {
			return nil, newError(KindStoreFailure, "balances", nil, fmt.Errorf("consumed total for %s: %w", t.UserAddress, err))
		}
		result[t.UserAddress] = models.Balance{
			Allocated: allocated,
			Consumed:  consumed,
			Balance:   allocated.Sub(consumed),
		}
	}
	return result, nil
}

// uniqueAddresses drops blanks and duplicates, keeping first-seen order.
func uniqueAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
