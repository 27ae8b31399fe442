package ledger

import (
	"airdrop-ledger/feature/ledger/models"

	"github.com/shopspring/decimal"
)

// Direction selects whether an adjustment consumes or restores allocation.
type Direction int

const (
	// Debit increases airdrop_used_amount (spending against the grant).
	Debit Direction = iota + 1
	// Credit decreases airdrop_used_amount (refunding a prior spend).
	Credit
)

// Bound amounts are cast explicitly so MySQL compares DECIMAL to DECIMAL
// instead of coercing the string parameter through DOUBLE.
const castAmount = "CAST(? AS DECIMAL(65,0))"

func (d Direction) String() string {
	switch d {
	case Debit:
		return "debit"
	case Credit:
		return "credit"
	default:
		return "unknown"
	}
}

// eligibility is the filter selecting rows that can absorb part of an adjustment.
func (d Direction) eligibility() string {
	if d == Credit {
		return "airdrop_used_amount > 0 AND airdrop_amount >= airdrop_used_amount"
	}
	return "airdrop_amount > airdrop_used_amount"
}

// capacity is how much of an adjustment the row can take at read time.
func (d Direction) capacity(row models.LedgerRow) decimal.Decimal {
	if d == Credit {
		return row.AirdropUsedAmount
	}
	return row.Remaining()
}

// delta is the SET expression applied to airdrop_used_amount.
func (d Direction) delta() string {
	if d == Credit {
		return "airdrop_used_amount - " + castAmount
	}
	return "airdrop_used_amount + " + castAmount
}

// guard re-asserts 0 <= used <= amount for the post-update value. It takes
// the row id and the amount as parameters, in that order.
func (d Direction) guard() string {
	if d == Credit {
		return "id = ? AND (airdrop_used_amount - " + castAmount + ") >= 0 AND airdrop_amount >= airdrop_used_amount"
	}
	return "id = ? AND (airdrop_used_amount + " + castAmount + ") <= airdrop_amount"
}

// eligible evaluates eligibility on a row already in memory.
func (d Direction) eligible(row models.LedgerRow) bool {
	if d == Credit {
		return row.AirdropUsedAmount.IsPositive() && row.AirdropAmount.GreaterThanOrEqual(row.AirdropUsedAmount)
	}
	return row.AirdropAmount.GreaterThan(row.AirdropUsedAmount)
}

// next returns the consumed amount after applying amount to row and whether
// guard still holds for it.
func (d Direction) next(row models.LedgerRow, amount decimal.Decimal) (decimal.Decimal, bool) {
	if d == Credit {
		used := row.AirdropUsedAmount.Sub(amount)
		return used, !used.IsNegative() && row.AirdropAmount.GreaterThanOrEqual(row.AirdropUsedAmount)
	}
	used := row.AirdropUsedAmount.Add(amount)
	return used, used.LessThanOrEqual(row.AirdropAmount)
}
