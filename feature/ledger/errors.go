package ledger

import (
	"errors"

	"airdrop-ledger/feature/ledger/models"

	"github.com/shopspring/decimal"
)

// Kind classifies ledger failures.
type Kind string

const (
	KindInvalidCampaign   Kind = "invalid_campaign"
	KindInvalidUser       Kind = "invalid_user"
	KindInvalidAmount     Kind = "invalid_amount"
	KindNoEligibleRows    Kind = "no_eligible_rows"
	KindPartiallyAdjusted Kind = "partially_adjusted"
	KindStoreFailure      Kind = "store_failure"
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrInvalidCampaign   = errors.New("invalid campaign")
	ErrInvalidUser       = errors.New("invalid user address")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNoEligibleRows    = errors.New("no airdrop record available for adjusting")
	ErrPartiallyAdjusted = errors.New("amount not fully adjusted")
	ErrStoreFailure      = errors.New("ledger store failure")
)

var sentinels = map[Kind]error{
	KindInvalidCampaign:   ErrInvalidCampaign,
	KindInvalidUser:       ErrInvalidUser,
	KindInvalidAmount:     ErrInvalidAmount,
	KindNoEligibleRows:    ErrNoEligibleRows,
	KindPartiallyAdjusted: ErrPartiallyAdjusted,
	KindStoreFailure:      ErrStoreFailure,
}

// Error is the failure result of a ledger operation. For debits and credits
// Log holds every row update that committed before the failure; those
// updates are not rolled back.
type Error struct {
	Kind Kind
	// Op is the operation that failed (balances, debit, credit, audit).
	Op string
	// Log is the partial adjustment log, never nil for debit/credit.
	Log models.AdjustmentLog
	// Remaining is the part of the requested amount that was not placed.
	Remaining decimal.Decimal
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + sentinels[e.Kind].Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	errs := []error{sentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of a ledger error, or "" for other errors.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// LogOf returns the adjustment log carried by a ledger error, if any.
func LogOf(err error) models.AdjustmentLog {
	var le *Error
	if errors.As(err, &le) {
		return le.Log
	}
	return nil
}

func newError(kind Kind, op string, log models.AdjustmentLog, cause error) *Error {
	return &Error{Kind: kind, Op: op, Log: log, Err: cause}
}
