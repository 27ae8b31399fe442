// Package ledger reconciles per-user airdrop balances.
//
// Each (campaign, user) pair owns one or more rows in user_airdrop_details,
// each with an allocated amount and a consumed amount. Reads aggregate those
// rows per address. Debits and credits walk the user's rows in id order and
// move consumption one row at a time through a guarded conditional UPDATE,
// so concurrent callers never push a row outside 0 <= used <= amount. A row
// that changed underneath the walk is skipped rather than retried.
//
// There is no rollback: rows updated before a failure stay updated and are
// reported in the adjustment log carried by *Error.
package ledger
