// Package campaign resolves external airdrop references (allocation contract
// addresses) to the internal campaign ids used as the ledger's foreign key.
//
// DBResolver reads the airdrops table. CachedResolver adds a TTL cache with
// singleflight so bursts of debits against one campaign cost a single lookup.
package campaign
