package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a campaign reference does not resolve.
var ErrNotFound = errors.New("campaign not found")

// Resolver maps an external campaign reference to the internal campaign id.
type Resolver interface {
	Resolve(ctx context.Context, reference string) (uint64, error)
}

// DBResolver looks campaigns up by contract address in the airdrops table.
type DBResolver struct {
	db *gorm.DB
}

// NewDBResolver creates a resolver backed by the airdrops table.
func NewDBResolver(db *gorm.DB) *DBResolver {
	return &DBResolver{db: db}
}

// Resolve returns the id of the airdrop whose contract address equals reference.
func (r *DBResolver) Resolve(ctx context.Context, reference string) (uint64, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return 0, ErrNotFound
	}

	var airdrop Airdrop
	err := r.db.WithContext(ctx).
		Select("id").
		Where("contract_address = ?", reference).
		Take(&airdrop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve campaign %s: %w", reference, err)
	}
	return airdrop.ID, nil
}

type cacheEntry struct {
	id    uint64
	built time.Time
}

// DefaultCacheSize bounds the resolver cache when no size is configured.
const DefaultCacheSize = 1024

// CachedResolver memoises successful resolutions for ttl and collapses
// concurrent misses for the same reference into one lookup.
// Not-found results and errors are never cached. The least recently used
// reference is evicted once size entries are held.
type CachedResolver struct {
	next Resolver
	ttl  time.Duration
	now  func() time.Time

	entries *lru.Cache
	sf      singleflight.Group
}

// NewCachedResolver wraps next with a TTL cache holding at most size
// references. A zero ttl disables caching.
func NewCachedResolver(next Resolver, ttl time.Duration, size int) *CachedResolver {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New(size)
	return &CachedResolver{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: entries,
	}
}

// Resolve returns the cached id for reference or asks the wrapped resolver.
func (c *CachedResolver) Resolve(ctx context.Context, reference string) (uint64, error) {
	if c.ttl <= 0 {
		return c.next.Resolve(ctx, reference)
	}

	if v, ok := c.entries.Get(reference); ok {
		entry := v.(cacheEntry)
		if c.now().Sub(entry.built) <= c.ttl {
			return entry.id, nil
		}
	}

	// The shared lookup outlives any single caller; each caller still stops
	// waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(reference, func() (any, error) {
		id, err := c.next.Resolve(shared, reference)
		if err != nil {
			return uint64(0), err
		}
		c.entries.Add(reference, cacheEntry{id: id, built: c.now()})
		return id, nil
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(uint64), nil
	}
}

// Invalidate drops a cached reference.
func (c *CachedResolver) Invalidate(reference string) {
	c.entries.Remove(reference)
}
