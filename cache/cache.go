// Package cache holds short-lived dashboard reads so repeated admin
// polling does not hammer Firestore.
package cache

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/models"
)

// Item is one cached value with its expiry.
type Item struct {
	Data      interface{}
	ExpiresAt time.Time
}

// IsExpired reports whether the item's TTL has elapsed.
func (item *Item) IsExpired() bool {
	return time.Now().After(item.ExpiresAt)
}

// Stats counts live entries per cache for the health endpoint.
type Stats struct {
	StatsCount         int
	RegistrationsCount int
	PendingCount       int
}

// expirationEntry is one element of the expiry min-heap.
type expirationEntry struct {
	Key       string
	CacheType string // "stats", "registrations", "pending"
	ExpiresAt time.Time
	Index     int
}

type expirationQueue []*expirationEntry

func (q expirationQueue) Len() int { return len(q) }

func (q expirationQueue) Less(i, j int) bool {
	return q[i].ExpiresAt.Before(q[j].ExpiresAt)
}

func (q expirationQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].Index = i
	q[j].Index = j
}

func (q *expirationQueue) Push(x interface{}) {
	n := len(*q)
	entry := x.(*expirationEntry)
	entry.Index = n
	*q = append(*q, entry)
}

func (q *expirationQueue) Pop() interface{} {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.Index = -1
	*q = old[0 : n-1]
	return entry
}

// DashboardCache caches the admin dashboard's store reads: the
// fest-wide counters, per-event registration lists, and the pending
// set the reconciliation scan consumes. Expiry is tracked in a
// min-heap so the sweep only touches entries that can actually be
// expired.
type DashboardCache struct {
	statsCache         map[string]*Item
	registrationsCache map[string]*Item // key: eventID, "" for all events
	pendingCache       map[string]*Item

	expiration *expirationQueue
	keyToEntry map[string]*expirationEntry

	mu sync.RWMutex

	statsTTL         time.Duration
	registrationsTTL time.Duration

	lastCleanup        time.Time
	cleanupBatchSize   int
	maxCleanupDuration time.Duration
}

// NewDashboardCache creates a cache with the configured TTLs.
func NewDashboardCache() *DashboardCache {
	q := &expirationQueue{}
	heap.Init(q)

	return &DashboardCache{
		statsCache:         make(map[string]*Item),
		registrationsCache: make(map[string]*Item),
		pendingCache:       make(map[string]*Item),

		expiration: q,
		keyToEntry: make(map[string]*expirationEntry),

		statsTTL:         constants.StatsCacheTTL,
		registrationsTTL: constants.RegistrationsCacheTTL,

		cleanupBatchSize:   constants.CacheCleanupBatchSize,
		maxCleanupDuration: constants.MaxCacheCleanupDuration,
		lastCleanup:        time.Now(),
	}
}

func (c *DashboardCache) setWithExpiration(cacheType, key string, data interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	item := &Item{Data: data, ExpiresAt: expiresAt}

	// A replaced entry is invalidated in place; popping from the
	// middle of the heap is not worth it.
	if existing, exists := c.keyToEntry[cacheType+":"+key]; exists {
		existing.ExpiresAt = time.Time{}
	}

	switch cacheType {
	case "stats":
		c.statsCache[key] = item
	case "registrations":
		c.registrationsCache[key] = item
	case "pending":
		c.pendingCache[key] = item
	}

	entry := &expirationEntry{
		Key:       key,
		CacheType: cacheType,
		ExpiresAt: expiresAt,
	}
	heap.Push(c.expiration, entry)
	c.keyToEntry[cacheType+":"+key] = entry
}

// GetStats returns the cached dashboard counters.
func (c *DashboardCache) GetStats() (models.Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.statsCache["all"]
	if !exists || item.IsExpired() {
		return models.Stats{}, false
	}
	stats, ok := item.Data.(models.Stats)
	return stats, ok
}

// SetStats caches the dashboard counters.
func (c *DashboardCache) SetStats(stats models.Stats) {
	c.setWithExpiration("stats", "all", stats, c.statsTTL)
}

// GetRegistrations returns a cached registration list for one event.
// An empty eventID keys the all-events list.
func (c *DashboardCache) GetRegistrations(eventID string) ([]models.Registration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.registrationsCache[eventID]
	if !exists || item.IsExpired() {
		return nil, false
	}
	regs, ok := item.Data.([]models.Registration)
	return regs, ok
}

// SetRegistrations caches one event's registration list.
func (c *DashboardCache) SetRegistrations(eventID string, regs []models.Registration) {
	c.setWithExpiration("registrations", eventID, regs, c.registrationsTTL)
}

// GetPending returns the cached pending set.
func (c *DashboardCache) GetPending() ([]models.Registration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.pendingCache["all"]
	if !exists || item.IsExpired() {
		return nil, false
	}
	regs, ok := item.Data.([]models.Registration)
	return regs, ok
}

// SetPending caches the pending set. It shares the stats TTL: the
// pending list feeds reconciliation scans and must not lag far behind
// commits.
func (c *DashboardCache) SetPending(regs []models.Registration) {
	c.setWithExpiration("pending", "all", regs, c.statsTTL)
}

// Invalidate drops every entry. Called after any write to the store
// so the dashboard never shows a just-changed record as stale.
func (c *DashboardCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statsCache = make(map[string]*Item)
	c.registrationsCache = make(map[string]*Item)
	c.pendingCache = make(map[string]*Item)

	c.expiration = &expirationQueue{}
	heap.Init(c.expiration)
	c.keyToEntry = make(map[string]*expirationEntry)
}

// ClearExpired removes expired entries in batches, bounded by batch
// size and wall time so a sweep never stalls a request.
func (c *DashboardCache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	startTime := time.Now()
	cleaned := 0

	for cleaned < c.cleanupBatchSize && time.Since(startTime) < c.maxCleanupDuration {
		if c.expiration.Len() == 0 {
			break
		}

		entry := (*c.expiration)[0]

		if entry.ExpiresAt.IsZero() || now.Before(entry.ExpiresAt) {
			if entry.ExpiresAt.IsZero() {
				heap.Pop(c.expiration)
				delete(c.keyToEntry, entry.CacheType+":"+entry.Key)
				cleaned++
				continue
			}
			// Earliest entry not expired yet, nothing more to do.
			break
		}

		heap.Pop(c.expiration)
		delete(c.keyToEntry, entry.CacheType+":"+entry.Key)

		switch entry.CacheType {
		case "stats":
			delete(c.statsCache, entry.Key)
		case "registrations":
			delete(c.registrationsCache, entry.Key)
		case "pending":
			delete(c.pendingCache, entry.Key)
		}

		cleaned++
	}

	c.lastCleanup = now
	return cleaned
}

// GetCacheStats returns live entry counts.
func (c *DashboardCache) GetCacheStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		StatsCount:         len(c.statsCache),
		RegistrationsCount: len(c.registrationsCache),
		PendingCount:       len(c.pendingCache),
	}
}

// StartCleanupWorker sweeps expired entries on an interval until the
// returned cancel function is called.
func (c *DashboardCache) StartCleanupWorker(interval time.Duration) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.ClearExpired()
			case <-ctx.Done():
				return
			}
		}
	}()

	return cancel
}
