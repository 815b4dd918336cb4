package constants

import "time"

// Cache settings
const (
	// Cache TTLs for admin dashboard reads
	StatsCacheTTL         = 1 * time.Minute  // pending/verified counters
	RegistrationsCacheTTL = 2 * time.Minute  // per-event registration lists
	CatalogCacheTTL       = 30 * time.Minute // static catalog derived data
	CacheCleanupInterval  = 5 * time.Minute  // expired-entry sweep interval

	// Firestore retry settings
	MaxStoreRetries = 3
	BaseRetryDelay  = 1 * time.Second

	// Memory management
	DefaultSliceCapacity = 100
)
