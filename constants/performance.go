package constants

import "time"

// Adaptive concurrency control for the verification committer
const (
	// Concurrency bounds
	MaxConcurrentUpdates        = 5  // starting limit for batched status updates
	AdaptiveConcurrencyMinLimit = 2  // floor
	AdaptiveConcurrencyMaxLimit = 20 // ceiling

	// Response time tracking
	ResponseTimeWindowSize         = 50
	MinResponseTimeWindowSize      = 10
	ConcurrencyAdjustmentThreshold = 500 * time.Millisecond // consider decreasing above this
	ConcurrencyDecreaseThreshold   = 1 * time.Second        // decrease immediately above this
	ConcurrencyAdjustmentCooldown  = 5 * time.Second
	MaxSuccessiveIncreases         = 3
	P95PercentileRatio             = 0.8

	// Buffer pool
	MaxPoolBufferCapacity = 1 * 1024 * 1024 // buffers larger than this are not pooled

	// Cache sweep
	CacheCleanupBatchSize   = 50
	MaxCacheCleanupDuration = 10 * time.Millisecond
)
