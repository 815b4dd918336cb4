package performance

import (
	"sync"
	"time"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

// AdaptiveConcurrencyManager adjusts how many registration-store
// updates a commit batch issues at once, based on observed update
// latencies. Firestore slows under contention; backing off keeps a
// large bulk-verify batch from tripping its own deadline.
type AdaptiveConcurrencyManager struct {
	mutex               sync.RWMutex
	currentLimit        int
	minLimit            int
	maxLimit            int
	responseTimeWindow  []time.Duration
	windowSize          int
	adjustmentThreshold time.Duration
	decreaseThreshold   time.Duration
	lastAdjustment      time.Time
	adjustmentCooldown  time.Duration
	successiveIncreases int
	successiveDecreases int
}

// NewAdaptiveConcurrencyManager creates a manager with the default
// bounds from constants.
func NewAdaptiveConcurrencyManager() *AdaptiveConcurrencyManager {
	return &AdaptiveConcurrencyManager{
		currentLimit:        constants.MaxConcurrentUpdates,
		minLimit:            constants.AdaptiveConcurrencyMinLimit,
		maxLimit:            constants.AdaptiveConcurrencyMaxLimit,
		responseTimeWindow:  make([]time.Duration, 0, constants.ResponseTimeWindowSize),
		windowSize:          constants.ResponseTimeWindowSize,
		adjustmentThreshold: constants.ConcurrencyAdjustmentThreshold,
		decreaseThreshold:   constants.ConcurrencyDecreaseThreshold,
		adjustmentCooldown:  constants.ConcurrencyAdjustmentCooldown,
		lastAdjustment:      time.Now(),
	}
}

// GetCurrentLimit returns the current concurrency limit.
func (manager *AdaptiveConcurrencyManager) GetCurrentLimit() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return manager.currentLimit
}

// RecordResponseTime records one store-update latency and adjusts the
// limit when enough samples have accumulated.
func (manager *AdaptiveConcurrencyManager) RecordResponseTime(responseTime time.Duration) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	manager.responseTimeWindow = append(manager.responseTimeWindow, responseTime)
	if len(manager.responseTimeWindow) > manager.windowSize {
		manager.responseTimeWindow = manager.responseTimeWindow[1:]
	}

	if len(manager.responseTimeWindow) >= constants.MinResponseTimeWindowSize && time.Since(manager.lastAdjustment) > manager.adjustmentCooldown {
		manager.adjustConcurrency()
	}
}

// adjustConcurrency must be called with the write lock held.
func (manager *AdaptiveConcurrencyManager) adjustConcurrency() {
	avgResponseTime := manager.calculateAverageResponseTime()
	p95ResponseTime := manager.calculateP95ResponseTime()

	oldLimit := manager.currentLimit

	if p95ResponseTime > manager.decreaseThreshold || avgResponseTime > manager.adjustmentThreshold {
		if manager.currentLimit > manager.minLimit {
			manager.currentLimit = max(manager.minLimit, manager.currentLimit-1)
			manager.successiveDecreases++
			manager.successiveIncreases = 0
		}
	} else if avgResponseTime < manager.adjustmentThreshold/2 {
		if manager.currentLimit < manager.maxLimit && manager.successiveDecreases == 0 {
			if manager.successiveIncreases < constants.MaxSuccessiveIncreases {
				manager.currentLimit = min(manager.maxLimit, manager.currentLimit+1)
				manager.successiveIncreases++
			}
		}
		manager.successiveDecreases = 0
	}

	if oldLimit != manager.currentLimit {
		manager.lastAdjustment = time.Now()
	}
}

// calculateAverageResponseTime must be called with a lock held.
func (manager *AdaptiveConcurrencyManager) calculateAverageResponseTime() time.Duration {
	if len(manager.responseTimeWindow) == 0 {
		return 0
	}

	var total time.Duration
	for _, responseTime := range manager.responseTimeWindow {
		total += responseTime
	}
	return total / time.Duration(len(manager.responseTimeWindow))
}

// calculateP95ResponseTime must be called with a lock held.
func (manager *AdaptiveConcurrencyManager) calculateP95ResponseTime() time.Duration {
	if len(manager.responseTimeWindow) == 0 {
		return 0
	}

	var maxTime time.Duration
	for _, responseTime := range manager.responseTimeWindow {
		if responseTime > maxTime {
			maxTime = responseTime
		}
	}

	// Approximation without sorting
	return time.Duration(float64(maxTime) * constants.P95PercentileRatio)
}

// ConcurrencyStats reports the manager's current state.
type ConcurrencyStats struct {
	CurrentLimit    int
	MinLimit        int
	MaxLimit        int
	AverageResponse time.Duration
	P95Response     time.Duration
	WindowSize      int
	LastAdjustment  time.Time
	SuccessiveInc   int
	SuccessiveDec   int
}

// GetStats returns current statistics.
func (manager *AdaptiveConcurrencyManager) GetStats() ConcurrencyStats {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	return ConcurrencyStats{
		CurrentLimit:    manager.currentLimit,
		MinLimit:        manager.minLimit,
		MaxLimit:        manager.maxLimit,
		AverageResponse: manager.calculateAverageResponseTime(),
		P95Response:     manager.calculateP95ResponseTime(),
		WindowSize:      len(manager.responseTimeWindow),
		LastAdjustment:  manager.lastAdjustment,
		SuccessiveInc:   manager.successiveIncreases,
		SuccessiveDec:   manager.successiveDecreases,
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
