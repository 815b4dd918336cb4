package constants

import "time"

// System constants
const (
	// Application version
	ServerVersion = "1.1.0"
	APIVersion    = "1.0.0"

	// Network
	DefaultHTTPPort = "8080"

	// HTTP server timeouts
	HTTPReadTimeout     = 15 * time.Second
	HTTPWriteTimeout    = 30 * time.Second
	HTTPIdleTimeout     = 60 * time.Second
	HTTPShutdownTimeout = 10 * time.Second

	// Memory
	BytesToMB = 1024 * 1024

	// Health checks
	FirestoreHealthCheckTimeout = 5 * time.Second
	HealthCheckCollectionName   = "health_check"
	HealthStatusHealthy         = "healthy"
	HealthStatusUnhealthy       = "unhealthy"
)
