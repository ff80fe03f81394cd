// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// AppName is used for config directories and the env var prefix
const AppName = "ai-apps"

// Timeout constants used across the application
const (
	// DefaultRequestTimeout bounds a single provider HTTP call
	DefaultRequestTimeout = 30 * time.Second
	// DefaultLockTTL is how long a sync lock is held before it expires on its own
	DefaultLockTTL = 2 * time.Minute
	// DefaultCacheTTL is how long a synced snapshot stays cached
	DefaultCacheTTL = 30 * time.Minute
	// DefaultCacheCleanup is the go-cache janitor interval
	DefaultCacheCleanup = 10 * time.Minute
	// DefaultShutdownTimeout bounds draining of the async queues on exit
	DefaultShutdownTimeout = 5 * time.Second
)

// Application defaults
const (
	DefaultDatabaseURL  = "ai-apps.db"
	DefaultEventChannel = "ai-apps:events"
	DefaultQueueSize    = 256
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)
