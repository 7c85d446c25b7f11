package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hms"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory lock expiry for the check-then-act booking window. Long
	// enough to cover a slow transaction, short enough that a crashed
	// holder does not block a bed for long.
	DefaultBedLockTTL = 10 * time.Second

	DefaultStorageRetries      = 3
	DefaultStorageRetryBackoff = 200 * time.Millisecond

	DefaultEventsEnabled      = false
	DefaultBookingEventsTopic = "booking-events"
	DefaultHousekeepingGroup  = "housekeeping-scheduler"

	DefaultPaginationLimit = 50
	MaxPaginationLimit     = 200
)

// NormalizePaginationLimit clamps a caller-supplied limit to sane bounds.
func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return DefaultPaginationLimit
	}
	if limit > MaxPaginationLimit {
		return MaxPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	if offset < 0 {
		return 0
	}
	return offset
}
