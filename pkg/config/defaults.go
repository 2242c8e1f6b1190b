package config

import "time"

const (
	DefaultEnvFile = ".env"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "toolrent"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultJWTIssuer = "toolrent-identity"

	DefaultRedisDB              = 0
	DefaultBlockedDatesCacheTTL = 5 * time.Minute

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Must outlive RequestTimeout so a lock cannot expire under a live request.
	DefaultBookingLockTTL    = 45 * time.Second
	DefaultLockSweepSchedule = "@every 1m"
	DefaultMaxBookingDays    = 365

	DefaultPaginationLimit = 100
)
