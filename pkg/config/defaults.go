package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "inspirehub"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultSessionTokenTTL = 24 * time.Hour
	DefaultReauthTokenTTL  = 5 * time.Minute

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTemplateDir         = "./templates"
	DefaultReservationsBaseURL = "http://localhost:8080"
	DefaultContractsBaseURL    = "http://localhost:8081"

	DefaultSMTPHost = "localhost"
	DefaultSMTPPort = 587

	DefaultPaginationLimit = 100
)
