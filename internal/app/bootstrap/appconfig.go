// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to CampusHub:
// database connection, identity-provider credentials, storage, the
// event broker, and API token signing.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Operator API tokens
	APITokenSecret string
	APITokenIssuer string
	APITokenTTL    time.Duration
	AdminEmails    []string // operators granted the admin role at sign-in

	// Identity provider: "memory" for development, "rest" for the real one
	IDPProvider     string
	IDPBaseURL      string
	IDPTokenURL     string
	IDPClientID     string
	IDPClientSecret string
	IDPAdminSecret  string

	// Event broker (blank address means log-only notifications)
	RedisAddr    string
	RedisChannel string

	// File storage configuration
	StorageType      string // "local" or "s3"
	StorageLocalPath string
	StorageLocalURL  string

	// S3-compatible storage (only used if StorageType is "s3")
	StorageS3Endpoint  string
	StorageS3AccessKey string
	StorageS3SecretKey string
	StorageS3Bucket    string
	StorageS3UseSSL    bool
	StorageS3PublicURL string

	// Rate limiting for mutating endpoints
	RateLimitRequests int
	RateLimitWindow   time.Duration
}
