// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CampusHub.
// Loaded via WAFFLE's config system with support for config files,
// environment variables (CAMPUSHUB_MONGO_URI and so on), and flags.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campushub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Operator API tokens
	{Name: "api_token_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "HS256 signing secret for API bearer tokens"},
	{Name: "api_token_issuer", Default: "campushub", Desc: "Issuer claim for API bearer tokens"},
	{Name: "api_token_ttl", Default: "12h", Desc: "API bearer token lifetime (e.g., 12h, 30m)"},
	{Name: "admin_emails", Default: "", Desc: "Comma-separated operator e-mails granted the admin role"},

	// Identity provider
	{Name: "idp_provider", Default: "memory", Desc: "Identity provider backend: 'memory' or 'rest'"},
	{Name: "idp_base_url", Default: "", Desc: "Identity provider API base URL (rest provider)"},
	{Name: "idp_token_url", Default: "", Desc: "OAuth2 token endpoint for the IDP service account"},
	{Name: "idp_client_id", Default: "", Desc: "IDP service-account client id"},
	{Name: "idp_client_secret", Default: "", Desc: "IDP service-account client secret"},
	{Name: "idp_admin_secret", Default: "", Desc: "Signing secret for the privileged IDP deletion endpoint"},

	// Event broker
	{Name: "redis_addr", Default: "", Desc: "Redis address for event publishing (blank = log only)"},
	{Name: "redis_channel", Default: "campushub.events", Desc: "Redis channel for operator events"},

	// File storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./data/uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/uploads", Desc: "URL prefix for serving local files"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "S3-compatible endpoint (host:port)"},
	{Name: "storage_s3_access_key", Default: "", Desc: "S3 access key"},
	{Name: "storage_s3_secret_key", Default: "", Desc: "S3 secret key"},
	{Name: "storage_s3_bucket", Default: "campushub-uploads", Desc: "S3 bucket name"},
	{Name: "storage_s3_use_ssl", Default: true, Desc: "Use TLS when talking to S3"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Public URL prefix when a CDN fronts the bucket"},

	// Rate limiting
	{Name: "rate_limit_requests", Default: 60, Desc: "Requests allowed per window on mutating endpoints"},
	{Name: "rate_limit_window", Default: "1m", Desc: "Rate limit window (e.g., 1m, 30s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Called early in startup so that both WAFFLE and the app have access
// to configuration before any backends or handlers are built. Merging
// precedence follows WAFFLE: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPUSHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APITokenSecret: appValues.String("api_token_secret"),
		APITokenIssuer: appValues.String("api_token_issuer"),
		APITokenTTL:    appValues.Duration("api_token_ttl", 12*time.Hour),
		AdminEmails:    splitList(appValues.String("admin_emails")),

		IDPProvider:     appValues.String("idp_provider"),
		IDPBaseURL:      appValues.String("idp_base_url"),
		IDPTokenURL:     appValues.String("idp_token_url"),
		IDPClientID:     appValues.String("idp_client_id"),
		IDPClientSecret: appValues.String("idp_client_secret"),
		IDPAdminSecret:  appValues.String("idp_admin_secret"),

		RedisAddr:    appValues.String("redis_addr"),
		RedisChannel: appValues.String("redis_channel"),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		StorageS3Endpoint:  appValues.String("storage_s3_endpoint"),
		StorageS3AccessKey: appValues.String("storage_s3_access_key"),
		StorageS3SecretKey: appValues.String("storage_s3_secret_key"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3UseSSL:    appValues.Bool("storage_s3_use_ssl"),
		StorageS3PublicURL: appValues.String("storage_s3_public_url"),

		RateLimitRequests: appValues.Int("rate_limit_requests"),
		RateLimitWindow:   appValues.Duration("rate_limit_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked up front to catch configuration errors
// before attempting to connect, and a rest identity provider must come
// with its endpoints and credentials.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.IDPProvider {
	case "memory":
	case "rest":
		if appCfg.IDPBaseURL == "" || appCfg.IDPTokenURL == "" || appCfg.IDPClientID == "" || appCfg.IDPClientSecret == "" {
			return fmt.Errorf("idp_provider 'rest' requires idp_base_url, idp_token_url, idp_client_id, and idp_client_secret")
		}
		if appCfg.IDPAdminSecret == "" {
			return fmt.Errorf("idp_provider 'rest' requires idp_admin_secret for account deletion")
		}
	default:
		return fmt.Errorf("idp_provider must be 'memory' or 'rest', got %q", appCfg.IDPProvider)
	}

	switch appCfg.StorageType {
	case "local":
	case "s3":
		if appCfg.StorageS3Endpoint == "" || appCfg.StorageS3AccessKey == "" || appCfg.StorageS3SecretKey == "" {
			return fmt.Errorf("storage_type 's3' requires storage_s3_endpoint, storage_s3_access_key, and storage_s3_secret_key")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType)
	}

	if coreCfg.Env == "prod" && appCfg.APITokenSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("api_token_secret must be changed in production")
	}

	return nil
}
