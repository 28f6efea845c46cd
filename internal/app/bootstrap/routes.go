// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authnfeature "github.com/campushq/campushub/internal/app/features/authn"
	businessesfeature "github.com/campushq/campushub/internal/app/features/businesses"
	dealsfeature "github.com/campushq/campushub/internal/app/features/deals"
	healthfeature "github.com/campushq/campushub/internal/app/features/health"
	organizationsfeature "github.com/campushq/campushub/internal/app/features/organizations"
	stafffeature "github.com/campushq/campushub/internal/app/features/staff"
	uploadsfeature "github.com/campushq/campushub/internal/app/features/uploads"
	"github.com/campushq/campushub/internal/app/identity"
	businessstore "github.com/campushq/campushub/internal/app/store/businesses"
	dealstore "github.com/campushq/campushub/internal/app/store/deals"
	memberstore "github.com/campushq/campushub/internal/app/store/members"
	organizationstore "github.com/campushq/campushub/internal/app/store/organizations"
	staffstore "github.com/campushq/campushub/internal/app/store/staff"
	"github.com/campushq/campushub/internal/app/system/apiauth"
	"github.com/campushq/campushub/internal/app/system/blobstore"
	"github.com/campushq/campushub/internal/app/system/idp"
	"github.com/campushq/campushub/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. The JSON API lives under
// /api/v1 behind bearer-token auth; /health and /auth/token are the
// only open endpoints, plus the local upload file server when local
// storage is configured.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	staffSt := staffstore.New(deps.MongoDatabase)
	memberSt := memberstore.New(deps.MongoDatabase)
	orgSt := organizationstore.New(deps.MongoDatabase)
	businessSt := businessstore.New(deps.MongoDatabase)
	dealSt := dealstore.New(deps.MongoDatabase)

	provider, err := buildProvider(appCfg)
	if err != nil {
		return nil, err
	}
	assigner := identity.NewAssigner(memberSt, staffSt, provider, logger)

	blobs, err := buildBlobstore(appCfg)
	if err != nil {
		return nil, err
	}

	auth := apiauth.New(appCfg.APITokenSecret, appCfg.APITokenIssuer, appCfg.APITokenTTL)
	limiter := ratelimit.New(appCfg.RateLimitRequests, appCfg.RateLimitWindow)

	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	authnHandler := authnfeature.NewHandler(staffSt, auth, appCfg.AdminEmails, logger)
	r.Mount("/auth", authnfeature.Routes(authnHandler, limiter))

	// Uploaded files are public by design; their URLs are embedded in
	// documents served to every client.
	if appCfg.StorageType == "local" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(auth.Middleware)

		staffHandler := stafffeature.NewHandler(assigner, staffSt, notifier, logger)
		api.Mount("/staff", stafffeature.Routes(staffHandler, limiter))

		orgHandler := organizationsfeature.NewHandler(orgSt, notifier, logger)
		api.Mount("/organizations", organizationsfeature.Routes(orgHandler))

		businessHandler := businessesfeature.NewHandler(businessSt, logger)
		api.Mount("/businesses", businessesfeature.Routes(businessHandler))

		dealHandler := dealsfeature.NewHandler(dealSt, businessSt, notifier, logger)
		api.Mount("/deals", dealsfeature.Routes(dealHandler))

		uploadHandler := uploadsfeature.NewHandler(blobs, logger)
		api.Mount("/uploads", uploadsfeature.Routes(uploadHandler))
	})

	return r, nil
}

func buildProvider(appCfg AppConfig) (identity.Provider, error) {
	if appCfg.IDPProvider == "rest" {
		return idp.New(context.Background(), idp.Config{
			BaseURL:      appCfg.IDPBaseURL,
			TokenURL:     appCfg.IDPTokenURL,
			ClientID:     appCfg.IDPClientID,
			ClientSecret: appCfg.IDPClientSecret,
			AdminSecret:  appCfg.IDPAdminSecret,
			Issuer:       appCfg.APITokenIssuer,
		}), nil
	}
	return idp.NewMemory(), nil
}

func buildBlobstore(appCfg AppConfig) (blobstore.Store, error) {
	if appCfg.StorageType == "s3" {
		return blobstore.NewS3(context.Background(), blobstore.S3Config{
			Endpoint:      appCfg.StorageS3Endpoint,
			AccessKey:     appCfg.StorageS3AccessKey,
			SecretKey:     appCfg.StorageS3SecretKey,
			Bucket:        appCfg.StorageS3Bucket,
			UseSSL:        appCfg.StorageS3UseSSL,
			PublicBaseURL: appCfg.StorageS3PublicURL,
		})
	}
	return blobstore.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
}
