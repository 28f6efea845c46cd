// internal/app/features/authn/routes.go
package authn

import (
	"github.com/go-chi/chi/v5"

	"github.com/campushq/campushub/internal/app/system/ratelimit"
)

// Routes mounts the token endpoint. Credential guessing is the one
// place the limiter matters most, so it covers the whole subtree.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Use(limiter.Middleware)
	r.Post("/token", h.HandleToken)
	return r
}
