// internal/app/features/staff/routes.go
package staff

import (
	"github.com/go-chi/chi/v5"

	"github.com/campushq/campushub/internal/app/system/ratelimit"
)

// Routes mounts the staff endpoints. The caller mounts this under
// /api/v1/staff behind the bearer-token middleware; the limiter covers
// only the mutating routes, which fan out to the identity provider.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	r.Group(func(mr chi.Router) {
		mr.Use(limiter.Middleware)
		mr.Post("/", h.HandleAssign)
		mr.Put("/{id}", h.HandleEdit)
		mr.Delete("/{id}", h.HandleUnassign)
	})

	return r
}
