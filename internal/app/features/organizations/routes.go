// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/go-chi/chi/v5"

	"github.com/campushq/campushub/internal/app/system/apiauth"
)

// Routes mounts the organization endpoints. Deleting a tenant is
// admin-only; everything else any authenticated operator can do.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)

	r.Group(func(ar chi.Router) {
		ar.Use(apiauth.RequireAdmin)
		ar.Delete("/{id}", h.HandleDelete)
	})

	r.Post("/{id}/subgroups", h.HandleCreateSubgroup)
	r.Get("/{id}/subgroups", h.HandleListSubgroups)
	r.Delete("/{id}/subgroups/{sgID}", h.HandleDeleteSubgroup)

	return r
}
