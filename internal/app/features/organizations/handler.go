// internal/app/features/organizations/handler.go

// Package organizations manages tenants (hostels and uniclubs) and the
// subgroups inside uniclubs.
package organizations

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/features/shared"
	organizationstore "github.com/campushq/campushub/internal/app/store/organizations"
	"github.com/campushq/campushub/internal/app/system/notify"
	"github.com/campushq/campushub/internal/app/system/sanitize"
	"github.com/campushq/campushub/internal/domain/models"
)

// Handler holds the organizations feature dependencies.
type Handler struct {
	Orgs     *organizationstore.Store
	Notifier notify.Notifier
	Log      *zap.Logger
}

// NewHandler wires the organizations feature.
func NewHandler(orgs *organizationstore.Store, notifier notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{Orgs: orgs, Notifier: notifier, Log: logger}
}

type orgRequest struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	City        string `json:"city"`
	State       string `json:"state"`
	ContactInfo string `json:"contact_info"`
	Status      string `json:"status"`
}

func (req *orgRequest) model() models.Organization {
	return models.Organization{
		Kind:        req.Kind,
		Name:        sanitize.Text(req.Name),
		City:        sanitize.Text(req.City),
		State:       sanitize.Text(req.State),
		ContactInfo: sanitize.Text(req.ContactInfo),
		Status:      req.Status,
	}
}

// HandleCreate handles POST /organizations.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req orgRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		shared.Fail(w, http.StatusBadRequest, "name is required", "")
		return
	}

	org, err := h.Orgs.Create(r.Context(), req.model())
	switch {
	case errors.Is(err, organizationstore.ErrDuplicateOrganization):
		shared.Fail(w, http.StatusConflict, err.Error(), "")
		return
	case err != nil:
		// Covers the invalid-kind sentinel as well.
		shared.Fail(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	shared.JSON(w, http.StatusCreated, org)
}

// HandleList handles GET /organizations?kind=...&status=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orgs.List(r.Context(), r.URL.Query().Get("kind"), r.URL.Query().Get("status"))
	if err != nil {
		h.Log.Error("list organizations", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if list == nil {
		list = []models.Organization{}
	}
	shared.JSON(w, http.StatusOK, map[string]any{"organizations": list})
}

// HandleGet handles GET /organizations/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	org, err := h.Orgs.GetByID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		shared.Fail(w, http.StatusNotFound, "organization not found", "")
		return
	}
	if err != nil {
		h.Log.Error("get organization", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	shared.JSON(w, http.StatusOK, org)
}

// HandleUpdate handles PUT /organizations/{id}. Kind is immutable.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	var req orgRequest
	if !shared.Decode(w, r, &req) {
		return
	}

	err := h.Orgs.Update(r.Context(), id, req.model())
	switch {
	case errors.Is(err, organizationstore.ErrDuplicateOrganization):
		shared.Fail(w, http.StatusConflict, err.Error(), "")
		return
	case err != nil:
		h.Log.Error("update organization", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /organizations/{id}. Subgroups go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	count, err := h.Orgs.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("delete organization", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if count == 0 {
		shared.Fail(w, http.StatusNotFound, "organization not found", "")
		return
	}
	notify.Success(r.Context(), h.Notifier, "organization.deleted", id.Hex(), id.Hex(), "organization removed")
	w.WriteHeader(http.StatusNoContent)
}

type subgroupRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// HandleCreateSubgroup handles POST /organizations/{id}/subgroups.
func (h *Handler) HandleCreateSubgroup(w http.ResponseWriter, r *http.Request) {
	orgID, ok := objectID(w, r)
	if !ok {
		return
	}
	var req subgroupRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		shared.Fail(w, http.StatusBadRequest, "name is required", "")
		return
	}

	// The parent must exist and be a uniclub; hostels have no subgroups.
	org, err := h.Orgs.GetByID(r.Context(), orgID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		shared.Fail(w, http.StatusNotFound, "organization not found", "")
		return
	}
	if err != nil {
		h.Log.Error("get organization", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if org.Kind != models.OrgKindUniclub {
		shared.Fail(w, http.StatusBadRequest, "only uniclubs have subgroups", "")
		return
	}

	sg, err := h.Orgs.CreateSubgroup(r.Context(), models.Subgroup{
		OrganizationID: orgID,
		Name:           sanitize.Text(req.Name),
		Status:         req.Status,
	})
	switch {
	case errors.Is(err, organizationstore.ErrDuplicateSubgroup):
		shared.Fail(w, http.StatusConflict, err.Error(), "")
		return
	case err != nil:
		h.Log.Error("create subgroup", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	shared.JSON(w, http.StatusCreated, sg)
}

// HandleListSubgroups handles GET /organizations/{id}/subgroups.
func (h *Handler) HandleListSubgroups(w http.ResponseWriter, r *http.Request) {
	orgID, ok := objectID(w, r)
	if !ok {
		return
	}
	list, err := h.Orgs.ListSubgroups(r.Context(), orgID)
	if err != nil {
		h.Log.Error("list subgroups", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if list == nil {
		list = []models.Subgroup{}
	}
	shared.JSON(w, http.StatusOK, map[string]any{"subgroups": list})
}

// HandleDeleteSubgroup handles DELETE /organizations/{id}/subgroups/{sgID}.
func (h *Handler) HandleDeleteSubgroup(w http.ResponseWriter, r *http.Request) {
	sgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sgID"))
	if err != nil {
		shared.Fail(w, http.StatusBadRequest, "malformed id", "")
		return
	}
	count, err := h.Orgs.DeleteSubgroup(r.Context(), sgID)
	if err != nil {
		h.Log.Error("delete subgroup", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if count == 0 {
		shared.Fail(w, http.StatusNotFound, "subgroup not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func objectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		shared.Fail(w, http.StatusBadRequest, "malformed id", "")
		return primitive.NilObjectID, false
	}
	return id, true
}
