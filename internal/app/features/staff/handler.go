// internal/app/features/staff/handler.go

// Package staff is the HTTP boundary in front of the identity assigner.
// It decodes assignment intents, normalizes the permission payload down
// to the canonical set, filters it to the target scope, and maps domain
// errors to statuses. All decisions about accounts and records stay in
// the identity package.
package staff

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/features/shared"
	"github.com/campushq/campushub/internal/app/identity"
	staffstore "github.com/campushq/campushub/internal/app/store/staff"
	"github.com/campushq/campushub/internal/app/system/apiauth"
	"github.com/campushq/campushub/internal/app/system/notify"
	"github.com/campushq/campushub/internal/app/system/permset"
	"github.com/campushq/campushub/internal/app/system/sanitize"
	"github.com/campushq/campushub/internal/domain/models"
)

// AssignService is the slice of the identity assigner this handler uses.
type AssignService interface {
	Assign(ctx context.Context, intent identity.Intent, editingID string, actor identity.Actor) (identity.Result, error)
	Unassign(ctx context.Context, recordID string) error
}

// Roster is the read side: list and get over the staff collection.
type Roster interface {
	Get(ctx context.Context, id string) (*models.Staff, error)
	ListByScope(ctx context.Context, orgID, subgroupID string) ([]models.Staff, error)
}

// Handler holds the staff feature dependencies.
type Handler struct {
	Assigner AssignService
	Roster   Roster
	Notifier notify.Notifier
	Log      *zap.Logger
}

// NewHandler wires the staff feature.
func NewHandler(assigner AssignService, roster *staffstore.Store, notifier notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{Assigner: assigner, Roster: roster, Notifier: notifier, Log: logger}
}

// assignRequest is the JSON intent. Permissions accepts the three shapes
// clients historically sent: an array of keys, a comma-joined string, or
// a key->bool map.
type assignRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Designation string `json:"designation"`
	StudentID   string `json:"student_id"`
	PhotoURL    string `json:"photo_url"`

	Permissions json.RawMessage `json:"permissions"`

	Scope          string `json:"scope"`
	OrganizationID string `json:"organization_id"`
	SubgroupID     string `json:"subgroup_id"`
}

func (req *assignRequest) intent() identity.Intent {
	var raw any
	if len(req.Permissions) > 0 {
		_ = json.Unmarshal(req.Permissions, &raw)
	}
	scope := req.Scope
	if scope == "" {
		scope = permset.ScopeOrganization
	}
	perms := permset.FilterScope(permset.Normalize(raw), scope)

	return identity.Intent{
		Email:          req.Email,
		FullName:       sanitize.Text(req.FullName),
		Phone:          req.Phone,
		Address:        sanitize.Text(req.Address),
		Designation:    sanitize.Text(req.Designation),
		StudentID:      req.StudentID,
		PhotoURL:       req.PhotoURL,
		Permissions:    perms,
		Scope:          scope,
		OrganizationID: req.OrganizationID,
		SubgroupID:     req.SubgroupID,
	}
}

type assignResponse struct {
	Outcome string `json:"outcome"`
	ID      string `json:"id"`
}

func actorFrom(ctx context.Context) identity.Actor {
	op, _ := apiauth.FromContext(ctx)
	return identity.Actor{UID: op.UID, Name: op.Name}
}

// HandleAssign handles POST /staff: the create/reuse path.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	intent := req.intent()

	res, err := h.Assigner.Assign(r.Context(), intent, "", actorFrom(r.Context()))
	if err != nil {
		shared.DomainError(w, h.Log, err)
		return
	}

	go notify.Success(context.Background(), h.Notifier, "staff.assigned",
		intent.OrganizationID, res.ID, intent.FullName+" assigned")

	status := http.StatusOK
	if res.Outcome == identity.OutcomeCreated {
		status = http.StatusCreated
	}
	shared.JSON(w, status, assignResponse{Outcome: string(res.Outcome), ID: res.ID})
}

// HandleEdit handles PUT /staff/{id}: the explicit edit path.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req assignRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	intent := req.intent()

	res, err := h.Assigner.Assign(r.Context(), intent, id, actorFrom(r.Context()))
	if err != nil {
		shared.DomainError(w, h.Log, err)
		return
	}

	go notify.Success(context.Background(), h.Notifier, "staff.updated",
		intent.OrganizationID, res.ID, intent.FullName+" updated")

	shared.JSON(w, http.StatusOK, assignResponse{Outcome: string(res.Outcome), ID: res.ID})
}

// HandleUnassign handles DELETE /staff/{id}.
func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Assigner.Unassign(r.Context(), id); err != nil {
		shared.DomainError(w, h.Log, err)
		return
	}

	go notify.Success(context.Background(), h.Notifier, "staff.unassigned", "", id, "staff member removed")

	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /staff?organization_id=...&subgroup_id=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		shared.Fail(w, http.StatusBadRequest, "organization_id is required", "")
		return
	}
	subgroupID := r.URL.Query().Get("subgroup_id")

	list, err := h.Roster.ListByScope(r.Context(), orgID, subgroupID)
	if err != nil {
		h.Log.Error("list staff", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if list == nil {
		list = []models.Staff{}
	}
	shared.JSON(w, http.StatusOK, map[string]any{"staff": list})
}

// HandleGet handles GET /staff/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	st, err := h.Roster.Get(r.Context(), id)
	if err != nil {
		h.Log.Error("get staff", zap.String("id", id), zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if st == nil {
		shared.Fail(w, http.StatusNotFound, "record not found", identity.ReasonRecordMissing)
		return
	}
	shared.JSON(w, http.StatusOK, st)
}
