// internal/app/features/deals/handler.go

// Package deals manages time-bounded offers published by businesses.
// Descriptions come from a rich-text editor and are sanitized before
// anything is stored.
package deals

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/features/shared"
	businessstore "github.com/campushq/campushub/internal/app/store/businesses"
	dealstore "github.com/campushq/campushub/internal/app/store/deals"
	"github.com/campushq/campushub/internal/app/system/notify"
	"github.com/campushq/campushub/internal/app/system/sanitize"
	"github.com/campushq/campushub/internal/domain/models"
)

// Handler holds the deals feature dependencies.
type Handler struct {
	Deals      *dealstore.Store
	Businesses *businessstore.Store
	Notifier   notify.Notifier
	Log        *zap.Logger
}

// NewHandler wires the deals feature.
func NewHandler(deals *dealstore.Store, businesses *businessstore.Store, notifier notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{Deals: deals, Businesses: businesses, Notifier: notifier, Log: logger}
}

type dealRequest struct {
	BusinessID  string    `json:"business_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	ValidFrom   time.Time `json:"valid_from"`
	ValidUntil  time.Time `json:"valid_until"`
	Status      string    `json:"status"`
}

// HandleCreate handles POST /deals.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		shared.Fail(w, http.StatusBadRequest, "title is required", "")
		return
	}
	businessID, err := primitive.ObjectIDFromHex(req.BusinessID)
	if err != nil {
		shared.Fail(w, http.StatusBadRequest, "malformed business_id", "")
		return
	}

	// The owning business must exist; deals never dangle.
	if _, err := h.Businesses.GetByID(r.Context(), businessID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Fail(w, http.StatusNotFound, "business not found", "")
			return
		}
		h.Log.Error("get business", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	d, err := h.Deals.Create(r.Context(), models.Deal{
		BusinessID:  businessID,
		Title:       req.Title,
		Description: sanitize.HTML(req.Description),
		ImageURL:    req.ImageURL,
		ValidFrom:   req.ValidFrom,
		ValidUntil:  req.ValidUntil,
		Status:      req.Status,
	})
	switch {
	case errors.Is(err, dealstore.ErrBadWindow):
		shared.Fail(w, http.StatusBadRequest, err.Error(), "")
		return
	case err != nil:
		h.Log.Error("create deal", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	notify.Success(r.Context(), h.Notifier, "deal.created", "", d.ID.Hex(), d.Title+" published")
	shared.JSON(w, http.StatusCreated, d)
}

// HandleListByBusiness handles GET /deals?business_id=...&status=...
func (h *Handler) HandleListByBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("business_id"))
	if err != nil {
		shared.Fail(w, http.StatusBadRequest, "business_id is required", "")
		return
	}
	list, err := h.Deals.ListByBusiness(r.Context(), businessID, r.URL.Query().Get("status"))
	if err != nil {
		h.Log.Error("list deals", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if list == nil {
		list = []models.Deal{}
	}
	shared.JSON(w, http.StatusOK, map[string]any{"deals": list})
}

// HandleGet handles GET /deals/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	d, err := h.Deals.GetByID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		shared.Fail(w, http.StatusNotFound, "deal not found", "")
		return
	}
	if err != nil {
		h.Log.Error("get deal", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	shared.JSON(w, http.StatusOK, d)
}

// HandleUpdate handles PUT /deals/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	var req dealRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	// When both ends of the window are supplied they must still be
	// ordered; partial updates are validated by the store against what
	// is already there only when the window is replaced wholesale.
	if !req.ValidFrom.IsZero() && !req.ValidUntil.IsZero() && !req.ValidUntil.After(req.ValidFrom) {
		shared.Fail(w, http.StatusBadRequest, dealstore.ErrBadWindow.Error(), "")
		return
	}

	err := h.Deals.Update(r.Context(), id, models.Deal{
		Title:       req.Title,
		Description: sanitize.HTML(req.Description),
		ImageURL:    req.ImageURL,
		ValidFrom:   req.ValidFrom,
		ValidUntil:  req.ValidUntil,
		Status:      req.Status,
	})
	if err != nil {
		h.Log.Error("update deal", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /deals/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	count, err := h.Deals.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("delete deal", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if count == 0 {
		shared.Fail(w, http.StatusNotFound, "deal not found", "")
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
