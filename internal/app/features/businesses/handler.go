// internal/app/features/businesses/handler.go

// Package businesses manages the merchants that publish deals.
package businesses

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/features/shared"
	businessstore "github.com/campushq/campushub/internal/app/store/businesses"
	"github.com/campushq/campushub/internal/app/system/sanitize"
	"github.com/campushq/campushub/internal/domain/models"
)

// Handler holds the businesses feature dependencies.
type Handler struct {
	Businesses *businessstore.Store
	Log        *zap.Logger
}

// NewHandler wires the businesses feature.
func NewHandler(businesses *businessstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Businesses: businesses, Log: logger}
}

type businessRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	LogoURL     string `json:"logo_url"`
	Status      string `json:"status"`
}

func (req *businessRequest) model() models.Business {
	return models.Business{
		Name:        sanitize.Text(req.Name),
		Category:    sanitize.Text(req.Category),
		Description: sanitize.HTML(req.Description),
		Phone:       req.Phone,
		Address:     sanitize.Text(req.Address),
		LogoURL:     req.LogoURL,
		Status:      req.Status,
	}
}

// HandleCreate handles POST /businesses.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req businessRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		shared.Fail(w, http.StatusBadRequest, "name is required", "")
		return
	}

	b, err := h.Businesses.Create(r.Context(), req.model())
	switch {
	case errors.Is(err, businessstore.ErrDuplicateBusiness):
		shared.Fail(w, http.StatusConflict, err.Error(), "")
		return
	case err != nil:
		h.Log.Error("create business", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	shared.JSON(w, http.StatusCreated, b)
}

// HandleList handles GET /businesses?category=...&status=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Businesses.List(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("status"))
	if err != nil {
		h.Log.Error("list businesses", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if list == nil {
		list = []models.Business{}
	}
	shared.JSON(w, http.StatusOK, map[string]any{"businesses": list})
}

// HandleGet handles GET /businesses/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	b, err := h.Businesses.GetByID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		shared.Fail(w, http.StatusNotFound, "business not found", "")
		return
	}
	if err != nil {
		h.Log.Error("get business", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	shared.JSON(w, http.StatusOK, b)
}

// HandleUpdate handles PUT /businesses/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	var req businessRequest
	if !shared.Decode(w, r, &req) {
		return
	}

	err := h.Businesses.Update(r.Context(), id, req.model())
	switch {
	case errors.Is(err, businessstore.ErrDuplicateBusiness):
		shared.Fail(w, http.StatusConflict, err.Error(), "")
		return
	case err != nil:
		h.Log.Error("update business", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /businesses/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	count, err := h.Businesses.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("delete business", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if count == 0 {
		shared.Fail(w, http.StatusNotFound, "business not found", "")
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
