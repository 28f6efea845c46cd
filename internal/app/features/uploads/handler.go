// internal/app/features/uploads/handler.go

// Package uploads receives image files from the dashboard and stores
// them in the blob store. The returned URL is what the client then puts
// in an assignment intent or a business/deal payload; raw files never
// travel any further into the system.
package uploads

import (
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/features/shared"
	"github.com/campushq/campushub/internal/app/system/blobstore"
)

const maxUploadBytes = 8 << 20 // 8 MiB

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Handler holds the uploads feature dependencies.
type Handler struct {
	Blobs blobstore.Store
	Log   *zap.Logger
}

// NewHandler wires the uploads feature.
func NewHandler(blobs blobstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Blobs: blobs, Log: logger}
}

// HandleUpload handles POST /uploads (multipart, field "file", optional
// field "folder"). Responds with { "url": "..." }.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.Fail(w, http.StatusBadRequest, "upload too large or malformed", "")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.Fail(w, http.StatusBadRequest, `multipart field "file" is required`, "")
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedExtensions[ext] {
		shared.Fail(w, http.StatusUnsupportedMediaType, "only image uploads are accepted", "")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" || strings.ContainsAny(folder, "./\\") {
		folder = "misc"
	}

	url, err := h.Blobs.Put(r.Context(), folder, header.Filename,
		header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		h.Log.Error("store upload", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "could not store upload", "")
		return
	}

	shared.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
