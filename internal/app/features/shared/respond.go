// internal/app/features/shared/respond.go

// Package shared holds the JSON plumbing every feature handler uses:
// response encoding, request decoding, and the mapping from domain
// error kinds to HTTP statuses.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/identity"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Fail writes an error envelope.
func Fail(w http.ResponseWriter, status int, msg, reason string) {
	JSON(w, status, errorBody{Error: msg, Reason: reason})
}

// Decode reads a JSON body into dst, answering 400 itself on failure.
// Returns false when the handler should stop.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		Fail(w, http.StatusBadRequest, "malformed request body", "")
		return false
	}
	return true
}

// DomainError maps identity error kinds onto HTTP statuses and writes
// the envelope. Unrecognized errors become 500 with a generic message
// so internals never leak; the caller is expected to have logged them.
func DomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		vErr *identity.ValidationError
		nErr *identity.NotFoundError
		cErr *identity.ConflictError
		oErr *identity.OrphanedAuthError
		pErr *identity.ProviderError
	)
	switch {
	case errors.As(err, &vErr):
		Fail(w, http.StatusBadRequest, "invalid assignment", vErr.Reason)
	case errors.As(err, &nErr):
		Fail(w, http.StatusNotFound, "record not found", nErr.Reason)
	case errors.As(err, &cErr):
		Fail(w, http.StatusConflict, "assignment conflict", cErr.Reason)
	case errors.As(err, &oErr):
		Fail(w, http.StatusConflict, "auth identity exists without a record", identity.ReasonAuthExistsNoDoc)
	case errors.As(err, &pErr):
		logger.Error("auth provider failure", zap.Error(err))
		Fail(w, http.StatusBadGateway, "auth provider unavailable", "")
	default:
		logger.Error("internal error", zap.Error(err))
		Fail(w, http.StatusInternalServerError, "internal error", "")
	}
}
