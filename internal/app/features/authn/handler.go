// internal/app/features/authn/handler.go

// Package authn issues API bearer tokens to operators. Credentials are
// checked against the staff record's password hash; the plaintext
// mirror in the document is never read here.
package authn

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/campushub/internal/app/features/shared"
	"github.com/campushq/campushub/internal/app/system/apiauth"
	"github.com/campushq/campushub/internal/app/system/normalize"
	"github.com/campushq/campushub/internal/domain/models"
)

// Credentials is the lookup the handler needs from the staff store.
type Credentials interface {
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)
}

// Handler holds the token-issuance dependencies.
type Handler struct {
	Staff  Credentials
	Auth   *apiauth.Auth
	Admins map[string]bool // emails granted the admin role
	Log    *zap.Logger
}

// NewHandler wires the authn feature. adminEmails are already
// normalized lowercase by config loading convention; they are folded
// again here to be safe.
func NewHandler(staff Credentials, auth *apiauth.Auth, adminEmails []string, logger *zap.Logger) *Handler {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalize.Email(e)] = true
	}
	return &Handler{Staff: staff, Auth: auth, Admins: admins, Log: logger}
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresIn int64  `json:"expires_in"`
}

// HandleToken handles POST /auth/token.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	email := normalize.Email(req.Email)

	st, err := h.Staff.FindByEmail(r.Context(), email)
	if err != nil {
		h.Log.Error("credential lookup", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	// Same response for unknown e-mail and wrong password.
	if st == nil || st.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(req.Password)) != nil {
		shared.Fail(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	role := apiauth.RoleOperator
	if h.Admins[email] {
		role = apiauth.RoleAdmin
	}
	token, err := h.Auth.Mint(apiauth.Operator{
		UID:            st.ID,
		Name:           st.FullName,
		Role:           role,
		OrganizationID: st.OrganizationID,
	})
	if err != nil {
		h.Log.Error("mint token", zap.Error(err))
		shared.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	shared.JSON(w, http.StatusOK, tokenResponse{Token: token, Role: role, ExpiresIn: h.Auth.TTLSeconds()})
}
