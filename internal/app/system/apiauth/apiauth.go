// internal/app/system/apiauth/apiauth.go

// Package apiauth authenticates dashboard API calls with bearer tokens.
// Tokens are HS256 JWTs minted at sign-in; every authenticated request
// carries the operator's uid, display name, and role in its claims.
package apiauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles an operator token can carry. Admin manages everything; an org
// operator manages one organization.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Claims are the JWT claims for an operator token.
type Claims struct {
	Name           string `json:"name"`
	Role           string `json:"role"`
	OrganizationID string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// Operator is the authenticated caller, derived from verified claims.
type Operator struct {
	UID            string
	Name           string
	Role           string
	OrganizationID string
}

type ctxKey struct{}

// FromContext returns the operator placed by Middleware.
func FromContext(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(ctxKey{}).(Operator)
	return op, ok
}

// WithOperator injects an operator, for tests and internal calls.
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, ctxKey{}, op)
}

// Auth mints and verifies tokens.
type Auth struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// New builds an Auth with the signing secret. ttl bounds token life.
func New(secret, issuer string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTLSeconds reports the configured token lifetime in whole seconds.
func (a *Auth) TTLSeconds() int64 {
	return int64(a.ttl.Seconds())
}

// Mint signs a token for the operator.
func (a *Auth) Mint(op Operator) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:           op.Name,
		Role:           op.Role,
		OrganizationID: op.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.UID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses and validates a token string.
func (a *Auth) Verify(token string) (Operator, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(a.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Operator{}, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return Operator{}, fmt.Errorf("apiauth: invalid token")
	}
	return Operator{
		UID:            claims.Subject,
		Name:           claims.Name,
		Role:           claims.Role,
		OrganizationID: claims.OrganizationID,
	}, nil
}

// Middleware rejects requests without a valid bearer token and stores
// the operator on the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
			return
		}
		op, err := a.Verify(raw)
		if err != nil {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), op)))
	})
}

// RequireAdmin gates a subtree to admin tokens. Mount after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, ok := FromContext(r.Context())
		if !ok || op.Role != RoleAdmin {
			http.Error(w, `{"error":"admin only"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
