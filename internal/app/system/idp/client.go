// internal/app/system/idp/client.go

// Package idp talks to the external identity provider. Client is the
// production implementation over the provider's REST API; Memory is a
// self-contained implementation for development and tests.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/campushq/campushub/internal/app/identity"
)

// Config carries the provider endpoints and credentials.
type Config struct {
	BaseURL      string // e.g. https://idp.example.com
	TokenURL     string // OAuth2 token endpoint for the service account
	ClientID     string
	ClientSecret string

	// AdminSecret signs the short-lived JWT required by the privileged
	// deletion endpoint, which sits outside the OAuth2 surface.
	AdminSecret string
	Issuer      string
}

// Client implements identity.Provider against the REST API.
type Client struct {
	cfg  Config
	http *http.Client
}

// New builds a Client whose HTTP client injects OAuth2 service-account
// tokens via the client-credentials flow.
func New(ctx context.Context, cfg Config) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &Client{cfg: cfg, http: cc.Client(ctx)}
}

// NewSession opens a scoped account-creation client. Each session carries
// its own token source so creating accounts never reuses or disturbs any
// operator-facing credentials.
func (c *Client) NewSession(ctx context.Context) (identity.Session, error) {
	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
	}
	src := cc.TokenSource(ctx)
	if _, err := src.Token(); err != nil {
		return nil, fmt.Errorf("idp: acquire session token: %w", err)
	}
	return &restSession{
		base: c.cfg.BaseURL,
		http: oauth2.NewClient(ctx, src),
	}, nil
}

// DeleteAccount removes the auth identity through the privileged endpoint.
// The endpoint authenticates with a short-lived HS256 service token rather
// than the OAuth2 access token.
func (c *Client) DeleteAccount(ctx context.Context, uid string) error {
	tok, err := c.adminToken()
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.cfg.BaseURL+"/admin/v1/accounts/"+uid, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("idp: delete account: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		// A missing account counts as deleted.
		return nil
	default:
		return fmt.Errorf("idp: delete account: %s", readAPIError(resp))
	}
}

func (c *Client) adminToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.cfg.Issuer,
		Subject:   c.cfg.ClientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Minute)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(c.cfg.AdminSecret))
	if err != nil {
		return "", fmt.Errorf("idp: sign admin token: %w", err)
	}
	return signed, nil
}

type restSession struct {
	base string
	http *http.Client
}

type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createAccountResponse struct {
	UID string `json:"uid"`
}

func (s *restSession) CreateAccount(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(createAccountRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/v1/accounts", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("idp: create account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return "", fmt.Errorf("idp: %s: %w", email, identity.ErrEmailTaken)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := readAPIError(resp)
		// Some deployments report the duplicate through a generic 400.
		if strings.Contains(msg, "EMAIL_EXISTS") || strings.Contains(msg, "already in use") {
			return "", fmt.Errorf("idp: %s: %w", email, identity.ErrEmailTaken)
		}
		return "", fmt.Errorf("idp: create account: %s", msg)
	}

	var out createAccountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("idp: decode create response: %w", err)
	}
	if out.UID == "" {
		return "", fmt.Errorf("idp: create response missing uid")
	}
	return out.UID, nil
}

func (s *restSession) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	body, err := json.Marshal(map[string]string{
		"display_name": displayName,
		"photo_url":    photoURL,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.base+"/v1/accounts/"+uid+"/profile", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("idp: update profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("idp: update profile: %s", readAPIError(resp))
	}
	return nil
}

// Close releases the session. The REST session holds no server-side
// state, so closing only drops idle connections.
func (s *restSession) Close(ctx context.Context) error {
	s.http.CloseIdleConnections()
	return nil
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func readAPIError(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil && ae.Error.Message != "" {
		return fmt.Sprintf("%s (%d)", ae.Error.Message, resp.StatusCode)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
