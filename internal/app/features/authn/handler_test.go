// internal/app/features/authn/handler_test.go

package authn_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/campushub/internal/app/features/authn"
	"github.com/campushq/campushub/internal/app/system/apiauth"
	"github.com/campushq/campushub/internal/app/system/ratelimit"
	"github.com/campushq/campushub/internal/domain/models"
	"github.com/campushq/campushub/internal/testutil"
)

func seedStaff(t *testing.T, staff *testutil.FakeStaff, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	staff.Docs["uid-1"] = models.Staff{
		ID:             "uid-1",
		FullName:       "Ada Admin",
		Email:          email,
		PasswordHash:   string(hash),
		OrganizationID: "org1",
	}
}

func newRouter(t *testing.T, staff *testutil.FakeStaff, adminEmails []string) (http.Handler, *apiauth.Auth) {
	t.Helper()
	auth := apiauth.New("secret", "campushub-test", time.Hour)
	limiter := ratelimit.New(100, time.Minute)
	t.Cleanup(limiter.Close)
	h := authn.NewHandler(staff, auth, adminEmails, zap.NewNop())
	return authn.Routes(h, limiter), auth
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTokenIssuedForValidCredentials(t *testing.T) {
	staff := testutil.NewFakeStaff()
	seedStaff(t, staff, "ada@example.com", "hunter2")
	h, auth := newRouter(t, staff, []string{"Ada@Example.com"})

	rec := post(h, `{"email":" Ada@Example.COM ","password":"hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Role != apiauth.RoleAdmin {
		t.Errorf("role = %q", resp.Role)
	}
	op, err := auth.Verify(resp.Token)
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if op.UID != "uid-1" || op.OrganizationID != "org1" {
		t.Errorf("operator = %+v", op)
	}
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	staff := testutil.NewFakeStaff()
	seedStaff(t, staff, "ada@example.com", "hunter2")
	h, _ := newRouter(t, staff, nil)

	cases := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"ada@example.com","password":"nope"}`},
		{"unknown email", `{"email":"ghost@example.com","password":"hunter2"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := post(h, tc.body); rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d", rec.Code)
			}
		})
	}
}

func TestNonAdminGetsOperatorRole(t *testing.T) {
	staff := testutil.NewFakeStaff()
	seedStaff(t, staff, "ada@example.com", "hunter2")
	h, _ := newRouter(t, staff, nil)

	rec := post(h, `{"email":"ada@example.com","password":"hunter2"}`)
	var resp struct {
		Role string `json:"role"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Role != apiauth.RoleOperator {
		t.Errorf("role = %q", resp.Role)
	}
}
