// internal/app/identity/identity.go

// Package identity decides how a role assignment maps onto auth accounts
// and person records. Given an assignment intent it either updates the
// record the operator is editing, reuses an identity already known under
// the same email in either person collection, or creates a fresh auth
// account and record pair. Permissions merge monotonically, and at most
// one auth identity ever exists per email.
package identity

import (
	"context"

	"github.com/campushq/campushub/internal/app/system/permset"
	"github.com/campushq/campushub/internal/domain/models"
)

// Intent is the ephemeral input to Assign: the target state an operator
// wants for one person. It is never persisted.
type Intent struct {
	Email       string
	FullName    string
	Phone       string
	Address     string
	Designation string
	StudentID   string
	PhotoURL    string // already uploaded by the caller; only the URL travels here

	Permissions permset.Set

	// Scope is permset.ScopeOrganization or permset.ScopeSubgroup.
	// SubgroupID is required when Scope is subgroup.
	Scope          string
	OrganizationID string
	SubgroupID     string
}

// Actor identifies the operator performing the change. Passed explicitly
// so the assigner never reads ambient session state.
type Actor struct {
	UID  string
	Name string
}

// Outcome says which path Assign took.
type Outcome string

const (
	OutcomeCreated Outcome = "created" // fresh auth identity and record pair
	OutcomeUpdated Outcome = "updated" // explicit edit of an existing record
	OutcomeReused  Outcome = "reused"  // existing identity merged into the new scope
)

// Result is the successful return of Assign. ID is the record key, which
// equals the auth uid.
type Result struct {
	Outcome Outcome
	ID      string
}

// MemberDirectory is the organizational-profile collection ("members").
// Lookups return (nil, nil) when no document matches. Merge performs an
// upsert merge-write: named fields are set, everything else is preserved,
// and a missing document is created, which keeps the dual-collection write
// sequence safe to retry.
type MemberDirectory interface {
	Get(ctx context.Context, id string) (*models.Member, error)
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	Insert(ctx context.Context, m models.Member) error
	Merge(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// StaffDirectory is the staff/committee-profile collection ("staff").
// Same contract as MemberDirectory; FindByEmailInScope additionally
// filters by organization and (when non-empty) subgroup.
type StaffDirectory interface {
	Get(ctx context.Context, id string) (*models.Staff, error)
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)
	FindByEmailInScope(ctx context.Context, email, orgID, subgroupID string) (*models.Staff, error)
	Insert(ctx context.Context, s models.Staff) error
	Merge(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Provider is the authentication back end. DeleteAccount goes through the
// privileged deletion endpoint and is called before any document deletion.
type Provider interface {
	// NewSession acquires a scoped client for account creation. The
	// assigner closes it after the attempt regardless of outcome, so
	// creating an account never disturbs the operator's own session.
	NewSession(ctx context.Context) (Session, error)
	DeleteAccount(ctx context.Context, uid string) error
}

// Session is a short-lived auth provider client. CreateAccount returns
// ErrEmailTaken (possibly wrapped) when the email already has an identity.
type Session interface {
	CreateAccount(ctx context.Context, email, password string) (uid string, err error)
	UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error
	Close(ctx context.Context) error
}
