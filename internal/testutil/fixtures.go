// internal/testutil/fixtures.go

package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	businessstore "github.com/campushq/campushub/internal/app/store/businesses"
	dealstore "github.com/campushq/campushub/internal/app/store/deals"
	organizationstore "github.com/campushq/campushub/internal/app/store/organizations"
	staffstore "github.com/campushq/campushub/internal/app/store/staff"
	"github.com/campushq/campushub/internal/domain/models"
)

// Fixtures seeds documents through the real stores so tests exercise
// the same normalization and folding as production writes.
type Fixtures struct {
	t          *testing.T
	Orgs       *organizationstore.Store
	Staff      *staffstore.Store
	Businesses *businessstore.Store
	Deals      *dealstore.Store
}

// NewFixtures builds a fixture helper over the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:          t,
		Orgs:       organizationstore.New(db),
		Staff:      staffstore.New(db),
		Businesses: businessstore.New(db),
		Deals:      dealstore.New(db),
	}
}

// CreateOrganization inserts a hostel or uniclub and returns it.
func (f *Fixtures) CreateOrganization(ctx context.Context, kind, name string) models.Organization {
	f.t.Helper()
	org, err := f.Orgs.Create(ctx, models.Organization{
		Kind: kind,
		Name: name,
		City: "Springfield",
	})
	if err != nil {
		f.t.Fatalf("fixture organization %q: %v", name, err)
	}
	return org
}

// CreateSubgroup inserts a subgroup under an organization.
func (f *Fixtures) CreateSubgroup(ctx context.Context, org models.Organization, name string) models.Subgroup {
	f.t.Helper()
	sg, err := f.Orgs.CreateSubgroup(ctx, models.Subgroup{
		OrganizationID: org.ID,
		Name:           name,
	})
	if err != nil {
		f.t.Fatalf("fixture subgroup %q: %v", name, err)
	}
	return sg
}

// CreateStaff inserts a staff record keyed by the given uid.
func (f *Fixtures) CreateStaff(ctx context.Context, uid, email, name, orgID string) models.Staff {
	f.t.Helper()
	st := models.Staff{
		ID:             uid,
		FullName:       name,
		Email:          email,
		Permissions:    []string{"dashboard"},
		OrganizationID: orgID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := f.Staff.Insert(ctx, st); err != nil {
		f.t.Fatalf("fixture staff %q: %v", email, err)
	}
	return st
}

// CreateBusiness inserts a merchant and returns it.
func (f *Fixtures) CreateBusiness(ctx context.Context, name, category string) models.Business {
	f.t.Helper()
	b, err := f.Businesses.Create(ctx, models.Business{
		Name:     name,
		Category: category,
	})
	if err != nil {
		f.t.Fatalf("fixture business %q: %v", name, err)
	}
	return b
}

// CreateDeal inserts an active deal for a business, valid for a day.
func (f *Fixtures) CreateDeal(ctx context.Context, b models.Business, title string) models.Deal {
	f.t.Helper()
	now := time.Now().UTC()
	d, err := f.Deals.Create(ctx, models.Deal{
		BusinessID: b.ID,
		Title:      title,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
	})
	if err != nil {
		f.t.Fatalf("fixture deal %q: %v", title, err)
	}
	return d
}
