// internal/app/store/organizations/organizationstore_test.go

package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/campushq/campushub/internal/app/store/organizations"
	"github.com/campushq/campushub/internal/app/system/status"
	"github.com/campushq/campushub/internal/domain/models"
	"github.com/campushq/campushub/internal/testutil"
)

func TestCreateNormalizesAndDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := s.Create(ctx, models.Organization{
		Kind: "  HOSTEL ",
		Name: "  Hilltop Hostel ",
		City: "Springfield",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if org.Kind != models.OrgKindHostel {
		t.Errorf("kind = %q", org.Kind)
	}
	if org.Name != "Hilltop Hostel" {
		t.Errorf("name = %q", org.Name)
	}
	if org.Status != status.Active {
		t.Errorf("status = %q", org.Status)
	}
	if org.NameCI == "" {
		t.Error("folded name not set")
	}
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := s.Create(ctx, models.Organization{Kind: "gym", Name: "X"}); err == nil {
		t.Fatal("unknown kind should fail")
	}
}

func TestDuplicateNameSameKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	// The unique index is what detects the duplicate.
	testutil.EnsureIndexes(t, db)
	s := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := s.Create(ctx, models.Organization{Kind: "hostel", Name: "Hilltop"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := s.Create(ctx, models.Organization{Kind: "hostel", Name: "  hilltop "})
	if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		t.Fatalf("want ErrDuplicateOrganization, got %v", err)
	}
	// The same name under the other kind is a different tenant.
	if _, err := s.Create(ctx, models.Organization{Kind: "uniclub", Name: "Hilltop"}); err != nil {
		t.Errorf("same name other kind: %v", err)
	}
}

func TestDeleteCascadesSubgroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := s.Create(ctx, models.Organization{Kind: "uniclub", Name: "Chess Society"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.CreateSubgroup(ctx, models.Subgroup{OrganizationID: org.ID, Name: "Events"}); err != nil {
		t.Fatalf("CreateSubgroup: %v", err)
	}

	count, err := s.Delete(ctx, org.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if count != 1 {
		t.Fatalf("deleted %d organizations", count)
	}

	subs, err := s.ListSubgroups(ctx, org.ID)
	if err != nil {
		t.Fatalf("ListSubgroups: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("%d subgroups survived the cascade", len(subs))
	}
}

func TestListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mk := func(kind, name string) {
		if _, err := s.Create(ctx, models.Organization{Kind: kind, Name: name}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	mk("hostel", "Beta House")
	mk("hostel", "Alpha House")
	mk("uniclub", "Chess Society")

	hostels, err := s.List(ctx, "hostel", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(hostels) != 2 {
		t.Fatalf("got %d hostels", len(hostels))
	}
	if hostels[0].Name != "Alpha House" {
		t.Errorf("sort order: %q first", hostels[0].Name)
	}

	all, err := s.List(ctx, "", "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d organizations", len(all))
	}
}

func TestUpdateDoesNotTouchKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := s.Create(ctx, models.Organization{Kind: "hostel", Name: "Hilltop"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Update(ctx, org.ID, models.Organization{Kind: "uniclub", Name: "Hilltop Renamed"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Kind != models.OrgKindHostel {
		t.Errorf("kind changed to %q", got.Kind)
	}
	if got.Name != "Hilltop Renamed" {
		t.Errorf("name = %q", got.Name)
	}
}
