package identity_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/campushq/campushub/internal/app/identity"
	"github.com/campushq/campushub/internal/app/system/permset"
	"github.com/campushq/campushub/internal/domain/models"
	"github.com/campushq/campushub/internal/testutil"
	"go.uber.org/zap"
)

type world struct {
	members  *testutil.FakeMembers
	staff    *testutil.FakeStaff
	provider *testutil.FakeProvider
	assigner *identity.Assigner
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{
		members:  testutil.NewFakeMembers(),
		staff:    testutil.NewFakeStaff(),
		provider: testutil.NewFakeProvider(),
	}
	w.assigner = identity.NewAssigner(w.members, w.staff, w.provider, zap.NewNop())
	return w
}

func actor() identity.Actor {
	return identity.Actor{UID: "admin-1", Name: "Test Admin"}
}

func baseIntent() identity.Intent {
	return identity.Intent{
		Email:          "A@X.com",
		FullName:       "Sam",
		Permissions:    permset.New("dashboard", "student"),
		Scope:          permset.ScopeOrganization,
		OrganizationID: "H1",
	}
}

func TestAssign_CreateFresh(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	res, err := w.assigner.Assign(ctx, baseIntent(), "", actor())
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if res.Outcome != identity.OutcomeCreated {
		t.Errorf("outcome: got %q, want %q", res.Outcome, identity.OutcomeCreated)
	}
	if res.ID == "" {
		t.Fatal("expected a record id")
	}
	if w.provider.AccountCount() != 1 {
		t.Errorf("auth accounts: got %d, want 1", w.provider.AccountCount())
	}

	s, ok := w.staff.Docs[res.ID]
	if !ok {
		t.Fatal("staff document not written at uid key")
	}
	m, ok := w.members.Docs[res.ID]
	if !ok {
		t.Fatal("member document not written at uid key")
	}
	if s.Email != "a@x.com" || m.Email != "a@x.com" {
		t.Errorf("email not normalized: staff=%q member=%q", s.Email, m.Email)
	}
	if s.OrganizationID != "H1" || m.OrganizationID != "H1" {
		t.Errorf("organization: staff=%q member=%q", s.OrganizationID, m.OrganizationID)
	}
	if got, want := s.Permissions, []string{"dashboard", "student"}; !reflect.DeepEqual(got, want) {
		t.Errorf("permissions: got %v, want %v", got, want)
	}
	if s.Password != "sam321" {
		t.Errorf("credential mirror: got %q, want %q", s.Password, "sam321")
	}
	if s.PasswordHash == "" {
		t.Error("expected password hash to be set")
	}
	if s.CreatedByID != "admin-1" {
		t.Errorf("created_by: got %q", s.CreatedByID)
	}
	if w.provider.CloseCalls != 1 {
		t.Errorf("session close calls: got %d, want 1", w.provider.CloseCalls)
	}
}

func TestAssign_SecondCallSameScopeConflicts(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	if _, err := w.assigner.Assign(ctx, baseIntent(), "", actor()); err != nil {
		t.Fatalf("first Assign failed: %v", err)
	}

	_, err := w.assigner.Assign(ctx, baseIntent(), "", actor())
	var conflict *identity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Reason != identity.ReasonAlreadyInScope {
		t.Errorf("reason: got %q, want %q", conflict.Reason, identity.ReasonAlreadyInScope)
	}
	if w.provider.AccountCount() != 1 {
		t.Errorf("auth accounts after conflict: got %d, want 1", w.provider.AccountCount())
	}
}

func TestAssign_ConflictIsCaseInsensitive(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	if _, err := w.assigner.Assign(ctx, baseIntent(), "", actor()); err != nil {
		t.Fatalf("first Assign failed: %v", err)
	}

	second := baseIntent()
	second.Email = "  a@X.COM "
	if _, err := w.assigner.Assign(ctx, second, "", actor()); err == nil {
		t.Fatal("expected conflict for same email in different casing")
	}
}

func TestAssign_DifferentOrgReusesIdentity(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	first, err := w.assigner.Assign(ctx, baseIntent(), "", actor())
	if err != nil {
		t.Fatalf("first Assign failed: %v", err)
	}

	second := baseIntent()
	second.OrganizationID = "H2"
	second.Permissions = permset.New("payment")

	res, err := w.assigner.Assign(ctx, second, "", actor())
	if err != nil {
		t.Fatalf("second Assign failed: %v", err)
	}
	if res.Outcome != identity.OutcomeReused {
		t.Errorf("outcome: got %q, want %q", res.Outcome, identity.OutcomeReused)
	}
	if res.ID != first.ID {
		t.Errorf("record id changed on reuse: got %q, want %q", res.ID, first.ID)
	}
	if w.provider.AccountCount() != 1 {
		t.Errorf("auth accounts after reuse: got %d, want 1", w.provider.AccountCount())
	}

	s := w.staff.Docs[first.ID]
	if s.OrganizationID != "H2" {
		t.Errorf("organization after move: got %q, want %q", s.OrganizationID, "H2")
	}
	// Monotonic merge: nothing dropped, new key added.
	want := []string{"dashboard", "payment", "student"}
	if !reflect.DeepEqual(s.Permissions, want) {
		t.Errorf("permissions after reuse: got %v, want %v", s.Permissions, want)
	}
	if s.Password != "sam321" {
		t.Errorf("credential mirror changed on reuse: %q", s.Password)
	}
	if w.members.Docs[first.ID].OrganizationID != "H2" {
		t.Error("member view organization not updated")
	}
}

func TestAssign_ReusesStaffOnlyRecord(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	// A staff record exists with no member-profile counterpart.
	w.staff.Docs["uid-7"] = models.Staff{
		ID:             "uid-7",
		Email:          "a@x.com",
		FullName:       "Sam",
		Permissions:    []string{"dashboard"},
		OrganizationID: "H1",
	}
	w.provider.Register("a@x.com", "uid-7")

	second := baseIntent()
	second.OrganizationID = "H2"

	res, err := w.assigner.Assign(ctx, second, "", actor())
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if res.Outcome != identity.OutcomeReused || res.ID != "uid-7" {
		t.Fatalf("got %+v, want reuse of uid-7", res)
	}
	if w.provider.AccountCount() != 1 {
		t.Errorf("auth accounts: got %d, want 1", w.provider.AccountCount())
	}
	// The missing member view is created by the upsert merge.
	if _, ok := w.members.Docs["uid-7"]; !ok {
		t.Error("member view not created on staff-only reuse")
	}
}

func TestAssign_EditPathMergesPermissions(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	created, err := w.assigner.Assign(ctx, identity.Intent{
		Email:          "a@x.com",
		FullName:       "Sam",
		Permissions:    permset.New("dashboard"),
		Scope:          permset.ScopeOrganization,
		OrganizationID: "H1",
	}, "", actor())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	edit := identity.Intent{
		Email:          "a@x.com",
		FullName:       "Sam Carter",
		Permissions:    permset.New("student"),
		Scope:          permset.ScopeOrganization,
		OrganizationID: "H1",
	}
	res, err := w.assigner.Assign(ctx, edit, created.ID, actor())
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if res.Outcome != identity.OutcomeUpdated || res.ID != created.ID {
		t.Fatalf("got %+v, want update of %s", res, created.ID)
	}

	s := w.staff.Docs[created.ID]
	want := []string{"dashboard", "student"}
	if !reflect.DeepEqual(s.Permissions, want) {
		t.Errorf("permissions: got %v, want %v", s.Permissions, want)
	}
	if s.FullName != "Sam Carter" {
		t.Errorf("full name not overwritten: %q", s.FullName)
	}
	if s.Password != "sam321" || s.ID != created.ID {
		t.Error("edit must preserve credential mirror and record id")
	}
	if w.provider.CreateCalls != 1 {
		t.Errorf("edit path created an auth account: %d calls", w.provider.CreateCalls)
	}
}

func TestAssign_EditPathRecordMissing(t *testing.T) {
	w := newWorld(t)

	_, err := w.assigner.Assign(context.Background(), baseIntent(), "nope", actor())
	var nf *identity.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Reason != identity.ReasonRecordMissing {
		t.Errorf("reason: got %q", nf.Reason)
	}
}

func TestAssign_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*identity.Intent)
		reason string
	}{
		{
			name:   "invalid email",
			mutate: func(i *identity.Intent) { i.Email = "not-an-email" },
			reason: identity.ReasonInvalidEmail,
		},
		{
			name:   "empty email",
			mutate: func(i *identity.Intent) { i.Email = "" },
			reason: identity.ReasonInvalidEmail,
		},
		{
			name:   "missing organization",
			mutate: func(i *identity.Intent) { i.OrganizationID = "" },
			reason: identity.ReasonMissingOrganization,
		},
		{
			name: "subgroup scope without subgroup id",
			mutate: func(i *identity.Intent) {
				i.Scope = permset.ScopeSubgroup
				i.SubgroupID = ""
			},
			reason: identity.ReasonMissingSubscope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			intent := baseIntent()
			tt.mutate(&intent)

			_, err := w.assigner.Assign(context.Background(), intent, "", actor())
			var ve *identity.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Reason != tt.reason {
				t.Errorf("reason: got %q, want %q", ve.Reason, tt.reason)
			}
			if w.provider.CreateCalls != 0 {
				t.Error("validation failure must not reach the provider")
			}
		})
	}
}

func TestAssign_EmailTakenRecoversViaRequery(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	// Simulate losing the race: a concurrent assign inserts the record
	// pair while our CreateAccount call is in flight, so the provider
	// rejects the email even though our earlier queries saw nothing.
	w.provider.OnCreate = func(email string) {
		if _, ok := w.staff.Docs["uid-race"]; ok {
			return
		}
		w.provider.Register(email, "uid-race")
		w.staff.Docs["uid-race"] = models.Staff{
			ID:             "uid-race",
			Email:          email,
			FullName:       "Sam",
			Permissions:    []string{"dashboard"},
			OrganizationID: "H9",
		}
		w.members.Docs["uid-race"] = models.Member{
			ID:             "uid-race",
			Email:          email,
			OrganizationID: "H9",
		}
	}

	res, err := w.assigner.Assign(ctx, baseIntent(), "", actor())
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if res.Outcome != identity.OutcomeReused || res.ID != "uid-race" {
		t.Fatalf("got %+v, want reuse of uid-race", res)
	}
	if w.provider.AccountCount() != 1 {
		t.Errorf("auth accounts: got %d, want 1", w.provider.AccountCount())
	}
	if w.staff.Docs["uid-race"].OrganizationID != "H1" {
		t.Error("recovered reuse did not apply the new organization")
	}
}

func TestAssign_OrphanedAuth(t *testing.T) {
	w := newWorld(t)

	// The provider knows the email; neither collection does.
	w.provider.Register("a@x.com", "ghost-uid")

	_, err := w.assigner.Assign(context.Background(), baseIntent(), "", actor())
	var orphan *identity.OrphanedAuthError
	if !errors.As(err, &orphan) {
		t.Fatalf("expected OrphanedAuthError, got %v", err)
	}
	if orphan.Email != "a@x.com" {
		t.Errorf("orphan email: got %q, want %q", orphan.Email, "a@x.com")
	}
	// Not auto-repaired: still no documents.
	if len(w.staff.Docs) != 0 || len(w.members.Docs) != 0 {
		t.Error("orphaned auth must not fabricate records")
	}
	if w.provider.CloseCalls != 1 {
		t.Errorf("session close calls: got %d, want 1", w.provider.CloseCalls)
	}
}

func TestAssign_ProviderFailureWrapped(t *testing.T) {
	w := newWorld(t)
	boom := errors.New("provider down")
	w.provider.CreateErr = boom

	_, err := w.assigner.Assign(context.Background(), baseIntent(), "", actor())
	var pe *identity.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("cause not preserved through ProviderError")
	}
	if w.provider.CloseCalls != 1 {
		t.Errorf("session must be closed on failure: %d close calls", w.provider.CloseCalls)
	}
}

func TestAssign_RepeatEditIsIdempotent(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	created, err := w.assigner.Assign(ctx, baseIntent(), "", actor())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	edit := baseIntent()
	edit.FullName = "Sam Carter"

	if _, err := w.assigner.Assign(ctx, edit, created.ID, actor()); err != nil {
		t.Fatalf("first edit failed: %v", err)
	}
	first := w.staff.Docs[created.ID]

	time.Sleep(time.Millisecond)
	if _, err := w.assigner.Assign(ctx, edit, created.ID, actor()); err != nil {
		t.Fatalf("second edit failed: %v", err)
	}
	second := w.staff.Docs[created.ID]

	// Identical except the update timestamp.
	first.UpdatedAt = time.Time{}
	second.UpdatedAt = time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat edit diverged:\n first=%+v\nsecond=%+v", first, second)
	}
}

func TestUnassign_RemovesPairAndAccount(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	created, err := w.assigner.Assign(ctx, baseIntent(), "", actor())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := w.assigner.Unassign(ctx, created.ID); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}
	if len(w.staff.Docs) != 0 || len(w.members.Docs) != 0 {
		t.Error("documents remain after unassign")
	}
	if w.provider.AccountCount() != 0 {
		t.Error("auth account remains after unassign")
	}
}

func TestUnassign_ProviderFailureKeepsDocuments(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	created, err := w.assigner.Assign(ctx, baseIntent(), "", actor())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	w.provider.DeleteErr = errors.New("deletion endpoint unavailable")
	err = w.assigner.Unassign(ctx, created.ID)
	var pe *identity.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	// Safe failure mode: nothing deleted, retry later.
	if _, ok := w.staff.Docs[created.ID]; !ok {
		t.Error("staff document deleted despite provider failure")
	}
	if _, ok := w.members.Docs[created.ID]; !ok {
		t.Error("member document deleted despite provider failure")
	}
	if w.provider.AccountCount() != 1 {
		t.Error("auth account count changed despite provider failure")
	}
}

func TestUnassign_NotFound(t *testing.T) {
	w := newWorld(t)

	err := w.assigner.Unassign(context.Background(), "missing")
	var nf *identity.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
