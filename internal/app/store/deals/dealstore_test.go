// internal/app/store/deals/dealstore_test.go

package dealstore_test

import (
	"errors"
	"testing"
	"time"

	dealstore "github.com/campushq/campushub/internal/app/store/deals"
	"github.com/campushq/campushub/internal/domain/models"
	"github.com/campushq/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateRejectsInvertedWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := dealstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	_, err := s.Create(ctx, models.Deal{
		BusinessID: primitive.NewObjectID(),
		Title:      "Backwards",
		ValidFrom:  now,
		ValidUntil: now.Add(-time.Hour),
	})
	if !errors.Is(err, dealstore.ErrBadWindow) {
		t.Fatalf("want ErrBadWindow, got %v", err)
	}
}

func TestCreateDefaultsToActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := dealstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	d, err := s.Create(ctx, models.Deal{
		BusinessID: primitive.NewObjectID(),
		Title:      "Half Price Coffee",
		ValidFrom:  now,
		ValidUntil: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != models.DealActive {
		t.Errorf("status = %q", d.Status)
	}
}

func TestExpireOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := dealstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	bizID := primitive.NewObjectID()

	overdue, err := s.Create(ctx, models.Deal{
		BusinessID: bizID,
		Title:      "Old Offer",
		ValidFrom:  now.Add(-48 * time.Hour),
		ValidUntil: now.Add(-24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed overdue: %v", err)
	}
	current, err := s.Create(ctx, models.Deal{
		BusinessID: bizID,
		Title:      "Fresh Offer",
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed current: %v", err)
	}
	disabled, err := s.Create(ctx, models.Deal{
		BusinessID: bizID,
		Title:      "Disabled Old Offer",
		ValidFrom:  now.Add(-48 * time.Hour),
		ValidUntil: now.Add(-24 * time.Hour),
		Status:     models.DealDisabled,
	})
	if err != nil {
		t.Fatalf("seed disabled: %v", err)
	}

	count, err := s.ExpireOverdue(ctx, now)
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if count != 1 {
		t.Fatalf("expired %d deals, want 1", count)
	}

	check := func(id primitive.ObjectID, want string) {
		t.Helper()
		d, err := s.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if d.Status != want {
			t.Errorf("deal %q status = %q, want %q", d.Title, d.Status, want)
		}
	}
	check(overdue.ID, models.DealExpired)
	check(current.ID, models.DealActive)
	// Disabled deals are operator-controlled and stay out of the sweep.
	check(disabled.ID, models.DealDisabled)
}

func TestListByBusinessNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := dealstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	bizID := primitive.NewObjectID()
	for _, title := range []string{"First", "Second"} {
		if _, err := s.Create(ctx, models.Deal{
			BusinessID: bizID,
			Title:      title,
			ValidFrom:  now,
			ValidUntil: now.Add(time.Hour),
		}); err != nil {
			t.Fatalf("seed %s: %v", title, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	list, err := s.ListByBusiness(ctx, bizID, "")
	if err != nil {
		t.Fatalf("ListByBusiness: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d deals", len(list))
	}
	if list[0].Title != "Second" {
		t.Errorf("newest first violated: %q first", list[0].Title)
	}
}
