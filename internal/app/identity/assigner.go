// internal/app/identity/assigner.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushq/campushub/internal/app/system/legacypass"
	"github.com/campushq/campushub/internal/app/system/normalize"
	"github.com/campushq/campushub/internal/app/system/permset"
	"github.com/campushq/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Assigner reconciles assignment intents against the two person
// collections and the auth provider.
type Assigner struct {
	members  MemberDirectory
	staff    StaffDirectory
	provider Provider
	log      *zap.Logger
}

// NewAssigner wires an Assigner from its collaborators.
func NewAssigner(members MemberDirectory, staff StaffDirectory, provider Provider, logger *zap.Logger) *Assigner {
	return &Assigner{
		members:  members,
		staff:    staff,
		provider: provider,
		log:      logger,
	}
}

// Assign reconciles one intent. When editingID is non-empty the operator
// is explicitly editing that record; otherwise Assign walks the create
// path: in-scope duplicate guard, then identity reuse by email across both
// collections, then fresh account creation with a recovery re-query if the
// provider reports the email as taken.
//
// Steps are strictly sequential; each existence check must observe the
// result of any prior write. There is no locking: two racing creates for
// the same email both pass the guard, the second one's CreateAccount fails
// with ErrEmailTaken, and the recovery path re-queries and reuses.
func (a *Assigner) Assign(ctx context.Context, intent Intent, editingID string, actor Actor) (Result, error) {
	intent.Email = normalize.Email(intent.Email)
	intent.FullName = normalize.Name(intent.FullName)
	intent.Phone = normalize.Phone(intent.Phone)

	if !validate.SimpleEmailValid(intent.Email) {
		return Result{}, &ValidationError{Reason: ReasonInvalidEmail}
	}
	if intent.OrganizationID == "" {
		return Result{}, &ValidationError{Reason: ReasonMissingOrganization}
	}
	if intent.Scope == permset.ScopeSubgroup && intent.SubgroupID == "" {
		return Result{}, &ValidationError{Reason: ReasonMissingSubscope}
	}

	// Edit path: the operator named the record. Merge and finish.
	if editingID != "" {
		existing, err := a.staff.Get(ctx, editingID)
		if err != nil {
			return Result{}, fmt.Errorf("load staff %s: %w", editingID, err)
		}
		if existing == nil {
			return Result{}, &NotFoundError{Reason: ReasonRecordMissing}
		}
		if err := a.mergeInto(ctx, existing, intent, actor); err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeUpdated, ID: editingID}, nil
	}

	// Duplicate-in-scope guard: the same person assigned twice into the
	// same organizational context is a conflict, not a merge.
	dup, err := a.staff.FindByEmailInScope(ctx, intent.Email, intent.OrganizationID, intent.SubgroupID)
	if err != nil {
		return Result{}, fmt.Errorf("scope duplicate check for %s: %w", intent.Email, err)
	}
	if dup != nil {
		return Result{}, &ConflictError{Reason: ReasonAlreadyInScope}
	}

	// Reuse an identity already known under this email, member profile
	// first, then staff. No new auth account in either case.
	if res, ok, err := a.tryReuse(ctx, intent, actor); err != nil || ok {
		return res, err
	}

	return a.create(ctx, intent, actor)
}

// tryReuse looks for the email in both collections and, on a hit, merges
// the intent into the record pair at the existing id. Reports ok=false
// when the email is unknown everywhere.
func (a *Assigner) tryReuse(ctx context.Context, intent Intent, actor Actor) (Result, bool, error) {
	m, err := a.members.FindByEmail(ctx, intent.Email)
	if err != nil {
		return Result{}, false, fmt.Errorf("member lookup for %s: %w", intent.Email, err)
	}
	var id string
	if m != nil && m.ID != "" {
		id = m.ID
	} else {
		s, err := a.staff.FindByEmail(ctx, intent.Email)
		if err != nil {
			return Result{}, false, fmt.Errorf("staff lookup for %s: %w", intent.Email, err)
		}
		if s == nil {
			return Result{}, false, nil
		}
		id = s.ID
	}

	existing, err := a.staff.Get(ctx, id)
	if err != nil {
		return Result{}, false, fmt.Errorf("load staff %s: %w", id, err)
	}
	if existing == nil {
		// Member profile exists but no staff record yet; merge against an
		// empty staff view keyed at the same id.
		existing = &models.Staff{ID: id}
	}
	if err := a.mergeInto(ctx, existing, intent, actor); err != nil {
		return Result{}, false, err
	}
	return Result{Outcome: OutcomeReused, ID: id}, true, nil
}

// mergeInto writes the intent over an existing record pair. Permissions
// are unioned with the stored set so a reassignment never drops a key; the
// credential mirror and the record id (auth uid) are left untouched. Both
// collection views receive an upsert merge-write.
func (a *Assigner) mergeInto(ctx context.Context, existing *models.Staff, intent Intent, actor Actor) error {
	now := time.Now().UTC()
	merged := permset.FromKeys(existing.Permissions).Union(intent.Permissions)

	staffFields := map[string]any{
		"full_name":       intent.FullName,
		"full_name_ci":    text.Fold(intent.FullName),
		"email":           intent.Email,
		"phone":           intent.Phone,
		"address":         intent.Address,
		"designation":     intent.Designation,
		"student_id":      intent.StudentID,
		"photo_url":       intent.PhotoURL,
		"permissions":     merged.Keys(),
		"organization_id": intent.OrganizationID,
		"subgroup_id":     intent.SubgroupID,
		"updated_by_id":   actor.UID,
		"updated_by_name": actor.Name,
		"updated_at":      now,
	}
	if err := a.staff.Merge(ctx, existing.ID, staffFields); err != nil {
		return fmt.Errorf("merge staff %s: %w", existing.ID, err)
	}

	memberFields := map[string]any{
		"full_name":       intent.FullName,
		"full_name_ci":    text.Fold(intent.FullName),
		"email":           intent.Email,
		"phone":           intent.Phone,
		"photo_url":       intent.PhotoURL,
		"organization_id": intent.OrganizationID,
		"updated_at":      now,
	}
	if err := a.members.Merge(ctx, existing.ID, memberFields); err != nil {
		return fmt.Errorf("merge member %s: %w", existing.ID, err)
	}
	return nil
}

// create provisions a fresh auth identity and writes the record pair.
func (a *Assigner) create(ctx context.Context, intent Intent, actor Actor) (Result, error) {
	password := legacypass.Generate(intent.FullName)

	sess, err := a.provider.NewSession(ctx)
	if err != nil {
		return Result{}, &ProviderError{Err: err}
	}
	defer func() {
		if cerr := sess.Close(ctx); cerr != nil {
			a.log.Warn("auth session teardown failed", zap.Error(cerr))
		}
	}()

	uid, err := sess.CreateAccount(ctx, intent.Email, password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// The provider knows this email but neither collection
			// surfaced it above: either a concurrent assign won the race,
			// or the document store is out of step with the provider.
			// Re-query once and reuse; never fabricate a record for an
			// identity that cannot be matched to a known person.
			res, ok, rerr := a.tryReuse(ctx, intent, actor)
			if rerr != nil {
				return Result{}, rerr
			}
			if ok {
				return res, nil
			}
			return Result{}, &OrphanedAuthError{Email: intent.Email}
		}
		return Result{}, &ProviderError{Err: err}
	}

	if perr := sess.UpdateProfile(ctx, uid, intent.FullName, intent.PhotoURL); perr != nil {
		a.log.Warn("auth profile update failed",
			zap.String("uid", uid),
			zap.Error(perr))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	member := models.Member{
		ID:             uid,
		FullName:       intent.FullName,
		FullNameCI:     text.Fold(intent.FullName),
		Email:          intent.Email,
		Phone:          intent.Phone,
		PhotoURL:       intent.PhotoURL,
		OrganizationID: intent.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.members.Insert(ctx, member); err != nil {
		return Result{}, fmt.Errorf("insert member %s: %w", uid, err)
	}

	staff := models.Staff{
		ID:             uid,
		FullName:       intent.FullName,
		FullNameCI:     text.Fold(intent.FullName),
		Email:          intent.Email,
		Phone:          intent.Phone,
		Address:        intent.Address,
		Designation:    intent.Designation,
		StudentID:      intent.StudentID,
		PhotoURL:       intent.PhotoURL,
		Permissions:    intent.Permissions.Keys(),
		OrganizationID: intent.OrganizationID,
		SubgroupID:     intent.SubgroupID,
		Password:       password,
		PasswordHash:   string(hash),
		CreatedByID:    actor.UID,
		CreatedByName:  actor.Name,
		UpdatedByID:    actor.UID,
		UpdatedByName:  actor.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.staff.Insert(ctx, staff); err != nil {
		return Result{}, fmt.Errorf("insert staff %s: %w", uid, err)
	}

	a.log.Info("staff account created",
		zap.String("uid", uid),
		zap.String("organization_id", intent.OrganizationID))
	return Result{Outcome: OutcomeCreated, ID: uid}, nil
}

// Unassign removes a person's record pair and auth identity together. The
// provider deletion runs first; the document deletions are skipped when it
// fails, so an auth identity is never gone while its records remain. The
// safe failure mode is "nothing deleted, retry".
func (a *Assigner) Unassign(ctx context.Context, recordID string) error {
	existing, err := a.staff.Get(ctx, recordID)
	if err != nil {
		return fmt.Errorf("load staff %s: %w", recordID, err)
	}
	if existing == nil {
		return &NotFoundError{Reason: ReasonRecordMissing}
	}

	if err := a.provider.DeleteAccount(ctx, recordID); err != nil {
		return &ProviderError{Err: err}
	}

	if err := a.staff.Delete(ctx, recordID); err != nil {
		return fmt.Errorf("delete staff %s: %w", recordID, err)
	}
	if err := a.members.Delete(ctx, recordID); err != nil {
		return fmt.Errorf("delete member %s: %w", recordID, err)
	}

	a.log.Info("staff account removed", zap.String("uid", recordID))
	return nil
}
