// internal/app/identity/errors.go
package identity

import (
	"errors"
	"fmt"
)

// Validation reasons returned inside ValidationError.
const (
	ReasonInvalidEmail        = "invalid-email"
	ReasonMissingOrganization = "missing-organization"
	ReasonMissingSubscope     = "missing-subscope"
)

// Other error reasons.
const (
	ReasonRecordMissing   = "record-missing"
	ReasonAlreadyInScope  = "already-assigned-in-scope"
	ReasonAuthExistsNoDoc = "auth-exists-no-record"
)

// ErrEmailTaken is the distinguishable condition a Provider session returns
// from CreateAccount when the email already has an identity. Implementations
// must return it (possibly wrapped) so the assigner's recovery path fires.
var ErrEmailTaken = errors.New("email already registered with auth provider")

// ValidationError reports bad input. Nothing was attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return "not found: " + e.Reason }

// ConflictError reports a duplicate assignment into the same scope.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Reason }

// OrphanedAuthError reports an auth identity with no matching document in
// either collection. This inconsistency needs manual reconciliation; the
// assigner never fabricates a record for an identity it cannot match to a
// known person. Email is included so the operator can follow up.
type OrphanedAuthError struct {
	Email string
}

func (e *OrphanedAuthError) Error() string {
	return fmt.Sprintf("%s: %s", ReasonAuthExistsNoDoc, e.Email)
}

// ProviderError wraps any auth provider failure other than ErrEmailTaken.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return "auth provider: " + e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }
