// Package ledger implements the wallet and transaction domain service:
// persistence, access control, invitations and derived reporting. Every
// mutation runs as a single database transaction and every read computes
// derived values (balance, report totals) from the transaction log.
package ledger

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when a wallet member lacks the role an action
// requires. Non-members never see it; they get NotFoundError instead so
// wallet existence does not leak.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed input attributable to a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports an absent resource, or one the caller has no
// visibility into.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// InvalidStateError reports an operation attempted against a resource whose
// current state does not permit it, e.g. inviting into a non-shared wallet.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

// InvalidTransitionError reports a forbidden lifecycle transition, e.g.
// flipping is_shared back to false.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return e.Reason
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFoundErr(resource string) error {
	return &NotFoundError{Resource: resource}
}
