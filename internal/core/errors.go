package core

import "fmt"

// ValidationError reports a malformed field on an entry or an import row:
// bad dates, negative stakes, mismatched multi-leg segments and the like.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SelectionError reports a mutation attempted without exactly one target
// account. It is raised before any persistence call is made.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return "selection: " + e.Reason
}

// NotFoundError reports a mutation referencing an unknown account or entry.
type NotFoundError struct {
	Kind string // "account" or "entry"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// PersistenceError reports a failed store call. Succeeded carries how many
// records of a bulk operation were durably committed before the failure;
// committed records are never rolled back.
type PersistenceError struct {
	Op        string
	Succeeded int
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed after %d record(s) succeeded: %v", e.Op, e.Succeeded, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
