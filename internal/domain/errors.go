// Package domain – error taxonomy.
//
// This file centralizes the domain errors returned by the service layer so
// that they can be consistently produced by service methods and translated
// exactly once, at the HTTP boundary, into status codes and response bodies.
//
// The taxonomy is closed: not-found, access-denied, conflict, validation,
// unauthorized. Anything outside it is an internal error and must never leak
// its message to clients. Each error carries just enough context (resource
// kind, offending id or field) for the boundary to render a precise,
// machine-readable response.
package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when an operation requires an authenticated
// principal and none is present.
var ErrUnauthorized = errors.New("authentication required")

// NotFoundError indicates that no record with the given id exists.
type NotFoundError struct {
	// Resource is the kind of record, e.g. "project" or "conversation".
	Resource string
	// ID is the identifier that failed to resolve.
	ID string
}

// Error implements the error interface. The message deliberately includes
// the id so clients can correlate it with the request they made.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound constructs a NotFoundError for the given resource kind and id.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AccessDeniedError indicates that the record exists but the acting principal
// is not permitted to perform the requested operation on it.
type AccessDeniedError struct {
	Resource string
	ID       string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied to %s: %s", e.Resource, e.ID)
}

// NewAccessDenied constructs an AccessDeniedError for the given resource and id.
func NewAccessDenied(resource, id string) *AccessDeniedError {
	return &AccessDeniedError{Resource: resource, ID: id}
}

// ConflictError indicates a uniqueness violation on a specific field,
// e.g. a project slug that already exists.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

// NewConflict constructs a ConflictError for the given resource, field, and value.
func NewConflict(resource, field, value string) *ConflictError {
	return &ConflictError{Resource: resource, Field: field, Value: value}
}

// ValidationError indicates that input failed schema validation. Fields maps
// each offending field to a human-readable message; every failing field is
// reported, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NewValidation constructs a ValidationError from per-field messages.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
