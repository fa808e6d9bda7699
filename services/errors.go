package services

import (
	"errors"
)

// Sentinel errors returned by the service layer. Controllers map these to
// HTTP statuses with errors.Is; wrapped context travels via fmt.Errorf("%w").
var (
	// ErrNotFound: the referenced entity is absent or the id is malformed.
	ErrNotFound = errors.New("resource not found")

	// ErrPermissionDenied: the caller does not own the resource being mutated.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConflict: duplicate of a uniqueness-constrained resource, e.g. a
	// second review for the same (garage, user) pair.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidOperation: the operation is structurally invalid, e.g.
	// following yourself.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrGeocodingFailed: the upstream geocoder could not resolve the
	// location. Retryable, unlike a validation error.
	ErrGeocodingFailed = errors.New("could not resolve location")
)
