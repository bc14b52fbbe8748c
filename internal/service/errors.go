package service

import "errors"

// Sentinel errors returned by services. Handlers translate these to HTTP
// statuses; business logic never sees transport concerns.
var (
	// ErrNotFound covers both entities that do not exist and entities the
	// caller must not learn exist (scoped lookups).
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but the policy denies
	// the action.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput means the payload failed a semantic check that struct
	// validation cannot express.
	ErrInvalidInput = errors.New("invalid input")

	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTaskCycle          = errors.New("task cannot be its own ancestor")
)
