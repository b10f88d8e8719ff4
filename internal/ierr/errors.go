package ierr

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")

	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidToken    = errors.New("invalid or expired token")

	// External API admission taxonomy.
	ErrMissingCredential     = errors.New("missing or malformed bearer credential")
	ErrInvalidCredential     = errors.New("invalid api key")
	ErrRateLimited           = errors.New("rate limit exceeded")
	ErrNoUpstreamCredential  = errors.New("no upstream model credential configured")
	ErrMalformedRequest      = errors.New("malformed request payload")
	ErrUpstreamParseFailure  = errors.New("failed to parse upstream analysis output")
	ErrUpstreamUnavailable   = errors.New("upstream analysis call failed")
	ErrUpstreamInvalidAPIKey = errors.New("upstream rejected the model api key")
)
