package errs

import "errors"

// Common sentinel errors.
var (
	ErrNotFound            = errors.New("not found")
	ErrDataConflict        = errors.New("data conflict")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrBodyTooLarge        = errors.New("request body too large")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrRateLimit           = errors.New("rate limit")
	ErrUnknownStatus       = errors.New("unknown status")
	ErrUnknownDepartment   = errors.New("unknown department")
	ErrUnknownReviewAction = errors.New("unknown review action")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrAlreadyProcessed    = errors.New("already processed")
)

// Type just for murshallig purpose.
// Should only be used immediately before marshalling.
type JSON struct {
	Error string `json:"error"`
}
