package domain

import "errors"

// Advisory service failures. The controllers do not distinguish between them;
// both surface as a failure carrying a readable message.
var (
	ErrMalformedResponse = errors.New("advisory service returned malformed data")
	ErrRequestFailed     = errors.New("advisory service request failed")
	ErrTimeout           = errors.New("advisory service request timed out")
)

var (
	ErrEmptyAnswer         = errors.New("answer is empty")
	ErrInvalidOption       = errors.New("answer is not one of the offered options")
	ErrInvalidBranch       = errors.New("unknown interview branch")
	ErrUnsupportedTaskKind = errors.New("unsupported task kind")
	ErrRequestInFlight     = errors.New("a request is already in flight")
	ErrInvalidState        = errors.New("operation not allowed in current state")
	ErrSessionFailed       = errors.New("session has failed, reset required")
	ErrUnknownCareer       = errors.New("career is not among the recommendations")
	ErrInvalidSpeed        = errors.New("unknown speed preference")
	ErrInvalidContact      = errors.New("contact details are incomplete")
	ErrNotFound            = errors.New("not found")
)

// IsValidation reports whether err is an input problem rather than a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyAnswer) ||
		errors.Is(err, ErrInvalidOption) ||
		errors.Is(err, ErrInvalidBranch) ||
		errors.Is(err, ErrUnknownCareer) ||
		errors.Is(err, ErrInvalidSpeed) ||
		errors.Is(err, ErrInvalidContact)
}

// IsConflict reports whether err was caused by the current session state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRequestInFlight) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrSessionFailed)
}
