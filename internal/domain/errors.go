package domain

import "errors"

// Sentinel errors shared across the repositories and services.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when the request is invalid.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateEmail is returned when creating a user with a taken email.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrSoldOut is returned by the attendance repository when the tier's
	// locked recount finds no sellable quantity left.
	ErrSoldOut = errors.New("tier sold out")
	// ErrEventFull is returned when the locked event-level recount exceeds
	// the capacity guard.
	ErrEventFull = errors.New("event full")
)

// IneligibleError is the expected failure of the write path: the user was
// blocked by the gate chain or lost the capacity race. It carries the full
// Decision so callers can surface the reason and next step.
type IneligibleError struct {
	Decision Decision
}

// NewIneligibleError wraps a blocking Decision.
func NewIneligibleError(d Decision) *IneligibleError {
	return &IneligibleError{Decision: d}
}

func (e *IneligibleError) Error() string {
	if e.Decision.Reason != nil {
		return "ineligible: " + string(*e.Decision.Reason)
	}
	return "ineligible"
}

// AsIneligible unwraps err into an IneligibleError if it is one.
func AsIneligible(err error) (*IneligibleError, bool) {
	var ie *IneligibleError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
