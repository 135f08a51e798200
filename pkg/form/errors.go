package form

import "errors"

var (
	// ErrSessionNotFound indicates no stored session matches the id.
	ErrSessionNotFound = errors.New("form.session_not_found")

	// ErrInvalidState indicates a state without id or form name.
	ErrInvalidState = errors.New("form.invalid_state")

	// ErrStoreUnavailable wraps backend failures of a session store.
	ErrStoreUnavailable = errors.New("form.store_unavailable")
)
