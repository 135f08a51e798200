package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")
	ErrMissingContentType   = errors.New("missing content type")
	ErrBodyTooLarge         = errors.New("request body too large")

	// ErrBinderNotApplicable lets a binder opt out of a request; handler.Wrap
	// skips it and moves on to the next binder.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)
