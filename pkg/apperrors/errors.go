package apperrors

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrUnknownCheck          = errors.New("unknown check id")
	ErrUnknownModel          = errors.New("unknown ML model type")
	ErrInvalidThreshold      = errors.New("threshold outside [0,1]")
	ErrDependencyUnavailable = errors.New("external dependency unavailable")
	ErrMalformedTagParams    = errors.New("malformed change tag parameters")
)
