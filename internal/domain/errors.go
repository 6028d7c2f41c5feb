package domain

import "errors"

// Operation outcomes shared by repo and service. Handlers map these to
// HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrSameUsername      = errors.New("cannot change same username")
	ErrSamePassword      = errors.New("cannot change same password")
)
