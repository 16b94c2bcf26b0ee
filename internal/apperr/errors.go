package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidScheme = errors.New("invalid color scheme")
)
