package domain

import "errors"

// Common domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicateHandle = errors.New("handle already exists")
)
