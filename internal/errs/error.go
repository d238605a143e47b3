package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("currently on loan")
	ErrAlreadyReturned = errors.New("already returned")
	ErrDuplicateUser   = errors.New("username is already registered")
	ErrBadCredentials  = errors.New("invalid name or password")
)
