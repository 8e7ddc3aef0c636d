package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
)

// ErrInvalidRole is a validation failure for a rol outside the known set.
var ErrInvalidRole = fmt.Errorf("%w: unknown rol", ErrValidation)
