package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrUnsupportedAccount is returned when an account value is neither a
	// passenger nor a driver.
	ErrUnsupportedAccount = errors.New("unsupported account type")
)
