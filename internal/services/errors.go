package services

import (
	"errors"

	"shopfront/internal/database"
)

var (
	// ErrNotFound is returned when a product or order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps every user input problem; the message after the colon is safe to show.
	ErrValidation = errors.New("validation failed")
	// ErrNoPendingOrder is returned by Complete when the session holds no recent order.
	ErrNoPendingOrder = errors.New("no pending order")
	// ErrInvalidCredentials is returned for an unknown admin or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, database.ErrNotFound)
}
