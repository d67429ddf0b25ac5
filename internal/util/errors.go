// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyExists       = errors.New("user already exists") // Registration with an email that is already taken
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAlreadyOwned        = errors.New("item already owned")
	ErrNotOwned            = errors.New("item not owned")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCatalogUnavailable  = errors.New("catalog provider unavailable")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
