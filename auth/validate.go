package auth

import (
	"errors"
	"regexp"
)

var (
	accountNameRe = regexp.MustCompile(`^[0-9a-zA-Z]{3,}$`)
	passwordRe    = regexp.MustCompile(`^[0-9a-zA-Z_]{6,}$`)
)

// Validation failures are distinct internally so they can be logged precisely,
// but callers present a single generic message to the user.
var (
	ErrInvalidAccountName = errors.New("auth: account name must be 3+ alphanumeric characters")
	ErrInvalidPassword    = errors.New("auth: password must be 6+ characters of [0-9a-zA-Z_]")
)

// ValidateCredentials enforces the registration rules before any store access.
func ValidateCredentials(accountName, password string) error {
	if !accountNameRe.MatchString(accountName) {
		return ErrInvalidAccountName
	}
	if !passwordRe.MatchString(password) {
		return ErrInvalidPassword
	}
	return nil
}
