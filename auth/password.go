package auth

import (
	"errors"
	"fmt"

	"github.com/dwoolworth/inkwell"
	"golang.org/x/crypto/bcrypt"
)

// Password length bounds accepted on sign-up and reset. bcrypt reads at most
// MaxPasswordLength bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// HashPassword returns the bcrypt hash of password. Passwords outside the
// length bounds are rejected with a validation error.
func HashPassword(password string) (string, error) {
	if err := checkPasswordLength(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

func checkPasswordLength(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return inkwell.NewError(inkwell.KindValidation, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	case len(password) > MaxPasswordLength:
		return inkwell.NewError(inkwell.KindValidation, fmt.Sprintf("Password must be at most %d bytes", MaxPasswordLength))
	}
	return nil
}

// CheckPassword reports whether password matches hash. A mismatch is not an
// error; a malformed hash is.
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("auth: compare password: %w", err)
	}
}
