package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword returns ErrInvalidCredentials when password does not match hash.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return bookclub_errors.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("%w: %v", bookclub_errors.ErrInvalidCredentials, err)
	}
	return nil
}
