package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// MaxPasswordLength is bcrypt's input limit, in bytes.
const MaxPasswordLength = 72

var ErrPasswordMismatch = errors.New("password does not match")

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a plaintext password to a stored hash. A nil hash
// never matches.
func CheckPassword(hash *string, password string) error {
	if hash == nil || *hash == "" {
		return ErrPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
