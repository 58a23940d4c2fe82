package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PasswordMeetsPolicy requires MinPasswordLength characters, a digit and an
// upper-case letter.
func PasswordMeetsPolicy(plain string) bool {
	if len([]rune(plain)) < MinPasswordLength {
		return false
	}
	return strings.IndexFunc(plain, unicode.IsDigit) >= 0 && strings.IndexFunc(plain, unicode.IsUpper) >= 0
}
