package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const adminPasswordCost = 12

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

// HashPassword hashes an admin password with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), adminPasswordCost)
	return string(hash), err
}

// CheckPasswordHash reports whether password matches hash. Admins created through
// Google sign-in have no hash and never match.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
