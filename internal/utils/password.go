package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password is empty")

// PasswordCost maps a configured BCRYPT_COST onto a cost bcrypt accepts.
// Anything outside bcrypt's range falls back to bcrypt.DefaultCost.
func PasswordCost(configured int) int {
	if configured < bcrypt.MinCost || configured > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return configured
}

// HashPassword hashes plain at PasswordCost(cost).
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CheckPassword verifies plain against hash and also reports whether the
// hash was made at a cost other than PasswordCost(cost), so callers can
// upgrade stored hashes after BCRYPT_COST changes.
func CheckPassword(hash, plain string, cost int) (ok, rehash bool) {
	if !VerifyPassword(hash, plain) {
		return false, false
	}
	got, err := bcrypt.Cost([]byte(hash))
	return true, err != nil || got != PasswordCost(cost)
}
