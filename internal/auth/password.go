// Package auth - password.go wraps bcrypt hashing for account credentials.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades hash time against brute-force resistance. 12 keeps a single
// verification under ~300ms on current hardware.
const bcryptCost = 12

// MinPasswordLength is the shortest password accepted on set/reset
const MinPasswordLength = 8

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
