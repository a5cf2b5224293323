package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckAdminCredentials reports whether username and password match the configured admin.
// An empty hash disables login.
func CheckAdminCredentials(username, password, adminUsername, adminPasswordHash string) bool {
	if adminPasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(adminUsername)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(adminPasswordHash), []byte(password)) == nil
	return userOK && passOK
}
