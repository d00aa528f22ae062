// Package auth verifies login credentials
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a username/password pair
type Verifier interface {
	Verify(username, password string) bool
}

// StaticVerifier compares against a fixed username and password
type StaticVerifier struct {
	Username string
	Password string
}

// Verify implements Verifier using constant-time comparison
func (v StaticVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password)) == 1
	return userOK && passOK
}

// BcryptVerifier compares the password against a bcrypt hash
type BcryptVerifier struct {
	Username string
	Hash     []byte
}

// Verify implements Verifier
func (v BcryptVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword(v.Hash, []byte(password)) == nil
	return userOK && passOK
}

// NewVerifier returns a bcrypt verifier when passwordHash is set, else a static one
func NewVerifier(username, password, passwordHash string) Verifier {
	if passwordHash != "" {
		return BcryptVerifier{Username: username, Hash: []byte(passwordHash)}
	}
	return StaticVerifier{Username: username, Password: password}
}

// HashPassword returns a bcrypt hash suitable for the password_hash setting
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
