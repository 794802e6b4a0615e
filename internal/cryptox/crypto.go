// Package cryptox implements password hashing for the local identity
// provider using argon2id.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// HashPassword derives a 32-byte argon2id hash from password and salt.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether password+salt hash to the stored value.
// The comparison is constant-time.
func VerifyPassword(password, salt, hash []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
