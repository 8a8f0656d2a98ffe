package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input ceiling. Longer passwords would be
// silently truncated by the algorithm, so they are rejected at account
// creation before any hash is computed.
const MaxPasswordBytes = 72

const argon2idPrefix = "$argon2id$"

// HashPassword hashes a plaintext password with bcrypt and a fresh salt.
// The same plaintext yields a different hash on every call.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches hash. Hashes produced by the
// current bcrypt scheme and by the predecessor argon2id scheme are both
// accepted, so accounts created before the switch keep working. A malformed
// hash is never an error, just a mismatch.
func VerifyPassword(plain, hash string) bool {
	if strings.HasPrefix(hash, argon2idPrefix) {
		return verifyArgon2id(plain, hash)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// verifyArgon2id checks plain against a PHC-formatted argon2id hash:
// $argon2id$v=19$m=<mem>,t=<iters>,p=<par>$<salt>$<hash>
func verifyArgon2id(plain, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(plain), salt, iterations, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(expected, computed) == 1
}
