// Package auth is the token authority: it mints and validates the bearer
// tokens identifying a tenant, and owns password hashing and verification.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an access token. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken mints an HS256-signed token for the given subject, expiring
// after validityDuration.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	return token.SignedString(secretKey)
}

// SubjectFromToken verifies the signature and expiry of tokenString and
// returns the subject. Any failure (bad signature, malformed token, wrong
// algorithm, expired) yields ok=false with no indication of the cause, so
// callers treat every bad token the same way.
func SubjectFromToken(tokenString string, secretKey []byte) (string, bool) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}
