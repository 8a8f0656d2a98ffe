// Package models holds the domain entities shared by repositories and
// services on the server side.
package models

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered tenant. PasswordHash is opaque to everything except
// the auth package and is never logged or serialized outward.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
