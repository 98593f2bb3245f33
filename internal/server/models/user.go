// Package models defines the persistent and request-scoped domain types of
// the journal backend.
package models

import "time"

// User is a registered account. Password holds the PHC-encoded Argon2id
// credential, never the plaintext.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
}
