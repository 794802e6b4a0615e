package models

import "time"

// User is an account resolved from the identity provider. PasswordHash and
// Salt are only populated by the local provider's repository; they never
// leave the server.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	PasswordHash []byte `json:"-"`
	Salt         []byte `json:"-"`
}
