package models

import "time"

// User represents a user account in the system. Email is the unique identity
// key across every store.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}
