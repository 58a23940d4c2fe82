package entity

import (
	"time"
)

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in Password field and never leave
// the application layer.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID lets a user record go through the same ownership gate as recipes
// and comments: a user owns itself.
func (u *User) OwnerID() string { return u.ID }
