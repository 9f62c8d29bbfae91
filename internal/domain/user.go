package domain

import (
	"strings"
	"time"
)

const RoleUser = "user"

// User represents a domain user object
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// NewUser creates a new User instance with the default role
func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}
}

// DisplayName is derived from the email because names are not stored.
func (u *User) DisplayName() string {
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
