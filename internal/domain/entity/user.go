package entity

import "time"

// Valid roles for User.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an account in the credential store.
type User struct {
	ID           string
	Name         string
	Email        string // stored lowercased; login key
	PasswordHash string // bcrypt hash, never plaintext past registration
	Role         string // USER or ADMIN
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin
}
