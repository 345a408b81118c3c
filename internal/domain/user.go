package domain

import "time"

// Role enumerates authorization levels for accounts.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleUser, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// User is the domain model for accounts that authenticate against the service.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
