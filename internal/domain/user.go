package domain

import "time"

// Role is the access level of a profile.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Profile is a registered user.
type Profile struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	Age          int
	Gender       string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
