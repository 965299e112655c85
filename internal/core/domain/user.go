package domain

import (
	"errors"
	"fmt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email not unique")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("invalid token")
	ErrInvalidInput       = errors.New("invalid input")

	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
)

// User is an account holder. PasswordHash and Role never leave the service
// boundary in a response payload.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

// UserPatch carries the fields a user may change on their own account.
// Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
