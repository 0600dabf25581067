package models

import (
	"time"
)

// Account roles
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// User represents an account in the system (admin, staff or customer)
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     *string   `json:"username,omitempty" db:"username"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Mobile       *string   `json:"mobile" db:"mobile"`
	Name         *string   `json:"name" db:"name"`
	Email        *string   `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Profile returns the public subset of the account returned to clients
func (u *User) Profile() UserProfile {
	p := UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.Mobile != nil {
		p.Mobile = *u.Mobile
	}
	return p
}

// UserProfile is the minimal account view embedded in auth responses
type UserProfile struct {
	ID     string  `json:"id"`
	Mobile string  `json:"mobile"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   string  `json:"role"`
}

// LoginRequest represents a username/password login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful password login
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// AuthResponse represents the response after a successful OTP verification
type AuthResponse struct {
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      UserProfile `json:"user"`
}

// UserFilter controls account listing
type UserFilter struct {
	Search string
	Sort   string
	Order  string
}

// Sortable account list fields
const (
	SortByUsername  = "username"
	SortByCreatedAt = "createdAt"
	OrderAsc        = "asc"
	OrderDesc       = "desc"
)

// Normalize falls back to username ascending for unknown sort keys
func (f UserFilter) Normalize() UserFilter {
	if f.Sort != SortByUsername && f.Sort != SortByCreatedAt {
		f.Sort = SortByUsername
	}
	if f.Order != OrderAsc && f.Order != OrderDesc {
		f.Order = OrderAsc
	}
	return f
}

// MeResponse is returned by the current-session profile endpoint
type MeResponse struct {
	User UserProfile `json:"user"`
}
