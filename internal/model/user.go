package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried on a user's profile.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Profile represents a user profile row.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
