package model

import "time"

// Role identifies what a user can do in the system
type Role string

// User roles
const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleNGO       Role = "ngo"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is an assignable role. Admin accounts are
// provisioned out of band, never through signup.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleVolunteer || r == RoleNGO
}

// User represents a donor, volunteer or NGO account
type User struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Role         Role            `json:"role"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	PasswordHash string          `json:"-"`
	Activity     []ActivityEntry `json:"activity,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ActivityEntry is one line in a user's embedded activity log
type ActivityEntry struct {
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RegisterRequest represents signup parameters
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required,oneof=donor volunteer ngo"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginRequest represents login parameters
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SwitchRoleRequest changes the account's active role
type SwitchRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=donor volunteer ngo"`
}
