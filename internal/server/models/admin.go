package models

import (
	"database/sql"
	"time"
)

// Admin roles. There is no transition from super-admin to admin.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// Admin is an administrative operator. Admins authenticate with a one-time
// numeric code, not a password: CodeHash holds the bcrypt hash of the
// current code and is cleared once the code has been used, so a NULL hash
// means no usable code exists until one is regenerated.
type Admin struct {
	ID          int64          `json:"id"`
	Email       string         `json:"email"`
	CodeHash    sql.NullString `json:"-"`
	Role        string         `json:"role"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastLoginAt *time.Time     `json:"lastLoginAt,omitempty"`
}

// IsSuperAdmin reports whether the admin holds the super-admin role.
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}
