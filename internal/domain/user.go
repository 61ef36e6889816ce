package domain

import (
	"fmt"
	"slices"
	"time"
)

// Role is fixed reference data; the set never changes at runtime.
type Role string

const (
	RoleSuperAdmin  Role = "superAdmin"
	RoleTenantAdmin Role = "tenantAdmin"
	RoleUser        Role = "user"
)

// Roles lists every known role.
var Roles = []Role{RoleSuperAdmin, RoleTenantAdmin, RoleUser}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if slices.Contains(Roles, r) {
		return r, nil
	}
	return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", s)}
}

// User is an account. A user without a tenant is a requester-only identity.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	TenantID     *string
	Active       bool
	Roles        []Role
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// NewUser creates an active requester identity with no credential and no tenant.
func NewUser(id, email string) User {
	return User{
		ID:        id,
		Email:     NormalizeEmail(email),
		Active:    true,
		CreatedAt: Now(),
	}
}

// HasCredential reports whether a password hash is already stored.
func (u User) HasCredential() bool {
	return u.PasswordHash != ""
}

// HasRole reports whether the user is bound to role.
func (u User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

// Deleted reports whether the user is soft-deleted.
func (u User) Deleted() bool {
	return u.DeletedAt != nil
}

// InTenant reports whether the user belongs to tenantID.
func (u User) InTenant(tenantID string) bool {
	return u.TenantID != nil && *u.TenantID == tenantID
}
