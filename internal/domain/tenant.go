package domain

import "time"

// Tenant is an isolated organization owning its own users and data.
// Tenants only come into existence through provisioning.
type Tenant struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	DeletedAt *time.Time
}

// NewTenant creates an active tenant.
func NewTenant(id, name string) Tenant {
	return Tenant{
		ID:        id,
		Name:      NormalizeTenantName(name),
		Active:    true,
		CreatedAt: Now(),
	}
}
