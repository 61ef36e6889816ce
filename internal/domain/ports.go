package domain

import (
	"context"
	"errors"
	"time"
)

// ErrStaleStatus is returned by a status compare-and-swap that matched no row.
var ErrStaleStatus = errors.New("status changed concurrently")

// Transactor runs fn inside one transaction. Repositories called with the
// context passed to fn take part in that transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RequestRepository defines the persistence contract for tenant requests.
type RequestRepository interface {
	Create(ctx context.Context, req TenantRequest) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (TenantRequest, error)
	// FindPending returns the live pending request for name, or ErrRequestNotFound.
	FindPending(ctx context.Context, tenantName string) (TenantRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]TenantRequest, error)
	// UpdateStatus moves a request from one status to another only if it is
	// still in from. It returns ErrStaleStatus otherwise.
	UpdateStatus(ctx context.Context, id string, from, to Status, reviewedBy string, reviewedAt time.Time) error
	SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// TenantRepository defines the persistence contract for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant Tenant) error
	GetByID(ctx context.Context, id string) (Tenant, error)
	// FindByName returns the live tenant called name, or ErrTenantNotFound.
	FindByName(ctx context.Context, name string) (Tenant, error)
}

// UserRepository defines the persistence contract for users and role bindings.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	// GetByID returns the user with its roles, soft-deleted or not.
	GetByID(ctx context.Context, id string) (User, error)
	// FindByEmail returns the live user owning email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, user User) error
	// ReplaceRoles clears every binding of the user and binds exactly roles.
	ReplaceRoles(ctx context.Context, userID string, roles []Role) error
}

// AuditRepository is the append-only sink for audit entries.
type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
}

// TransitionValidator checks whether an event is allowed from a status and
// returns the destination status.
type TransitionValidator interface {
	Apply(ctx context.Context, current Status, event Event) (Status, error)
}

// CredentialGenerator produces plaintext secrets for new accounts.
type CredentialGenerator interface {
	Generate(length int) (string, error)
}

// PasswordHasher hashes plaintext secrets before persistence.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Notifier delivers a notification through an outbound transport.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// NotificationQueue schedules a notification for later redelivery.
type NotificationQueue interface {
	Enqueue(ctx context.Context, n Notification) error
}
