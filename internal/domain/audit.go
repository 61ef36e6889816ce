package domain

import "time"

// AuditAction tags a state-changing action.
type AuditAction string

const (
	AuditRequestCreated    AuditAction = "tenant_request.created"
	AuditRequestApproved   AuditAction = "tenant_request.approved"
	AuditRequestRejected   AuditAction = "tenant_request.rejected"
	AuditRequestDeleted    AuditAction = "tenant_request.deleted"
	AuditRequestRestored   AuditAction = "tenant_request.restored"
	AuditTenantProvisioned AuditAction = "tenant.provisioned"
	AuditUserActivated     AuditAction = "user.activated"
	AuditUserDeactivated   AuditAction = "user.deactivated"
	AuditUserDeleted       AuditAction = "user.deleted"
	AuditSuperAdminCreated AuditAction = "user.superadmin_created"
	AuditNotificationFail  AuditAction = "notification.failed"
)

// Entity types referenced by audit entries.
const (
	EntityTenantRequest = "tenant_request"
	EntityTenant        = "tenant"
	EntityUser          = "user"
)

// AuditEntry is an immutable record of a state-changing action.
type AuditEntry struct {
	ID         string
	ActorID    string
	Action     AuditAction
	EntityType string
	EntityID   string
	Details    map[string]any
	CreatedAt  time.Time
}

// AuditFilter narrows an audit trail listing.
type AuditFilter struct {
	EntityType string
	EntityID   string
	Limit      int
}
