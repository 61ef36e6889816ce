package app

import (
	"context"
	"time"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// UserLifecycle lets a tenant administrator manage users of their own tenant.
type UserLifecycle struct {
	tx    domain.Transactor
	users domain.UserRepository
	audit *AuditRecorder
	now   func() time.Time
}

// NewUserLifecycle creates a UserLifecycle.
func NewUserLifecycle(tx domain.Transactor, users domain.UserRepository, audit *AuditRecorder) *UserLifecycle {
	return &UserLifecycle{tx: tx, users: users, audit: audit, now: utcNow}
}

// SuperAdminInput names the platform administrator created at startup.
// An empty ID is replaced by a generated one.
type SuperAdminInput struct {
	ID    string `field:"super_admin_id"`
	Email string `field:"super_admin_email" validate:"required,email,max=255"`
}

// EnsureSuperAdmin creates the platform administrator unless a live user
// already owns the email. An existing account must already hold superAdmin.
func (l *UserLifecycle) EnsureSuperAdmin(ctx context.Context, in SuperAdminInput) (domain.User, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return domain.User{}, err
	}
	if in.ID == "" {
		in.ID = newID()
	}

	var admin domain.User
	uow := newUnitOfWork(l.tx)
	uow.step("find super admin", func(ctx context.Context) error {
		u, err := l.users.FindByEmail(ctx, in.Email)
		switch {
		case err == nil && u.HasRole(domain.RoleSuperAdmin):
			admin = u
			return nil
		case err == nil:
			return &domain.ValidationError{Field: "super_admin_email", Reason: "belongs to a user without the superAdmin role"}
		case domain.KindOf(err) == domain.KindNotFound:
			return nil
		default:
			return err
		}
	})
	uow.step("create super admin", func(ctx context.Context) error {
		if admin.ID != "" {
			return nil
		}
		admin = domain.NewUser(in.ID, in.Email)
		admin.CreatedAt = l.now()
		admin.Roles = []domain.Role{domain.RoleSuperAdmin}
		if err := l.users.Create(ctx, admin); err != nil {
			return err
		}
		return l.audit.Record(ctx, systemActor, domain.AuditSuperAdminCreated, domain.EntityUser, admin.ID, map[string]any{
			"email": admin.Email,
		})
	})

	if err := uow.run(ctx); err != nil {
		return domain.User{}, err
	}
	admin.PasswordHash = ""
	return admin, nil
}

// Get returns a user of the actor's tenant.
func (l *UserLifecycle) Get(ctx context.Context, userID, actorID string) (domain.User, error) {
	var out domain.User
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		target, err := l.authorize(ctx, userID, actorID)
		if err != nil {
			return err
		}
		out = target
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	out.PasswordHash = ""
	return out, nil
}

// Activate sets the active flag on a user of the actor's tenant.
func (l *UserLifecycle) Activate(ctx context.Context, userID, actorID string) (domain.User, error) {
	return l.mutate(ctx, userID, actorID, domain.AuditUserActivated, func(u *domain.User) {
		u.Active = true
	})
}

// Deactivate clears the active flag. Role bindings are kept.
func (l *UserLifecycle) Deactivate(ctx context.Context, userID, actorID string) (domain.User, error) {
	return l.mutate(ctx, userID, actorID, domain.AuditUserDeactivated, func(u *domain.User) {
		u.Active = false
	})
}

// SoftDelete marks a user deleted. Role bindings are kept.
func (l *UserLifecycle) SoftDelete(ctx context.Context, userID, actorID string) (domain.User, error) {
	return l.mutate(ctx, userID, actorID, domain.AuditUserDeleted, func(u *domain.User) {
		at := l.now()
		u.DeletedAt = &at
	})
}

func (l *UserLifecycle) mutate(ctx context.Context, userID, actorID string, action domain.AuditAction, change func(*domain.User)) (domain.User, error) {
	var target domain.User

	uow := newUnitOfWork(l.tx)
	uow.step("authorize", func(ctx context.Context) error {
		var err error
		target, err = l.authorize(ctx, userID, actorID)
		return err
	})
	uow.step("update user", func(ctx context.Context) error {
		change(&target)
		return l.users.Update(ctx, target)
	})
	uow.step("audit", func(ctx context.Context) error {
		return l.audit.Record(ctx, actorID, action, domain.EntityUser, target.ID, map[string]any{
			"tenant_id": *target.TenantID,
			"active":    target.Active,
		})
	})

	if err := uow.run(ctx); err != nil {
		return domain.User{}, err
	}
	target.PasswordHash = ""
	return target, nil
}

// authorize loads the target user on behalf of actorID. The actor must be a
// live, active tenant administrator of the target's tenant.
func (l *UserLifecycle) authorize(ctx context.Context, userID, actorID string) (domain.User, error) {
	actor, err := loadActor(ctx, l.users, actorID)
	if err != nil {
		return domain.User{}, err
	}
	if !actor.HasRole(domain.RoleTenantAdmin) || actor.TenantID == nil {
		return domain.User{}, domain.ErrForbidden
	}

	target, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if target.Deleted() {
		return domain.User{}, domain.ErrUserNotFound
	}
	if !target.InTenant(*actor.TenantID) {
		return domain.User{}, domain.ErrForbidden
	}
	return target, nil
}
