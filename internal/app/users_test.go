package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neomorfeo/onboardiq/internal/app"
	"github.com/neomorfeo/onboardiq/internal/domain"
)

// seedUser inserts a live user bound to tenantID with the given roles.
func seedUser(t *testing.T, h *harness, id, email, tenantID string, roles ...domain.Role) domain.User {
	t.Helper()
	u := domain.NewUser(id, email)
	if tenantID != "" {
		u.TenantID = &tenantID
	}
	u.Roles = roles
	if err := h.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user %s: %v", id, err)
	}
	return u
}

func seedTenants(t *testing.T, h *harness, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := h.store.Tenants().Create(context.Background(), domain.NewTenant(id, "tenant "+id)); err != nil {
			t.Fatalf("seeding tenant %s: %v", id, err)
		}
	}
}

func TestUserLifecycle_DeactivateAndActivate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedTenants(t, h, "t-1")
	seedUser(t, h, "admin", "admin@one.com", "t-1", domain.RoleTenantAdmin)
	seedUser(t, h, "member", "member@one.com", "t-1", domain.RoleUser)

	got, err := h.users.Deactivate(ctx, "member", "admin")
	if err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if got.Active {
		t.Error("user should be inactive")
	}

	stored, err := h.store.Users().GetByID(ctx, "member")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Active {
		t.Error("stored user should be inactive")
	}
	if !stored.HasRole(domain.RoleUser) {
		t.Errorf("roles should be kept, got %v", stored.Roles)
	}

	if _, err := h.users.Activate(ctx, "member", "admin"); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	got2 := h.actions(t, domain.EntityUser, "member")
	want := []domain.AuditAction{domain.AuditUserDeactivated, domain.AuditUserActivated}
	if len(got2) != 2 || got2[0] != want[0] || got2[1] != want[1] {
		t.Errorf("audit = %v, want %v", got2, want)
	}
}

func TestUserLifecycle_OtherTenantForbidden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedTenants(t, h, "t-1", "t-2")
	seedUser(t, h, "admin", "admin@one.com", "t-1", domain.RoleTenantAdmin)
	seedUser(t, h, "stranger", "someone@two.com", "t-2", domain.RoleUser)

	_, err := h.users.Deactivate(ctx, "stranger", "admin")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	stored, err := h.store.Users().GetByID(ctx, "stranger")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !stored.Active {
		t.Error("target should remain active")
	}
	if actions := h.actions(t, domain.EntityUser, "stranger"); len(actions) != 0 {
		t.Errorf("no audit expected, got %v", actions)
	}
}

func TestUserLifecycle_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedTenants(t, h, "t-1")
	seedUser(t, h, "admin", "admin@one.com", "t-1", domain.RoleTenantAdmin)
	seedUser(t, h, "member", "member@one.com", "t-1", domain.RoleUser)
	seedUser(t, h, "other", "other@one.com", "t-1", domain.RoleUser)

	tests := []struct {
		name    string
		userID  string
		actorID string
		want    string
	}{
		{"missing target", "nobody", "admin", domain.KindNotFound},
		{"non-admin actor", "other", "member", domain.KindForbidden},
		{"unknown actor", "member", "ghost", domain.KindForbidden},
		{"no actor", "member", "", domain.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.users.Deactivate(ctx, tt.userID, tt.actorID)
			assertKind(t, err, tt.want)
		})
	}
}

func TestUserLifecycle_SoftDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedTenants(t, h, "t-1")
	seedUser(t, h, "admin", "admin@one.com", "t-1", domain.RoleTenantAdmin)
	seedUser(t, h, "member", "member@one.com", "t-1", domain.RoleUser)

	deleted, err := h.users.SoftDelete(ctx, "member", "admin")
	if err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if !deleted.Deleted() {
		t.Error("user should be marked deleted")
	}

	if _, err := h.users.Get(ctx, "member", "admin"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete: expected NotFound, got %v", err)
	}
	if _, err := h.users.Activate(ctx, "member", "admin"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Activate after delete: expected NotFound, got %v", err)
	}
}

func TestUserLifecycle_GetHidesHash(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedTenants(t, h, "t-1")
	seedUser(t, h, "admin", "admin@one.com", "t-1", domain.RoleTenantAdmin)

	u, err := h.users.Get(ctx, "admin", "admin")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if u.PasswordHash != "" {
		t.Error("Get must not return the password hash")
	}
}

func TestEnsureSuperAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	again, err := h.users.EnsureSuperAdmin(ctx, app.SuperAdminInput{ID: "other-id", Email: "Root@OnboardIQ.dev"})
	if err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}
	if again.ID != superAdminID {
		t.Errorf("ID = %q, want existing %q", again.ID, superAdminID)
	}
	if got := h.actions(t, domain.EntityUser, superAdminID); len(got) != 1 || got[0] != domain.AuditSuperAdminCreated {
		t.Errorf("audit = %v, want one %s entry", got, domain.AuditSuperAdminCreated)
	}

	seedUser(t, h, "plain", "plain@acme.com", "")
	_, err = h.users.EnsureSuperAdmin(ctx, app.SuperAdminInput{Email: "plain@acme.com"})
	assertKind(t, err, domain.KindValidation)

	_, err = h.users.EnsureSuperAdmin(ctx, app.SuperAdminInput{Email: "not-an-email"})
	assertKind(t, err, domain.KindValidation)
}
