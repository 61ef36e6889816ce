package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// Compile-time check: TenantRepository implements domain.TenantRepository.
var _ domain.TenantRepository = (*TenantRepository)(nil)

// TenantRepository implements domain.TenantRepository using SQLite.
type TenantRepository struct {
	store *Store
}

func (r *TenantRepository) Create(ctx context.Context, t domain.Tenant) error {
	_, err := r.store.conn(ctx).ExecContext(ctx,
		`INSERT INTO tenants (id, name, active, created_at, deleted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Active, formatTime(t.CreatedAt), nullTime(t.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.TenantNameConflictError{Name: t.Name}
		}
		return fmt.Errorf("inserting tenant: %w", err)
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	return scanTenant(r.store.conn(ctx).QueryRowContext(ctx,
		`SELECT id, name, active, created_at, deleted_at FROM tenants WHERE id = ?`, id,
	))
}

func (r *TenantRepository) FindByName(ctx context.Context, name string) (domain.Tenant, error) {
	return scanTenant(r.store.conn(ctx).QueryRowContext(ctx,
		`SELECT id, name, active, created_at, deleted_at FROM tenants
		 WHERE name = ? AND deleted_at IS NULL`, name,
	))
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	var createdAt string
	var deletedAt sql.NullString

	if err := row.Scan(&t.ID, &t.Name, &t.Active, &createdAt, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, fmt.Errorf("scanning tenant: %w", err)
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Tenant{}, err
	}
	if t.DeletedAt, err = timePtr(deletedAt); err != nil {
		return domain.Tenant{}, err
	}
	return t, nil
}
