package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// Compile-time check: UserRepository implements domain.UserRepository.
var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	store *Store
}

const userColumns = `id, email, password_hash, tenant_id, active, created_at, deleted_at`

func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	_, err := r.store.conn(ctx).ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, nullString(u.TenantID), u.Active,
		formatTime(u.CreatedAt), nullTime(u.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.EmailConflictError{Email: u.Email}
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	if len(u.Roles) > 0 {
		return r.ReplaceRoles(ctx, u.ID, u.Roles)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.store.conn(ctx).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err != nil {
		return domain.User{}, err
	}
	return r.withRoles(ctx, u)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.store.conn(ctx).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`,
		domain.NormalizeEmail(email),
	))
	if err != nil {
		return domain.User{}, err
	}
	return r.withRoles(ctx, u)
}

func (r *UserRepository) Update(ctx context.Context, u domain.User) error {
	result, err := r.store.conn(ctx).ExecContext(ctx,
		`UPDATE users SET email = ?, password_hash = ?, tenant_id = ?, active = ?, deleted_at = ?
		 WHERE id = ?`,
		u.Email, u.PasswordHash, nullString(u.TenantID), u.Active, nullTime(u.DeletedAt), u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.EmailConflictError{Email: u.Email}
		}
		return fmt.Errorf("updating user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ReplaceRoles(ctx context.Context, userID string, roles []domain.Role) error {
	conn := r.store.conn(ctx)

	if _, err := conn.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing roles: %w", err)
	}

	for _, role := range roles {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES (?, ?)`, userID, string(role),
		); err != nil {
			return fmt.Errorf("binding role %q: %w", role, err)
		}
	}
	return nil
}

func (r *UserRepository) withRoles(ctx context.Context, u domain.User) (domain.User, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, u.ID,
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("loading roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return domain.User{}, fmt.Errorf("scanning role: %w", err)
		}
		u.Roles = append(u.Roles, domain.Role(role))
	}
	return u, rows.Err()
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var createdAt string
	var tenantID, deletedAt sql.NullString

	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &tenantID, &u.Active, &createdAt, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("scanning user: %w", err)
	}

	u.TenantID = stringPtr(tenantID)
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.User{}, err
	}
	if u.DeletedAt, err = timePtr(deletedAt); err != nil {
		return domain.User{}, err
	}
	return u, nil
}
