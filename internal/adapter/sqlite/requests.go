package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// Compile-time check: RequestRepository implements domain.RequestRepository.
var _ domain.RequestRepository = (*RequestRepository)(nil)

// RequestRepository implements domain.RequestRepository using SQLite.
type RequestRepository struct {
	store *Store
}

const requestColumns = `id, tenant_name, requester_email, requester_user_id, status,
	requested_at, reviewed_by, reviewed_at, deleted_at`

func (r *RequestRepository) Create(ctx context.Context, req domain.TenantRequest) error {
	_, err := r.store.conn(ctx).ExecContext(ctx,
		`INSERT INTO tenant_requests (`+requestColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.TenantName, req.RequesterEmail, nullString(req.RequesterUserID),
		string(req.Status), formatTime(req.RequestedAt),
		nullString(req.ReviewedBy), nullTime(req.ReviewedAt), nullTime(req.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicatePendingError{TenantName: req.TenantName}
		}
		return fmt.Errorf("inserting tenant request: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (domain.TenantRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM tenant_requests WHERE id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	return scanRequest(r.store.conn(ctx).QueryRowContext(ctx, query, id))
}

func (r *RequestRepository) FindPending(ctx context.Context, tenantName string) (domain.TenantRequest, error) {
	return scanRequest(r.store.conn(ctx).QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM tenant_requests
		 WHERE tenant_name = ? AND status = 'pending' AND deleted_at IS NULL`, tenantName,
	))
}

func (r *RequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.TenantRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM tenant_requests WHERE 1 = 1`
	var args []any

	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}
	if !filter.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	// Column names come from a closed set, never from user input.
	column := "requested_at"
	if filter.OrderBy == domain.OrderReviewedAt {
		column = "reviewed_at"
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s, id ASC`, column, direction)

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.store.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tenant requests: %w", err)
	}
	defer rows.Close()

	var out []domain.TenantRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}

	return out, rows.Err()
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, reviewedBy string, reviewedAt time.Time) error {
	result, err := r.store.conn(ctx).ExecContext(ctx,
		`UPDATE tenant_requests SET status = ?, reviewed_by = ?, reviewed_at = ?
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		string(to), reviewedBy, formatTime(reviewedAt), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("updating request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrStaleStatus
	}
	return nil
}

func (r *RequestRepository) SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error {
	result, err := r.store.conn(ctx).ExecContext(ctx,
		`UPDATE tenant_requests SET deleted_at = ? WHERE id = ?`,
		nullTime(deletedAt), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			name, nameErr := r.nameOf(ctx, id)
			if nameErr != nil {
				return errors.Join(fmt.Errorf("updating request deleted_at: %w", err), nameErr)
			}
			return &domain.DuplicatePendingError{TenantName: name}
		}
		return fmt.Errorf("updating request deleted_at: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tenant_requests
		 WHERE deleted_at IS NULL GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting tenant requests: %w", err)
	}
	defer rows.Close()

	counts := map[domain.Status]int{
		domain.StatusPending:  0,
		domain.StatusApproved: 0,
		domain.StatusRejected: 0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning request count: %w", err)
		}
		counts[domain.Status(status)] = n
	}
	return counts, rows.Err()
}

func (r *RequestRepository) nameOf(ctx context.Context, id string) (string, error) {
	var name string
	err := r.store.conn(ctx).QueryRowContext(ctx, `SELECT tenant_name FROM tenant_requests WHERE id = ?`, id).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("loading tenant name of request %s: %w", id, err)
	}
	return name, nil
}

func scanRequest(row rowScanner) (domain.TenantRequest, error) {
	var req domain.TenantRequest
	var status, requestedAt string
	var requesterUserID, reviewedBy, reviewedAt, deletedAt sql.NullString

	err := row.Scan(&req.ID, &req.TenantName, &req.RequesterEmail, &requesterUserID, &status,
		&requestedAt, &reviewedBy, &reviewedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TenantRequest{}, domain.ErrRequestNotFound
		}
		return domain.TenantRequest{}, fmt.Errorf("scanning tenant request: %w", err)
	}

	req.Status = domain.Status(status)
	req.RequesterUserID = stringPtr(requesterUserID)
	req.ReviewedBy = stringPtr(reviewedBy)
	if req.RequestedAt, err = parseTime(requestedAt); err != nil {
		return domain.TenantRequest{}, err
	}
	if req.ReviewedAt, err = timePtr(reviewedAt); err != nil {
		return domain.TenantRequest{}, err
	}
	if req.DeletedAt, err = timePtr(deletedAt); err != nil {
		return domain.TenantRequest{}, err
	}
	return req, nil
}
