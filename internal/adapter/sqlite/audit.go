package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// Compile-time check: AuditRepository implements domain.AuditRepository.
var _ domain.AuditRepository = (*AuditRepository)(nil)

// AuditRepository is an append-only audit log. Triggers in the schema reject
// UPDATE and DELETE on the table.
type AuditRepository struct {
	store *Store
}

func (r *AuditRepository) Append(ctx context.Context, e domain.AuditEntry) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encoding audit details: %w", err)
	}

	if _, err := r.store.conn(ctx).ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, string(e.Action), e.EntityType, e.EntityID, string(payload), formatTime(e.CreatedAt),
	); err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	query := `SELECT id, actor_id, action, entity_type, entity_id, details, created_at
		FROM audit_log WHERE 1 = 1`
	var args []any

	if filter.EntityType != "" {
		query += ` AND entity_type = ?`
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != "" {
		query += ` AND entity_id = ?`
		args = append(args, filter.EntityID)
	}

	query += ` ORDER BY created_at ASC, rowid ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.store.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var action, details, createdAt string
		if err := rows.Scan(&e.ID, &e.ActorID, &action, &e.EntityType, &e.EntityID, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Action = domain.AuditAction(action)
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
			return nil, fmt.Errorf("decoding audit details: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
