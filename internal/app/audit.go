package app

import (
	"context"
	"strings"
	"time"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

const redacted = "[REDACTED]"

var secretKeys = []string{"password", "secret", "token", "credential_plain"}

// AuditRecorder appends audit entries. Called with a transactional context,
// the entry commits or rolls back with the change it describes.
type AuditRecorder struct {
	repo domain.AuditRepository
	now  func() time.Time
}

// NewAuditRecorder creates a recorder writing to repo.
func NewAuditRecorder(repo domain.AuditRepository) *AuditRecorder {
	return &AuditRecorder{repo: repo, now: utcNow}
}

// Record appends one entry. Detail keys that look like secrets are redacted.
func (r *AuditRecorder) Record(ctx context.Context, actorID string, action domain.AuditAction, entityType, entityID string, details map[string]any) error {
	return r.repo.Append(ctx, domain.AuditEntry{
		ID:         newID(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    redact(details),
		CreatedAt:  r.now(),
	})
}

// List returns the audit trail matching filter, oldest first.
func (r *AuditRecorder) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	return r.repo.List(ctx, filter)
}

func redact(details map[string]any) map[string]any {
	out := make(map[string]any, len(details))
	for k, v := range details {
		if isSecretKey(k) {
			out[k] = redacted
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = redact(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
