package app

import (
	"context"
	"log/slog"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// systemActor is the audit actor for entries written by the service itself.
const systemActor = "system"

// NotificationDispatcher sends outcome emails after a commit. Delivery is
// best effort: a failure is audited, and notifications without a secret are
// handed to the retry queue. The caller's committed state is never touched.
type NotificationDispatcher struct {
	notifier domain.Notifier
	queue    domain.NotificationQueue
	tx       domain.Transactor
	audit    *AuditRecorder
}

// NewNotificationDispatcher creates a dispatcher. queue may be nil, in which
// case failed notifications are only audited.
func NewNotificationDispatcher(notifier domain.Notifier, queue domain.NotificationQueue, tx domain.Transactor, audit *AuditRecorder) *NotificationDispatcher {
	return &NotificationDispatcher{
		notifier: notifier,
		queue:    queue,
		tx:       tx,
		audit:    audit,
	}
}

// Dispatch sends n and returns the delivery error, if any, after recording it.
// entityType and entityID name the record the notification is about.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, entityType, entityID string, n domain.Notification) error {
	sendErr := d.notifier.Send(ctx, n)
	if sendErr == nil {
		return nil
	}

	queued := false
	if d.queue != nil && !n.Sensitive() && domain.KindOf(sendErr) == domain.KindDeliveryFailed {
		if err := d.queue.Enqueue(ctx, n); err != nil {
			slog.ErrorContext(ctx, "queueing notification for retry failed",
				"template", n.Template,
				"error", err,
			)
		} else {
			queued = true
		}
	}

	details := map[string]any{
		"template":  string(n.Template),
		"recipient": n.Recipient,
		"kind":      domain.KindOf(sendErr),
		"queued":    queued,
		"error":     sendErr.Error(),
	}
	if err := d.tx.WithinTx(ctx, func(ctx context.Context) error {
		return d.audit.Record(ctx, systemActor, domain.AuditNotificationFail, entityType, entityID, details)
	}); err != nil {
		slog.ErrorContext(ctx, "recording notification failure", "error", err)
	}

	return sendErr
}
