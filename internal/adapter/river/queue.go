package river

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// Compile-time check: Queue implements domain.NotificationQueue.
var _ domain.NotificationQueue = (*Queue)(nil)

// ErrSensitiveNotification is returned when asked to queue a notification
// that carries a secret. Job arguments are stored in plain JSON.
var ErrSensitiveNotification = errors.New("notifications carrying secrets cannot be queued")

// NotificationJobArgs carries a notification to redeliver. River serializes
// this as JSON into its job table, so it never holds a secret.
type NotificationJobArgs struct {
	Template  string            `json:"template"`
	Recipient string            `json:"recipient"`
	Data      map[string]string `json:"data"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (NotificationJobArgs) Kind() string { return "notification.retry" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Queue implements domain.NotificationQueue by enqueuing River jobs.
type Queue struct {
	client      *Client
	maxAttempts int
}

// NewQueue creates a queue backed by the given River client. Each job is
// tried at most maxAttempts times.
func NewQueue(client *Client, maxAttempts int) *Queue {
	return &Queue{client: client, maxAttempts: maxAttempts}
}

// Enqueue schedules a notification for asynchronous redelivery.
func (q *Queue) Enqueue(ctx context.Context, n domain.Notification) error {
	if n.Sensitive() {
		return ErrSensitiveNotification
	}

	_, err := q.client.Insert(ctx, NotificationJobArgs{
		Template:  string(n.Template),
		Recipient: n.Recipient,
		Data:      n.Data,
	}, &river.InsertOpts{MaxAttempts: q.maxAttempts})
	if err != nil {
		return fmt.Errorf("enqueuing notification job: %w", err)
	}
	return nil
}
