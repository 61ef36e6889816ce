package river

import (
	"context"
	"errors"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// NotificationWorker redelivers queued notifications. Transport errors are
// returned so River retries with backoff; invalid notifications are cancelled.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationJobArgs]

	notifier domain.Notifier
}

// Work processes a single notification job.
func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationJobArgs]) error {
	tmpl, err := domain.ParseTemplate(job.Args.Template)
	if err != nil {
		return river.JobCancel(err)
	}

	err = w.notifier.Send(ctx, domain.Notification{
		Template:  tmpl,
		Recipient: job.Args.Recipient,
		Data:      job.Args.Data,
	})
	if err == nil {
		slog.InfoContext(ctx, "notification redelivered",
			"template", job.Args.Template,
			"job_id", job.ID,
			"attempt", job.Attempt,
		)
		return nil
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return river.JobCancel(err)
	}

	slog.WarnContext(ctx, "notification redelivery failed",
		"template", job.Args.Template,
		"job_id", job.ID,
		"attempt", job.Attempt,
		"error", err,
	)
	return err
}
