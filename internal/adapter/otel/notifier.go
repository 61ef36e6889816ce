package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// TracingNotifier wraps a domain.Notifier with OpenTelemetry tracing. The
// recipient and template are recorded; message data and secrets are not.
type TracingNotifier struct {
	next   domain.Notifier
	tracer trace.Tracer
}

// Compile-time check: TracingNotifier implements domain.Notifier.
var _ domain.Notifier = (*TracingNotifier)(nil)

// NewTracingNotifier creates a tracing decorator around next.
func NewTracingNotifier(next domain.Notifier) *TracingNotifier {
	return &TracingNotifier{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (n *TracingNotifier) Send(ctx context.Context, msg domain.Notification) error {
	ctx, span := n.tracer.Start(ctx, "Notifier.Send",
		trace.WithAttributes(
			attribute.String("notification.template", string(msg.Template)),
			attribute.String("notification.recipient", msg.Recipient),
			attribute.Bool("notification.sensitive", msg.Sensitive()),
		),
	)
	defer span.End()

	return record(span, n.next.Send(ctx, msg))
}
