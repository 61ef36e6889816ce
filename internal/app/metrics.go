package app

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

const meterName = "github.com/neomorfeo/onboardiq/internal/app"

// provisioningMetrics counts provisioning outcomes by operation and error kind.
type provisioningMetrics struct {
	outcomes    metric.Int64Counter
	credentials metric.Int64Counter
}

func newProvisioningMetrics() *provisioningMetrics {
	meter := otel.Meter(meterName)

	outcomes, err := meter.Int64Counter("onboardiq.provisioning.outcomes",
		metric.WithDescription("Review and direct provisioning attempts by outcome"),
	)
	if err != nil {
		slog.Warn("creating outcomes counter", "error", err)
		outcomes = noop.Int64Counter{}
	}

	credentials, err := meter.Int64Counter("onboardiq.credentials.generated",
		metric.WithDescription("Credentials generated for new tenant administrators"),
	)
	if err != nil {
		slog.Warn("creating credentials counter", "error", err)
		credentials = noop.Int64Counter{}
	}

	return &provisioningMetrics{outcomes: outcomes, credentials: credentials}
}

func (m *provisioningMetrics) outcome(ctx context.Context, operation string, err error) {
	result := "ok"
	if err != nil {
		result = domain.KindOf(err)
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", result),
	))
}

func (m *provisioningMetrics) credentialGenerated(ctx context.Context) {
	m.credentials.Add(ctx, 1)
}
