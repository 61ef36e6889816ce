package otel_test

import (
	"context"
	"slices"
	"testing"

	"go.opentelemetry.io/otel"

	adapter "github.com/neomorfeo/onboardiq/internal/adapter/otel"
)

func TestSetup_Exporters(t *testing.T) {
	for _, exporter := range []string{"stdout", "none"} {
		t.Run(exporter, func(t *testing.T) {
			providers, err := adapter.Setup(context.Background(), adapter.Config{
				ServiceName:    "test",
				ServiceVersion: "0.0.1",
				Environment:    "test",
				Exporter:       exporter,
			})
			if err != nil {
				t.Fatalf("Setup failed: %v", err)
			}

			if err := providers.Shutdown(context.Background()); err != nil {
				t.Fatalf("Shutdown failed: %v", err)
			}
		})
	}
}

func TestSetup_InvalidExporter(t *testing.T) {
	_, err := adapter.Setup(context.Background(), adapter.Config{
		ServiceName:    "test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		Exporter:       "invalid",
	})
	if err == nil {
		t.Fatal("expected error for invalid exporter")
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	providers, err := adapter.Setup(context.Background(), adapter.Config{
		ServiceName: "test",
		Exporter:    "none",
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	fields := otel.GetTextMapPropagator().Fields()
	if !slices.Contains(fields, "traceparent") || !slices.Contains(fields, "baggage") {
		t.Errorf("propagator fields = %v, want traceparent and baggage", fields)
	}
}
