package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

const tracerName = "github.com/neomorfeo/onboardiq/internal/adapter/otel"

// TracingRequestRepository wraps a domain.RequestRepository with OpenTelemetry
// tracing. Each method creates a span and records errors on it.
type TracingRequestRepository struct {
	next   domain.RequestRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRequestRepository implements domain.RequestRepository.
var _ domain.RequestRepository = (*TracingRequestRepository)(nil)

// NewTracingRequestRepository creates a tracing decorator around next.
func NewTracingRequestRepository(next domain.RequestRepository) *TracingRequestRepository {
	return &TracingRequestRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRequestRepository) Create(ctx context.Context, req domain.TenantRequest) error {
	ctx, span := r.tracer.Start(ctx, "RequestRepository.Create",
		trace.WithAttributes(
			attribute.String("request.id", req.ID),
			attribute.String("request.tenant_name", req.TenantName),
			attribute.String("request.status", string(req.Status)),
		),
	)
	defer span.End()

	return record(span, r.next.Create(ctx, req))
}

func (r *TracingRequestRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (domain.TenantRequest, error) {
	ctx, span := r.tracer.Start(ctx, "RequestRepository.GetByID",
		trace.WithAttributes(
			attribute.String("request.id", id),
			attribute.Bool("filter.include_deleted", includeDeleted),
		),
	)
	defer span.End()

	req, err := r.next.GetByID(ctx, id, includeDeleted)
	return req, record(span, err)
}

func (r *TracingRequestRepository) FindPending(ctx context.Context, tenantName string) (domain.TenantRequest, error) {
	ctx, span := r.tracer.Start(ctx, "RequestRepository.FindPending",
		trace.WithAttributes(attribute.String("request.tenant_name", tenantName)),
	)
	defer span.End()

	req, err := r.next.FindPending(ctx, tenantName)
	return req, record(span, err)
}

func (r *TracingRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.TenantRequest, error) {
	ctx, span := r.tracer.Start(ctx, "RequestRepository.List",
		trace.WithAttributes(
			attribute.String("filter.order_by", string(filter.OrderBy)),
			attribute.Bool("filter.descending", filter.Descending),
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	reqs, err := r.next.List(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(reqs)))
	}
	return reqs, record(span, err)
}

func (r *TracingRequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, reviewedBy string, reviewedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "RequestRepository.UpdateStatus",
		trace.WithAttributes(
			attribute.String("request.id", id),
			attribute.String("status.from", string(from)),
			attribute.String("status.to", string(to)),
			attribute.String("request.reviewed_by", reviewedBy),
		),
	)
	defer span.End()

	return record(span, r.next.UpdateStatus(ctx, id, from, to, reviewedBy, reviewedAt))
}

func (r *TracingRequestRepository) SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error {
	ctx, span := r.tracer.Start(ctx, "RequestRepository.SetDeleted",
		trace.WithAttributes(
			attribute.String("request.id", id),
			attribute.Bool("request.deleted", deletedAt != nil),
		),
	)
	defer span.End()

	return record(span, r.next.SetDeleted(ctx, id, deletedAt))
}

func (r *TracingRequestRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	ctx, span := r.tracer.Start(ctx, "RequestRepository.CountByStatus")
	defer span.End()

	counts, err := r.next.CountByStatus(ctx)
	return counts, record(span, err)
}

// record marks the span as failed when err is non-nil and returns err.
func record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", domain.KindOf(err)))
	}
	return err
}
