package app

import (
	"context"
	"errors"
	"time"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// CreateRequestInput is a tenant application as submitted by a requester.
type CreateRequestInput struct {
	TenantName      string  `field:"tenant_name" validate:"required,max=255"`
	RequesterEmail  string  `field:"requester_email" validate:"required,email,max=255"`
	RequesterUserID *string `field:"requester_user_id"`
}

// RequestService owns the tenant request records: creation, lookup,
// listing, soft-delete and restore. Review lives in Provisioner.
type RequestService struct {
	tx       domain.Transactor
	requests domain.RequestRepository
	users    domain.UserRepository
	audit    *AuditRecorder
	notify   *NotificationDispatcher
	now      func() time.Time
}

// NewRequestService creates a RequestService.
func NewRequestService(tx domain.Transactor, requests domain.RequestRepository, users domain.UserRepository, audit *AuditRecorder, notify *NotificationDispatcher) *RequestService {
	return &RequestService{
		tx:       tx,
		requests: requests,
		users:    users,
		audit:    audit,
		notify:   notify,
		now:      utcNow,
	}
}

// Create files a new pending request. It fails with DuplicatePending when a
// live pending request already exists for the same tenant name.
func (s *RequestService) Create(ctx context.Context, in CreateRequestInput) (domain.TenantRequest, error) {
	in.TenantName = domain.NormalizeTenantName(in.TenantName)
	in.RequesterEmail = domain.NormalizeEmail(in.RequesterEmail)
	if err := validateInput(in); err != nil {
		return domain.TenantRequest{}, err
	}

	req := domain.NewTenantRequest(newID(), in.TenantName, in.RequesterEmail, in.RequesterUserID)
	req.RequestedAt = s.now()

	uow := newUnitOfWork(s.tx)
	uow.step("check pending", func(ctx context.Context) error {
		return s.ensureNoPending(ctx, req.TenantName)
	})
	uow.step("insert request", func(ctx context.Context) error {
		return s.requests.Create(ctx, req)
	})
	uow.step("audit", func(ctx context.Context) error {
		return s.audit.Record(ctx, req.RequesterEmail, domain.AuditRequestCreated, domain.EntityTenantRequest, req.ID, map[string]any{
			"tenant_name":     req.TenantName,
			"requester_email": req.RequesterEmail,
		})
	})
	uow.afterCommit("notify requester", func(ctx context.Context) error {
		return s.notify.Dispatch(ctx, domain.EntityTenantRequest, req.ID, domain.Notification{
			Template:  domain.TemplateRequestReceived,
			Recipient: req.RequesterEmail,
			Data:      map[string]string{"tenant_name": req.TenantName},
		})
	})

	if err := uow.run(ctx); err != nil {
		return domain.TenantRequest{}, err
	}
	return req, nil
}

// GetByID returns one request. Soft-deleted requests are NotFound unless
// includeDeleted is set.
func (s *RequestService) GetByID(ctx context.Context, id string, includeDeleted bool) (domain.TenantRequest, error) {
	return s.requests.GetByID(ctx, id, includeDeleted)
}

// List returns requests matching filter.
func (s *RequestService) List(ctx context.Context, filter domain.RequestFilter) ([]domain.TenantRequest, error) {
	switch filter.OrderBy {
	case "", domain.OrderRequestedAt, domain.OrderReviewedAt:
	default:
		return nil, &domain.ValidationError{Field: "order_by", Reason: "must be requested_at or reviewed_at"}
	}
	return s.requests.List(ctx, filter)
}

// Counts returns the number of live requests per status.
func (s *RequestService) Counts(ctx context.Context) (map[domain.Status]int, error) {
	return s.requests.CountByStatus(ctx)
}

// SoftDelete hides a live request. Status and review fields are untouched.
// Only a super administrator may delete.
func (s *RequestService) SoftDelete(ctx context.Context, id, actorID string) (domain.TenantRequest, error) {
	if err := requireSuperAdmin(ctx, s.users, actorID); err != nil {
		return domain.TenantRequest{}, err
	}
	var out domain.TenantRequest

	uow := newUnitOfWork(s.tx)
	uow.step("mark deleted", func(ctx context.Context) error {
		req, err := s.requests.GetByID(ctx, id, false)
		if err != nil {
			return err
		}
		at := s.now()
		if err := s.requests.SetDeleted(ctx, id, &at); err != nil {
			return err
		}
		req.DeletedAt = &at
		out = req
		return nil
	})
	uow.step("audit", func(ctx context.Context) error {
		return s.audit.Record(ctx, actorID, domain.AuditRequestDeleted, domain.EntityTenantRequest, id, map[string]any{
			"tenant_name": out.TenantName,
			"status":      string(out.Status),
		})
	})

	if err := uow.run(ctx); err != nil {
		return domain.TenantRequest{}, err
	}
	return out, nil
}

// Restore brings a soft-deleted request back. A pending request cannot be
// restored while another live pending request holds its name.
func (s *RequestService) Restore(ctx context.Context, id, actorID string) (domain.TenantRequest, error) {
	if err := requireSuperAdmin(ctx, s.users, actorID); err != nil {
		return domain.TenantRequest{}, err
	}
	var out domain.TenantRequest

	uow := newUnitOfWork(s.tx)
	uow.step("clear deleted", func(ctx context.Context) error {
		req, err := s.requests.GetByID(ctx, id, true)
		if err != nil {
			return err
		}
		if !req.Deleted() {
			return domain.ErrRequestNotFound
		}
		if req.Status == domain.StatusPending {
			if err := s.ensureNoPending(ctx, req.TenantName); err != nil {
				return err
			}
		}
		if err := s.requests.SetDeleted(ctx, id, nil); err != nil {
			return err
		}
		req.DeletedAt = nil
		out = req
		return nil
	})
	uow.step("audit", func(ctx context.Context) error {
		return s.audit.Record(ctx, actorID, domain.AuditRequestRestored, domain.EntityTenantRequest, id, map[string]any{
			"tenant_name": out.TenantName,
			"status":      string(out.Status),
		})
	})

	if err := uow.run(ctx); err != nil {
		return domain.TenantRequest{}, err
	}
	return out, nil
}

func (s *RequestService) ensureNoPending(ctx context.Context, tenantName string) error {
	_, err := s.requests.FindPending(ctx, tenantName)
	switch {
	case err == nil:
		return &domain.DuplicatePendingError{TenantName: tenantName}
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}
