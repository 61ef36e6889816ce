package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/onboardiq/internal/app"
	"github.com/neomorfeo/onboardiq/internal/domain"
)

const timeLayout = time.RFC3339

// Services groups the application services exposed over HTTP.
type Services struct {
	Requests    *app.RequestService
	Provisioner *app.Provisioner
	Users       *app.UserLifecycle
	Audit       *app.AuditRecorder
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc Services) {
	registerRequests(api, svc)
	registerTenants(api, svc)
	registerUsers(api, svc)
	registerAudit(api, svc)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

// toHumaError translates domain errors to Huma HTTP errors. The problem
// title carries the stable error kind.
func toHumaError(ctx context.Context, err error) error {
	kind := domain.KindOf(err)

	var status int
	switch kind {
	case domain.KindValidation, domain.KindDuplicatePending, domain.KindAlreadyReviewed:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindTenantNameConflict, domain.KindUserAlreadyBound:
		status = http.StatusConflict
	default:
		slog.ErrorContext(ctx, "request failed", "kind", kind, "error", err)
		return &huma.ErrorModel{
			Status: http.StatusInternalServerError,
			Title:  kind,
			Detail: "internal server error",
		}
	}

	return &huma.ErrorModel{
		Status: status,
		Title:  kind,
		Detail: err.Error(),
	}
}
