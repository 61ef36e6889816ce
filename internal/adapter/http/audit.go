package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// AuditEntryResponse is the API representation of an audit entry.
type AuditEntryResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details"`
	CreatedAt  string         `json:"created_at"`
}

type ListAuditInput struct {
	EntityType string `query:"entity_type" required:"false" enum:"tenant_request,tenant,user" doc:"Filter by entity type"`
	EntityID   string `query:"entity_id" required:"false" doc:"Filter by entity ID"`
	Limit      int    `query:"limit" required:"false" default:"100" doc:"Max results"`
}

type ListAuditOutput struct {
	Body []AuditEntryResponse
}

func registerAudit(api huma.API, svc Services) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit",
		Method:      http.MethodGet,
		Path:        "/api/v1/audit",
		Summary:     "Read the audit trail",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditInput) (*ListAuditOutput, error) {
		entries, err := svc.Audit.List(ctx, domain.AuditFilter{
			EntityType: input.EntityType,
			EntityID:   input.EntityID,
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}

		resp := make([]AuditEntryResponse, len(entries))
		for i, e := range entries {
			resp[i] = AuditEntryResponse{
				ID:         e.ID,
				ActorID:    e.ActorID,
				Action:     string(e.Action),
				EntityType: e.EntityType,
				EntityID:   e.EntityID,
				Details:    e.Details,
				CreatedAt:  *formatTime(&e.CreatedAt),
			}
		}
		return &ListAuditOutput{Body: resp}, nil
	})
}
