package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/onboardiq/internal/app"
	"github.com/neomorfeo/onboardiq/internal/domain"
)

// RequestResponse is the API representation of a tenant request.
type RequestResponse struct {
	ID              string  `json:"id" doc:"Unique identifier"`
	TenantName      string  `json:"tenant_name" doc:"Requested tenant name"`
	RequesterEmail  string  `json:"requester_email" doc:"Requester contact address"`
	RequesterUserID *string `json:"requester_user_id,omitempty" doc:"Requester account, when known"`
	Status          string  `json:"status" doc:"Review state"`
	RequestedAt     string  `json:"requested_at" doc:"Submission timestamp (RFC 3339)"`
	ReviewedBy      *string `json:"reviewed_by,omitempty" doc:"Reviewer ID"`
	ReviewedAt      *string `json:"reviewed_at,omitempty" doc:"Review timestamp (RFC 3339)"`
	Deleted         bool    `json:"deleted" doc:"Soft-delete flag"`
	DeletedAt       *string `json:"deleted_at,omitempty" doc:"Soft-delete timestamp (RFC 3339)"`
}

func toRequestResponse(r domain.TenantRequest) RequestResponse {
	return RequestResponse{
		ID:              r.ID,
		TenantName:      r.TenantName,
		RequesterEmail:  r.RequesterEmail,
		RequesterUserID: r.RequesterUserID,
		Status:          string(r.Status),
		RequestedAt:     *formatTime(&r.RequestedAt),
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      formatTime(r.ReviewedAt),
		Deleted:         r.Deleted(),
		DeletedAt:       formatTime(r.DeletedAt),
	}
}

// --- Create Request ---

type CreateRequestInput struct {
	Body struct {
		TenantName      string  `json:"tenant_name" minLength:"1" maxLength:"255" doc:"Requested tenant name"`
		RequesterEmail  string  `json:"requester_email" format:"email" maxLength:"255" doc:"Requester contact address"`
		RequesterUserID *string `json:"requester_user_id,omitempty" required:"false" doc:"Requester account, when signed in"`
	}
}

type RequestOutput struct {
	Body RequestResponse
}

// --- Get Request ---

type GetRequestInput struct {
	ID             string `path:"id" doc:"Request ID"`
	IncludeDeleted bool   `query:"include_deleted" required:"false" doc:"Also return soft-deleted requests"`
}

// --- List Requests ---

type ListRequestsInput struct {
	Status         string `query:"status" required:"false" doc:"Filter by status"`
	OrderBy        string `query:"order_by" required:"false" default:"requested_at" enum:"requested_at,reviewed_at" doc:"Sort column"`
	Desc           bool   `query:"desc" required:"false" doc:"Sort descending"`
	IncludeDeleted bool   `query:"include_deleted" required:"false" doc:"Include soft-deleted requests"`
	Limit          int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset         int    `query:"offset" required:"false" default:"0" doc:"Offset"`
}

type ListRequestsOutput struct {
	Body []RequestResponse
}

// --- Counts ---

type CountsResponse struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type CountsOutput struct {
	Body CountsResponse
}

// --- Review ---

type ReviewInput struct {
	ID   string `path:"id" doc:"Request ID"`
	Body struct {
		Action     string `json:"action" enum:"approved,rejected" doc:"Review decision"`
		ReviewerID string `json:"reviewer_id" minLength:"1" doc:"Reviewing super administrator"`
	}
}

// --- Soft delete / restore ---

type RequestActionInput struct {
	ID      string `path:"id" doc:"Request ID"`
	ActorID string `header:"X-Actor-ID" required:"false" doc:"Acting super administrator"`
}

func registerRequests(api huma.API, svc Services) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-tenant-request",
		Method:        http.MethodPost,
		Path:          "/api/v1/tenant-requests",
		Summary:       "Submit a tenant request",
		Tags:          []string{"Tenant Requests"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateRequestInput) (*RequestOutput, error) {
		req, err := svc.Requests.Create(ctx, app.CreateRequestInput{
			TenantName:      input.Body.TenantName,
			RequesterEmail:  input.Body.RequesterEmail,
			RequesterUserID: input.Body.RequesterUserID,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RequestOutput{Body: toRequestResponse(req)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "count-tenant-requests",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenant-requests/counts",
		Summary:     "Count live requests per status",
		Tags:        []string{"Tenant Requests"},
	}, func(ctx context.Context, _ *struct{}) (*CountsOutput, error) {
		counts, err := svc.Requests.Counts(ctx)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &CountsOutput{Body: CountsResponse{
			Pending:  counts[domain.StatusPending],
			Approved: counts[domain.StatusApproved],
			Rejected: counts[domain.StatusRejected],
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant-request",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenant-requests/{id}",
		Summary:     "Get a tenant request by ID",
		Tags:        []string{"Tenant Requests"},
	}, func(ctx context.Context, input *GetRequestInput) (*RequestOutput, error) {
		req, err := svc.Requests.GetByID(ctx, input.ID, input.IncludeDeleted)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RequestOutput{Body: toRequestResponse(req)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenant-requests",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenant-requests",
		Summary:     "List tenant requests",
		Tags:        []string{"Tenant Requests"},
	}, func(ctx context.Context, input *ListRequestsInput) (*ListRequestsOutput, error) {
		filter := domain.RequestFilter{
			IncludeDeleted: input.IncludeDeleted,
			OrderBy:        domain.RequestOrder(input.OrderBy),
			Descending:     input.Desc,
			Limit:          input.Limit,
			Offset:         input.Offset,
		}
		if input.Status != "" {
			s, err := domain.ParseStatus(input.Status)
			if err != nil {
				return nil, toHumaError(ctx, err)
			}
			filter.Status = &s
		}

		reqs, err := svc.Requests.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}

		resp := make([]RequestResponse, len(reqs))
		for i, r := range reqs {
			resp[i] = toRequestResponse(r)
		}
		return &ListRequestsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "review-tenant-request",
		Method:      http.MethodPut,
		Path:        "/api/v1/tenant-requests/{id}/review",
		Summary:     "Approve or reject a pending request",
		Tags:        []string{"Tenant Requests"},
	}, func(ctx context.Context, input *ReviewInput) (*RequestOutput, error) {
		req, err := svc.Provisioner.Review(ctx, app.ReviewInput{
			RequestID:  input.ID,
			Action:     input.Body.Action,
			ReviewerID: input.Body.ReviewerID,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RequestOutput{Body: toRequestResponse(req)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-tenant-request",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tenant-requests/{id}",
		Summary:     "Soft-delete a tenant request",
		Tags:        []string{"Tenant Requests"},
	}, func(ctx context.Context, input *RequestActionInput) (*RequestOutput, error) {
		req, err := svc.Requests.SoftDelete(ctx, input.ID, input.ActorID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RequestOutput{Body: toRequestResponse(req)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "restore-tenant-request",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tenant-requests/{id}/restore",
		Summary:     "Restore a soft-deleted tenant request",
		Tags:        []string{"Tenant Requests"},
	}, func(ctx context.Context, input *RequestActionInput) (*RequestOutput, error) {
		req, err := svc.Requests.Restore(ctx, input.ID, input.ActorID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RequestOutput{Body: toRequestResponse(req)}, nil
	})
}
