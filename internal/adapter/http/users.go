package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// UserResponse is the API representation of a user. The password hash is
// never exposed.
type UserResponse struct {
	ID        string   `json:"id" doc:"Unique identifier"`
	Email     string   `json:"email" doc:"Login email"`
	TenantID  *string  `json:"tenant_id,omitempty" doc:"Owning tenant"`
	Active    bool     `json:"active" doc:"Whether the user may sign in"`
	Roles     []string `json:"roles" doc:"Bound roles"`
	CreatedAt string   `json:"created_at" doc:"Creation timestamp (RFC 3339)"`
	Deleted   bool     `json:"deleted" doc:"Soft-delete flag"`
}

func toUserResponse(u domain.User) UserResponse {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		TenantID:  u.TenantID,
		Active:    u.Active,
		Roles:     roles,
		CreatedAt: *formatTime(&u.CreatedAt),
		Deleted:   u.Deleted(),
	}
}

type UserInput struct {
	ID      string `path:"id" doc:"User ID"`
	ActorID string `header:"X-Actor-ID" required:"false" doc:"Acting tenant administrator"`
}

type UserOutput struct {
	Body UserResponse
}

func registerUsers(api huma.API, svc Services) {
	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get a user of the caller's tenant",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UserInput) (*UserOutput, error) {
		u, err := svc.Users.Get(ctx, input.ID, input.ActorID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &UserOutput{Body: toUserResponse(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "activate-user",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/{id}/activate",
		Summary:     "Activate a user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UserInput) (*UserOutput, error) {
		u, err := svc.Users.Activate(ctx, input.ID, input.ActorID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &UserOutput{Body: toUserResponse(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "deactivate-user",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/{id}/deactivate",
		Summary:     "Deactivate a user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UserInput) (*UserOutput, error) {
		u, err := svc.Users.Deactivate(ctx, input.ID, input.ActorID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &UserOutput{Body: toUserResponse(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}",
		Summary:     "Soft-delete a user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UserInput) (*UserOutput, error) {
		u, err := svc.Users.SoftDelete(ctx, input.ID, input.ActorID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &UserOutput{Body: toUserResponse(u)}, nil
	})
}
