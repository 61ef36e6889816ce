package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/onboardiq/internal/app"
	"github.com/neomorfeo/onboardiq/internal/domain"
)

// TenantResponse is the API representation of a tenant.
type TenantResponse struct {
	ID        string `json:"id" doc:"Unique identifier"`
	Name      string `json:"name" doc:"Display name"`
	Active    bool   `json:"active" doc:"Whether the tenant is active"`
	CreatedAt string `json:"created_at" doc:"Creation timestamp (RFC 3339)"`
}

func toTenantResponse(t domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Active:    t.Active,
		CreatedAt: *formatTime(&t.CreatedAt),
	}
}

// ProvisionResponse describes a tenant created without review.
type ProvisionResponse struct {
	Tenant              TenantResponse  `json:"tenant"`
	Admin               UserResponse    `json:"admin"`
	Request             RequestResponse `json:"request"`
	CredentialGenerated bool            `json:"credential_generated" doc:"Whether a password was generated and emailed"`
}

type CreateTenantInput struct {
	ActorID string `header:"X-Actor-ID" required:"false" doc:"Acting super administrator"`
	Body    struct {
		TenantName string `json:"tenant_name" minLength:"1" maxLength:"255" doc:"Tenant name"`
		AdminEmail string `json:"admin_email" format:"email" maxLength:"255" doc:"Administrator email"`
	}
}

type CreateTenantOutput struct {
	Body ProvisionResponse
}

func registerTenants(api huma.API, svc Services) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-tenant",
		Method:        http.MethodPost,
		Path:          "/api/v1/tenants",
		Summary:       "Create a tenant and its administrator directly",
		Tags:          []string{"Tenants"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateTenantInput) (*CreateTenantOutput, error) {
		res, err := svc.Provisioner.CreateTenantDirect(ctx, app.DirectInput{
			TenantName: input.Body.TenantName,
			AdminEmail: input.Body.AdminEmail,
			ActorID:    input.ActorID,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &CreateTenantOutput{Body: ProvisionResponse{
			Tenant:              toTenantResponse(res.Tenant),
			Admin:               toUserResponse(res.Admin),
			Request:             toRequestResponse(res.Request),
			CredentialGenerated: res.CredentialGenerated,
		}}, nil
	})
}
