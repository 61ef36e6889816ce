package app

import (
	"context"
	"errors"
	"time"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// DefaultPasswordLength is used when no length is configured.
const DefaultPasswordLength = 16

// ReviewInput is a reviewer's decision on a pending request. The reviewer
// must be a live, active super administrator.
type ReviewInput struct {
	RequestID  string `field:"request_id" validate:"required"`
	Action     string `field:"action" validate:"required,oneof=approved rejected"`
	ReviewerID string `field:"reviewer_id"`
}

// DirectInput creates a tenant without a prior review.
type DirectInput struct {
	TenantName string `field:"tenant_name" validate:"required,max=255"`
	AdminEmail string `field:"admin_email" validate:"required,email,max=255"`
	ActorID    string `field:"actor_id"`
}

// ProvisionResult is what a direct provisioning produced.
type ProvisionResult struct {
	Tenant              domain.Tenant
	Admin               domain.User
	Request             domain.TenantRequest
	CredentialGenerated bool
}

// ProvisionerDeps groups the collaborators of a Provisioner.
type ProvisionerDeps struct {
	Tx             domain.Transactor
	Requests       domain.RequestRepository
	Tenants        domain.TenantRepository
	Users          domain.UserRepository
	Guard          domain.TransitionValidator
	Credentials    domain.CredentialGenerator
	Hasher         domain.PasswordHasher
	Audit          *AuditRecorder
	Notify         *NotificationDispatcher
	PasswordLength int
}

// Provisioner reviews tenant requests. Approval materializes the tenant, its
// administrator, role bindings, a credential when the user has none and the
// audit trail in one transaction. Notifications go out after commit.
type Provisioner struct {
	deps    ProvisionerDeps
	metrics *provisioningMetrics
	now     func() time.Time
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(deps ProvisionerDeps) *Provisioner {
	if deps.PasswordLength <= 0 {
		deps.PasswordLength = DefaultPasswordLength
	}
	return &Provisioner{
		deps:    deps,
		metrics: newProvisioningMetrics(),
		now:     utcNow,
	}
}

// provisioning carries the state shared by the approval steps. password is
// the plaintext credential when one was generated in this run.
type provisioning struct {
	tenantName      string
	email           string
	requesterUserID *string

	tenant   domain.Tenant
	user     domain.User
	newUser  bool
	password string
}

// Review applies an approve or reject decision to a pending request.
func (p *Provisioner) Review(ctx context.Context, in ReviewInput) (domain.TenantRequest, error) {
	out, err := p.review(ctx, in)
	p.metrics.outcome(ctx, "review", err)
	return out, err
}

func (p *Provisioner) review(ctx context.Context, in ReviewInput) (domain.TenantRequest, error) {
	if err := validateInput(in); err != nil {
		return domain.TenantRequest{}, err
	}
	action, err := domain.ParseReviewAction(in.Action)
	if err != nil {
		return domain.TenantRequest{}, err
	}
	if err := requireSuperAdmin(ctx, p.deps.Users, in.ReviewerID); err != nil {
		return domain.TenantRequest{}, err
	}

	var (
		req domain.TenantRequest
		dst domain.Status
		pr  provisioning
	)

	uow := newUnitOfWork(p.deps.Tx)
	uow.step("load request", func(ctx context.Context) error {
		var err error
		req, err = p.deps.Requests.GetByID(ctx, in.RequestID, false)
		if err != nil {
			return err
		}
		pr.tenantName = req.TenantName
		pr.email = req.RequesterEmail
		pr.requesterUserID = req.RequesterUserID
		return nil
	})
	uow.step("check transition", func(ctx context.Context) error {
		var err error
		dst, err = p.deps.Guard.Apply(ctx, req.Status, action.Event())
		return withRequestID(err, req.ID)
	})

	if action == domain.ActionApproved {
		p.provisionSteps(uow, &pr)
	}

	uow.step("mark reviewed", func(ctx context.Context) error {
		at := p.now()
		if err := p.deps.Requests.UpdateStatus(ctx, req.ID, domain.StatusPending, dst, in.ReviewerID, at); err != nil {
			if errors.Is(err, domain.ErrStaleStatus) {
				return p.staleReview(ctx, req.ID, action.Event())
			}
			return err
		}
		req.Status = dst
		req.ReviewedBy = &in.ReviewerID
		req.ReviewedAt = &at
		return nil
	})

	if action == domain.ActionApproved {
		uow.step("audit", func(ctx context.Context) error {
			return p.deps.Audit.Record(ctx, in.ReviewerID, domain.AuditRequestApproved, domain.EntityTenantRequest, req.ID, map[string]any{
				"tenant_id":            pr.tenant.ID,
				"tenant_name":          pr.tenant.Name,
				"user_id":              pr.user.ID,
				"email":                pr.user.Email,
				"credential_generated": pr.password != "",
			})
		})
		uow.afterCommit("notify approval", func(ctx context.Context) error {
			return p.deps.Notify.Dispatch(ctx, domain.EntityTenantRequest, req.ID, domain.Notification{
				Template:  domain.TemplateApproval,
				Recipient: req.RequesterEmail,
				Data:      map[string]string{"tenant_name": pr.tenant.Name},
				Secret:    pr.password,
			})
		})
	} else {
		uow.step("audit", func(ctx context.Context) error {
			return p.deps.Audit.Record(ctx, in.ReviewerID, domain.AuditRequestRejected, domain.EntityTenantRequest, req.ID, map[string]any{
				"tenant_name": req.TenantName,
			})
		})
		uow.afterCommit("notify rejection", func(ctx context.Context) error {
			return p.deps.Notify.Dispatch(ctx, domain.EntityTenantRequest, req.ID, domain.Notification{
				Template:  domain.TemplateRejection,
				Recipient: req.RequesterEmail,
				Data:      map[string]string{"tenant_name": req.TenantName},
			})
		})
	}

	if err := uow.run(ctx); err != nil {
		return domain.TenantRequest{}, err
	}
	if pr.password != "" {
		p.metrics.credentialGenerated(ctx)
	}
	return req, nil
}

// CreateTenantDirect provisions a tenant and its administrator without a
// review, recording an already approved request reviewed by the actor.
func (p *Provisioner) CreateTenantDirect(ctx context.Context, in DirectInput) (ProvisionResult, error) {
	out, err := p.createDirect(ctx, in)
	p.metrics.outcome(ctx, "direct", err)
	return out, err
}

func (p *Provisioner) createDirect(ctx context.Context, in DirectInput) (ProvisionResult, error) {
	in.TenantName = domain.NormalizeTenantName(in.TenantName)
	in.AdminEmail = domain.NormalizeEmail(in.AdminEmail)
	if err := validateInput(in); err != nil {
		return ProvisionResult{}, err
	}
	if err := requireSuperAdmin(ctx, p.deps.Users, in.ActorID); err != nil {
		return ProvisionResult{}, err
	}

	pr := provisioning{tenantName: in.TenantName, email: in.AdminEmail}
	var req domain.TenantRequest

	uow := newUnitOfWork(p.deps.Tx)
	uow.step("check pending", func(ctx context.Context) error {
		_, err := p.deps.Requests.FindPending(ctx, in.TenantName)
		switch {
		case err == nil:
			return &domain.DuplicatePendingError{TenantName: in.TenantName}
		case errors.Is(err, domain.ErrNotFound):
			return nil
		default:
			return err
		}
	})

	p.provisionSteps(uow, &pr)

	uow.step("insert request", func(ctx context.Context) error {
		at := p.now()
		req = domain.NewTenantRequest(newID(), pr.tenant.Name, pr.user.Email, &pr.user.ID)
		req.RequestedAt = at
		req.Status = domain.StatusApproved
		req.ReviewedBy = &in.ActorID
		req.ReviewedAt = &at
		return p.deps.Requests.Create(ctx, req)
	})
	uow.step("audit", func(ctx context.Context) error {
		return p.deps.Audit.Record(ctx, in.ActorID, domain.AuditTenantProvisioned, domain.EntityTenant, pr.tenant.ID, map[string]any{
			"request_id":           req.ID,
			"tenant_name":          pr.tenant.Name,
			"user_id":              pr.user.ID,
			"email":                pr.user.Email,
			"credential_generated": pr.password != "",
		})
	})
	uow.afterCommit("notify welcome", func(ctx context.Context) error {
		return p.deps.Notify.Dispatch(ctx, domain.EntityTenant, pr.tenant.ID, domain.Notification{
			Template:  domain.TemplateWelcome,
			Recipient: pr.user.Email,
			Data:      map[string]string{"tenant_name": pr.tenant.Name},
			Secret:    pr.password,
		})
	})

	if err := uow.run(ctx); err != nil {
		return ProvisionResult{}, err
	}
	if pr.password != "" {
		p.metrics.credentialGenerated(ctx)
	}

	admin := pr.user
	admin.PasswordHash = ""
	return ProvisionResult{
		Tenant:              pr.tenant,
		Admin:               admin,
		Request:             req,
		CredentialGenerated: pr.password != "",
	}, nil
}

// provisionSteps appends the steps that materialize a tenant and its
// administrator. They run inside the caller's unit of work. The user is
// resolved first so an ineligible user fails before anything is written.
func (p *Provisioner) provisionSteps(uow *unitOfWork, pr *provisioning) {
	uow.step("resolve user", func(ctx context.Context) error {
		return p.resolveUser(ctx, pr)
	})
	uow.step("create tenant", func(ctx context.Context) error {
		_, err := p.deps.Tenants.FindByName(ctx, pr.tenantName)
		switch {
		case err == nil:
			return &domain.TenantNameConflictError{Name: pr.tenantName}
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		pr.tenant = domain.NewTenant(newID(), pr.tenantName)
		pr.tenant.CreatedAt = p.now()
		return p.deps.Tenants.Create(ctx, pr.tenant)
	})
	uow.step("issue credential", func(ctx context.Context) error {
		if pr.user.HasCredential() {
			return nil
		}
		password, err := p.deps.Credentials.Generate(p.deps.PasswordLength)
		if err != nil {
			return err
		}
		hash, err := p.deps.Hasher.Hash(password)
		if err != nil {
			return err
		}
		pr.user.PasswordHash = hash
		pr.password = password
		return nil
	})
	uow.step("bind tenant admin", func(ctx context.Context) error {
		pr.user.TenantID = &pr.tenant.ID
		pr.user.Active = true
		pr.user.Roles = []domain.Role{domain.RoleTenantAdmin}
		if pr.newUser {
			return p.deps.Users.Create(ctx, pr.user)
		}
		if err := p.deps.Users.Update(ctx, pr.user); err != nil {
			return err
		}
		return p.deps.Users.ReplaceRoles(ctx, pr.user.ID, pr.user.Roles)
	})
}

// resolveUser finds the administrator by requester id, then by email, and
// otherwise prepares a new identity that the bind step inserts.
func (p *Provisioner) resolveUser(ctx context.Context, pr *provisioning) error {
	if pr.requesterUserID != nil {
		u, err := p.deps.Users.GetByID(ctx, *pr.requesterUserID)
		switch {
		case err == nil && !u.Deleted():
			return p.adopt(pr, u)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}

	u, err := p.deps.Users.FindByEmail(ctx, pr.email)
	switch {
	case err == nil:
		return p.adopt(pr, u)
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	pr.user = domain.NewUser(newID(), pr.email)
	pr.user.CreatedAt = p.now()
	pr.newUser = true
	return nil
}

// adopt makes an existing user the administrator of the new tenant. A user
// already bound to a tenant stays with it, and a platform administrator is
// never demoted to a tenant role.
func (p *Provisioner) adopt(pr *provisioning, u domain.User) error {
	if u.TenantID != nil {
		return &domain.UserAlreadyBoundError{Email: u.Email, TenantID: *u.TenantID}
	}
	if u.HasRole(domain.RoleSuperAdmin) {
		return &domain.ValidationError{Field: "requester_email", Reason: "belongs to a platform administrator"}
	}
	pr.user = u
	return nil
}

// staleReview reports the status that won a concurrent review.
func (p *Provisioner) staleReview(ctx context.Context, id string, event domain.Event) error {
	current, err := p.deps.Requests.GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	return &domain.AlreadyReviewedError{RequestID: id, Event: event, Current: current.Status}
}

func withRequestID(err error, id string) error {
	var reviewed *domain.AlreadyReviewedError
	if errors.As(err, &reviewed) && reviewed.RequestID == "" {
		reviewed.RequestID = id
	}
	return err
}
