package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the review state of a tenant request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status coming from outside the domain.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
}

// Event represents a reviewer action that triggers a state transition.
type Event string

const (
	EventApprove Event = "approve"
	EventReject  Event = "reject"
)

// ReviewAction is the reviewer's decision as expressed at the API boundary.
type ReviewAction string

const (
	ActionApproved ReviewAction = "approved"
	ActionRejected ReviewAction = "rejected"
)

// ParseReviewAction validates a review decision.
func ParseReviewAction(s string) (ReviewAction, error) {
	switch ReviewAction(s) {
	case ActionApproved, ActionRejected:
		return ReviewAction(s), nil
	}
	return "", &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", s)}
}

// Event maps the decision to the lifecycle event it fires.
func (a ReviewAction) Event() Event {
	if a == ActionApproved {
		return EventApprove
	}
	return EventReject
}

// Transition defines a valid state change: an event moves a request from Src to Dst.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// Transitions defines all valid state changes in the request lifecycle.
// Both destinations are terminal.
var Transitions = []Transition{
	{Event: EventApprove, Src: StatusPending, Dst: StatusApproved},
	{Event: EventReject, Src: StatusPending, Dst: StatusRejected},
}

// TenantRequest is an application to create a new tenant.
type TenantRequest struct {
	ID              string
	TenantName      string
	RequesterEmail  string
	RequesterUserID *string
	Status          Status
	RequestedAt     time.Time
	ReviewedBy      *string
	ReviewedAt      *time.Time
	DeletedAt       *time.Time
}

// Deleted reports whether the request is soft-deleted.
func (r TenantRequest) Deleted() bool {
	return r.DeletedAt != nil
}

// NewTenantRequest creates a request in the initial "pending" state.
func NewTenantRequest(id, tenantName, requesterEmail string, requesterUserID *string) TenantRequest {
	return TenantRequest{
		ID:              id,
		TenantName:      NormalizeTenantName(tenantName),
		RequesterEmail:  NormalizeEmail(requesterEmail),
		RequesterUserID: requesterUserID,
		Status:          StatusPending,
		RequestedAt:     Now(),
	}
}

// Now returns the current UTC time at the microsecond precision the store
// keeps, so a value read back equals the value written.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NormalizeTenantName trims surrounding whitespace. Names are compared as stored.
func NormalizeTenantName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestOrder selects the timestamp a request listing is sorted by.
type RequestOrder string

const (
	OrderRequestedAt RequestOrder = "requested_at"
	OrderReviewedAt  RequestOrder = "reviewed_at"
)

// RequestFilter holds optional criteria for listing tenant requests.
type RequestFilter struct {
	Status         *Status
	IncludeDeleted bool
	OrderBy        RequestOrder
	Descending     bool
	Limit          int
	Offset         int
}
