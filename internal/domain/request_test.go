package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

func TestNewTenantRequest(t *testing.T) {
	before := time.Now().UTC().Truncate(time.Microsecond)
	req := domain.NewTenantRequest("r-1", "  Acme Corp ", " A@Acme.com", nil)
	after := time.Now().UTC()

	if req.ID != "r-1" {
		t.Errorf("ID = %q, want %q", req.ID, "r-1")
	}
	if req.TenantName != "Acme Corp" {
		t.Errorf("TenantName = %q, want %q", req.TenantName, "Acme Corp")
	}
	if req.RequesterEmail != "a@acme.com" {
		t.Errorf("RequesterEmail = %q, want %q", req.RequesterEmail, "a@acme.com")
	}
	if req.Status != domain.StatusPending {
		t.Errorf("Status = %q, want %q", req.Status, domain.StatusPending)
	}
	if req.RequestedAt.Before(before) || req.RequestedAt.After(after) {
		t.Errorf("RequestedAt = %v, want between %v and %v", req.RequestedAt, before, after)
	}
	if req.RequestedAt.Nanosecond()%1000 != 0 {
		t.Errorf("RequestedAt = %v, want microsecond precision", req.RequestedAt)
	}
	if req.ReviewedBy != nil || req.ReviewedAt != nil || req.Deleted() {
		t.Error("new request should be unreviewed and live")
	}
}

func TestTransitions_OnlyFromPending(t *testing.T) {
	for _, tr := range domain.Transitions {
		if tr.Src != domain.StatusPending {
			t.Errorf("transition %q starts from %q, want pending", tr.Event, tr.Src)
		}
	}
}

func TestReviewAction_Event(t *testing.T) {
	if got := domain.ActionApproved.Event(); got != domain.EventApprove {
		t.Errorf("approved.Event() = %q, want %q", got, domain.EventApprove)
	}
	if got := domain.ActionRejected.Event(); got != domain.EventReject {
		t.Errorf("rejected.Event() = %q, want %q", got, domain.EventReject)
	}
}

func TestParseReviewAction_Invalid(t *testing.T) {
	_, err := domain.ParseReviewAction("maybe")
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "action" {
		t.Errorf("Field = %q, want %q", vErr.Field, "action")
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range domain.Roles {
		got, err := domain.ParseRole(string(r))
		if err != nil || got != r {
			t.Errorf("ParseRole(%q) = %q, %v", r, got, err)
		}
	}
	if _, err := domain.ParseRole("owner"); err == nil {
		t.Error("ParseRole(owner) should fail")
	}
}

func TestUser_InTenant(t *testing.T) {
	u := domain.NewUser("u-1", "a@acme.com")
	if u.InTenant("t-1") {
		t.Error("unbound user should not be in any tenant")
	}
	tid := "t-1"
	u.TenantID = &tid
	if !u.InTenant("t-1") || u.InTenant("t-2") {
		t.Error("InTenant mismatch after binding")
	}
}
