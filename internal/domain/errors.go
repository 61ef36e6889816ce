package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	ErrRequestNotFound = fmt.Errorf("tenant request %w", ErrNotFound)
	ErrTenantNotFound  = fmt.Errorf("tenant %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
)

// Stable error kinds surfaced to API clients.
const (
	KindValidation         = "ValidationError"
	KindDuplicatePending   = "DuplicatePending"
	KindTenantNameConflict = "TenantNameConflict"
	KindAlreadyReviewed    = "AlreadyReviewed"
	KindUserAlreadyBound   = "UserAlreadyBound"
	KindNotFound           = "NotFound"
	KindForbidden          = "Forbidden"
	KindDeliveryFailed     = "DeliveryFailed"
	KindStorageFailure     = "StorageFailure"
)

// ValidationError is returned for malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicatePendingError is returned when a live pending request already
// exists for the tenant name.
type DuplicatePendingError struct {
	TenantName string
}

func (e *DuplicatePendingError) Error() string {
	return fmt.Sprintf("a pending request for tenant %q already exists", e.TenantName)
}

// TenantNameConflictError is returned when a live tenant already uses the name.
type TenantNameConflictError struct {
	Name string
}

func (e *TenantNameConflictError) Error() string {
	return fmt.Sprintf("tenant name %q is already in use", e.Name)
}

// EmailConflictError is returned when a live user already owns the email.
type EmailConflictError struct {
	Email string
}

func (e *EmailConflictError) Error() string {
	return fmt.Sprintf("email %q is already registered", e.Email)
}

// UserAlreadyBoundError is returned when provisioning would move a user who
// already belongs to a tenant.
type UserAlreadyBoundError struct {
	Email    string
	TenantID string
}

func (e *UserAlreadyBoundError) Error() string {
	return fmt.Sprintf("user %q already belongs to tenant %q", e.Email, e.TenantID)
}

// AlreadyReviewedError is returned when a review event is fired against a
// request that is no longer pending.
type AlreadyReviewedError struct {
	RequestID string
	Event     Event
	Current   Status
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("request %q already reviewed: event %q is not valid from state %q", e.RequestID, e.Event, e.Current)
}

// DeliveryError is returned when the email transport fails.
type DeliveryError struct {
	Template  Template
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering %q to %s: %v", e.Template, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// StorageError is returned when a persistence step fails. Op names the step.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsDomainError reports whether err already belongs to the taxonomy, so it
// must not be re-wrapped as a storage failure.
func IsDomainError(err error) bool {
	return KindOf(err) != KindStorageFailure
}

// KindOf returns the stable kind of err. Unknown errors are storage failures.
func KindOf(err error) string {
	var (
		validation *ValidationError
		duplicate  *DuplicatePendingError
		conflict   *TenantNameConflictError
		email      *EmailConflictError
		reviewed   *AlreadyReviewedError
		bound      *UserAlreadyBoundError
		delivery   *DeliveryError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &duplicate):
		return KindDuplicatePending
	case errors.As(err, &conflict):
		return KindTenantNameConflict
	case errors.As(err, &email):
		return KindValidation
	case errors.As(err, &reviewed):
		return KindAlreadyReviewed
	case errors.As(err, &bound):
		return KindUserAlreadyBound
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.As(err, &delivery):
		return KindDeliveryFailed
	}
	return KindStorageFailure
}
