// Package email renders notifications and hands them to an outbound transport.
package email

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer is an outbound email transport.
type Mailer interface {
	Deliver(ctx context.Context, msg Message) error
}

// Compile-time check: Dispatcher implements domain.Notifier.
var _ domain.Notifier = (*Dispatcher)(nil)

// Dispatcher implements domain.Notifier. Malformed notifications fail with a
// ValidationError before the transport is touched; transport failures come
// back as a domain.DeliveryError.
type Dispatcher struct {
	mailer   Mailer
	validate *validator.Validate
}

// NewDispatcher creates a dispatcher sending through mailer.
func NewDispatcher(mailer Mailer) *Dispatcher {
	return &Dispatcher{
		mailer:   mailer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (d *Dispatcher) Send(ctx context.Context, n domain.Notification) error {
	if err := d.validate.Var(n.Recipient, "required,email"); err != nil {
		return &domain.ValidationError{Field: "recipient", Reason: "must be a valid email address"}
	}

	msg, err := render(n)
	if err != nil {
		return err
	}

	if err := d.mailer.Deliver(ctx, msg); err != nil {
		return &domain.DeliveryError{Template: n.Template, Recipient: n.Recipient, Err: err}
	}
	return nil
}
