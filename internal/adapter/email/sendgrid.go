package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// DefaultSendGridHost is the public SendGrid API endpoint.
const DefaultSendGridHost = "https://api.sendgrid.com"

// SendGridConfig holds the SendGrid transport settings.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	Host      string // overridable for tests; defaults to DefaultSendGridHost
}

// SendGridMailer delivers messages through the SendGrid v3 mail API.
type SendGridMailer struct {
	cfg SendGridConfig
}

// NewSendGridMailer creates a SendGrid transport.
func NewSendGridMailer(cfg SendGridConfig) *SendGridMailer {
	if cfg.Host == "" {
		cfg.Host = DefaultSendGridHost
	}
	return &SendGridMailer{cfg: cfg}
}

func (m *SendGridMailer) Deliver(ctx context.Context, msg Message) error {
	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromEmail)
	to := mail.NewEmail("", msg.To)
	message := mail.NewV3MailInit(from, msg.Subject, to, mail.NewContent("text/plain", msg.Text))

	request := sendgrid.GetRequest(m.cfg.APIKey, "/v3/mail/send", m.cfg.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}
