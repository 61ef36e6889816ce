package domain

import "fmt"

// Template names an outbound email.
type Template string

const (
	TemplateRequestReceived Template = "request_received"
	TemplateApproval        Template = "approval"
	TemplateRejection       Template = "rejection"
	TemplateWelcome         Template = "welcome"
)

// ParseTemplate validates a template name.
func ParseTemplate(s string) (Template, error) {
	switch Template(s) {
	case TemplateRequestReceived, TemplateApproval, TemplateRejection, TemplateWelcome:
		return Template(s), nil
	}
	return "", &ValidationError{Field: "template", Reason: fmt.Sprintf("unknown template %q", s)}
}

// Notification is one email to one recipient.
//
// Secret carries a one-time plaintext credential. It is rendered into the
// message and must never be persisted, logged or queued.
type Notification struct {
	Template  Template
	Recipient string
	Data      map[string]string
	Secret    string
}

// Sensitive reports whether the notification carries a secret.
func (n Notification) Sensitive() bool {
	return n.Secret != ""
}
