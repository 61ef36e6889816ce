package email

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(subject, body string) messageTemplate {
	return messageTemplate{
		subject: template.Must(template.New("subject").Option("missingkey=error").Parse(subject)),
		body:    template.Must(template.New("body").Option("missingkey=error").Parse(body)),
	}
}

var templates = map[domain.Template]messageTemplate{
	domain.TemplateRequestReceived: mustTemplate(
		`We received your request for {{.tenant_name}}`,
		`Hello,

Your request to create the organization "{{.tenant_name}}" has been received
and is waiting for review. We will email you once it has been decided.
`),
	domain.TemplateApproval: mustTemplate(
		`Your organization {{.tenant_name}} is ready`,
		`Hello,

Your request for "{{.tenant_name}}" has been approved and you are its
administrator.
{{if .password}}
Sign in with this email address and the temporary password below. It is
shown only in this message; change it after your first login.

    {{.password}}
{{else}}
Sign in with your existing credentials.
{{end}}{{if .login_url}}
{{.login_url}}
{{end}}`),
	domain.TemplateRejection: mustTemplate(
		`Your request for {{.tenant_name}} was declined`,
		`Hello,

Your request to create the organization "{{.tenant_name}}" was not approved.
`),
	domain.TemplateWelcome: mustTemplate(
		`Welcome to {{.tenant_name}}`,
		`Hello,

An administrator account for "{{.tenant_name}}" was created for you.
{{if .password}}
Temporary password (shown once):

    {{.password}}
{{end}}`),
}

// optionalKeys may be absent from a notification. Any other key a template
// references must be present.
var optionalKeys = []string{"password", "login_url"}

// render produces the subject and plain-text body for a notification.
// The secret is exposed to the template as "password". A template that
// cannot be rendered from the data is a ValidationError.
func render(n domain.Notification) (Message, error) {
	tmpl, ok := templates[n.Template]
	if !ok {
		return Message{}, &domain.ValidationError{Field: "template", Reason: fmt.Sprintf("unknown template %q", n.Template)}
	}

	data := make(map[string]string, len(n.Data)+len(optionalKeys))
	for _, k := range optionalKeys {
		data[k] = ""
	}
	for k, v := range n.Data {
		data[k] = v
	}
	if n.Secret != "" {
		data["password"] = n.Secret
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return Message{}, &domain.ValidationError{Field: "data", Reason: fmt.Sprintf("rendering %q subject: %v", n.Template, err)}
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return Message{}, &domain.ValidationError{Field: "data", Reason: fmt.Sprintf("rendering %q body: %v", n.Template, err)}
	}

	return Message{
		To:      n.Recipient,
		Subject: subject.String(),
		Text:    body.String(),
	}, nil
}
