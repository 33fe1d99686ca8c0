package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"greendrake/realty/internal/models"
	"greendrake/realty/internal/store"
)

const (
	TemplateContactRequestOperator = "contact_request_operator"
	DefaultLocale                  = "en-US"
)

// Default email templates used as fallback when not found in database
var defaultEmailTemplates = map[string]models.EmailTemplate{
	TemplateContactRequestOperator: {
		TemplateID: TemplateContactRequestOperator,
		Locale:     DefaultLocale,
		Subject:    "New contact request: {{.PropertyTitle}}",
		Body: `<h2>New contact request</h2>
<p>A client has asked to be put in touch with an agent.</p>
<h3>Client</h3>
<ul>
<li>Name: {{.ClientName}}</li>
<li>Email: {{.ClientEmail}}</li>
<li>Phone: {{if .ClientPhone}}{{.ClientPhone}}{{else}}not provided{{end}}</li>
</ul>
<h3>Agent</h3>
<ul>
<li>Name: {{.AgentName}}</li>
<li>Email: {{.AgentEmail}}</li>
</ul>
<h3>Property</h3>
<ul>
<li>Title: {{.PropertyTitle}}</li>
<li>Location: {{.PropertyLocation}}</li>
<li>Price: {{.PropertyPrice}}</li>
</ul>
<p>Requested at {{.RequestedAt}}</p>
`,
	},
}

// IEmailTemplateService defines the interface for email template operations.
type IEmailTemplateService interface {
	GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error)
	SaveTemplate(ctx context.Context, template *models.EmailTemplate) error
}

// EmailTemplateService resolves templates from the database with built-in fallbacks.
type EmailTemplateService struct {
	templates store.EmailTemplateStore
}

func NewEmailTemplateService(templates store.EmailTemplateStore) *EmailTemplateService {
	return &EmailTemplateService{templates: templates}
}

// GetTemplate retrieves an email template by ID and locale
func (s *EmailTemplateService) GetTemplate(ctx context.Context, templateID string, locale string) (*models.EmailTemplate, error) {
	tpl, err := s.templates.Find(ctx, templateID, locale)
	if err == nil {
		return tpl, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}
	if def, ok := defaultEmailTemplates[templateID]; ok {
		return &def, nil
	}
	return nil, fmt.Errorf("template not found: %s (locale: %s): %w", templateID, locale, ErrNotFound)
}

func (s *EmailTemplateService) SaveTemplate(ctx context.Context, template *models.EmailTemplate) error {
	if template.TemplateID == "" || template.Locale == "" {
		return fmt.Errorf("%w: template_id and locale", ErrMissingField)
	}
	if _, _, err := RenderTemplate(template, nil); err != nil {
		return err
	}
	return s.templates.Save(ctx, template)
}

// RenderTemplate executes the subject as plain text and the body as HTML,
// escaping every interpolated value.
func RenderTemplate(tpl *models.EmailTemplate, data any) (subject, body string, err error) {
	subjectTmpl, err := texttemplate.New("subject").Option("missingkey=zero").Parse(tpl.Subject)
	if err != nil {
		return "", "", fmt.Errorf("parse subject of %s: %w", tpl.TemplateID, err)
	}
	bodyTmpl, err := htmltemplate.New("body").Option("missingkey=zero").Parse(tpl.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse body of %s: %w", tpl.TemplateID, err)
	}
	if data == nil {
		return "", "", nil
	}

	var sb, bb bytes.Buffer
	if err := subjectTmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render subject of %s: %w", tpl.TemplateID, err)
	}
	if err := bodyTmpl.Execute(&bb, data); err != nil {
		return "", "", fmt.Errorf("render body of %s: %w", tpl.TemplateID, err)
	}
	return sb.String(), bb.String(), nil
}
