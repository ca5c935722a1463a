package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/justinloyola/alma/internal/config"
	"github.com/justinloyola/alma/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

type leadEmailData struct {
	FirstName string
	LastName  string
	Email     string
	LeadID    int64
	HasResume bool
}

// SMTPNotifier emails the configured admin address when a lead comes in
// and sends the submitter a confirmation.
type SMTPNotifier struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
	templates  *template.Template
	send       func(m ...*gomail.Message) error
}

func NewSMTPNotifier(cfg config.SMTPConfig) (*SMTPNotifier, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	n := &SMTPNotifier{
		dialer:     dialer,
		from:       cfg.From,
		adminEmail: cfg.AdminEmail,
		templates:  templates,
	}
	n.send = dialer.DialAndSend
	return n, nil
}

func (n *SMTPNotifier) LeadCreated(_ context.Context, lead *model.Lead) error {
	data := leadEmailData{
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Email:     lead.Email,
		LeadID:    lead.ID,
		HasResume: lead.HasResume(),
	}

	messages := make([]*gomail.Message, 0, 2)

	if n.adminEmail != "" {
		m, err := n.compose(n.adminEmail, fmt.Sprintf("New lead: %s %s", lead.FirstName, lead.LastName), "lead_admin.html", data)
		if err != nil {
			return err
		}
		messages = append(messages, m)
	}

	m, err := n.compose(lead.Email, "Thanks for reaching out", "lead_confirmation.html", data)
	if err != nil {
		return err
	}
	messages = append(messages, m)

	if err := n.send(messages...); err != nil {
		return fmt.Errorf("send lead emails: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) compose(to, subject, tmpl string, data leadEmailData) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := n.templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())
	return m, nil
}
