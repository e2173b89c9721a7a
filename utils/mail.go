package utils

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Kariqs/bookstore-api/initializers"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type EmailData struct {
	Name      string
	Message   string
	ActionURL string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends templated HTML mail over SMTP.
type Mailer struct {
	cfg  initializers.MailConfig
	send sendFunc
}

func NewMailer(cfg initializers.MailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// RenderEmail executes the named template and wraps it in a MIME message.
func RenderEmail(from, emailSubject, templateName string, data EmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return nil, fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		from,
		emailSubject,
		body.String(),
	)
	return []byte(message), nil
}

func (m *Mailer) SendEmail(emailTo, emailSubject, templateName string, data EmailData) error {
	message, err := RenderEmail(m.cfg.From, emailSubject, templateName, data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.SMTPHost)
	if err := m.send(m.cfg.SMTPAddress, auth, m.cfg.From, []string{emailTo}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWelcome greets a newly registered reader.
func (m *Mailer) SendWelcome(name, email string) error {
	data := EmailData{
		Name:      name,
		Message:   "Thank you for signing up! You can now browse, buy and borrow books.",
		ActionURL: m.cfg.FrontendURL,
	}
	return m.SendEmail(email, "Welcome to the Bookstore", "welcome.html", data)
}
