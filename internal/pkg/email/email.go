package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/shiftwatch/scheduler-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// Service sends workflow notification mail. The schedule engine only
// produces the message text; delivery lives here.
type Service interface {
	SendLeaveNotification(to, subject, message string) error
}

type serviceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &serviceImpl{cfg: cfg, templates: tmpl}, nil
}

type leaveNotificationData struct {
	Subject string
	Message string
	SentAt  string
}

// SendLeaveNotification renders the notification template and delivers it.
func (s *serviceImpl) SendLeaveNotification(to, subject, message string) error {
	data := leaveNotificationData{
		Subject: subject,
		Message: message,
		SentAt:  time.Now().UTC().Format("02 Jan 2006 15:04 MST"),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_notification.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.send(to, subject, body.String())
}

func (s *serviceImpl) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := []byte("From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
		if err == nil {
			return nil
		}
		slog.Warn("email delivery failed", "to", to, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, err)
}
