package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"agencydesk/internal/shared/config"
)

// SMTPNotificationService is the templated notification sink backed by SMTP.
type SMTPNotificationService struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPNotificationService(cfg *config.EmailConfig) *SMTPNotificationService {
	return &SMTPNotificationService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

// Send renders the named template with sanitized variables and dispatches it.
// Variable values originate from provider payloads and are stripped of markup
// before they reach an HTML body.
func (s *SMTPNotificationService) Send(ctx context.Context, template, toEmail, toName string, vars map[string]string) error {
	clean := SanitizeVars(vars, SanitizeOptions{})

	subject, htmlBody, plainBody, err := renderTemplate(template, clean)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.FromAddress, s.cfg.FromName))
	m.SetHeader("To", m.FormatAddress(toEmail, toName))
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	return nil
}
