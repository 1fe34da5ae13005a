package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"agencydesk/internal/shared/config"
)

// SMTPAdminNotifier delivers plain-text operational notices to the configured
// admin recipients. With no recipients configured it is a silent no-op.
type SMTPAdminNotifier struct {
	emailCfg   *config.EmailConfig
	recipients []string
	dialer     *gomail.Dialer
}

func NewSMTPAdminNotifier(emailCfg *config.EmailConfig, notifyCfg *config.AdminNotifyConfig) *SMTPAdminNotifier {
	return &SMTPAdminNotifier{
		emailCfg:   emailCfg,
		recipients: notifyCfg.Recipients,
		dialer:     gomail.NewDialer(emailCfg.SMTPHost, emailCfg.SMTPPort, emailCfg.SMTPUser, emailCfg.SMTPPassword),
	}
}

func (n *SMTPAdminNotifier) Notify(ctx context.Context, subject, body string) error {
	if len(n.recipients) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.emailCfg.FromAddress, n.emailCfg.FromName))
	m.SetHeader("To", n.recipients...)
	m.SetHeader("Subject", "[AgencyDesk] "+subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send admin notice: %w", err)
	}
	return nil
}
