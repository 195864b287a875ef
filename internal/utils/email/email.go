package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRefreshFailure alerts the configured operator address that a
// scheduled dataset refresh failed.
func (s *Sender) SendRefreshFailure(job string, jobErr error) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AlertEmail}
	e.Subject = fmt.Sprintf("Dataset refresh failed: %s", job)

	body := fmt.Sprintf(
		"The scheduled job %q failed at %s.\n\nError: %v\n\n"+
			"The price index keeps serving the last loaded snapshot until the next successful run.\n",
		job, time.Now().Format("2006-01-02 15:04:05"), jobErr,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send alert to %s: %v", s.cfg.AlertEmail, err)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	s.logger.Infof("Alert sent to %s: %s", s.cfg.AlertEmail, e.Subject)
	return nil
}
