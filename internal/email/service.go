// Package email sends deadline reminder mail over SMTP.
package email

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-assistant/internal/model"
)

type Service interface {
	SendDeadlineReminder(ctx context.Context, to string, deadlines []*model.Deadline) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) *SMTPService {
	return &SMTPService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPService) SendDeadlineReminder(ctx context.Context, to string, deadlines []*model.Deadline) error {
	if len(deadlines) == 0 {
		return nil
	}

	var body strings.Builder
	body.WriteString("The following deadlines are coming up:\n\n")
	for _, d := range deadlines {
		fmt.Fprintf(&body, "- %s, due %s (%s priority)\n", d.Title, d.Date, d.Priority)
	}

	subject := fmt.Sprintf("Reminder: %d upcoming deadline(s)", len(deadlines))
	return s.SendCustom(ctx, to, subject, body.String())
}

func (s *SMTPService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
