package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"talent-marketplace-backend/config"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers outbox mails over SMTP.
type SMTPSender struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      sendFunc
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		send:      smtp.SendMail,
	}
}

// TrySend makes one delivery attempt. Failures come back as TransportFailure.
func (s *SMTPSender) TrySend(ctx context.Context, mail domain.Mail) error {
	if err := ctx.Err(); err != nil {
		return apperror.TransportFailure(err)
	}
	if mail.To == "" {
		return apperror.TransportFailure(fmt.Errorf("mail %s has no recipient", mail.ID))
	}

	msg := buildMessage(s.fromEmail, mail)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{headerValue(mail.To)}, msg); err != nil {
		return apperror.TransportFailure(fmt.Errorf("failed to send email %s: %w", mail.ID, err))
	}
	return nil
}

// IsConfigured checks if the sender has a usable SMTP host.
func (s *SMTPSender) IsConfigured() bool {
	return s.host != "" && s.fromEmail != ""
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// headerValue blanks CR and LF so a value cannot start a new header line.
func headerValue(v string) string {
	return headerBreaks.Replace(v)
}

func buildMessage(from string, mail domain.Mail) []byte {
	// Subjects come from config, recipients from profile data.
	subject := headerValue(mail.Subject)
	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		from,
		headerValue(mail.To),
		subject,
		mail.Body,
	))
}
