package contact

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	ToEmail string
}

func (c SMTPConfig) configured() bool {
	return c.User != "" && c.Pass != ""
}

// SMTP relays through an authenticated mail server, replying to the sender.
type SMTP struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.ToEmail == "" {
		cfg.ToEmail = cfg.User
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

// Send composes a plain text mail. net/smtp has no context support, so ctx
// is only checked before dialing.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if !s.cfg.configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.User, []string{s.cfg.ToEmail}, s.compose(msg.Normalize())); err != nil {
		return fmt.Errorf("%w: %v", ErrRelayRejected, err)
	}
	return nil
}

func (s *SMTP) compose(msg Message) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Subject, msg.Message)

	var b strings.Builder
	b.WriteString("To: " + s.cfg.ToEmail + "\r\n")
	b.WriteString("Subject: Portfolio Contact: " + headerSafe(msg.Subject) + "\r\n")
	b.WriteString("From: " + s.cfg.User + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(msg.Email) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

// headerSafe strips line breaks so form input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
