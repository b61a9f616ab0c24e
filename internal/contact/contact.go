// Package contact validates contact form submissions and relays them to
// the site owner's inbox.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrMissingField   = errors.New("all fields are required")
	ErrInvalidEmail   = errors.New("email address is not valid")
	ErrNotConfigured  = errors.New("email relay not configured")
	ErrRelayRejected  = errors.New("email relay rejected message")
)

// Message is one contact form submission.
type Message struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (m Message) Normalize() Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: strings.TrimSpace(m.Subject),
		Message: strings.TrimSpace(m.Message),
	}
}

// Validate requires every field and a plausible email address.
func (m Message) Validate() error {
	m = m.Normalize()
	if m.Name == "" || m.Email == "" || m.Subject == "" || m.Message == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrMissingField)
	}
	if !strings.Contains(m.Email, "@") {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidEmail)
	}
	return nil
}

// Relay delivers a message. Implementations do not retry.
type Relay interface {
	Send(ctx context.Context, msg Message) error
}

// RelayFunc adapts a function to Relay.
type RelayFunc func(ctx context.Context, msg Message) error

func (f RelayFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Disabled is used when no relay is configured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrNotConfigured }

// Name reports which relay implementation r is, for logs.
func Name(r Relay) string {
	switch r.(type) {
	case *EmailJS:
		return "emailjs"
	case *SMTP:
		return "smtp"
	case Disabled:
		return "disabled"
	default:
		return "custom"
	}
}

// Config selects and configures a relay.
type Config struct {
	EmailJS EmailJSConfig
	SMTP    SMTPConfig
}

// NewRelay picks EmailJS when its IDs are set, then SMTP when credentials
// are set, and Disabled otherwise.
func NewRelay(cfg Config) Relay {
	switch {
	case cfg.EmailJS.configured():
		return NewEmailJS(cfg.EmailJS, nil)
	case cfg.SMTP.configured():
		return NewSMTP(cfg.SMTP)
	default:
		return Disabled{}
	}
}
