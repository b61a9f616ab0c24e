// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Zachkp/portfolio/internal/contact"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SiteURL is the public address printed on the CV and share QR code.
	SiteURL string `env:"SITE_URL"`

	// DatabasePath is the SQLite file for visitors and favorites.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	// RedisURL, when set, moves favorites from SQLite to Redis.
	RedisURL       string        `env:"REDIS_URL"`
	FavoritesTTL   time.Duration `env:"FAVORITES_TTL" envDefault:"0s"`
	FavoritesLimit int           `env:"FAVORITES_LIMIT" envDefault:"4"`

	Admin   Admin   `envPrefix:"ADMIN_"`
	EmailJS EmailJS `envPrefix:"EMAILJS_"`
	SMTP    SMTP    `envPrefix:"SMTP_"`
}

type Admin struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Password string `env:"PASSWORD" envDefault:"admin123"`
}

type EmailJS struct {
	ServiceID  string        `env:"SERVICE_ID"`
	TemplateID string        `env:"TEMPLATE_ID"`
	PublicKey  string        `env:"PUBLIC_KEY"`
	PrivateKey string        `env:"PRIVATE_KEY"`
	ToEmail    string        `env:"TO_EMAIL"`
	// Endpoint is left empty so the relay falls back to the public API.
	Endpoint   string        `env:"ENDPOINT"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type SMTP struct {
	Host    string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port    string `env:"PORT" envDefault:"587"`
	User    string `env:"USER"`
	Pass    string `env:"PASS"`
	ToEmail string `env:"TO_EMAIL"`
}

// Load parses the environment. Call it after .env files are loaded.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.FavoritesLimit <= 0 {
		return fmt.Errorf("FAVORITES_LIMIT must be positive, got %d", c.FavoritesLimit)
	}
	if c.FavoritesTTL < 0 {
		return fmt.Errorf("FAVORITES_TTL must not be negative")
	}
	return nil
}

// UsingDefaultAdmin reports whether the admin login still has the
// development credentials.
func (c Config) UsingDefaultAdmin() bool {
	return c.Admin.Username == "admin" || c.Admin.Password == "admin123"
}

// Contact converts the relay settings for the contact package.
func (c Config) Contact() contact.Config {
	return contact.Config{
		EmailJS: contact.EmailJSConfig{
			ServiceID:  c.EmailJS.ServiceID,
			TemplateID: c.EmailJS.TemplateID,
			PublicKey:  c.EmailJS.PublicKey,
			PrivateKey: c.EmailJS.PrivateKey,
			ToEmail:    c.EmailJS.ToEmail,
			Endpoint:   c.EmailJS.Endpoint,
			Timeout:    c.EmailJS.Timeout,
		},
		SMTP: contact.SMTPConfig{
			Host:    c.SMTP.Host,
			Port:    c.SMTP.Port,
			User:    c.SMTP.User,
			Pass:    c.SMTP.Pass,
			ToEmail: c.SMTP.ToEmail,
		},
	}
}
