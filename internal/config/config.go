package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMissingSecret = errors.New("jwt secret is required")

type Config struct {
	Port        string        `flag:"port"`
	LogLevel    string        `flag:"log-level"`
	JWTSecret   string        `flag:"jwt-secret"`
	TokenTTL    time.Duration `flag:"token-ttl"`
	CORSOrigins []string      `flag:"cors-origins"`
	ImageBase   string        `flag:"image-base-url"`
	CacheTTL    time.Duration `flag:"cache-ttl"`

	Database Database
	Twilio   Twilio
}

type Database struct {
	URL      string `flag:"database-url"`
	Host     string `flag:"db-host"`
	Port     string `flag:"db-port"`
	User     string `flag:"db-user"`
	Password string `flag:"db-password"`
	Name     string `flag:"db-name"`
	SSLMode  string `flag:"db-sslmode"`
}

type Twilio struct {
	AccountSID string `flag:"twilio-account-sid"`
	AuthToken  string `flag:"twilio-auth-token"`
	From       string `flag:"twilio-from"`
}

func (t Twilio) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != ""
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* settings.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, sslMode,
	)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
