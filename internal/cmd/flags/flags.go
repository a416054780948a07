package flags

import (
	"fmt"
	"slices"
	"time"

	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var LOG_LEVEL = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}

var PORT = &cli.StringFlag{
	Name:    "port",
	Aliases: []string{"p"},
	Usage:   "The port the HTTP API listens on",
	Value:   "8080",
	Sources: cli.EnvVars("PORT"),
}

var JWT_SECRET = &cli.StringFlag{
	Name:    "jwt-secret",
	Usage:   "The secret used to sign access tokens",
	Sources: cli.EnvVars("JWT_SECRET"),
}

var TOKEN_TTL = &cli.DurationFlag{
	Name:    "token-ttl",
	Usage:   "How long an access token stays valid",
	Value:   24 * time.Hour,
	Sources: cli.EnvVars("TOKEN_TTL"),
}

var CORS_ORIGINS = &cli.StringSliceFlag{
	Name:    "cors-origins",
	Usage:   "Origins allowed to call the API",
	Value:   []string{"http://localhost:3000"},
	Sources: cli.EnvVars("CORS_ORIGINS"),
}

var IMAGE_BASE_URL = &cli.StringFlag{
	Name:    "image-base-url",
	Usage:   "Prefix prepended to stored image paths",
	Value:   "https://res.cloudinary.com/dh5lpihx1/image/upload/",
	Sources: cli.EnvVars("IMAGE_BASE_URL"),
}

var CACHE_TTL = &cli.DurationFlag{
	Name:    "cache-ttl",
	Usage:   "How long post and course listings are cached",
	Value:   30 * time.Second,
	Sources: cli.EnvVars("CACHE_TTL"),
}

var DATABASE_URL = &cli.StringFlag{
	Name:    "database-url",
	Usage:   "Postgres connection URL, takes precedence over the db-* flags",
	Sources: cli.EnvVars("DATABASE_URL"),
}

var DB_HOST = &cli.StringFlag{
	Name:    "db-host",
	Value:   "localhost",
	Sources: cli.EnvVars("DB_HOST"),
}

var DB_PORT = &cli.StringFlag{
	Name:    "db-port",
	Value:   "5432",
	Sources: cli.EnvVars("DB_PORT"),
}

var DB_USER = &cli.StringFlag{
	Name:    "db-user",
	Value:   "postgres",
	Sources: cli.EnvVars("DB_USER"),
}

var DB_PASSWORD = &cli.StringFlag{
	Name:    "db-password",
	Sources: cli.EnvVars("DB_PASSWORD"),
}

var DB_NAME = &cli.StringFlag{
	Name:    "db-name",
	Value:   "foraging_link",
	Sources: cli.EnvVars("DB_NAME"),
}

var DB_SSLMODE = &cli.StringFlag{
	Name:    "db-sslmode",
	Value:   "disable",
	Sources: cli.EnvVars("DB_SSLMODE"),
}

var TWILIO_ACCOUNT_SID = &cli.StringFlag{
	Name:    "twilio-account-sid",
	Usage:   "Twilio account; SMS is only logged when unset",
	Sources: cli.EnvVars("TWILIO_ACCOUNT_SID"),
}

var TWILIO_AUTH_TOKEN = &cli.StringFlag{
	Name:    "twilio-auth-token",
	Sources: cli.EnvVars("TWILIO_AUTH_TOKEN"),
}

var TWILIO_FROM = &cli.StringFlag{
	Name:    "twilio-from",
	Usage:   "Sender number for registration SMS",
	Sources: cli.EnvVars("TWILIO_FROM"),
}

var USERNAME = &cli.StringFlag{
	Name:     "username",
	Aliases:  []string{"u"},
	Usage:    "The user to change",
	Required: true,
}

var REVOKE = &cli.BoolFlag{
	Name:  "revoke",
	Usage: "Remove staff status instead of granting it",
}

// Database lists the flags needed to open a connection.
func Database() []cli.Flag {
	return []cli.Flag{DATABASE_URL, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSLMODE}
}

// Server lists everything the serve command reads.
func Server() []cli.Flag {
	return append([]cli.Flag{
		PORT, JWT_SECRET, TOKEN_TTL, CORS_ORIGINS, IMAGE_BASE_URL, CACHE_TTL,
		TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM,
	}, Database()...)
}
