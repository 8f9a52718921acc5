// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the Invoice Pro auth server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the local HTTP API. Defaults to
//     loopback only; the desktop shell is the intended client.
//   - DatabaseDriver: "sqlite" (embedded, default) or "postgres".
//   - DatabaseDSN: database file path for sqlite, pgx DSN for postgres.
//   - SessionTTL: lifetime of issued session tokens.
//   - MinPasswordLen: minimum accepted password length at registration.
//   - BcryptCost: cost factor for password and admin code hashes.
//   - AdminCodeDigits: length of generated numeric admin login codes.
//   - BootstrapAdminEmail: super-admin account created on first run.
type Config struct {
	EndpointAddrHTTP    string
	DatabaseDriver      string
	DatabaseDSN         string
	SessionTTL          time.Duration
	MinPasswordLen      int
	BcryptCost          int
	AdminCodeDigits     int
	BootstrapAdminEmail string
}

// LoadDefaults populates Config with the embedded-deployment defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = "127.0.0.1:18520"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "data/invoicepro.db"
	c.SessionTTL = 24 * time.Hour
	c.MinPasswordLen = 8
	c.BcryptCost = bcrypt.DefaultCost
	c.AdminCodeDigits = 6
	c.BootstrapAdminEmail = "admin@sunshin3.pro"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
