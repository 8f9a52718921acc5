package config

import (
	"encoding/json"
	"os"

	"github.com/sunshin3/invoicepro/internal/flagx"
	"github.com/sunshin3/invoicepro/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	DatabaseDriver      string         `json:"database_driver"`
	DatabaseDSN         string         `json:"database_dsn"`
	SessionTTL          timex.Duration `json:"session_ttl"`
	MinPasswordLen      int            `json:"min_password_len"`
	BcryptCost          int            `json:"bcrypt_cost"`
	AdminCodeDigits     int            `json:"admin_code_digits"`
	BootstrapAdminEmail string         `json:"bootstrap_admin_email"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or invalid
// file panics: a half-applied config is worse than a refusal to start.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	// A field the file omits keeps its current value. Zeroing the password
	// minimum or the session TTL through an omission would silently loosen
	// the auth rules.
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDriver != "" {
		config.DatabaseDriver = c.DatabaseDriver
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.MinPasswordLen != 0 {
		config.MinPasswordLen = c.MinPasswordLen
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.AdminCodeDigits != 0 {
		config.AdminCodeDigits = c.AdminCodeDigits
	}
	if c.BootstrapAdminEmail != "" {
		config.BootstrapAdminEmail = c.BootstrapAdminEmail
	}
}
