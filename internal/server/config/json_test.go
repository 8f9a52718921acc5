package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":    "127.0.0.1:9999",
		"database_driver":       "postgres",
		"database_dsn":          "postgres://invoicepro:x@localhost:5432/invoicepro",
		"session_ttl":           "12h",
		"min_password_len":      10,
		"bcrypt_cost":           12,
		"admin_code_digits":     8,
		"bootstrap_admin_email": "root@example.com",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "127.0.0.1:9999", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://invoicepro:x@localhost:5432/invoicepro", cfg.DatabaseDSN)
		assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 10, cfg.MinPasswordLen)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, 8, cfg.AdminCodeDigits)
		assert.Equal(t, "root@example.com", cfg.BootstrapAdminEmail)
	})

	t.Run("partial json keeps remaining defaults", func(t *testing.T) {
		partial := writeTempJSON(t, "", "", map[string]any{
			"endpoint_addr_http": "127.0.0.1:7777",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "127.0.0.1:7777", cfg.EndpointAddrHTTP)
		// omitted fields must not be zeroed
		assert.Equal(t, 8, cfg.MinPasswordLen)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP: "defaults:1234",
			DatabaseDriver:   "sqlite",
			DatabaseDSN:      "data/invoicepro.db",
			SessionTTL:       24 * time.Hour,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "data/invoicepro.db", cfg.DatabaseDSN)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	})
}
