package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.EndpointAddrHTTP, "127.0.0.1:18520")
	assert.Equal(t, c.DatabaseDriver, "sqlite")
	assert.Equal(t, c.DatabaseDSN, "data/invoicepro.db")
	assert.Equal(t, c.SessionTTL, 24*time.Hour)
	assert.Equal(t, c.MinPasswordLen, 8)
	assert.Equal(t, c.BcryptCost, bcrypt.DefaultCost)
	assert.Equal(t, c.AdminCodeDigits, 6)
	assert.Equal(t, c.BootstrapAdminEmail, "admin@sunshin3.pro")
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.DatabaseDriver, "sqlite")
	assert.Equal(t, c.DatabaseDSN, "data/invoicepro.db")
	assert.Equal(t, c.SessionTTL, 24*time.Hour)
	assert.Equal(t, c.BootstrapAdminEmail, "admin@sunshin3.pro")
}
