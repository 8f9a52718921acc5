package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_OverridesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", "127.0.0.1:9000",
		"-r", "postgres",
		"-d", "postgres://invoicepro:x@localhost:5432/invoicepro",
		"-t", "48",
		"-m", "root@example.com",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "127.0.0.1:9000", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://invoicepro:x@localhost:5432/invoicepro", cfg.DatabaseDSN)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "root@example.com", cfg.BootstrapAdminEmail)
}

func Test_parseFlags_UnknownFlagsAreFiltered(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "127.0.0.1:9000", "-zzz", "ignored"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "127.0.0.1:9000", cfg.EndpointAddrHTTP)
}
