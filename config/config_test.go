package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pkg.sigmaverse.dev/bridge/assert"
)

const programID = "0x0102030405060708091011121314151617181920212223242526272829303132"

func TestDefaultsNeedAProgramID(t *testing.T) {
	_, err := Load(New(), "")
	assert.ErrorContains(t, err, "program_id is required")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("BRIDGE_PROGRAM_ID", programID)
	t.Setenv("BRIDGE_PORT", "5050")
	t.Setenv("BRIDGE_BALANCE_INTERVAL", "250ms")
	t.Setenv("BRIDGE_SIGNER_KEYS", "aa,bb")
	t.Setenv("BRIDGE_EVENT_REFRESH", "true")

	cfg, err := Load(New(), "")
	assert.NilError(t, err)
	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.BalanceInterval)
	assert.DeepEqual(t, []string{"aa", "bb"}, cfg.SignerKeys)
	assert.True(t, cfg.EventRefresh)
	assert.Equal(t, 12, cfg.Decimals)
	assert.Equal(t, uint64(10), cfg.GasMarginPercent)
	assert.Equal(t, byte(0x32), cfg.ProgramActor()[31])
}

func TestExplicitZeroDecimalsIsKept(t *testing.T) {
	t.Setenv("BRIDGE_PROGRAM_ID", programID)
	t.Setenv("BRIDGE_DECIMALS", "0")

	cfg, err := Load(New(), "")
	assert.NilError(t, err)
	assert.Equal(t, 0, cfg.Decimals)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.toml")
	err := os.WriteFile(path, []byte(`
program_id = "`+programID+`"
node_url = "http://node:9090"
log_level = "debug"
redis_address = "redis:6379"
`), 0o600)
	assert.NilError(t, err)

	cfg, err := Load(New(), path)
	assert.NilError(t, err)
	assert.Equal(t, "http://node:9090", cfg.NodeURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis:6379", cfg.RedisAddress)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			NodeURL:         "http://localhost:9090",
			ProgramID:       programID,
			LogLevel:        "info",
			Decimals:        12,
			BalanceInterval: time.Second,
		}
	}
	cfg := valid()
	assert.NilError(t, cfg.Validate())

	tests := map[string]func(*Config){
		"bad program id":      func(c *Config) { c.ProgramID = "0x12zz" },
		"bad log level":       func(c *Config) { c.LogLevel = "loud" },
		"too many decimals":   func(c *Config) { c.Decimals = 19 },
		"no balance interval": func(c *Config) { c.BalanceInterval = 0 },
		"bad sample rate": func(c *Config) {
			c.TraceEnabled = true
			c.TraceSampleRate = 1.5
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Assert(t, cfg.Validate() != nil)
		})
	}
}
