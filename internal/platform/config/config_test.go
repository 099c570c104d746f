package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
version: "1"
mode: release
server:
  addr: ":9000"
  shutdown_timeout: 3s
database:
  host: db.internal
  port: 3307
  user: kma
  password: from-file
  dbname: kma_prod
rules:
  contact_min_length: 8
  subcommittee_order: [Travel, Revenue, Transport]
payment:
  rate_per_meeting: 120
  context_rates:
    general: 80
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfigLayers(t *testing.T) {
	t.Setenv("KMA_DATABASE_PASSWORD", "from-env")
	t.Setenv("KMA_PAYMENT_CONVENER_BONUS", "75")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ModeRelease, cfg.Mode)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 3307, cfg.DB.Port)
	assert.Equal(t, "from-env", cfg.DB.Password)
	assert.Equal(t, 8, cfg.Rules.ContactMinLength)
	assert.Equal(t, 2, cfg.Rules.MaxSubcommittees, "default survives a partial rules block")
	assert.Equal(t, []string{"Travel", "Revenue", "Transport"}, cfg.Rules.SubcommitteeOrder)
	assert.EqualValues(t, 120, cfg.Payment.RatePerMeeting)
	assert.EqualValues(t, 75, cfg.Payment.ConvenerBonus)
	assert.EqualValues(t, 80, cfg.Payment.ContextRates["general"])
}

func TestLoadConfigWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ModeDev, cfg.Mode)
	assert.EqualValues(t, 100, cfg.Payment.RatePerMeeting)
	assert.EqualValues(t, 50, cfg.Payment.ConvenerBonus)
	assert.Equal(t, 10, cfg.Rules.ContactMinLength)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"bad mode":         func(c *Config) { c.Mode = "staging" },
		"zero cap":         func(c *Config) { c.Rules.MaxSubcommittees = 0 },
		"unknown timezone": func(c *Config) { c.Rules.Timezone = "Mars/Olympus" },
		"negative rate":    func(c *Config) { c.Payment.RatePerMeeting = -1 },
		"auth w/o secret":  func(c *Config) { c.Auth.Enabled = true },
		"negative min len": func(c *Config) { c.Rules.ContactMinLength = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestLocationDefaultsToUTC(t *testing.T) {
	cfg := Default()
	cfg.Rules.Timezone = ""
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
