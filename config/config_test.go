package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
token = "abc"
analytics_identifier = "adachi"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "adachi", cfg.AnalyticsIdentifier)
	assert.Equal(t, "true", cfg.TrueFolderPath)
	assert.Equal(t, "maybe", cfg.MaybeFolderPath)
	assert.Equal(t, "false", cfg.FalseFolderPath)
	assert.Equal(t, DefaultSupportServerURL, cfg.SupportServerURL)
	assert.Equal(t, DefaultGuildCountSchedule, cfg.GuildCountSchedule)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TelemetryEnabled())
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
token = "abc"
analytics_identifier = "adachi"
influx_host = "http://localhost:8086"
influx_database = "bots"
true_folder_path = "/srv/yes"
maybe_folder_path = "/srv/maybe"
false_folder_path = "/srv/no"
status_listen = ":9090"
guild_count_schedule = ""
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.TelemetryEnabled())
	assert.Equal(t, "/srv/yes", cfg.TrueFolderPath)
	assert.Equal(t, "/srv/maybe", cfg.MaybeFolderPath)
	assert.Equal(t, "/srv/no", cfg.FalseFolderPath)
	assert.Equal(t, ":9090", cfg.StatusListen)
	assert.Empty(t, cfg.GuildCountSchedule)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing token": `analytics_identifier = "adachi"`,
		"missing identifier": `token = "abc"`,
		"host without database": `
token = "abc"
analytics_identifier = "adachi"
influx_host = "http://localhost:8086"
`,
		"database without host": `
token = "abc"
analytics_identifier = "adachi"
influx_database = "bots"
`,
		"bad schedule": `
token = "abc"
analytics_identifier = "adachi"
guild_count_schedule = "every now and then"
`,
		"not toml": `token = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigInvalid), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultConfigPath, Path(""))

	t.Setenv(EnvConfigPath, "/etc/adachi.toml")
	assert.Equal(t, "/etc/adachi.toml", Path(""))
	assert.Equal(t, "./other.toml", Path("./other.toml"))
}
