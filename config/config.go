package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	// EnvConfigPath names the environment variable holding the config file path.
	EnvConfigPath     = "ADACHI_CONFIG_PATH"
	DefaultConfigPath = "./config.toml"

	DefaultSupportServerURL   = "https://discord.gg/K2MDHBZr9j"
	DefaultGuildCountSchedule = "@every 30m"
)

// ErrConfigInvalid wraps every load or validation failure.
var ErrConfigInvalid = errors.New("config invalid")

// Config はアプリケーションの設定を保持します。ロード後は変更しません。
type Config struct {
	Token               string `mapstructure:"token"`
	AnalyticsIdentifier string `mapstructure:"analytics_identifier"`
	InfluxHost          string `mapstructure:"influx_host"`
	InfluxDatabase      string `mapstructure:"influx_database"`
	TrueFolderPath      string `mapstructure:"true_folder_path"`
	MaybeFolderPath     string `mapstructure:"maybe_folder_path"`
	FalseFolderPath     string `mapstructure:"false_folder_path"`

	SupportServerURL   string `mapstructure:"support_server_url"`
	StatusListen       string `mapstructure:"status_listen"`
	GuildCountSchedule string `mapstructure:"guild_count_schedule"`
	LogFile            string `mapstructure:"log_file"`
	LogLevel           string `mapstructure:"log_level"`
}

// TelemetryEnabled reports whether both influx settings are present.
func (c *Config) TelemetryEnabled() bool {
	return c.InfluxHost != "" && c.InfluxDatabase != ""
}

// Path resolves the config file path: an explicit path wins, then the
// environment variable, then the default.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p, ok := os.LookupEnv(EnvConfigPath); ok && p != "" {
		return p
	}
	return DefaultConfigPath
}

// Load は設定ファイルから設定を読み込み、検証します。
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("true_folder_path", "true")
	v.SetDefault("maybe_folder_path", "maybe")
	v.SetDefault("false_folder_path", "false")
	v.SetDefault("support_server_url", DefaultSupportServerURL)
	v.SetDefault("guild_count_schedule", DefaultGuildCountSchedule)
	v.SetDefault("log_file", "adachi.log")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(ErrConfigInvalid, "read %s: %v", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(ErrConfigInvalid, "decode %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required keys and the influx host/database pairing.
func (c *Config) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "token")
	}
	if c.AnalyticsIdentifier == "" {
		missing = append(missing, "analytics_identifier")
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrConfigInvalid, "missing required key(s): %s", strings.Join(missing, ", "))
	}

	switch {
	case c.InfluxHost != "" && c.InfluxDatabase == "":
		return errors.Wrap(ErrConfigInvalid, "influx_host is set but influx_database is missing")
	case c.InfluxHost == "" && c.InfluxDatabase != "":
		return errors.Wrap(ErrConfigInvalid, "influx_database is set but influx_host is missing")
	}

	if c.GuildCountSchedule != "" {
		if _, err := cron.ParseStandard(c.GuildCountSchedule); err != nil {
			return errors.Wrapf(ErrConfigInvalid, "guild_count_schedule %q: %v", c.GuildCountSchedule, err)
		}
	}
	return nil
}
