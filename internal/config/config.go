// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	custom_errors "scm-collector/internal/errors"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel            string   `mapstructure:"LOG_LEVEL"`
	DBURL               string   `mapstructure:"DB_URL"`
	HTTPAddr            string   `mapstructure:"HTTP_ADDR"`
	Cron                string   `mapstructure:"CRON"`
	RunOnStartup        bool     `mapstructure:"RUN_ON_STARTUP"`
	CollectorName       string   `mapstructure:"COLLECTOR_NAME"`
	Hosts               []string `mapstructure:"SCM_HOSTS"`
	Usernames           []string `mapstructure:"SCM_USERNAMES"`
	Passwords           []string `mapstructure:"SCM_PASSWORDS"`
	FirstRunHistoryDays int      `mapstructure:"FIRST_RUN_HISTORY_DAYS"`
	NATSURL             string   `mapstructure:"NATS_URL"`
	NATSSubject         string   `mapstructure:"NATS_SUBJECT"`

	SCMHosts []SCMHost `mapstructure:"-"`
}

// SCMHost is one configured source control host with its credential pair.
// Password is still base64 encoded; it is decoded once per sync run.
type SCMHost struct {
	URL      string
	Username string
	Password string
}

// FirstRunHistory is how far back a never-synced repository is fetched.
func (c *Config) FirstRunHistory() time.Duration {
	return time.Duration(c.FirstRunHistoryDays) * 24 * time.Hour
}

var keys = []string{
	"LOG_LEVEL", "DB_URL", "HTTP_ADDR", "CRON", "RUN_ON_STARTUP", "COLLECTOR_NAME",
	"SCM_HOSTS", "SCM_USERNAMES", "SCM_PASSWORDS", "FIRST_RUN_HISTORY_DAYS",
	"NATS_URL", "NATS_SUBJECT",
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("CRON", "*/15 * * * *")
	v.SetDefault("RUN_ON_STARTUP", false)
	v.SetDefault("COLLECTOR_NAME", "GitHub")
	v.SetDefault("FIRST_RUN_HISTORY_DAYS", 14)
	v.SetDefault("NATS_SUBJECT", "scm.collector.runs")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks required fields and zips the parallel host lists into SCMHosts.
func (c *Config) validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL is a required configuration field")
	}
	c.Hosts = trimAll(c.Hosts)
	if len(c.Hosts) == 0 {
		return errors.New("SCM_HOSTS must contain at least one host")
	}
	c.Usernames = trimAll(c.Usernames)
	if len(c.Usernames) == 0 {
		// token-only hosts
		c.Usernames = make([]string, len(c.Hosts))
	}
	c.Passwords = trimAll(c.Passwords)
	if len(c.Usernames) != len(c.Hosts) || len(c.Passwords) != len(c.Hosts) {
		return &custom_errors.ErrHostConfigMismatch{
			Hosts:     len(c.Hosts),
			Usernames: len(c.Usernames),
			Passwords: len(c.Passwords),
		}
	}
	if _, err := cron.ParseStandard(c.Cron); err != nil {
		return errors.New("CRON must be a valid 5-field cron expression: " + err.Error())
	}
	if c.FirstRunHistoryDays <= 0 {
		return errors.New("FIRST_RUN_HISTORY_DAYS must be positive")
	}

	c.SCMHosts = make([]SCMHost, len(c.Hosts))
	for i := range c.Hosts {
		c.SCMHosts[i] = SCMHost{URL: c.Hosts[i], Username: c.Usernames[i], Password: c.Passwords[i]}
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
