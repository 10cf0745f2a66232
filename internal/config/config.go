// Package config loads tool configuration with the precedence
// flags > environment > config file > defaults. Flag overrides are applied
// by the caller after Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimezone is the reference zone timed events are interpreted in.
	DefaultTimezone = "America/Los_Angeles"

	// DefaultEventDurationMinutes is the fallback event length when a source
	// supplies a start time but no end.
	DefaultEventDurationMinutes = 150

	defaultCredentialsPath = "credentials.json"
	defaultTokenCachePath  = "token_cache.json"
	defaultCalendarID      = "primary"
)

// Config holds the configuration for the sync tool.
type Config struct {
	// CredentialsPath points at the Google OAuth credentials JSON file.
	CredentialsPath string `yaml:"credentials_path"`

	// TokenCachePath is where the OAuth token is cached between runs.
	TokenCachePath string `yaml:"token_cache_path"`

	// CalendarID is the default target calendar.
	CalendarID string `yaml:"calendar_id"`

	// Timezone is the IANA zone timed events are interpreted in
	// (e.g. "America/Los_Angeles").
	Timezone string `yaml:"timezone"`

	// EventDurationMinutes is the fallback duration for rows that carry a
	// start time but no end time.
	EventDurationMinutes int `yaml:"event_duration_minutes"`

	// CodaDocID and CodaTableID are default source coordinates for the
	// coda-import command.
	CodaDocID   string `yaml:"coda_doc_id"`
	CodaTableID string `yaml:"coda_table_id"`

	// CodaAPIToken comes from the CODA_API_TOKEN environment variable only;
	// it is a secret and does not belong in the config file.
	CodaAPIToken string `yaml:"-"`
}

// Load reads the optional YAML config file at path, applies environment
// overrides, and fills in defaults. An empty path skips the file step.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("GOOGLE_CREDENTIALS_PATH"); v != "" {
		cfg.CredentialsPath = v
	}
	if v := os.Getenv("GOOGLE_TOKEN_CACHE_PATH"); v != "" {
		cfg.TokenCachePath = v
	}
	if v := os.Getenv("STAGESYNC_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("STAGESYNC_EVENT_DURATION_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STAGESYNC_EVENT_DURATION_MINUTES value: %w", err)
		}
		cfg.EventDurationMinutes = minutes
	}
	cfg.CodaAPIToken = os.Getenv("CODA_API_TOKEN")

	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = defaultCredentialsPath
	}
	if cfg.TokenCachePath == "" {
		cfg.TokenCachePath = defaultTokenCachePath
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = defaultCalendarID
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.EventDurationMinutes == 0 {
		cfg.EventDurationMinutes = DefaultEventDurationMinutes
	}
	if cfg.EventDurationMinutes < 0 {
		return nil, fmt.Errorf("event_duration_minutes must be positive, got %d", cfg.EventDurationMinutes)
	}

	return &cfg, nil
}

// Location resolves the configured timezone identifier.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// EventDuration returns the fallback event duration.
func (c *Config) EventDuration() time.Duration {
	return time.Duration(c.EventDurationMinutes) * time.Minute
}

// RequireCodaToken returns the Coda API token or an instructive error when
// it is unset.
func (c *Config) RequireCodaToken() (string, error) {
	if c.CodaAPIToken == "" {
		return "", fmt.Errorf("CODA_API_TOKEN environment variable not set; get your token from https://coda.io/account")
	}
	return c.CodaAPIToken, nil
}
