package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the tracker service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	SessionTTL     time.Duration
	OfficeSeedPath string
	Timezone       string
}

// Load parses configuration values from the current process environment.
//
// Every field has a sensible default so the service can start with an empty
// environment. An empty TRACKER_SQLITE_DSN selects the in-memory store.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "",
		SessionTTL: 24 * time.Hour,
		Timezone:   "Local",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("TRACKER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "TRACKER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("TRACKER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("TRACKER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "TRACKER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if seedPath := strings.TrimSpace(os.Getenv("TRACKER_OFFICE_SEED")); seedPath != "" {
		cfg.OfficeSeedPath = seedPath
	}

	if tz := strings.TrimSpace(os.Getenv("TRACKER_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "TRACKER_TIMEZONE")
		} else {
			cfg.Timezone = tz
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
