package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the shift
// exchange service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	MaxShiftLength    time.Duration
	MaxLocationLength int
	ShutdownTimeout   time.Duration
}

// Load parses configuration values from the current process environment.
//
// Every field has an operational default; values that are present but
// unparsable are reported rather than silently ignored.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "shifts.db",
		MaxShiftLength:    16 * time.Hour,
		MaxLocationLength: 70,
		ShutdownTimeout:   10 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SHIFTD_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SHIFTD_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SHIFTD_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if lengthValue := strings.TrimSpace(os.Getenv("SHIFTD_MAX_SHIFT_LENGTH")); lengthValue != "" {
		length, err := time.ParseDuration(lengthValue)
		if err != nil || length <= 0 {
			invalid = append(invalid, "SHIFTD_MAX_SHIFT_LENGTH")
		} else {
			cfg.MaxShiftLength = length
		}
	}

	if locationValue := strings.TrimSpace(os.Getenv("SHIFTD_MAX_LOCATION_LENGTH")); locationValue != "" {
		length, err := strconv.Atoi(locationValue)
		if err != nil || length <= 0 {
			invalid = append(invalid, "SHIFTD_MAX_LOCATION_LENGTH")
		} else {
			cfg.MaxLocationLength = length
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("SHIFTD_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "SHIFTD_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
