package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"SHIFTD_HTTP_PORT",
			"SHIFTD_SQLITE_DSN",
			"SHIFTD_MAX_SHIFT_LENGTH",
			"SHIFTD_MAX_LOCATION_LENGTH",
			"SHIFTD_SHUTDOWN_TIMEOUT",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "shifts.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.MaxShiftLength != 16*time.Hour {
			t.Fatalf("expected default max shift length 16h, got %s", cfg.MaxShiftLength)
		}
		if cfg.MaxLocationLength != 70 {
			t.Fatalf("expected default max location length 70, got %d", cfg.MaxLocationLength)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("SHIFTD_HTTP_PORT", "9090")
		t.Setenv("SHIFTD_SQLITE_DSN", "/tmp/shifts.db")
		t.Setenv("SHIFTD_MAX_SHIFT_LENGTH", "12h")
		t.Setenv("SHIFTD_MAX_LOCATION_LENGTH", "120")
		t.Setenv("SHIFTD_SHUTDOWN_TIMEOUT", "30s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "/tmp/shifts.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.MaxShiftLength != 12*time.Hour {
			t.Fatalf("expected max shift length 12h, got %s", cfg.MaxShiftLength)
		}
		if cfg.MaxLocationLength != 120 {
			t.Fatalf("expected max location length 120, got %d", cfg.MaxLocationLength)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Fatalf("expected shutdown timeout 30s, got %s", cfg.ShutdownTimeout)
		}
	})

	t.Run("errors on unparsable values", func(t *testing.T) {
		t.Setenv("SHIFTD_HTTP_PORT", "not-a-port")
		t.Setenv("SHIFTD_MAX_SHIFT_LENGTH", "sixteen hours")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "invalid environment values: SHIFTD_HTTP_PORT, SHIFTD_MAX_SHIFT_LENGTH"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
