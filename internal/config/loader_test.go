package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearPlannerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PLANNER_HTTP_PORT",
		"PLANNER_SQLITE_DSN",
		"PLANNER_SESSION_SECRET",
		"PLANNER_SESSION_TTL",
		"PLANNER_POLICY_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when optional variables are missing", func(t *testing.T) {
		clearPlannerEnv(t)
		t.Setenv("PLANNER_SESSION_SECRET", "secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.HTTPPort != 8080 {
			t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:planner.db?_foreign_keys=on" {
			t.Errorf("SQLiteDSN = %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Errorf("SessionTTL = %s, want 12h", cfg.SessionTTL)
		}
		if cfg.Policy.Leave.LegalDays != 30 {
			t.Errorf("Policy.Leave.LegalDays = %d, want 30", cfg.Policy.Leave.LegalDays)
		}
	})

	t.Run("errors when the session secret is missing", func(t *testing.T) {
		clearPlannerEnv(t)

		_, err := Load()
		if err == nil {
			t.Fatal("Load() expected an error")
		}
		if got := err.Error(); !strings.Contains(got, "PLANNER_SESSION_SECRET") {
			t.Errorf("error = %q, want it to name PLANNER_SESSION_SECRET", got)
		}
	})

	t.Run("parses duration and numeric overrides", func(t *testing.T) {
		clearPlannerEnv(t)
		t.Setenv("PLANNER_SESSION_SECRET", "secret")
		t.Setenv("PLANNER_HTTP_PORT", "9090")
		t.Setenv("PLANNER_SQLITE_DSN", "file::memory:?cache=shared")
		t.Setenv("PLANNER_SESSION_TTL", "45m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.HTTPPort != 9090 {
			t.Errorf("HTTPPort = %d, want 9090", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file::memory:?cache=shared" {
			t.Errorf("SQLiteDSN = %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 45*time.Minute {
			t.Errorf("SessionTTL = %s, want 45m", cfg.SessionTTL)
		}
	})

	t.Run("collects every invalid variable in one error", func(t *testing.T) {
		clearPlannerEnv(t)
		t.Setenv("PLANNER_SESSION_SECRET", "secret")
		t.Setenv("PLANNER_HTTP_PORT", "-1")
		t.Setenv("PLANNER_SESSION_TTL", "bientôt")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() expected an error")
		}
		got := err.Error()
		if !strings.Contains(got, "PLANNER_HTTP_PORT") || !strings.Contains(got, "PLANNER_SESSION_TTL") {
			t.Errorf("error = %q, want it to name both invalid variables", got)
		}
	})

	t.Run("loads the policy file when configured", func(t *testing.T) {
		clearPlannerEnv(t)
		t.Setenv("PLANNER_SESSION_SECRET", "secret")

		path := filepath.Join(t.TempDir(), "policy.yaml")
		contents := "leave:\n  legal_days: 25\n  danger_cutoff: \"09-15\"\nalerts:\n  hours_low_ratio: 0.75\n"
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("write policy file: %v", err)
		}
		t.Setenv("PLANNER_POLICY_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.PolicyFile != path {
			t.Errorf("PolicyFile = %q, want %q", cfg.PolicyFile, path)
		}
		if cfg.Policy.Leave.LegalDays != 25 {
			t.Errorf("Policy.Leave.LegalDays = %d, want 25", cfg.Policy.Leave.LegalDays)
		}
		if cfg.Policy.Alerts.HoursLowRatio != 0.75 {
			t.Errorf("Policy.Alerts.HoursLowRatio = %v, want 0.75", cfg.Policy.Alerts.HoursLowRatio)
		}
		// Fields absent from the file keep their defaults.
		if cfg.Policy.Leave.WarningCutoff != "07-01" {
			t.Errorf("Policy.Leave.WarningCutoff = %q, want 07-01", cfg.Policy.Leave.WarningCutoff)
		}
	})
}
