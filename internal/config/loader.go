package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the planner service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	SessionSecret string
	SessionTTL    time.Duration
	PolicyFile    string
	Policy        Policy
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
// When PLANNER_POLICY_FILE is set the referenced YAML policy file is loaded
// and validated as well.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:planner.db?_foreign_keys=on",
		SessionTTL: 12 * time.Hour,
		Policy:     DefaultPolicy(),
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PLANNER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PLANNER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("PLANNER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("PLANNER_SESSION_SECRET")); secret == "" {
		missing = append(missing, "PLANNER_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("PLANNER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "PLANNER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("les variables d'environnement obligatoires sont absentes : %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("les variables d'environnement suivantes sont invalides : %s", strings.Join(invalid, ", "))
	}

	if path := strings.TrimSpace(os.Getenv("PLANNER_POLICY_FILE")); path != "" {
		cfg.PolicyFile = path
		policy, err := LoadPolicy(path)
		if err != nil {
			return Config{}, err
		}
		cfg.Policy = policy
	}

	return cfg, nil
}
