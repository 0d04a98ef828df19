package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL     string
	TemporalAddress string
	HTTPListenAddr  string
	MetricsAddr     string
	LogLevel        string

	// Microsoft Graph app-only credentials.
	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string
	GraphBaseURL      string

	// MailSender is the user principal name the portal sends access
	// emails from, e.g. "portal@plainvanilla.es".
	MailSender string

	// PortalBaseURL is the public base URL client portal links point at.
	PortalBaseURL string

	// GroupWait is how long provisioning pauses after creating a Microsoft 365
	// group before creating dependent resources. Graph needs a few seconds to
	// replicate a new group before the Teams and Planner endpoints accept it.
	GroupWait time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TemporalAddress:   getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		GraphTenantID:     getEnv("GRAPH_TENANT_ID", ""),
		GraphClientID:     getEnv("GRAPH_CLIENT_ID", ""),
		GraphClientSecret: getEnv("GRAPH_CLIENT_SECRET", ""),
		GraphBaseURL:      getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		MailSender:        getEnv("MAIL_SENDER", ""),
		PortalBaseURL:     getEnv("BASE_URL", "https://admin.plainvanilla.ai"),
		GroupWait:         5 * time.Second,
	}

	if v := os.Getenv("GROUP_WAIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GROUP_WAIT %q: %w", v, err)
		}
		cfg.GroupWait = d
	}

	return cfg, nil
}

// Validate checks that the fields required by the given component
// ("portal-api" or "worker") are set.
func (c *Config) Validate(component string) error {
	var missing []string

	switch component {
	case "portal-api":
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
		if c.TemporalAddress == "" {
			missing = append(missing, "TEMPORAL_ADDRESS")
		}
		if c.HTTPListenAddr == "" {
			missing = append(missing, "HTTP_LISTEN_ADDR")
		}
	case "worker":
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
		if c.TemporalAddress == "" {
			missing = append(missing, "TEMPORAL_ADDRESS")
		}
		if c.GraphTenantID == "" {
			missing = append(missing, "GRAPH_TENANT_ID")
		}
		if c.GraphClientID == "" {
			missing = append(missing, "GRAPH_CLIENT_ID")
		}
		if c.GraphClientSecret == "" {
			missing = append(missing, "GRAPH_CLIENT_SECRET")
		}
	default:
		return fmt.Errorf("unknown component %q", component)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
