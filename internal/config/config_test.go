package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("TEMPORAL_ADDRESS")
	os.Unsetenv("HTTP_LISTEN_ADDR")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("GRAPH_BASE_URL")
	os.Unsetenv("GROUP_WAIT")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "localhost:7233", cfg.TemporalAddress)
	assert.Equal(t, ":8090", cfg.HTTPListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://graph.microsoft.com/v1.0", cfg.GraphBaseURL)
	assert.Equal(t, 5*time.Second, cfg.GroupWait)
}

func TestLoad_AllEnvVars(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/portal")
	t.Setenv("TEMPORAL_ADDRESS", "temporal.example.com:7233")
	t.Setenv("HTTP_LISTEN_ADDR", ":7071")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRAPH_TENANT_ID", "tenant-1")
	t.Setenv("GRAPH_CLIENT_ID", "client-1")
	t.Setenv("GRAPH_CLIENT_SECRET", "secret-1")
	t.Setenv("GRAPH_BASE_URL", "https://graph.microsoft.us/v1.0")
	t.Setenv("GROUP_WAIT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/portal", cfg.DatabaseURL)
	assert.Equal(t, "temporal.example.com:7233", cfg.TemporalAddress)
	assert.Equal(t, ":7071", cfg.HTTPListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tenant-1", cfg.GraphTenantID)
	assert.Equal(t, "client-1", cfg.GraphClientID)
	assert.Equal(t, "secret-1", cfg.GraphClientSecret)
	assert.Equal(t, "https://graph.microsoft.us/v1.0", cfg.GraphBaseURL)
	assert.Equal(t, 10*time.Second, cfg.GroupWait)
}

func TestLoad_InvalidGroupWait(t *testing.T) {
	t.Setenv("GROUP_WAIT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROUP_WAIT")
}

func TestValidate_PortalAPI_MissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("portal-api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "TEMPORAL_ADDRESS")
	assert.Contains(t, err.Error(), "HTTP_LISTEN_ADDR")
}

func TestValidate_Worker_MissingFields(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/portal"}
	err := cfg.Validate("worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRAPH_TENANT_ID")
	assert.Contains(t, err.Error(), "GRAPH_CLIENT_ID")
	assert.Contains(t, err.Error(), "GRAPH_CLIENT_SECRET")
}

func TestValidate_UnknownComponent(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate("mystery"))
}

func TestValidate_AllPresent(t *testing.T) {
	cfg := &Config{
		DatabaseURL:       "postgres://localhost/portal",
		TemporalAddress:   "localhost:7233",
		HTTPListenAddr:    ":8090",
		GraphTenantID:     "tenant",
		GraphClientID:     "client",
		GraphClientSecret: "secret",
	}

	assert.NoError(t, cfg.Validate("portal-api"))
	assert.NoError(t, cfg.Validate("worker"))
}
