package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty directory so a club.env in the
// working tree cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CLUB_CONFIG_FILE", filepath.Join(dir, "club.env"))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "club.db", cfg.DatabaseURL)
	require.Equal(t, "clubhouse", cfg.Issuer)
	require.Empty(t, cfg.BootstrapToken)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, httpx.DefaultRateLimits(), cfg.RateLimits())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CLUB_PORT", "9090")
	t.Setenv("CLUB_DATABASE_DRIVER", "Postgres")
	t.Setenv("CLUB_DATABASE_URL", "postgres://club@localhost/club")
	t.Setenv("CLUB_SESSION_TTL", "30m")
	t.Setenv("CLUB_BOOTSTRAP_TOKEN", "let-me-in")
	t.Setenv("CLUB_RATE_LIMIT_STRICT", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, "postgres://club@localhost/club", cfg.DatabaseURL)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, "let-me-in", cfg.BootstrapToken)

	limits := cfg.RateLimits()
	require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}, limits.Strict)
	require.Equal(t, httpx.DefaultRateLimits().Moderate, limits.Moderate)
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolate(t)
	body := "PORT=7000\nSITE_URL=https://club.example.org\nLOG_FORMAT=text\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "club.env"), []byte(body), 0o600))

	// The environment still wins over the file.
	t.Setenv("CLUB_LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Port)
	require.Equal(t, "https://club.example.org", cfg.SiteURL)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"CLUB_DATABASE_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"CLUB_DATABASE_DRIVER": "postgres"}},
		{"port out of range", map[string]string{"CLUB_PORT": "70000"}},
		{"zero session ttl", map[string]string{"CLUB_SESSION_TTL": "0s"}},
		{"empty issuer", map[string]string{"CLUB_ISSUER": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
