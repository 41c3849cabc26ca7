package confs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

const secret = "0123456789abcdef0123456789abcdef"

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": secret, "APP_TIMEZONE": "UTC"}))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3536", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.InviteTTL)
	assert.Equal(t, 10, cfg.FreeTaskLimit)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET":      secret,
		"DB_DRIVER":       "sqlite",
		"SQLITE_PATH":     "data/test.db",
		"INVITE_TTL":      "48h",
		"FREE_TASK_LIMIT": "3",
		"COOKIE_SECURE":   "false",
		"CORS_ORIGINS":    "https://app.example.com, http://localhost:8081",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/test.db", cfg.SQLitePath)
	assert.Equal(t, 48*time.Hour, cfg.InviteTTL)
	assert.Equal(t, 3, cfg.FreeTaskLimit)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:8081"}, cfg.CORSOrigins)
}

func TestFromEnvErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"short secret":   {"JWT_SECRET": "short"},
		"bad duration":   {"JWT_SECRET": secret, "INVITE_TTL": "soon"},
		"zero duration":  {"JWT_SECRET": secret, "SESSION_TTL": "0s"},
		"bad limit":      {"JWT_SECRET": secret, "FREE_TASK_LIMIT": "many"},
		"bad driver":     {"JWT_SECRET": secret, "DB_DRIVER": "mysql"},
		"bad timezone":   {"JWT_SECRET": secret, "APP_TIMEZONE": "Mars/Olympus"},
	}
	for name, m := range cases {
		_, err := FromEnv(env(m))
		assert.Error(t, err, name)
	}
}
