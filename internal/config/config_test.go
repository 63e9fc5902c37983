package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k8Jn2mPq9xVw4tYz7hBc5fGd3sRa6eLu"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 5, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "auth-token", cfg.Cookie.AccessName)
	assert.Equal(t, "refresh-token", cfg.Cookie.RefreshName)
	assert.False(t, cfg.Cookie.Secure)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadProductionSecureCookies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.True(t, cfg.Cookie.Secure)
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "staging")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV")
}

func TestLoadRequiresDBPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", testSecret)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestLoadRejectsLowEntropySecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", strings.Repeat("ab", 20))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy")
}

func TestLoadRejectsNonPositiveAttemptBudget(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOGIN_MAX_ATTEMPTS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOGIN_MAX_ATTEMPTS")
}

func TestHasMinimumEntropy(t *testing.T) {
	assert.True(t, hasMinimumEntropy(testSecret))
	assert.False(t, hasMinimumEntropy(strings.Repeat("a", 64)))
	assert.False(t, hasMinimumEntropy("abcdabcdabcdabcdabcdabcdabcdabcd"))
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "newsportal_app",
		Password: "secret",
		Database: "newsportal",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=newsportal_app password=secret dbname=newsportal sslmode=require",
		cfg.DSN())
}

func TestDurationEnvAcceptsMinutes(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY_MINUTES", "30")
	assert.Equal(t, 30*time.Minute, getDurationEnv("JWT_ACCESS_EXPIRY_MINUTES", time.Minute))

	t.Setenv("JWT_ACCESS_EXPIRY_MINUTES", "45s")
	assert.Equal(t, 45*time.Second, getDurationEnv("JWT_ACCESS_EXPIRY_MINUTES", time.Minute))
}
