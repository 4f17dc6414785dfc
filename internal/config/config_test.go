package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "SESSION_BACKEND", "NOTIFY_WORKERS", "KAFKA_BROKERS", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8082", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, 2, cfg.NotifyWorkers)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Nil(t, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("SHUTDOWN_TIMEOUT", "3")
	t.Setenv("NOTIFY_WORKERS", "5")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2 ,")
	t.Setenv("CORS_ORIGINS", "https://shop.example")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5, cfg.NotifyWorkers)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://shop.example"}, cfg.CORSOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("NOTIFY_WORKERS", "many")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	assert.Equal(t, 2, cfg.NotifyWorkers)
	assert.False(t, cfg.CookieSecure)
}
