// Package config provides runtime configuration values for the shop and speedrun servers.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for both HTTP servers, storage and notification delivery.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	GinMode         string
	LogLevel        string
	TLSSelfSigned   bool

	DBPath string

	SessionBackend string
	RedisAddr      string
	SessionTTL     time.Duration
	CookieSecure   bool

	NotifyBackend   string
	NotifyWorkers   int
	NotifyQueueSize int
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	SMTPFrom        string
	KafkaBrokers    []string
	KafkaTopic      string

	CORSOrigins []string

	SpeedrunHTTPAddr    string
	SpeedrunDatabaseURL string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func listenv(key, def string) []string {
	v := getenv(key, def)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads an optional .env file and collects configuration from the environment with defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8082"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		GinMode:         getenv("GIN_MODE", "release"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		TLSSelfSigned:   boolenv("TLS_SELF_SIGNED", false),

		DBPath: getenv("DB_PATH", "./shop.db"),

		SessionBackend: getenv("SESSION_BACKEND", "memory"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		SessionTTL:     durenvs("SESSION_TTL", 30*24*3600),
		CookieSecure:   boolenv("COOKIE_SECURE", false),

		NotifyBackend:   getenv("NOTIFY_BACKEND", "smtp"),
		NotifyWorkers:   atoienv("NOTIFY_WORKERS", 2),
		NotifyQueueSize: atoienv("NOTIFY_QUEUE_SIZE", 256),
		SMTPHost:        getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        atoienv("SMTP_PORT", 587),
		SMTPUser:        getenv("SMTP_USER", ""),
		SMTPPass:        getenv("SMTP_PASS", ""),
		SMTPFrom:        getenv("SMTP_FROM", "noreply@shopfront.local"),
		KafkaBrokers:    listenv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:      getenv("KAFKA_TOPIC", "orders-confirmed"),

		CORSOrigins: listenv("CORS_ORIGINS", ""),

		SpeedrunHTTPAddr:    getenv("SPEEDRUN_HTTP_ADDR", ":8083"),
		SpeedrunDatabaseURL: getenv("SPEEDRUN_DATABASE_URL", "host=localhost user=postgres password=postgres dbname=speedrun port=5432 sslmode=disable"),
	}
}
