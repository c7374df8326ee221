package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Admin    AdminConfig
	QRSecret string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	// Driver selects the row-store backend at composition time:
	// "postgres" for production, "sqlite" for local/dev.
	Driver      string
	PostgresDSN string
	SQLitePath  string
}

type RedisConfig struct {
	Addr string
	// QuotaTTL bounds the lifetime of per-(user,day) quota keys. 48h keeps
	// yesterday's key around across the midnight boundary.
	QuotaTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
}

type AuthConfig struct {
	// BaseURL of the external auth provider (GoTrue-style REST API).
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type AdminConfig struct {
	// Email is the fixed admin identity honoured as the last step of the
	// admin precedence policy. Empty disables the allow-list path.
	Email string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8086"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "sqlite"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
			SQLitePath:  getEnv("SQLITE_PATH", "file:shrfa.db?cache=shared"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			QuotaTTL: time.Duration(getEnvInt("QUOTA_KEY_TTL_HOURS", 48)) * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", false),
		},
		Auth: AuthConfig{
			BaseURL: getEnv("AUTH_URL", "http://localhost:9999"),
			APIKey:  getEnv("AUTH_ANON_KEY", ""),
			Timeout: time.Duration(getEnvInt("AUTH_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Admin: AdminConfig{
			Email: getEnv("ADMIN_EMAIL", "shrfa@gmail.com"),
		},
		QRSecret: getEnv("QR_SECRET_KEY", "shrfa-dev-secret"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
