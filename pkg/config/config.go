package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is built once in main and passed by reference to every component
// that needs it. There is no cached global.
type Config struct {
	ServiceName string

	ServerPort int
	CORSOrigin string

	PublicBaseURL string
	UploadDir     string

	DatabaseURL string

	JWTSecret    []byte
	JWTExpiresIn time.Duration

	KafkaBrokers []string

	LogLevel string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "inventory"),

		ServerPort: EnvIntDefault("PORT", 3000),
		CORSOrigin: EnvDefault("CORS_ORIGIN", "http://localhost:5173"),

		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		UploadDir:     EnvDefault("UPLOAD_DIR", "uploads"),

		DatabaseURL: databaseURL(),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		JWTExpiresIn: EnvDurationDefault("JWT_EXPIRES_IN", time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		LogLevel: os.Getenv("LOG_LEVEL"),
	}
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// individual DB_* variables.
func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		EnvDefault("DB_USER", "hortti"),
		EnvDefault("DB_PASSWORD", "hortti"),
		EnvDefault("DB_HOST", "localhost"),
		EnvDefault("DB_PORT", "5432"),
		EnvDefault("DB_NAME", "hortti_inventory"),
	)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
