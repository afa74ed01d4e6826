package config

import (
	cryptoRand "crypto/rand"
	"encoding/base64"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port           int
	Environment    string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	// Storage
	StorageDriver string // mongo, postgres, memory
	MongoURL      string
	MongoDatabase string
	DatabaseURL   string

	// Optional read cache
	RedisURL string
	CacheTTL time.Duration

	// Token signing. Empty JWT_SECRET means a fresh secret per process,
	// so every restart logs everyone out.
	JWTSecret          string
	JWTSecretGenerated bool

	// Site file with identities and content defaults; empty uses the built-in file
	SiteConfigPath string

	// Admin seeded from the environment, merged with the site file
	AdminUsername    string
	AdminPassword    string
	AdminEmail       string
	AdminDisplayName string

	// Encryption at rest for contact messages; 64 hex chars, empty = disabled
	EncryptionKey string

	// Contact notifications
	MailgunDomain      string
	MailgunAPIKey      string
	MailgunFromEmail   string
	MailgunFromName    string
	ContactNotifyEmail string

	// PostHog Analytics settings
	PostHogAPIKey  string
	PostHogHost    string
	PostHogEnabled bool
}

// Load reads configuration from the environment, after loading an
// optional .env file from the working directory.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvInt("PORT", 8000),
		Environment:    getEnv("ENVIRONMENT", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),

		StorageDriver: getEnv("STORAGE_DRIVER", "mongo"),
		MongoURL:      getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("DB_NAME", "zirvehikayem"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		SiteConfigPath: getEnv("SITE_CONFIG", ""),

		AdminUsername:    getEnv("ADMIN_USERNAME", ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		AdminDisplayName: getEnv("ADMIN_DISPLAY_NAME", ""),

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunFromEmail:   getEnv("MAILGUN_FROM_EMAIL", "noreply@zirvehikayem.com"),
		MailgunFromName:    getEnv("MAILGUN_FROM_NAME", "Zirve Hikayem"),
		ContactNotifyEmail: getEnv("CONTACT_NOTIFY_EMAIL", ""),

		PostHogAPIKey:  getEnv("POSTHOG_API_KEY", ""),
		PostHogHost:    getEnv("POSTHOG_HOST", "https://eu.i.posthog.com"),
		PostHogEnabled: getEnvBool("POSTHOG_ENABLED", false),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = generateRandomSecret(32)
		cfg.JWTSecretGenerated = true
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// generateRandomSecret returns n random bytes, URL-safe base64 encoded
func generateRandomSecret(n int) string {
	buf := make([]byte, n)
	if _, err := cryptoRand.Read(buf); err != nil {
		panic("failed to generate random secret: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
