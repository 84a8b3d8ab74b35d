package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost   string
	AppPort   string
	AppReload bool
	GinMode   string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBLogLevel string

	SecretKey      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	BlocklistBackend string
	RedisAddr        string

	StorageBackend string
	UploadDir      string
	B2KeyID        string
	B2AppKey       string
	B2Bucket       string

	DefaultAdminEmail    string
	DefaultAdminUsername string
	DefaultAdminPassword string

	CORSAllowOrigins []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{
		AppHost:   getEnv("APP_HOST", "0.0.0.0"),
		AppPort:   getEnv("APP_PORT", "8000"),
		AppReload: boolEnv("APP_RELOAD", true),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "tasks_app"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		SecretKey:      getEnv("SECRET_KEY", "default-secret-key-change-me"),
		JWTIssuer:      getEnv("JWT_ISSUER", "edutask-api"),
		AccessTokenTTL: durationEnv("ACCESS_TOKEN_TTL", 30*time.Minute),

		BlocklistBackend: getEnv("BLOCKLIST_BACKEND", "memory"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		B2KeyID:        getEnv("B2_KEY_ID", ""),
		B2AppKey:       getEnv("B2_APP_KEY", ""),
		B2Bucket:       getEnv("B2_BUCKET", ""),

		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@example.com"),
		DefaultAdminUsername: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),

		CORSAllowOrigins: listEnv("CORS_ALLOW_ORIGINS", []string{"*"}),
	}

	// APP_RELOAD mirrors the development/production switch; GIN_MODE wins when set.
	cfg.GinMode = "release"
	if cfg.AppReload {
		cfg.GinMode = "debug"
	}
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)

	return cfg
}

// Addr returns the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return c.AppHost + ":" + c.AppPort
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// plain integers are minutes, matching ACCESS_TOKEN_EXPIRE_MINUTES deployments
		if minutes, convErr := strconv.Atoi(val); convErr == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
		log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
		return fallback
	}
	return d
}

func boolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
		return fallback
	}
	return parsed
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
