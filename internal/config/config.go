package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	AppName            string
	ConnectTimeoutSec  int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// BackendConfig describes the managed backend: where its functions live and
// the secrets used to call them and to verify user access tokens.
type BackendConfig struct {
	FunctionsURL    string
	ServiceKey      string
	JWTSecret       string
	FunctionTimeout time.Duration
}

// RedisConfig holds the optional Redis connection used by the checkout store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig drives the query cache policy of the entity hooks.
type CacheConfig struct {
	StaleTime    time.Duration
	PollInterval time.Duration
	SignedURLTTL time.Duration
}

// CheckoutConfig selects where the checkout session id is persisted.
type CheckoutConfig struct {
	Store     string // "file" or "redis"
	FilePath  string
	Namespace string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Timezone    string
	AdminEmails []string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Backend     BackendConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Checkout    CheckoutConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		AdminEmails: getEnvList("ADMIN_EMAILS"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			AppName:            getEnv("DB_APPLICATION_NAME", "studyhub"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Backend: BackendConfig{
			FunctionsURL:    getEnv("BACKEND_FUNCTIONS_URL", ""),
			ServiceKey:      getEnv("BACKEND_SERVICE_KEY", ""),
			JWTSecret:       getEnv("BACKEND_JWT_SECRET", ""),
			FunctionTimeout: getEnvDuration("BACKEND_FUNCTION_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			StaleTime:    getEnvDuration("CACHE_STALE_TIME", 5*time.Minute),
			PollInterval: getEnvDuration("CACHE_POLL_INTERVAL", 10*time.Second),
			SignedURLTTL: getEnvDuration("SIGNED_URL_TTL", time.Hour),
		},
		Checkout: CheckoutConfig{
			Store:     getEnv("CHECKOUT_STORE", "file"),
			FilePath:  getEnv("CHECKOUT_FILE", ".studyhub-state.json"),
			Namespace: getEnv("CHECKOUT_NAMESPACE", "studyhub"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d >= 0 {
			return d
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	v := os.Getenv(key)
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
