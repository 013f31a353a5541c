package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageLocal = "local"
	StorageGCS   = "gcs"

	defaultMaxUploadBytes = int64(10 << 20)
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
	}
	DB struct {
		User           string
		Password       string
		Name           string
		Host           string
		Port           string
		SSLMode        string
		MigrateOnStart bool
	}
	Storage struct {
		Backend        string
		LocalDir       string
		PublicBaseURL  string
		GCSBucket      string
		GCSProjectID   string
		GCSCredentials string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Upload struct {
		MaxBytes int64
	}
	Insights struct {
		SampleSize  int
		NumericMode string
		CacheSize   int
		CacheTTL    time.Duration
	}

	Config struct {
		App      APP
		DB       DB
		Storage  Storage
		MQ       MQ
		Upload   Upload
		Insights Insights
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}

func Load() Config {
	app := APP{
		Name:      getEnv("SERVICE_NAME", "sheetinsights"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", "8080"),
		Env:       getEnv("SERVICE_ENV", ""),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
	}
	db := DB{
		User:           getEnv("POSTGRES_USER", ""),
		Password:       getEnv("POSTGRES_PASSWORD", ""),
		Name:           getEnv("POSTGRES_DB", ""),
		Host:           getEnv("POSTGRES_HOST", ""),
		Port:           getEnv("POSTGRES_PORT", "5432"),
		SSLMode:        getEnv("POSTGRES_SSL_MODE", "disable"),
		MigrateOnStart: getEnvBool("POSTGRES_MIGRATE_ON_START", true),
	}
	storage := Storage{
		Backend:        strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		LocalDir:       getEnv("STORAGE_LOCAL_DIR", "uploads"),
		PublicBaseURL:  getEnv("STORAGE_PUBLIC_BASE_URL", "/uploads"),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
		GCSProjectID:   getEnv("GCS_PROJECT_ID", ""),
		GCSCredentials: getEnv("GCS_CREDENTIALS_FILE", ""),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "sheetinsights.events"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "sheetinsights.audit"),
	}
	upload := Upload{
		MaxBytes: getEnvInt64("UPLOAD_MAX_BYTES", defaultMaxUploadBytes),
	}
	insights := Insights{
		SampleSize:  getEnvInt("INSIGHTS_SAMPLE_SIZE", 100),
		NumericMode: strings.ToLower(getEnv("INSIGHTS_NUMERIC_MODE", "loose")),
		CacheSize:   getEnvInt("INSIGHTS_CACHE_SIZE", 512),
		CacheTTL:    getEnvDuration("INSIGHTS_CACHE_TTL", 10*time.Minute),
	}

	return Config{
		App:      app,
		DB:       db,
		Storage:  storage,
		MQ:       mq,
		Upload:   upload,
		Insights: insights,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
		c.DB.SSLMode,
	), nil
}

// MigrateDSN is the same DSN in the scheme golang-migrate registers for pgx v5.
func (c Config) MigrateDSN() (string, error) {
	dsn, err := c.DBDSN()
	if err != nil {
		return "", err
	}
	return "pgx5" + strings.TrimPrefix(dsn, "postgres"), nil
}

func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

func (c Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("SERVICE_JWT_SECRET is required")
	}
	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR is required for local storage")
		}
	case StorageGCS:
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for gcs storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.Insights.SampleSize <= 0 {
		return fmt.Errorf("INSIGHTS_SAMPLE_SIZE must be positive")
	}
	switch c.Insights.NumericMode {
	case "loose", "strict":
	default:
		return fmt.Errorf("INSIGHTS_NUMERIC_MODE must be loose or strict")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	return nil
}
