package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// LevelForEnvironment maps APP_ENV onto a default log level
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment string `json:"environment"`
	Port        int    `json:"port"`
	Host        string `json:"host"`
	FrontendURL string `json:"frontend_url"`

	// TrustedProxies lists the proxies whose X-Forwarded-For is believed; empty trusts none
	TrustedProxies []string `json:"trusted_proxies"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	AuthPassword  string        `json:"auth_password"`
	AuthSecretKey string        `json:"auth_secret_key"`
	AuthTokenTTL  time.Duration `json:"auth_token_ttl"`

	// Database configuration
	DBDriver     string `json:"db_driver"`
	DBHost       string `json:"db_host"`
	DBPort       string `json:"db_port"`
	DBUser       string `json:"db_user"`
	DBPassword   string `json:"db_password"`
	DBName       string `json:"db_name"`
	DBSSLMode    string `json:"db_sslmode"`
	DBPath       string `json:"db_path"`
	SeedDatabase bool   `json:"seed_database"`

	// Image storage configuration
	StorageDriver    string `json:"storage_driver"`
	StorageLocalDir  string `json:"storage_local_dir"`
	StoragePublicURL string `json:"storage_public_url"`
	S3Endpoint       string `json:"s3_endpoint"`
	S3Region         string `json:"s3_region"`
	S3Bucket         string `json:"s3_bucket"`
	S3AccessKey      string `json:"s3_access_key"`
	S3SecretKey      string `json:"s3_secret_key"`
	S3UseSSL         bool   `json:"s3_use_ssl"`

	// Image processing configuration
	ImageMaxBytes    int64 `json:"image_max_bytes"`
	ImageMaxWidth    int   `json:"image_max_width"`
	ImageJPEGQuality int   `json:"image_jpeg_quality"`
}

// IsProduction reports whether the service runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// splitList parses a comma-separated variable, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, FrontendURL: %s, TrustedProxies: %v, LogLevel: %s, "+
		"AuthPassword: [REDACTED], AuthSecretKey: [REDACTED], AuthTokenTTL: %s, "+
		"DBDriver: %s, DBHost: %s, DBPort: %s, DBUser: %s, DBPassword: [REDACTED], DBName: %s, DBPath: %s, "+
		"StorageDriver: %s, StorageLocalDir: %s, S3Endpoint: %s, S3Bucket: %s, S3AccessKey: %s, S3SecretKey: [REDACTED]}",
		c.Environment, c.Port, c.Host, c.FrontendURL, c.TrustedProxies, c.LogLevel,
		c.AuthTokenTTL,
		c.DBDriver, c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBPath,
		c.StorageDriver, c.StorageLocalDir, c.S3Endpoint, c.S3Bucket, maskKey(c.S3AccessKey))
}

// maskKey keeps the first characters of an access key for troubleshooting
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}

// Validate checks ranges, enumerations and the settings required by the selected drivers
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.FrontendURL, is.URL),
		validation.Field(&c.LogLevel,
			validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal", "panic")),
		validation.Field(&c.AuthPassword, validation.Required),
		validation.Field(&c.AuthSecretKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.AuthTokenTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.DBDriver, validation.Required, validation.In("sqlite", "postgres", "postgresql", "mysql")),
		validation.Field(&c.DBPath, validation.When(c.DBDriver == "sqlite", validation.Required)),
		validation.Field(&c.DBHost, validation.When(c.DBDriver != "sqlite", validation.Required)),
		validation.Field(&c.DBName, validation.When(c.DBDriver != "sqlite", validation.Required)),
		validation.Field(&c.StorageDriver, validation.Required, validation.In("local", "s3")),
		validation.Field(&c.StorageLocalDir, validation.When(c.StorageDriver == "local", validation.Required)),
		validation.Field(&c.StoragePublicURL, is.URL),
		validation.Field(&c.S3Endpoint, validation.When(c.StorageDriver == "s3", validation.Required)),
		validation.Field(&c.S3Bucket, validation.When(c.StorageDriver == "s3", validation.Required)),
		validation.Field(&c.S3AccessKey, validation.When(c.StorageDriver == "s3", validation.Required)),
		validation.Field(&c.S3SecretKey, validation.When(c.StorageDriver == "s3", validation.Required)),
		validation.Field(&c.ImageMaxBytes, validation.Required, validation.Min(int64(1024))),
		validation.Field(&c.ImageMaxWidth, validation.Required, validation.Min(16)),
		validation.Field(&c.ImageJPEGQuality, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("APP_PORT: %w", err)
	}

	ttl, err := time.ParseDuration(GetEnvWithDefault("AUTH_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("AUTH_TOKEN_TTL: %w", err)
	}

	config := &Config{
		Environment: GetEnvWithDefault("APP_ENV", "development"),
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		FrontendURL: GetEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:    strings.ToLower(os.Getenv("LOG_LEVEL")),

		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),

		AuthPassword:  os.Getenv("AUTH_PASSWORD"),
		AuthSecretKey: os.Getenv("AUTH_SECRET_KEY"),
		AuthTokenTTL:  ttl,

		DBDriver:     strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite")),
		DBHost:       GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:       os.Getenv("DB_PORT"),
		DBUser:       GetEnvWithDefault("DB_USER", "tapas"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       GetEnvWithDefault("DB_NAME", "tapas"),
		DBSSLMode:    GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:       GetEnvWithDefault("DB_PATH", "tapas.sqlite"),
		SeedDatabase: GetEnvAsType("SEED_DATABASE", false),

		StorageDriver:    strings.ToLower(GetEnvWithDefault("STORAGE_DRIVER", "local")),
		StorageLocalDir:  GetEnvWithDefault("STORAGE_LOCAL_DIR", "uploads"),
		StoragePublicURL: os.Getenv("STORAGE_PUBLIC_URL"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3Region:         GetEnvWithDefault("S3_REGION", "us-east-1"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		S3UseSSL:         GetEnvAsType("S3_USE_SSL", true),

		ImageMaxBytes:    int64(GetEnvAsType("IMAGE_MAX_BYTES", 10<<20)),
		ImageMaxWidth:    GetEnvAsType("IMAGE_MAX_WIDTH", 1200),
		ImageJPEGQuality: GetEnvAsType("IMAGE_JPEG_QUALITY", 85),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	case time.Duration:
		durationValue, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return any(durationValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
