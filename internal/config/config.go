package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Server modes
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)

// Upload backends
const (
	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string   `yaml:"port" env:"PORT"`
		Mode            string   `yaml:"mode" env:"SERVER_MODE"`
		BaseURL         string   `yaml:"base_url" env:"SERVER_BASE_URL"`
		CORSOrigins     []string `yaml:"cors_origins" env:"CORS_ALLOWED_ORIGINS"`
		ShutdownTimeout string   `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret           string `yaml:"secret" env:"JWT_SECRET"`
		Expire           string `yaml:"expire" env:"JWT_EXPIRE"`
		CookieExpireDays int    `yaml:"cookie_expire_days" env:"JWT_COOKIE_EXPIRE"`
		Issuer           string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Upload struct {
		Backend    string `yaml:"backend" env:"UPLOAD_BACKEND"`
		Path       string `yaml:"path" env:"FILE_UPLOAD_PATH"`
		PublicPath string `yaml:"public_path" env:"FILE_PUBLIC_PATH"`
		MaxSize    int64  `yaml:"max_size" env:"MAX_FILE_UPLOAD"`
		S3         struct {
			Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
			Region    string `yaml:"region" env:"S3_REGION"`
			Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
			PublicURL string `yaml:"public_url" env:"S3_PUBLIC_URL"`
		} `yaml:"s3"`
	} `yaml:"upload"`

	Geocoder struct {
		Provider   string `yaml:"provider" env:"GEOCODER_PROVIDER"`
		APIKey     string `yaml:"api_key" env:"GEOCODER_API_KEY"`
		BaseURL    string `yaml:"base_url" env:"GEOCODER_URL"`
		MaxRetries int    `yaml:"max_retries" env:"GEOCODER_MAX_RETRIES"`
		Timeout    string `yaml:"timeout" env:"GEOCODER_TIMEOUT"`
	} `yaml:"geocoder"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_EMAIL"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromEmail string `yaml:"from_email" env:"FROM_EMAIL"`
		FromName  string `yaml:"from_name" env:"FROM_NAME"`
	} `yaml:"smtp"`

	Seed struct {
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		DataDir       string `yaml:"data_dir" env:"SEED_DATA_DIR"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from defaults, an optional YAML file, optional
// .env files and finally the process environment.
func LoadConfig(configPath string, envFiles ...string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadDotEnv loads .env files that exist; variables already set in the
// environment keep their value.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "5000"
	config.Server.Mode = ModeDevelopment
	config.Server.CORSOrigins = []string{"*"}
	config.Server.ShutdownTimeout = "5s"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "devcamper"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	// JWT defaults
	config.JWT.Expire = "720h"
	config.JWT.CookieExpireDays = 30
	config.JWT.Issuer = "devcamper.io"

	// Upload defaults
	config.Upload.Backend = UploadBackendLocal
	config.Upload.Path = "./public/uploads"
	config.Upload.PublicPath = "/uploads"
	config.Upload.MaxSize = 1000000

	// Geocoder defaults
	config.Geocoder.Provider = "mapquest"
	config.Geocoder.BaseURL = "https://www.mapquestapi.com/geocoding/v1/address"
	config.Geocoder.MaxRetries = 3
	config.Geocoder.Timeout = "10s"

	// SMTP defaults
	config.SMTP.Port = 2525
	config.SMTP.FromEmail = "noreply@devcamper.io"
	config.SMTP.FromName = "DevCamper"

	// Seed defaults
	config.Seed.AdminName = "Admin"
	config.Seed.DataDir = "_data"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Server.Mode {
	case ModeDevelopment, ModeProduction, ModeTest:
	default:
		return fmt.Errorf("unknown server mode %q", config.Server.Mode)
	}

	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.Expire); err != nil {
		return fmt.Errorf("invalid JWT expire format: %w", err)
	}

	if config.JWT.CookieExpireDays <= 0 {
		return fmt.Errorf("JWT cookie expire must be a positive number of days")
	}

	if config.Upload.MaxSize <= 0 {
		return fmt.Errorf("max file upload must be positive")
	}

	switch config.Upload.Backend {
	case UploadBackendLocal:
		if config.Upload.Path == "" {
			return fmt.Errorf("file upload path is required")
		}
	case UploadBackendS3:
		if config.Upload.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 upload backend")
		}
	default:
		return fmt.Errorf("unknown upload backend %q", config.Upload.Backend)
	}

	return nil
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.Server.Mode == ModeProduction
}

// JWTExpiration returns the parsed token lifetime
func (c *Config) JWTExpiration() time.Duration {
	d, err := time.ParseDuration(c.JWT.Expire)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

// CookieMaxAge returns the token cookie lifetime in seconds
func (c *Config) CookieMaxAge() int {
	return c.JWT.CookieExpireDays * 24 * 60 * 60
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}
