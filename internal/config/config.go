package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

var validate = newValidator()

// newValidator registers the custom "duration" tag: empty or a time.ParseDuration string
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.ParseDuration(s)
		return err == nil
	})
	return v
}

// Config structure represents the application configuration
type Config struct {
	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER" validate:"required,oneof=sqlite3 postgres duckdb"`
		Path            string `yaml:"path" env:"DB_PATH"`
		SchemaPath      string `yaml:"schema_path" env:"DB_SCHEMA_PATH" validate:"required"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" validate:"duration"`
		QueryTimeout    string `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT" validate:"duration"`
	} `yaml:"database"`

	Export struct {
		Dir    string `yaml:"dir" env:"EXPORT_DIR"`
		Indent int    `yaml:"indent" env:"EXPORT_INDENT" validate:"gte=0,lte=8"`
		S3     struct {
			Enabled   bool   `yaml:"enabled" env:"EXPORT_S3_ENABLED"`
			Region    string `yaml:"region" env:"EXPORT_S3_REGION"`
			Endpoint  string `yaml:"endpoint" env:"EXPORT_S3_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"EXPORT_S3_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"EXPORT_S3_SECRET_KEY"`
		} `yaml:"s3"`
	} `yaml:"export"`

	Console struct {
		HistoryFile      string `yaml:"history_file" env:"CONSOLE_HISTORY_FILE"`
		MaxStoreAttempts int    `yaml:"max_store_attempts" env:"CONSOLE_MAX_STORE_ATTEMPTS" validate:"gte=1"`
		ForcePlain       bool   `yaml:"force_plain" env:"CONSOLE_FORCE_PLAIN"`
	} `yaml:"console"`

	Queries struct {
		FailMarkCeiling int `yaml:"fail_mark_ceiling" env:"QUERIES_FAIL_MARK_CEILING" validate:"gte=0"`
	} `yaml:"queries"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error fatal"`
		Format string `yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=json text"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// The file is optional; defaults and env still apply without it
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Database defaults
	config.Database.Driver = DriverSQLite
	config.Database.Path = "HyperionDev.db"
	config.Database.SchemaPath = "create_database.sql"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.DBName = "hyperiondev"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 4
	config.Database.ConnMaxLifetime = "1h"

	// Export defaults
	config.Export.Dir = "."
	config.Export.Indent = 4

	// Console defaults
	config.Console.MaxStoreAttempts = 1

	// Logging defaults
	config.Logging.Level = "warn"
	config.Logging.Format = "text"
}

// Validate ensures that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(formatValidationError(verrs[0]))
		}
		return err
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for driver %s", c.Database.Driver)
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	}

	return nil
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return field + " must be at least " + e.Param()
	case "lte":
		return field + " must be at most " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "duration":
		return field + " must be a duration such as 30s or 1h"
	default:
		return field + " validation failed: " + e.Tag()
	}
}

// GetPostgresConnectionString returns the postgres URL with credentials escaped
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return dsn.String()
}

// DatabaseLocation describes where the configured database lives, for user-facing messages
func (c *Config) DatabaseLocation() string {
	if c.Database.Driver == DriverPostgres {
		return fmt.Sprintf("%s:%s/%s", c.Database.Host, c.Database.Port, c.Database.DBName)
	}
	return c.Database.Path
}
