package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `json:"server"`
	Database      DatabaseConfig      `json:"database"`
	Auth          AuthConfig          `json:"auth"`
	Notifications NotificationsConfig `json:"notifications"`
	Elasticsearch ElasticsearchConfig `json:"elasticsearch"`
	Reminders     RemindersConfig     `json:"reminders"`
	Logging       LoggingConfig       `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

// AuthConfig holds token verification settings.
type AuthConfig struct {
	JWTSecret string `json:"jwt_secret"`
}

// NotificationsConfig controls the external delivery channels.
type NotificationsConfig struct {
	Region       string `json:"region"`
	EmailFrom    string `json:"email_from"`
	EmailEnabled bool   `json:"email_enabled"`
	SMSEnabled   bool   `json:"sms_enabled"`
}

// ElasticsearchConfig controls the audit search mirror.
type ElasticsearchConfig struct {
	Enabled   bool     `json:"enabled"`
	Addresses []string `json:"addresses"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Index     string   `json:"index"`
}

// RemindersConfig controls the stalled-request sweep.
type RemindersConfig struct {
	Enabled bool          `json:"enabled"`
	Spec    string        `json:"spec"`
	MaxAge  time.Duration `json:"max_age"`
}

// LoggingConfig selects the log level and encoder format.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "design_requests",
			SSLMode: "disable",
		},
		Notifications: NotificationsConfig{
			Region: "us-east-1",
		},
		Elasticsearch: ElasticsearchConfig{
			Addresses: []string{"http://localhost:9200"},
			Index:     "request-events",
		},
		Reminders: RemindersConfig{
			Enabled: true,
			Spec:    "0 9 * * *",
			MaxAge:  48 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}

	return config, nil
}

// GetDatabaseURL builds the postgres DSN.
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

// GetServerAddr returns the listen address.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Notifications.Region = region
	}
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		config.Notifications.EmailFrom = from
	}
	if v := os.Getenv("EMAIL_ENABLED"); v != "" {
		config.Notifications.EmailEnabled = v == "true"
	}
	if v := os.Getenv("SMS_ENABLED"); v != "" {
		config.Notifications.SMSEnabled = v == "true"
	}
	if v := os.Getenv("ELASTICSEARCH_ENABLED"); v != "" {
		config.Elasticsearch.Enabled = v == "true"
	}
	if addrs := os.Getenv("ELASTICSEARCH_ADDRESSES"); addrs != "" {
		config.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
	if user := os.Getenv("ELASTICSEARCH_USERNAME"); user != "" {
		config.Elasticsearch.Username = user
	}
	if pass := os.Getenv("ELASTICSEARCH_PASSWORD"); pass != "" {
		config.Elasticsearch.Password = pass
	}
	if index := os.Getenv("ELASTICSEARCH_INDEX"); index != "" {
		config.Elasticsearch.Index = index
	}
	if v := os.Getenv("REMINDERS_ENABLED"); v != "" {
		config.Reminders.Enabled = v == "true"
	}
	if spec := os.Getenv("REMINDERS_SPEC"); spec != "" {
		config.Reminders.Spec = spec
	}
	if age := os.Getenv("REMINDERS_MAX_AGE"); age != "" {
		if d, err := time.ParseDuration(age); err == nil {
			config.Reminders.MaxAge = d
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}
