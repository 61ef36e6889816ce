// Package config loads onboardiq configuration from defaults, an optional
// YAML file and the environment, in that order of precedence.
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server      Server      `yaml:"server"`
	Database    Database    `yaml:"database"`
	Credentials Credentials `yaml:"credentials"`
	Mail        Mail        `yaml:"mail"`
	Logging     Logging     `yaml:"logging"`
	Telemetry   Telemetry   `yaml:"telemetry"`
	Bootstrap   Bootstrap   `yaml:"bootstrap"`
}

// Server holds HTTP listener settings.
type Server struct {
	Port            string        `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Database holds the SQLite location.
type Database struct {
	Path string `yaml:"path" env:"DB_PATH"`
}

// Credentials controls generated passwords and their hashing.
type Credentials struct {
	PasswordLength int `yaml:"password_length" env:"PASSWORD_LENGTH"`
	BcryptCost     int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

// Mail selects the outbound transport.
type Mail struct {
	Transport     string `yaml:"transport" env:"MAIL_TRANSPORT"` // "sendgrid" or "log"
	FromEmail     string `yaml:"from_email" env:"MAIL_FROM_EMAIL"`
	FromName      string `yaml:"from_name" env:"MAIL_FROM_NAME"`
	SendGridKey   string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	SendGridHost  string `yaml:"sendgrid_host" env:"SENDGRID_HOST"`
	RetryAttempts int    `yaml:"retry_attempts" env:"NOTIFICATION_RETRY_ATTEMPTS"`
}

// Logging configures the slog handler.
type Logging struct {
	Level   string `yaml:"level" env:"LOG_LEVEL"`
	Service string `yaml:"service" env:"LOG_SERVICE"`
}

// Bootstrap names the platform administrator ensured at startup. The
// administrator's ID is the X-Actor-ID used for reviews.
type Bootstrap struct {
	SuperAdminID    string `yaml:"super_admin_id" env:"SUPERADMIN_ID"`
	SuperAdminEmail string `yaml:"super_admin_email" env:"SUPERADMIN_EMAIL"`
}

// Telemetry configures the OpenTelemetry providers.
type Telemetry struct {
	ServiceName    string `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	ServiceVersion string `yaml:"service_version" env:"OTEL_SERVICE_VERSION"`
	Environment    string `yaml:"environment" env:"OTEL_ENVIRONMENT"`
	Exporter       string `yaml:"exporter" env:"OTEL_EXPORTER"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Path: "onboardiq.db",
		},
		Credentials: Credentials{
			PasswordLength: 16,
		},
		Mail: Mail{
			Transport:     "log",
			FromEmail:     "noreply@onboardiq.dev",
			FromName:      "onboardiq",
			RetryAttempts: 5,
		},
		Logging: Logging{
			Level:   "info",
			Service: "onboardiq",
		},
		Telemetry: Telemetry{
			ServiceName:    "onboardiq",
			ServiceVersion: "0.1.0",
			Environment:    "development",
			Exporter:       "stdout",
		},
		Bootstrap: Bootstrap{
			SuperAdminEmail: "admin@onboardiq.dev",
		},
	}
}
