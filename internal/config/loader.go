package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "onboardiq.yaml"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ONBOARDIQ_"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
func Load() (*Config, error) {
	path := os.Getenv(EnvPrefix + "CONFIG")
	if path == "" {
		path = DefaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-supplied path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if cfg.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if cfg.Credentials.PasswordLength < 8 {
		errs = append(errs, fmt.Errorf("credentials.password_length must be at least 8, got %d", cfg.Credentials.PasswordLength))
	}
	if c := cfg.Credentials.BcryptCost; c != 0 && (c < 4 || c > 31) {
		errs = append(errs, fmt.Errorf("credentials.bcrypt_cost must be between 4 and 31, got %d", c))
	}

	switch cfg.Mail.Transport {
	case "log":
	case "sendgrid":
		if cfg.Mail.SendGridKey == "" {
			errs = append(errs, errors.New("mail.sendgrid_api_key is required for the sendgrid transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("mail.transport must be sendgrid or log, got %q", cfg.Mail.Transport))
	}
	if cfg.Mail.FromEmail == "" {
		errs = append(errs, errors.New("mail.from_email is required"))
	}
	if cfg.Mail.RetryAttempts < 1 {
		errs = append(errs, errors.New("mail.retry_attempts must be at least 1"))
	}
	if cfg.Bootstrap.SuperAdminEmail == "" {
		errs = append(errs, errors.New("bootstrap.super_admin_email is required"))
	}

	if !slices.Contains([]string{"stdout", "otlp", "none"}, cfg.Telemetry.Exporter) {
		errs = append(errs, fmt.Errorf("telemetry.exporter must be stdout, otlp or none, got %q", cfg.Telemetry.Exporter))
	}

	return errors.Join(errs...)
}
