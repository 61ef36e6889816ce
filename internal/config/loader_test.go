package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "onboardiq.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	want := Defaults()
	if cfg.Server.Port != want.Server.Port {
		t.Errorf("Port = %q, want %q", cfg.Server.Port, want.Server.Port)
	}
	if cfg.Credentials.PasswordLength != 16 {
		t.Errorf("PasswordLength = %d, want 16", cfg.Credentials.PasswordLength)
	}
	if cfg.Mail.Transport != "log" {
		t.Errorf("Transport = %q, want %q", cfg.Mail.Transport, "log")
	}
}

func TestLoadFrom_Precedence(t *testing.T) {
	path := writeYAML(t, `
server:
  port: "9000"
  shutdown_timeout: 3s
credentials:
  password_length: 20
logging:
  level: debug
`)
	t.Setenv("ONBOARDIQ_PORT", "9100")
	t.Setenv("ONBOARDIQ_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Server.Port != "9100" {
		t.Errorf("Port = %q, want env value %q", cfg.Server.Port, "9100")
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want yaml value 3s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Credentials.PasswordLength != 20 {
		t.Errorf("PasswordLength = %d, want yaml value 20", cfg.Credentials.PasswordLength)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want env value %q", cfg.Logging.Level, "warn")
	}
	if cfg.Logging.Service != "onboardiq" {
		t.Errorf("Service = %q, want default", cfg.Logging.Service)
	}
}

func TestLoadFrom_Bootstrap(t *testing.T) {
	path := writeYAML(t, `
bootstrap:
  super_admin_email: ops@acme.com
`)
	t.Setenv("ONBOARDIQ_SUPERADMIN_ID", "root")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Bootstrap.SuperAdminEmail != "ops@acme.com" || cfg.Bootstrap.SuperAdminID != "root" {
		t.Errorf("Bootstrap = %+v, want ops@acme.com / root", cfg.Bootstrap)
	}

	path = writeYAML(t, `
bootstrap:
  super_admin_email: ""
`)
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "super_admin_email") {
		t.Errorf("expected super_admin_email validation error, got %v", err)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := writeYAML(t, "server: [unclosed")

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"short password", map[string]string{"ONBOARDIQ_PASSWORD_LENGTH": "6"}, "password_length"},
		{"unknown transport", map[string]string{"ONBOARDIQ_MAIL_TRANSPORT": "pigeon"}, "mail.transport"},
		{"sendgrid without key", map[string]string{"ONBOARDIQ_MAIL_TRANSPORT": "sendgrid"}, "sendgrid_api_key"},
		{"zero retries", map[string]string{"ONBOARDIQ_NOTIFICATION_RETRY_ATTEMPTS": "0"}, "retry_attempts"},
		{"bad exporter", map[string]string{"ONBOARDIQ_OTEL_EXPORTER": "jaeger"}, "telemetry.exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFrom_BadEnvValue(t *testing.T) {
	t.Setenv("ONBOARDIQ_PASSWORD_LENGTH", "sixteen")

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected env parse error")
	}
}
