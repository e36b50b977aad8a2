package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_EXPIRES_IN", "AI_TIMEOUT", "AMQP_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != 30*24*time.Hour {
		t.Errorf("expected 30 day token lifetime, got %s", cfg.JWTExpirationDur)
	}
	if cfg.AITimeout != 20*time.Second {
		t.Errorf("expected 20s AI timeout, got %s", cfg.AITimeout)
	}
	if cfg.AMQPURL != "" {
		t.Errorf("expected events disabled by default, got %q", cfg.AMQPURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("AI_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.JWTExpirationDur != 2*time.Hour {
		t.Errorf("expected 2h, got %s", cfg.JWTExpirationDur)
	}
	if cfg.AITimeout != 20*time.Second {
		t.Errorf("invalid duration should fall back to 20s, got %s", cfg.AITimeout)
	}
}

func TestPostgresURL(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.PostgresURL(); got != want {
		t.Errorf("PostgresURL() = %q, want %q", got, want)
	}
}
