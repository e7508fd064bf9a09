package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port    int           `env:"STATBOARD_TEST_PORT" envDefault:"123"`
	BaseURL string        `env:"STATBOARD_TEST_BASE_URL" envDefault:"http://localhost:8095"`
	Timeout time.Duration `env:"STATBOARD_TEST_TIMEOUT" envDefault:"5s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("port = %d, want 123", cfg.Port)
	}
	if cfg.BaseURL != "http://localhost:8095" {
		t.Fatalf("base_url = %q, want %q", cfg.BaseURL, "http://localhost:8095")
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %s, want %s", cfg.Timeout, 5*time.Second)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("STATBOARD_TEST_BASE_URL", "http://users.internal")
	t.Setenv("STATBOARD_TEST_TIMEOUT", "250ms")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.BaseURL != "http://users.internal" {
		t.Fatalf("base_url = %q, want %q", cfg.BaseURL, "http://users.internal")
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("timeout = %s, want %s", cfg.Timeout, 250*time.Millisecond)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("STATBOARD_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvRejectsNilTarget(t *testing.T) {
	if err := ParseEnv(nil); err == nil {
		t.Fatal("expected nil target error")
	}
}
