package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	_ = os.Setenv("TEST_KEY", "test_value")
	defer func() { _ = os.Unsetenv("TEST_KEY") }()

	val := getEnv("TEST_KEY", "fallback")
	if val != "test_value" {
		t.Errorf("Expected test_value, got %s", val)
	}

	val = getEnv("NON_EXISTENT", "fallback")
	if val != "fallback" {
		t.Errorf("Expected fallback, got %s", val)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		key      string
		val      string
		fallback bool
		expected bool
	}{
		{"TEST_BOOL_TRUE", "true", false, true},
		{"TEST_BOOL_1", "1", false, true},
		{"TEST_BOOL_FALSE", "false", true, false},
		{"TEST_BOOL_0", "0", true, false},
		{"NON_EXISTENT", "", true, true},
		{"NON_EXISTENT", "", false, false},
	}

	for _, tt := range tests {
		if tt.val != "" {
			_ = os.Setenv(tt.key, tt.val)
		}
		res := getEnvBool(tt.key, tt.fallback)
		if res != tt.expected {
			t.Errorf("For %s=%s (fallback %v), expected %v, got %v", tt.key, tt.val, tt.fallback, tt.expected, res)
		}
		_ = os.Unsetenv(tt.key)
	}
}

func TestGetEnvInt(t *testing.T) {
	_ = os.Setenv("TEST_INT", "42")
	defer func() { _ = os.Unsetenv("TEST_INT") }()

	if res := getEnvInt("TEST_INT", 7); res != 42 {
		t.Errorf("Expected 42, got %d", res)
	}
	if res := getEnvInt("NON_EXISTENT", 7); res != 7 {
		t.Errorf("Expected fallback 7, got %d", res)
	}

	_ = os.Setenv("TEST_INT_BAD", "not-a-number")
	defer func() { _ = os.Unsetenv("TEST_INT_BAD") }()
	if res := getEnvInt("TEST_INT_BAD", 7); res != 7 {
		t.Errorf("Expected fallback 7 for garbage value, got %d", res)
	}
}

func TestLoadConfig(t *testing.T) {
	// Test failure without DATABASE_URL
	_ = os.Unsetenv("DATABASE_URL")
	_, err := LoadConfig()
	if err == nil {
		t.Error("Expected error without DATABASE_URL")
	}

	// Test success with DATABASE_URL
	_ = os.Setenv("DATABASE_URL", "postgres://localhost:5432/whoishistory?sslmode=disable")
	defer func() { _ = os.Unsetenv("DATABASE_URL") }()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Error("Expected DatabaseURL to be set")
	}
	if cfg.Port != "5000" { // Default
		t.Errorf("Expected default port 5000, got %s", cfg.Port)
	}
	if !cfg.CacheEnabled {
		t.Error("Expected caching enabled by default")
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Errorf("Expected default cache TTL 60s, got %v", cfg.CacheTTL)
	}
}
