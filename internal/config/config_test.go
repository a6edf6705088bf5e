// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
)

var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"CATALOG_PAGE_SIZE", "FORM_RATE_LIMIT",
}

// clearEnv sets every variable Load reads to the empty string, which
// envOrDefault treats the same as unset. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s: got %q, want %q", field, got, want)
		}
	}
	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("DBHost", cfg.DBHost, "localhost")
	check("DBUser", cfg.DBUser, "apifinder")
	check("DBName", cfg.DBName, "apifinder")
	check("DBSSLMode", cfg.DBSSLMode, "disable")
	check("ValkeyHost", cfg.ValkeyHost, "")
	check("ValkeyPort", cfg.ValkeyPort, "6379")

	if cfg.PageSize != 1000 {
		t.Errorf("PageSize: got %d, want 1000", cfg.PageSize)
	}
	if cfg.FormRateLimit != 10 {
		t.Errorf("FormRateLimit: got %d, want 10", cfg.FormRateLimit)
	}
	if cfg.CacheEnabled() {
		t.Error("cache should be disabled without VALKEY_HOST")
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
}

func TestLoad_ProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for default password in production")
	}
	if !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Errorf("error should mention POSTGRES_PASSWORD, got %v", err)
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	if _, err := Load(); err != nil {
		t.Errorf("Load() with password set: %v", err)
	}
}

func TestLoad_InvalidPageSize(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a number", "lots"},
		{"zero", "0"},
		{"negative", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CATALOG_PAGE_SIZE", tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for CATALOG_PAGE_SIZE=%q", tt.value)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433",
		DBName: "catalog", DBSSLMode: "require",
	}
	want := "postgres://u:p@db:5433/catalog?sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9090"}
	if got := cfg.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9090")
	}
}
