package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "NODE_ENV", "SERVER_ADDR", "PORT", "DB_API_BASE", "DB_API_TIMEOUT", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "MAX_QUERY_LENGTH"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":3000")
	}
	if cfg.DBAPITimeout != 10*time.Second {
		t.Errorf("DBAPITimeout = %v, want 10s", cfg.DBAPITimeout)
	}
	if cfg.RateLimitMax != 3 || cfg.RateLimitWindow != time.Second {
		t.Errorf("rate limit = %d/%v, want 3/1s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.MaxQueryLength != 500 {
		t.Errorf("MaxQueryLength = %d, want 500", cfg.MaxQueryLength)
	}
	if cfg.Source() != SourceMock {
		t.Errorf("Source() = %q, want %q", cfg.Source(), SourceMock)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("PORT", "8080")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("ENV", "")
	t.Setenv("DB_API_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")

	cfg := Load()

	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":8080")
	}
	if cfg.IsDev() {
		t.Error("IsDev() = true, want false for NODE_ENV=production")
	}
	if cfg.DBAPITimeout != 2*time.Second {
		t.Errorf("DBAPITimeout = %v, want 2s", cfg.DBAPITimeout)
	}
	if cfg.RateLimitMax != 3 {
		t.Errorf("RateLimitMax = %d, want fallback 3", cfg.RateLimitMax)
	}
}

func TestConfig_Source(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", SourceMock},
		{"mock", SourceMock},
		{"MOCK", SourceMock},
		{"fake", SourceFake},
		{" fake ", SourceFake},
		{"https://answers.example.com", SourceRemote},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			cfg := &Config{DBAPIBase: tt.base}
			if got := cfg.Source(); got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_AllowedOrigins(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"dev allows any", Config{Env: "development"}, nil},
		{"explicit list", Config{Env: "development", CORSOrigins: "https://a.example,https://b.example"}, []string{"https://a.example", "https://b.example"}},
		{"production origin", Config{Env: "production", OriginURL: "https://chat.example"}, []string{"https://chat.example"}},
		{"production base url", Config{Env: "production", BaseURL: "https://base.example"}, []string{"https://base.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.AllowedOrigins()
			if len(got) != len(tt.want) {
				t.Fatalf("AllowedOrigins() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("AllowedOrigins()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestConfig_Flags(t *testing.T) {
	cfg := &Config{}
	if cfg.IsAdminEnabled() {
		t.Error("IsAdminEnabled() = true without ADMIN_TOKEN")
	}
	if cfg.UsesClientCredentials() {
		t.Error("UsesClientCredentials() = true without token URL")
	}

	cfg.AdminToken = "secret"
	cfg.DBAPITokenURL = "https://auth.example/token"
	cfg.DBAPIClientID = "widget"
	if !cfg.IsAdminEnabled() {
		t.Error("IsAdminEnabled() = false with ADMIN_TOKEN")
	}
	if !cfg.UsesClientCredentials() {
		t.Error("UsesClientCredentials() = false with token URL and client id")
	}
}
