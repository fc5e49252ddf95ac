package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.MaxDepth != 128 {
		t.Errorf("MaxDepth = %d, want 128", cfg.MaxDepth)
	}
	if cfg.MaxBodyBytes != 8<<20 {
		t.Errorf("MaxBodyBytes = %d, want %d", cfg.MaxBodyBytes, 8<<20)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty (cache disabled)", cfg.RedisAddr)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BMCONV_LISTEN_PORT", ":9999")
	t.Setenv("BMCONV_LOG_LEVEL", "debug")
	t.Setenv("BMCONV_MAX_DEPTH", "16")
	t.Setenv("BMCONV_CACHE_TTL", "30m")
	t.Setenv("BMCONV_REDIS_ADDR", "localhost:6379")
	t.Setenv("BMCONV_ALLOWED_HOSTS", `bm.example.com, "*.example.org" , `)
	t.Setenv("BMCONV_TRUST_PROXY", "true")

	cfg := Load()

	if cfg.ListenPort != ":9999" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.MaxDepth != 16 {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[0] != "bm.example.com" || cfg.AllowedHosts[1] != "*.example.org" {
		t.Errorf("AllowedHosts = %v", cfg.AllowedHosts)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy not read from env")
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("BMCONV_MAX_DEPTH", "many")
	t.Setenv("BMCONV_CACHE_TTL", "soon")
	t.Setenv("BMCONV_TRUST_PROXY", "maybe")

	cfg := Load()

	if cfg.MaxDepth != 128 {
		t.Errorf("MaxDepth = %d, want default 128", cfg.MaxDepth)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want default 24h", cfg.CacheTTL)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should fall back to false")
	}
}

func TestLoadFileOverlay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_port: ":7070"
max_depth: 32
cache_ttl: "1h"
allowed_hosts:
  - bm.internal
redis:
  addr: "cache.internal:6379"
  db: 3
rate_limit:
  burst: 20
  per_min: 120
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// The file wins over the environment.
	t.Setenv("BMCONV_LISTEN_PORT", ":9999")
	t.Setenv("BMCONV_CONFIG_FILE", file)

	cfg := Load()

	if cfg.ListenPort != ":7070" {
		t.Errorf("ListenPort = %q, want file value", cfg.ListenPort)
	}
	if cfg.MaxDepth != 32 {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if len(cfg.AllowedHosts) != 1 || cfg.AllowedHosts[0] != "bm.internal" {
		t.Errorf("AllowedHosts = %v", cfg.AllowedHosts)
	}
	if cfg.RedisAddr != "cache.internal:6379" || cfg.RedisDB != 3 {
		t.Errorf("Redis = %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.RateLimitBurst != 20 || cfg.RateLimitPerMin != 120 {
		t.Errorf("RateLimit = %d/%d", cfg.RateLimitBurst, cfg.RateLimitPerMin)
	}
	// Fields the file does not mention keep their defaults.
	if cfg.MaxBodyBytes != 8<<20 {
		t.Errorf("MaxBodyBytes = %d, want default", cfg.MaxBodyBytes)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "a.test", []string{"a.test"}},
		{"spaced", " a.test , b.test ", []string{"a.test", "b.test"}},
		{"quoted", `"a.test",'b.test'`, []string{"a.test", "b.test"}},
		{"empty parts", "a.test,,", []string{"a.test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("part %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
