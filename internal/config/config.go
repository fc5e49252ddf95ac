package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	MaxDepth     int   // max folder nesting accepted by the parsers
	MaxBodyBytes int64 // max request body size for the convert endpoint

	StatsInterval time.Duration // interval for the periodic stats report

	// Result cache (optional: empty RedisAddr disables it)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDialTimeout    time.Duration
	RedisReadTimeout    time.Duration
	RedisWriteTimeout   time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration
	CacheTTL            time.Duration

	AllowedHosts []string // optional, restrict access to specific Host headers
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	RateLimitBurst  int // token bucket burst per client IP (0 = disabled)
	RateLimitPerMin int // refill rate per client IP per minute
}

// Load reads configuration from the environment (BMCONV_ prefix), then lets
// an optional YAML file referenced by BMCONV_CONFIG_FILE override it.
func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BMCONV_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BMCONV_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BMCONV_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BMCONV_PRETTY_LOG", true),

		// Conversion limits
		MaxDepth:     getenvInt("BMCONV_MAX_DEPTH", bookmark.DefaultMaxDepth),
		MaxBodyBytes: getenvInt64("BMCONV_MAX_BODY_BYTES", 8<<20),

		StatsInterval: mustDuration("BMCONV_STATS_INTERVAL", time.Hour),

		// Result cache
		RedisAddr:           getenv("BMCONV_REDIS_ADDR", ""),
		RedisUser:           getenv("BMCONV_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("BMCONV_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("BMCONV_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisReadTimeout:    mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWriteTimeout:   mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		CacheTTL:            mustDuration("BMCONV_CACHE_TTL", 24*time.Hour),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("BMCONV_ALLOWED_HOSTS", "")),
		TrustProxy:   mustBool("BMCONV_TRUST_PROXY", false),

		RateLimitBurst:  getenvInt("BMCONV_RATE_LIMIT_BURST", 0),
		RateLimitPerMin: getenvInt("BMCONV_RATE_LIMIT_PER_MIN", 60),
	}

	if file := os.Getenv("BMCONV_CONFIG_FILE"); file != "" {
		if err := applyFile(cfg, file); err != nil {
			panic(fmt.Sprintf("❌ FATAL: failed to load config file %s: %v", file, err))
		}
	}

	return cfg
}

// fileConfig is the YAML overlay. Pointer fields distinguish "not set" from
// zero values.
type fileConfig struct {
	ListenPort    *string  `yaml:"listen_port"`
	LogLevel      *string  `yaml:"log_level"`
	PrettyLog     *bool    `yaml:"pretty_log"`
	MaxDepth      *int     `yaml:"max_depth"`
	MaxBodyBytes  *int64   `yaml:"max_body_bytes"`
	CacheTTL      *string  `yaml:"cache_ttl"`
	StatsInterval *string  `yaml:"stats_interval"`
	AllowedHosts  []string `yaml:"allowed_hosts"`
	TrustProxy    *bool    `yaml:"trust_proxy"`
	Redis         struct {
		Addr *string `yaml:"addr"`
		DB   *int    `yaml:"db"`
	} `yaml:"redis"`
	RateLimit struct {
		Burst  *int `yaml:"burst"`
		PerMin *int `yaml:"per_min"`
	} `yaml:"rate_limit"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if fc.ListenPort != nil {
		cfg.ListenPort = *fc.ListenPort
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.PrettyLog != nil {
		cfg.PrettyLog = *fc.PrettyLog
	}
	if fc.MaxDepth != nil {
		cfg.MaxDepth = *fc.MaxDepth
	}
	if fc.MaxBodyBytes != nil {
		cfg.MaxBodyBytes = *fc.MaxBodyBytes
	}
	if fc.CacheTTL != nil {
		d, err := time.ParseDuration(*fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache_ttl: %w", err)
		}
		cfg.CacheTTL = d
	}
	if fc.StatsInterval != nil {
		d, err := time.ParseDuration(*fc.StatsInterval)
		if err != nil {
			return fmt.Errorf("invalid stats_interval: %w", err)
		}
		cfg.StatsInterval = d
	}
	if len(fc.AllowedHosts) > 0 {
		cfg.AllowedHosts = fc.AllowedHosts
	}
	if fc.TrustProxy != nil {
		cfg.TrustProxy = *fc.TrustProxy
	}
	if fc.Redis.Addr != nil {
		cfg.RedisAddr = *fc.Redis.Addr
	}
	if fc.Redis.DB != nil {
		cfg.RedisDB = *fc.Redis.DB
	}
	if fc.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *fc.RateLimit.Burst
	}
	if fc.RateLimit.PerMin != nil {
		cfg.RateLimitPerMin = *fc.RateLimit.PerMin
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
