package configuration

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv layers environment variables over the given config, reading a
// .env file first when one exists. Missing variables leave the config
// untouched, so defaults survive partial environments.
func LoadEnv(cfg *Config) *Config {
	// A missing .env file is not an error; real environments set vars directly.
	_ = godotenv.Load()

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		setAPIKey(cfg, "openai", v)
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		setAPIKey(cfg, "anthropic", v)
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		setAPIKey(cfg, "google", v)
	}

	if v := os.Getenv("QM_REDIS_ADDR"); v != "" {
		cfg.Cache.UseRedis = true
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("QM_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("QM_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Redis.DB = db
		}
	}

	if v := os.Getenv("QM_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil && ttl > 0 {
			cfg.Cache.TTL = ttl
		}
	}
	if v := os.Getenv("QM_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("QM_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	return cfg
}

// setAPIKey updates one provider's key in place, preserving the rest of its
// configuration.
func setAPIKey(cfg *Config, provider, key string) {
	pc, ok := cfg.Providers[provider]
	if !ok {
		return
	}
	pc.APIKey = key
	cfg.Providers[provider] = pc
}
