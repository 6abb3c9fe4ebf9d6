package config

import (
	"os"
	"time"
)

// parseEnv overlays Config with environment variables. A .env file loaded in
// main (godotenv) ends up here as well.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("SERVER_ADDRESS"); ok {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SYNC_INTERVAL"); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.SyncInterval = parsed
		}
	}
	if v, ok := os.LookupEnv("ONLINE_CHECK_INTERVAL"); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.OnlineCheckInterval = parsed
		}
	}
	if v, ok := os.LookupEnv("REQUEST_TIMEOUT"); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = parsed
		}
	}
	if v, ok := os.LookupEnv("OLLAMA_ADDRESS"); ok {
		cfg.OllamaEndpointAddr = v
	}
	if v, ok := os.LookupEnv("OLLAMA_MODEL"); ok {
		cfg.OllamaModel = v
	}
}
