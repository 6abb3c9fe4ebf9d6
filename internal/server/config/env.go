package config

import "os"

// parseEnv overlays Config with environment variables. A .env file loaded in
// main (godotenv) ends up here as well.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		cfg.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
}
