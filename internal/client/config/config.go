// Package config handles configuration for the device client, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the device client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the sync server.
//   - DatabaseDSN: path of the local SQLite database.
//   - SyncInterval: period of the automatic sync loop.
//   - OnlineCheckInterval: period of the connectivity probe.
//   - RequestTimeout: bound on each sync server request.
//   - OllamaEndpointAddr: base URL of the local Ollama server.
//   - OllamaModel: model used for card generation.
//   - OllamaTimeout: bound on each generation request (generation is slow).
type Config struct {
	ServerEndpointAddr  string
	DatabaseDSN         string
	SyncInterval        time.Duration
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	OllamaEndpointAddr  string
	OllamaModel         string
	OllamaTimeout       time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8000"
	c.DatabaseDSN = "cards.db"
	c.SyncInterval = 30 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.OllamaEndpointAddr = "http://127.0.0.1:11434"
	c.OllamaModel = "gemma3n:latest"
	c.OllamaTimeout = 2 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
