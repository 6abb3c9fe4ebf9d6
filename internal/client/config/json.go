package config

import (
	"encoding/json"
	"os"

	"github.com/amyzhang-commits/spanish-cards/internal/flagx"
	"github.com/amyzhang-commits/spanish-cards/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	SyncInterval        timex.Duration `json:"sync_interval"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OllamaEndpointAddr  string         `json:"ollama_endpoint_addr"`
	OllamaModel         string         `json:"ollama_model"`
	OllamaTimeout       timex.Duration `json:"ollama_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file whose path is
// given via the -c or -config flags. Missing file path means no JSON overlay.
// Read or unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OllamaEndpointAddr != "" {
		cfg.OllamaEndpointAddr = jc.OllamaEndpointAddr
	}
	if jc.OllamaModel != "" {
		cfg.OllamaModel = jc.OllamaModel
	}
	if jc.OllamaTimeout.Duration != 0 {
		cfg.OllamaTimeout = jc.OllamaTimeout.Duration
	}
}
