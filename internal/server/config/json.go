package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mlodewijk/modcat/internal/flagx"
	"github.com/mlodewijk/modcat/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the token lifetime can be written either as a string like
// "24h" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config which uses time.Duration.
type JSONConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	AuthRatePerMinute           int            `json:"auth_rate_per_minute"`
	AuthRateBurst               int            `json:"auth_rate_burst"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON is loaded. Read or unmarshal failures panic, since a config
// file that was explicitly pointed at but cannot be used is not recoverable.
//
// Intended usage is: defaults -> parseJSON -> parseFlags, where later stages
// override earlier ones.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.AuthRatePerMinute = c.AuthRatePerMinute
	config.AuthRateBurst = c.AuthRateBurst
}
