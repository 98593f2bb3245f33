package config

import (
	"encoding/json"
	"os"

	"github.com/rosvit/journal-backend/internal/flagx"
	"github.com/rosvit/journal-backend/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	Addr           string `json:"address"`
	DatabaseDSN    string `json:"database_dsn"`
	MigrateOnStart *bool  `json:"migrate_on_start"`

	SecretKey string         `json:"secret_key"`
	TokenTTL  timex.Duration `json:"token_ttl"`

	Argon2Memory      uint32 `json:"argon2_memory_kib"`
	Argon2Time        uint32 `json:"argon2_time"`
	Argon2Parallelism uint8  `json:"argon2_parallelism"`

	DefaultPageSize int `json:"default_page_size"`
	MaxPageSize     int `json:"max_page_size"`

	LoginRatePerMinute int `json:"login_rate_per_minute"`
	LoginBurst         int `json:"login_burst"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config command-line flag; if
// neither is set, no JSON file is loaded. Only fields present in the file
// override the current values. Unreadable or invalid files panic.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.MigrateOnStart != nil {
		config.MigrateOnStart = *c.MigrateOnStart
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenTTL.Duration != 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.Argon2Memory != 0 {
		config.Argon2Memory = c.Argon2Memory
	}
	if c.Argon2Time != 0 {
		config.Argon2Time = c.Argon2Time
	}
	if c.Argon2Parallelism != 0 {
		config.Argon2Parallelism = c.Argon2Parallelism
	}
	if c.DefaultPageSize != 0 {
		config.DefaultPageSize = c.DefaultPageSize
	}
	if c.MaxPageSize != 0 {
		config.MaxPageSize = c.MaxPageSize
	}
	if c.LoginRatePerMinute != 0 {
		config.LoginRatePerMinute = c.LoginRatePerMinute
	}
	if c.LoginBurst != 0 {
		config.LoginBurst = c.LoginBurst
	}
}
