package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables, loading a .env
// file first when one exists in the working directory. Variables that are not
// set leave the current values untouched. Unparseable values panic.
func parseEnv(config *Config) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			panic(err)
		}
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
