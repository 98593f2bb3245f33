package config

import (
	"flag"
	"os"
	"time"

	"github.com/rosvit/journal-backend/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-m bool     run schema migrations on startup
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l int      default search page size
//	-x int      maximum search page size
//	-r int      login attempts allowed per minute per IP
//	-b int      login throttle burst size
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The token lifetime flag is accepted as an integer in minutes and then
//     converted to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-s", "-t", "-l", "-x", "-r", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.MigrateOnStart, "m", config.MigrateOnStart, "run migrations on startup")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token_ttl (in minutes)")

	fs.IntVar(&config.DefaultPageSize, "l", config.DefaultPageSize, "default search page size")
	fs.IntVar(&config.MaxPageSize, "x", config.MaxPageSize, "maximum search page size")
	fs.IntVar(&config.LoginRatePerMinute, "r", config.LoginRatePerMinute, "login attempts per minute per IP")
	fs.IntVar(&config.LoginBurst, "b", config.LoginBurst, "login throttle burst")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
