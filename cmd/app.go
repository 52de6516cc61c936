// Package cmd implements the CLI application to manage personal finances.
package cmd

import (
	"flag"
	"os"

	"github.com/MJCFL/personal-finance-tracker/config"
	"github.com/MJCFL/personal-finance-tracker/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&serveCmd{}, "server")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&holdingCmd{}, "reports")
	c.Register(&logCmd{}, "reports")

	c.Register(&txCmd{}, "transactions")

	c.Register(&quoteCmd{}, "market data")

	c.Register(&assistCmd{}, "assistant")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file")
var user = flag.String("u", "local", "User the command acts for")

// loadConfig reads the configuration file named by the -config flag,
// falling back to defaults plus environment overrides.
func loadConfig() (config.Config, error) {
	return config.Load(*configFile)
}

// newLogger builds the CLI logger. Commands log human-readable lines to
// stderr so reports on stdout stay clean.
func newLogger(cfg config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// openStore opens the bolt database named by the configuration.
func openStore(cfg config.Config, log zerolog.Logger) (*store.Store, error) {
	return store.Open(cfg.DBPath, log)
}
