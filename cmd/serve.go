package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/MJCFL/personal-finance-tracker/marketdata"
	"github.com/MJCFL/personal-finance-tracker/server"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the finance tracker HTTP API" }
func (*serveCmd) Usage() string {
	return `pft serve [-addr <host:port>]

  Runs the HTTP API serving accounts, transactions, budgets, prices
  and the net-worth summary.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the configuration")
}

func (c *serveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}
	log := newLogger(cfg)

	st, err := openStore(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database %q: %v\n", cfg.DBPath, err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	prices := marketdata.New(cfg.PriceAPIURL, cfg.Currency, log,
		marketdata.WithTTL(cfg.QuoteTTL, cfg.SearchTTL))

	srv := server.New(st, prices, cfg.Currency, log)
	router := srv.Router(server.StaticTokens(cfg.Tokens))

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
