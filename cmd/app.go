// Package cmd implements the pft command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/logger"
	"github.com/etnz/folio/tracing"
	"github.com/google/subcommands"
)

// Commands are the pft subcommands, by group.
var Commands = []struct {
	Group    string
	Commands []subcommands.Command
}{
	{"session", []subcommands.Command{
		&loginCmd{},
		&loginCmd{register: true},
		&logoutCmd{},
		&whoamiCmd{},
	}},
	{"portfolio", []subcommands.Command{
		&listCmd{},
		&addCmd{},
		&removeCmd{},
		&priceCmd{},
		&watchCmd{},
		&assistCmd{},
	}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range Commands {
		for _, cmd := range g.Commands {
			c.Register(cmd, g.Group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", config.DefaultPath(), "Path to the YAML configuration file")
	apiURL     = flag.String("api-url", "", "Base URL of the portfolio API (default from the configuration)")
	currency   = flag.String("currency", "", "Currency used to display amounts (default from the configuration)")
	refresh    = flag.Duration("refresh", 0, "Holdings refresh interval in watch mode (default from the configuration)")
	Verbose    = flag.Bool("v", false, "Verbose logging")
	traceFlag  = flag.Bool("trace", false, "Export traces of API calls to stderr")
)

// Settings returns the configuration overridden by the global flags.
var Settings = sync.OnceValues(func() (config.Config, error) {
	c, err := config.Load(*configFile)
	if err != nil {
		return c, err
	}
	if *apiURL != "" {
		c.APIURL = *apiURL
	}
	if *currency != "" {
		c.Currency = *currency
	}
	if *refresh > 0 {
		c.Refresh = *refresh
	}
	if *traceFlag {
		c.Tracing = true
	}
	return c, c.Validate()
})

// Setup prepares the context every command runs in: logger and tracing.
// The returned function flushes them.
func Setup(ctx context.Context) (context.Context, func(), error) {
	log := logger.New(*Verbose)
	ctx = logger.WithContext(ctx, log)

	c, err := Settings()
	if err != nil {
		return ctx, func() {}, err
	}
	if err := tracing.Init(c.Tracing); err != nil {
		return ctx, func() {}, err
	}
	return ctx, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx); err != nil {
			log.Warnw("cannot flush traces", "error", err)
		}
		_ = log.Sync()
	}, nil
}

// tokenStore is where the session token is kept.
func tokenStore(c config.Config) (folio.TokenStore, error) {
	if c.TokenFile != "" {
		return folio.FileStore{Path: c.TokenFile}, nil
	}
	path, err := folio.DefaultTokenPath()
	if err != nil {
		return nil, err
	}
	return folio.FileStore{Path: path}, nil
}

// openApp returns an App on the stored session, without refresh loop.
// Errors are reported on stderr.
func openApp(ctx context.Context, requireSession bool) (*folio.App, config.Config, subcommands.ExitStatus) {
	c, err := Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, c, subcommands.ExitFailure
	}
	store, err := tokenStore(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating session: %v\n", err)
		return nil, c, subcommands.ExitFailure
	}
	app := folio.NewApp(folio.NewClient(c.APIURL, nil), store, 0)
	if !requireSession {
		return app, c, subcommands.ExitSuccess
	}
	ok, err := app.Resume(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return nil, c, subcommands.ExitFailure
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: not logged in, run 'pft login' first")
		return nil, c, subcommands.ExitFailure
	}
	return app, c, subcommands.ExitSuccess
}
