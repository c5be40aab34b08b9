package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	symbol   string
	quantity string
	price    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding" }
func (*addCmd) Usage() string {
	return `pft add -s <symbol> -q <quantity> -p <buy price>

  Adds a holding, then displays the refreshed portfolio.
  The quantity is a whole number of at least 1, the buy price at least 0.01.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "symbol of the security, for instance ASELS")
	f.StringVar(&c.quantity, "q", "", "number of shares")
	f.StringVar(&c.price, "p", "", "buy price per share")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := folio.ParseHoldingRequest(c.symbol, c.quantity, c.price)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	app, cfg, status := openApp(ctx, true)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := app.Add(ctx, req); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding holding: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PortfolioMarkdown(app.View(), cfg.Currency))
	return subcommands.ExitSuccess
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding" }
func (*removeCmd) Usage() string {
	return `pft remove <id>

  Removes the holding with this ID (see 'pft list'), then displays the
  refreshed portfolio.
`
}
func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (*removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: remove takes exactly one holding ID")
		return subcommands.ExitUsageError
	}
	id, err := parseID(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	app, cfg, status := openApp(ctx, true)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := app.Remove(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing holding %d: %v\n", id, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PortfolioMarkdown(app.View(), cfg.Currency))
	return subcommands.ExitSuccess
}

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "set the current price of a holding" }
func (*priceCmd) Usage() string {
	return `pft price <id> <price>

  Overrides the current price of a holding until the server updates it.
`
}
func (*priceCmd) SetFlags(*flag.FlagSet) {}

func (*priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: price takes a holding ID and a price")
		return subcommands.ExitUsageError
	}
	id, err := parseID(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := decimal.NewFromString(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid price %q: %v\n", f.Arg(1), err)
		return subcommands.ExitUsageError
	}

	app, cfg, status := openApp(ctx, true)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := app.UpdatePrice(ctx, id, price); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating price of holding %d: %v\n", id, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PortfolioMarkdown(app.View(), cfg.Currency))
	return subcommands.ExitSuccess
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid holding ID %q", s)
	}
	return id, nil
}
