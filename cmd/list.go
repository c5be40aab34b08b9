package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/gocarina/gocsv"
	"github.com/google/subcommands"
)

type listCmd struct {
	json bool
	path string
	csv  bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "display the holdings, their value and profit/loss" }
func (*listCmd) Usage() string {
	return `pft list [-json [-path <jsonpath>] | -csv]

  Fetches the holdings and displays the portfolio table and charts.

  -json prints the holdings as a JSON array. -path selects a part of it
  with a JSONPath expression, for instance '$[*].symbol'.
  -csv prints one CSV row per holding, with its value and profit/loss.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the holdings as JSON")
	f.StringVar(&c.path, "path", "", "JSONPath expression applied to the JSON output (implies -json)")
	f.BoolVar(&c.csv, "csv", false, "print the holdings as CSV")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.path != "" {
		c.json = true
	}
	if c.json && c.csv {
		fmt.Fprintln(os.Stderr, "Error: -json and -csv are exclusive")
		return subcommands.ExitUsageError
	}

	app, cfg, status := openApp(ctx, true)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := app.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	v := app.View()

	var err error
	switch {
	case c.json:
		err = writeJSON(os.Stdout, v.Holdings, c.path)
	case c.csv:
		err = writeCSV(os.Stdout, v.Holdings)
	default:
		printMarkdown(renderer.PortfolioMarkdown(v, cfg.Currency))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeJSON writes the holdings, or the part of them selected by path.
func writeJSON(w io.Writer, holdings []folio.Holding, path string) error {
	if holdings == nil {
		holdings = []folio.Holding{}
	}
	var out any = holdings
	if path != "" {
		b, err := json.Marshal(holdings)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		out, err = jsonpath.Get(path, doc)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", path, err)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// holdingRow is a CSV line.
type holdingRow struct {
	ID           int64  `csv:"id"`
	Symbol       string `csv:"symbol"`
	Quantity     string `csv:"quantity"`
	BuyPrice     string `csv:"buy_price"`
	CurrentPrice string `csv:"current_price"`
	Value        string `csv:"value"`
	PnL          string `csv:"pnl"`
}

func writeCSV(w io.Writer, holdings []folio.Holding) error {
	rows := make([]holdingRow, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, holdingRow{
			ID:           h.ID,
			Symbol:       h.Symbol,
			Quantity:     h.Quantity.String(),
			BuyPrice:     h.BuyPrice.String(),
			CurrentPrice: h.CurrentPrice.String(),
			Value:        h.Value().String(),
			PnL:          h.PnL().String(),
		})
	}
	return gocsv.Marshal(rows, w)
}
