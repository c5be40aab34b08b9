package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd chats with Gemini about the portfolio.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "discuss the portfolio with an AI assistant" }
func (*assistCmd) Usage() string {
	return `pft assist [question...]

  Starts a chat with Gemini about the portfolio. The assistant reads the
  holdings itself and can search for news about the symbols.
  Requires GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment.
`
}
func (*assistCmd) SetFlags(*flag.FlagSet) {}

func (*assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, cfg, status := openApp(ctx, true)
	if status != subcommands.ExitSuccess {
		return status
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	portfolio := &agent.PortfolioFunction{
		Currency: cfg.Currency,
		Holdings: func(ctx context.Context) ([]folio.Holding, error) {
			if err := app.Refresh(ctx); err != nil {
				return nil, err
			}
			return app.View().Holdings, nil
		},
	}
	advisor := agent.NewAdvisor(cfg.Model, portfolio, agent.NewMarketExpert(cfg.Model))
	a := agent.New(os.Stdout, os.Stdin, advisor)

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
