package agent

import (
	"context"

	"github.com/etnz/folio"
	"google.golang.org/genai"
)

// PortfolioFunction gives the model read access to the holdings.
type PortfolioFunction struct {
	// Holdings fetches the current holdings.
	Holdings func(context.Context) ([]folio.Holding, error)
	// Currency of every amount.
	Currency string
}

func (*PortfolioFunction) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "get_portfolio",
		Description: "Returns the user's holdings with live prices, the per symbol value and profit/loss, and the totals.",
	}
}

func (f *PortfolioFunction) Call(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
	name := f.Declaration().Name
	holdings, err := f.Holdings(ctx)
	if err != nil {
		return failure(id, name, err)
	}
	aggs := folio.Aggregates(holdings)
	totals := folio.Total(aggs)

	lines := make([]map[string]any, 0, len(holdings))
	for _, h := range holdings {
		lines = append(lines, map[string]any{
			"id":           h.ID,
			"symbol":       h.Symbol,
			"quantity":     h.Quantity.String(),
			"buyPrice":     h.BuyPrice.String(),
			"currentPrice": h.CurrentPrice.String(),
		})
	}
	symbols := make([]map[string]any, 0, len(aggs))
	for _, a := range aggs {
		symbols = append(symbols, map[string]any{
			"symbol": a.Symbol,
			"value":  a.Value.String(),
			"pnl":    a.PnL.String(),
		})
	}
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{
		"currency": f.Currency,
		"holdings": lines,
		"symbols":  symbols,
		"totals":   map[string]any{"value": totals.Value.String(), "pnl": totals.PnL.String()},
	}}
}

// NewMarketExpert answers questions about securities using Google Search.
func NewMarketExpert(model string) *Expert {
	return &Expert{
		Name: "market_expert",
		Description: `A market analyst aware of the latest news about listed companies and funds.
Ask it whenever recent or grounded information about a symbol is needed.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
You are a market analyst. Use Google Search to ground your answers about
companies, funds and markets, and cite the latest relevant news.`}}},
		},
	}
}

// NewAdvisor is the expert the user talks to. It reads the portfolio and
// consults the other experts.
func NewAdvisor(model string, functions ...Function) *Expert {
	return &Expert{
		Name:      "advisor",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: Declarations(functions...)}},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
You comment on the user's stock portfolio. Always read the portfolio first with
get_portfolio: the user assumes you know their symbols. Explain the
distribution of value and where profit and loss come from. Ask the
market_expert for news before commenting on a symbol's outlook. Answer in
concise markdown.`}}},
		},
		Library: NewLibrary(functions...),
	}
}
