package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/folio"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestPortfolioFunction(t *testing.T) {
	f := &PortfolioFunction{
		Currency: "TRY",
		Holdings: func(context.Context) ([]folio.Holding, error) {
			return []folio.Holding{
				{ID: 1, Symbol: "AAA", Quantity: decimal.NewFromInt(2), BuyPrice: decimal.NewFromInt(10), CurrentPrice: decimal.NewFromInt(15)},
				{ID: 2, Symbol: "AAA", Quantity: decimal.NewFromInt(1), BuyPrice: decimal.NewFromInt(20), CurrentPrice: decimal.NewFromInt(15)},
			}, nil
		},
	}
	resp := f.Call(context.Background(), "call-1", nil)
	require.Equal(t, "call-1", resp.ID)
	require.Equal(t, "get_portfolio", resp.Name)
	require.Equal(t, "TRY", resp.Response["currency"])
	require.Len(t, resp.Response["holdings"], 2)
	require.Equal(t, []map[string]any{{"symbol": "AAA", "value": "45", "pnl": "5"}}, resp.Response["symbols"])
	require.Equal(t, map[string]any{"value": "45", "pnl": "5"}, resp.Response["totals"])
}

func TestPortfolioFunctionError(t *testing.T) {
	f := &PortfolioFunction{Holdings: func(context.Context) ([]folio.Holding, error) {
		return nil, errors.New("not logged in")
	}}
	resp := f.Call(context.Background(), "id", nil)
	require.Equal(t, map[string]any{"error": "not logged in"}, resp.Response)
}

func TestLibrary(t *testing.T) {
	called := false
	f := &PortfolioFunction{Holdings: func(context.Context) ([]folio.Holding, error) {
		called = true
		return nil, nil
	}}
	lib := NewLibrary(f, NewMarketExpert("model"))

	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: "get_portfolio"})
	require.True(t, called)
	require.Equal(t, "get_portfolio", resp.Name)

	resp = lib(context.Background(), &genai.FunctionCall{ID: "2", Name: "sell_everything"})
	require.Equal(t, "unknown function sell_everything", resp.Response["error"])
}

func TestExpertCallRejectsBadQuestion(t *testing.T) {
	e := NewMarketExpert("model")
	resp := e.Call(context.Background(), "1", map[string]any{"question": 42})
	require.Contains(t, resp.Response["error"], "invalid question type int")
}

func TestAdvisorDeclaresFunctions(t *testing.T) {
	e := NewAdvisor("model", &PortfolioFunction{}, NewMarketExpert("model"))
	var names []string
	for _, d := range e.Config.Tools[0].FunctionDeclarations {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"get_portfolio", "market_expert"}, names)
}
