package folio

import "github.com/shopspring/decimal"

// Aggregate is the per-symbol rollup of value and profit/loss.
type Aggregate struct {
	Symbol string
	Value  decimal.Decimal
	PnL    decimal.Decimal
}

// Totals are the value and profit/loss of the whole portfolio.
type Totals struct {
	Value decimal.Decimal
	PnL   decimal.Decimal
}

// Aggregates sums value and profit/loss of holdings sharing a symbol.
//
// Aggregates are listed in order of the symbol's first appearance in holdings.
// It is O(n) for n holdings and is meant to be recomputed on every refresh.
func Aggregates(holdings []Holding) []Aggregate {
	index := make(map[string]int)
	var aggs []Aggregate
	for _, h := range holdings {
		i, ok := index[h.Symbol]
		if !ok {
			i = len(aggs)
			index[h.Symbol] = i
			aggs = append(aggs, Aggregate{Symbol: h.Symbol})
		}
		aggs[i].Value = aggs[i].Value.Add(h.Value())
		aggs[i].PnL = aggs[i].PnL.Add(h.PnL())
	}
	return aggs
}

// Total sums the aggregates.
func Total(aggs []Aggregate) Totals {
	var t Totals
	for _, a := range aggs {
		t.Value = t.Value.Add(a.Value)
		t.PnL = t.PnL.Add(a.PnL)
	}
	return t
}
