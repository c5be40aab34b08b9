package folio

import (
	"testing"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create a decimal from a string constant.
func D(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// H is a helper for test to create a holding from constants.
func H(id int64, symbol string, quantity, buy, current float64) Holding {
	return Holding{
		ID:           id,
		Symbol:       symbol,
		Quantity:     decimal.NewFromFloat(quantity),
		BuyPrice:     decimal.NewFromFloat(buy),
		CurrentPrice: decimal.NewFromFloat(current),
	}
}
