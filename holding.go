package folio

import (
	"github.com/shopspring/decimal"
)

// Holding is a single portfolio position as owned by the API.
//
// The client never edits a Holding in place: it reads them, creates new ones
// from a HoldingRequest, and deletes them by ID.
type Holding struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buyPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// Value is the market value of the holding: currentPrice × quantity.
func (h Holding) Value() decimal.Decimal {
	return h.CurrentPrice.Mul(h.Quantity)
}

// PnL is the unrealized profit or loss: (currentPrice − buyPrice) × quantity.
func (h Holding) PnL() decimal.Decimal {
	return h.CurrentPrice.Sub(h.BuyPrice).Mul(h.Quantity)
}

// MarshalJSON writes amounts as JSON numbers, in the API's field order.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("symbol", h.Symbol)
	w.Number("quantity", h.Quantity)
	w.Number("buyPrice", h.BuyPrice)
	w.Number("currentPrice", h.CurrentPrice)
	return w.MarshalJSON()
}

// HoldingRequest is the payload to create a new Holding.
type HoldingRequest struct {
	Symbol   string
	Quantity decimal.Decimal
	BuyPrice decimal.Decimal
}

func (r HoldingRequest) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", r.Symbol)
	w.Number("quantity", r.Quantity)
	w.Number("buyPrice", r.BuyPrice)
	return w.MarshalJSON()
}

// Credentials are exchanged for a session token. They are never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
