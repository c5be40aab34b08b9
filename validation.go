package folio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrSymbolRequired  = errors.New("symbol is required")
	ErrInvalidQuantity = errors.New("quantity must be a whole number of at least 1")
	ErrInvalidBuyPrice = errors.New("buy price must be at least 0.01")
)

var minBuyPrice = decimal.New(1, -2)

// NewHoldingRequest returns a request with the symbol trimmed and upper-cased.
func NewHoldingRequest(symbol string, quantity, buyPrice decimal.Decimal) HoldingRequest {
	return HoldingRequest{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Quantity: quantity,
		BuyPrice: buyPrice,
	}
}

// ParseHoldingRequest parses user input into a normalized HoldingRequest.
// It does not validate it.
func ParseHoldingRequest(symbol, quantity, buyPrice string) (HoldingRequest, error) {
	q, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil {
		return HoldingRequest{}, fmt.Errorf("invalid quantity %q: %w", quantity, err)
	}
	p, err := decimal.NewFromString(strings.TrimSpace(buyPrice))
	if err != nil {
		return HoldingRequest{}, fmt.Errorf("invalid buy price %q: %w", buyPrice, err)
	}
	return NewHoldingRequest(symbol, q, p), nil
}

// Validate returns all the validation failures of the request joined together,
// or nil.
func (r HoldingRequest) Validate() error {
	var errs error
	if r.Symbol == "" {
		errs = errors.Join(errs, ErrSymbolRequired)
	}
	if !r.Quantity.IsInteger() || r.Quantity.LessThan(decimal.NewFromInt(1)) {
		errs = errors.Join(errs, ErrInvalidQuantity)
	}
	if r.BuyPrice.LessThan(minBuyPrice) {
		errs = errors.Join(errs, ErrInvalidBuyPrice)
	}
	return errs
}
