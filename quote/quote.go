// Package quote looks up current stock prices.
package quote

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"stocks-simulator/models"
)

// ErrUnknownSymbol is returned when the provider has no quote for a symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Lookup resolves a symbol to its current quote.
type Lookup interface {
	Lookup(ctx context.Context, symbol string) (models.Quote, error)
}

// Pricer is implemented by lookups that can fetch a price without resolving
// the company name.
type Pricer interface {
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Normalize trims and upper-cases a ticker symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
