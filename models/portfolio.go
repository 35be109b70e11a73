package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a user's aggregated position in one symbol. Rows with zero
// shares are never persisted.
type Holding struct {
	Username  string          `gorm:"primaryKey"`
	Symbol    string          `gorm:"primaryKey"`
	Name      string          `gorm:"not null"`
	Shares    int64           `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(24,4);not null"` // last execution price
	Total     decimal.Decimal `gorm:"type:numeric(24,2);not null"` // cost basis
	UpdatedAt time.Time
}

func (Holding) TableName() string { return "portfolio" }

// LedgerEntry records one executed trade. Positive shares are buys,
// negative shares are sells.
type LedgerEntry struct {
	ID        uint            `gorm:"primaryKey"`
	Username  string          `gorm:"index;not null"`
	Symbol    string          `gorm:"not null"`
	Shares    int64           `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(24,4);not null"`
	CreatedAt time.Time
}

func (LedgerEntry) TableName() string { return "history" }

// Side reports "buy" or "sell" from the sign of Shares.
func (e LedgerEntry) Side() string {
	if e.Shares < 0 {
		return "sell"
	}
	return "buy"
}

// Amount is the absolute cash value moved by the entry.
func (e LedgerEntry) Amount() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(e.Shares)).Abs().Round(2)
}

// Position is a holding valued at the latest known price.
type Position struct {
	Symbol    string
	Name      string
	Shares    int64
	Price     decimal.Decimal
	Value     decimal.Decimal
	CostBasis decimal.Decimal
	Stale     bool // price could not be refreshed; Price is the last execution price
}

// Portfolio is the read model behind the index page.
type Portfolio struct {
	Cash      decimal.Decimal
	Positions []Position
	Total     decimal.Decimal
}

// Trade is the outcome of an executed buy or sell.
type Trade struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Total  decimal.Decimal
	Cash   decimal.Decimal // cash balance after the trade
}
