package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered trader and their uninvested cash.
type User struct {
	ID           uint            `gorm:"primaryKey"`
	Username     string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"column:hash;not null"`
	Cash         decimal.Decimal `gorm:"type:numeric(24,2);not null"`
	CreatedAt    time.Time
}
