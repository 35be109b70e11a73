package database

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"stocks-simulator/models"
)

var (
	// ErrNotFound indicates a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("record already exists")
)

// Store is the persistence boundary for accounts, holdings and the trade
// ledger. Implementations must make Atomic all-or-nothing.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id uint) (models.User, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
	// LockUser loads a user and holds a write lock on the row until the
	// surrounding Atomic call returns.
	LockUser(ctx context.Context, id uint) (models.User, error)
	UpdateCash(ctx context.Context, id uint, cash decimal.Decimal) error

	Holding(ctx context.Context, username, symbol string) (models.Holding, error)
	Holdings(ctx context.Context, username string) ([]models.Holding, error)
	SaveHolding(ctx context.Context, h *models.Holding) error
	DeleteHolding(ctx context.Context, username, symbol string) error

	AppendEntry(ctx context.Context, e *models.LedgerEntry) error
	Entries(ctx context.Context, username string) ([]models.LedgerEntry, error)

	// Atomic runs fn against a transactional view of the store. Any error
	// returned by fn discards every write fn made.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
