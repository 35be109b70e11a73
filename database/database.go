package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stocks-simulator/models"
)

// Migrate creates or updates the users, portfolio and history tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Holding{},
		&models.LedgerEntry{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ensure GormStore satisfies the Store interface at compile time.
var _ Store = (*GormStore)(nil)

// GormStore is the Postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	return user, notFound(err, "load user")
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	return user, notFound(err, "load user")
}

func (s *GormStore) LockUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&user).Error
	return user, notFound(err, "lock user")
}

func (s *GormStore) UpdateCash(ctx context.Context, id uint, cash decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("cash", cash)
	if res.Error != nil {
		return fmt.Errorf("update cash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Holding(ctx context.Context, username, symbol string) (models.Holding, error) {
	var h models.Holding
	err := s.db.WithContext(ctx).
		Where("username = ? AND symbol = ?", username, symbol).
		Take(&h).Error
	return h, notFound(err, "load holding")
}

func (s *GormStore) Holdings(ctx context.Context, username string) ([]models.Holding, error) {
	holdings := make([]models.Holding, 0)
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("symbol").
		Find(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	return holdings, nil
}

func (s *GormStore) SaveHolding(ctx context.Context, h *models.Holding) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "symbol"}},
			UpdateAll: true,
		}).
		Create(h).Error
	if err != nil {
		return fmt.Errorf("save holding: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteHolding(ctx context.Context, username, symbol string) error {
	err := s.db.WithContext(ctx).
		Where("username = ? AND symbol = ?", username, symbol).
		Delete(&models.Holding{}).Error
	if err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}

func (s *GormStore) AppendEntry(ctx context.Context, e *models.LedgerEntry) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *GormStore) Entries(ctx context.Context, username string) ([]models.LedgerEntry, error) {
	entries := make([]models.LedgerEntry, 0)
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func notFound(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
