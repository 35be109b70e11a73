// Package trading implements the account, quote and trade operations behind
// the web handlers.
package trading

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stocks-simulator/apperr"
	"stocks-simulator/auth"
	"stocks-simulator/database"
	"stocks-simulator/metrics"
	"stocks-simulator/models"
	"stocks-simulator/quote"
)

// DefaultStartingCash is credited to every new account.
var DefaultStartingCash = decimal.NewFromInt(10000)

// DefaultQuoteTimeout bounds each portfolio revaluation.
const DefaultQuoteTimeout = 10 * time.Second

type Service struct {
	store        database.Store
	quotes       quote.Lookup
	hasher       auth.PasswordHasher
	startingCash decimal.Decimal
	quoteTimeout time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// Options tune a Service. Zero values select the defaults.
type Options struct {
	StartingCash decimal.Decimal
	QuoteTimeout time.Duration
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

func NewService(store database.Store, quotes quote.Lookup, hasher auth.PasswordHasher, opts Options) *Service {
	s := &Service{
		store:        store,
		quotes:       quotes,
		hasher:       hasher,
		startingCash: opts.StartingCash,
		quoteTimeout: opts.QuoteTimeout,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
	}
	if s.startingCash.IsZero() {
		s.startingCash = DefaultStartingCash
	}
	if s.quoteTimeout <= 0 {
		s.quoteTimeout = DefaultQuoteTimeout
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Quote looks up the current price of symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = quote.Normalize(symbol)
	if symbol == "" {
		return models.Quote{}, apperr.Invalid("missing symbol")
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if !errors.Is(err, quote.ErrUnknownSymbol) {
			s.logger.Warn("quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		}
		return models.Quote{}, apperr.Wrap(apperr.NotFound, "symbol doesn't exist", err)
	}
	return q, nil
}

// user resolves the acting user; a session pointing at a missing account is
// treated as unauthenticated.
func (s *Service) user(ctx context.Context, id uint) (models.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.User{}, apperr.Unauthorized("account no longer exists")
	}
	if err != nil {
		return models.User{}, s.internal("load user", err)
	}
	return u, nil
}

// internal tags err as an internal failure unless it already carries a kind.
func (s *Service) internal(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	s.logger.Error("internal_error", zap.String("op", op), zap.Error(err))
	return apperr.InternalErr(err)
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
