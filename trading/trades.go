package trading

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stocks-simulator/apperr"
	"stocks-simulator/database"
	"stocks-simulator/models"
)

const (
	sideBuy  = "buy"
	sideSell = "sell"
)

// Buy purchases shares of symbol at the current quote. The cash debit, the
// history entry and the holding update commit together or not at all.
func (s *Service) Buy(ctx context.Context, userID uint, symbol string, shares int64) (models.Trade, error) {
	trade, err := s.buy(ctx, userID, symbol, shares)
	return trade, s.record(sideBuy, err)
}

func (s *Service) buy(ctx context.Context, userID uint, symbol string, shares int64) (models.Trade, error) {
	if shares < 1 {
		return models.Trade{}, apperr.Invalid("shares must be a positive integer")
	}
	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return models.Trade{}, err
	}
	total := q.Price.Mul(decimal.NewFromInt(shares)).Round(2)

	var trade models.Trade
	err = s.store.Atomic(ctx, func(tx database.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if total.GreaterThan(user.Cash) {
			return apperr.NoFunds("not enough cash")
		}
		cash := user.Cash.Sub(total)
		if err := tx.UpdateCash(ctx, user.ID, cash); err != nil {
			return err
		}
		if err := tx.AppendEntry(ctx, &models.LedgerEntry{
			Username: user.Username,
			Symbol:   q.Symbol,
			Shares:   shares,
			Price:    q.Price,
		}); err != nil {
			return err
		}

		h, err := tx.Holding(ctx, user.Username, q.Symbol)
		switch {
		case errors.Is(err, database.ErrNotFound):
			h = models.Holding{Username: user.Username, Symbol: q.Symbol}
		case err != nil:
			return err
		}
		h.Name = q.Name
		h.Shares += shares
		h.Total = h.Total.Add(total)
		h.Price = q.Price
		if err := tx.SaveHolding(ctx, &h); err != nil {
			return err
		}

		trade = models.Trade{Symbol: q.Symbol, Name: q.Name, Shares: shares, Price: q.Price, Total: total, Cash: cash}
		return nil
	})
	if err != nil {
		return models.Trade{}, s.internal("buy", err)
	}
	return trade, nil
}

// Sell sells shares of symbol at the current quote. Selling the last share
// of a symbol removes the holding.
func (s *Service) Sell(ctx context.Context, userID uint, symbol string, shares int64) (models.Trade, error) {
	trade, err := s.sell(ctx, userID, symbol, shares)
	return trade, s.record(sideSell, err)
}

func (s *Service) sell(ctx context.Context, userID uint, symbol string, shares int64) (models.Trade, error) {
	if shares < 1 {
		return models.Trade{}, apperr.Invalid("shares must be a positive integer")
	}
	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return models.Trade{}, err
	}
	total := q.Price.Mul(decimal.NewFromInt(shares)).Round(2)

	var trade models.Trade
	err = s.store.Atomic(ctx, func(tx database.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		h, err := tx.Holding(ctx, user.Username, q.Symbol)
		switch {
		case errors.Is(err, database.ErrNotFound):
			return apperr.NoShares("you don't own that many shares")
		case err != nil:
			return err
		}
		if shares > h.Shares {
			return apperr.NoShares("you don't own that many shares")
		}

		cash := user.Cash.Add(total)
		if err := tx.UpdateCash(ctx, user.ID, cash); err != nil {
			return err
		}
		if err := tx.AppendEntry(ctx, &models.LedgerEntry{
			Username: user.Username,
			Symbol:   q.Symbol,
			Shares:   -shares,
			Price:    q.Price,
		}); err != nil {
			return err
		}

		if shares == h.Shares {
			if err := tx.DeleteHolding(ctx, user.Username, q.Symbol); err != nil {
				return err
			}
		} else {
			// cost basis leaves at the average cost per share
			released := h.Total.Mul(decimal.NewFromInt(shares)).Div(decimal.NewFromInt(h.Shares)).Round(2)
			h.Shares -= shares
			h.Total = h.Total.Sub(released)
			h.Price = q.Price
			if err := tx.SaveHolding(ctx, &h); err != nil {
				return err
			}
		}

		trade = models.Trade{Symbol: q.Symbol, Name: h.Name, Shares: -shares, Price: q.Price, Total: total, Cash: cash}
		return nil
	})
	if err != nil {
		return models.Trade{}, s.internal("sell", err)
	}
	return trade, nil
}

func lockUser(ctx context.Context, tx database.Store, id uint) (models.User, error) {
	user, err := tx.LockUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.User{}, apperr.Unauthorized("account no longer exists")
	}
	return user, err
}

func (s *Service) record(side string, err error) error {
	if err == nil {
		s.metrics.TradeExecuted(side)
		return nil
	}
	kind := apperr.KindOf(err)
	s.metrics.TradeRejected(side, kind.String())
	if kind != apperr.Internal {
		s.logger.Debug("trade rejected", zap.String("side", side), zap.Error(err))
	}
	return err
}
