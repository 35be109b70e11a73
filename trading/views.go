package trading

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stocks-simulator/models"
	"stocks-simulator/quote"
)

// Portfolio values the user's holdings at current prices. A holding whose
// quote cannot be refreshed is valued at its last execution price and
// flagged stale.
func (s *Service) Portfolio(ctx context.Context, userID uint) (models.Portfolio, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return models.Portfolio{}, err
	}
	holdings, err := s.store.Holdings(ctx, user.Username)
	if err != nil {
		return models.Portfolio{}, s.internal("list holdings", err)
	}

	p := models.Portfolio{Cash: user.Cash, Total: user.Cash, Positions: make([]models.Position, 0, len(holdings))}
	for _, h := range holdings {
		pos := models.Position{
			Symbol:    h.Symbol,
			Name:      h.Name,
			Shares:    h.Shares,
			Price:     h.Price,
			CostBasis: h.Total,
		}
		if price, err := s.revalue(ctx, h.Symbol); err != nil {
			s.logger.Warn("revaluing holding failed; using last trade price",
				zap.String("symbol", h.Symbol), zap.Error(err))
			pos.Stale = true
		} else {
			pos.Price = price
		}
		pos.Value = pos.Price.Mul(decimal.NewFromInt(pos.Shares)).Round(2)
		p.Total = p.Total.Add(pos.Value)
		p.Positions = append(p.Positions, pos)
	}
	return p, nil
}

// revalue fetches the current price of a held symbol within the quote
// timeout. The stored holding already has the name, so only the price is
// asked for when the lookup supports it.
func (s *Service) revalue(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
	defer cancel()
	if p, ok := s.quotes.(quote.Pricer); ok {
		return p.Price(ctx, symbol)
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	return q.Price, err
}

// History lists the user's trades oldest first.
func (s *Service) History(ctx context.Context, userID uint) ([]models.LedgerEntry, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.Entries(ctx, user.Username)
	if err != nil {
		return nil, s.internal("list history", err)
	}
	return entries, nil
}

// HeldSymbols lists the symbols the user can sell.
func (s *Service) HeldSymbols(ctx context.Context, userID uint) ([]string, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.store.Holdings(ctx, user.Username)
	if err != nil {
		return nil, s.internal("list holdings", err)
	}
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if h.Shares > 0 {
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols, nil
}

// User returns the acting user's account.
func (s *Service) User(ctx context.Context, userID uint) (models.User, error) {
	return s.user(ctx, userID)
}
