package trading

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stocks-simulator/auth"
	"stocks-simulator/database/memstore"
	"stocks-simulator/metrics"
	"stocks-simulator/models"
	"stocks-simulator/quote"
)

// fakeQuotes serves fixed prices; symbols without a price are unknown.
type fakeQuotes struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	fail   error
	hang   bool // block until the caller's context ends
}

func newFakeQuotes() *fakeQuotes {
	return &fakeQuotes{prices: make(map[string]decimal.Decimal)}
}

func (f *fakeQuotes) set(symbol, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[symbol] = decimal.RequireFromString(price)
}

func (f *fakeQuotes) Lookup(ctx context.Context, symbol string) (models.Quote, error) {
	f.mu.Lock()
	if f.hang {
		f.mu.Unlock()
		<-ctx.Done()
		return models.Quote{}, ctx.Err()
	}
	defer f.mu.Unlock()
	if f.fail != nil {
		return models.Quote{}, f.fail
	}
	symbol = quote.Normalize(symbol)
	p, ok := f.prices[symbol]
	if !ok {
		return models.Quote{}, quote.ErrUnknownSymbol
	}
	return models.Quote{Symbol: symbol, Name: symbol + " Inc", Price: p}, nil
}

type fixture struct {
	svc    *Service
	store  *memstore.Store
	quotes *fakeQuotes
	hasher *auth.Bcrypt
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	quotes := newFakeQuotes()
	hasher := auth.NewBcrypt(bcrypt.MinCost)
	svc := NewService(store, quotes, hasher, Options{
		StartingCash: decimal.NewFromInt(10000),
		Metrics:      metrics.New(prometheus.NewRegistry()),
	})
	return &fixture{svc: svc, store: store, quotes: quotes, hasher: hasher}
}

func (f *fixture) register(t *testing.T, username string) models.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{
		Username:     username,
		Password:     "s3cret",
		Confirmation: "s3cret",
	})
	require.NoError(t, err)
	return u
}

// snapshot captures everything a rejected trade must leave untouched.
type snapshot struct {
	cash     decimal.Decimal
	holdings []models.Holding
	entries  []models.LedgerEntry
}

func (f *fixture) snapshot(t *testing.T, u models.User) snapshot {
	t.Helper()
	ctx := context.Background()
	got, err := f.store.UserByID(ctx, u.ID)
	require.NoError(t, err)
	hs, err := f.store.Holdings(ctx, u.Username)
	require.NoError(t, err)
	es, err := f.store.Entries(ctx, u.Username)
	require.NoError(t, err)
	return snapshot{cash: got.Cash, holdings: hs, entries: es}
}

func (f *fixture) requireUnchanged(t *testing.T, u models.User, before snapshot) {
	t.Helper()
	after := f.snapshot(t, u)
	require.True(t, before.cash.Equal(after.cash), "cash changed: %s -> %s", before.cash, after.cash)
	require.Equal(t, len(before.holdings), len(after.holdings))
	for i := range before.holdings {
		require.Equal(t, before.holdings[i].Shares, after.holdings[i].Shares)
		require.True(t, before.holdings[i].Total.Equal(after.holdings[i].Total))
	}
	require.Equal(t, len(before.entries), len(after.entries))
}

var errProviderDown = errors.New("provider down")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
