package quote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stocks-simulator/models"
)

type countingLookup struct {
	calls int
	quote models.Quote
	err   error
}

func (c *countingLookup) Lookup(_ context.Context, symbol string) (models.Quote, error) {
	c.calls++
	if c.err != nil {
		return models.Quote{}, c.err
	}
	q := c.quote
	q.Symbol = symbol
	return q, nil
}

func TestCachedMemoryServesRepeatLookups(t *testing.T) {
	next := &countingLookup{quote: models.Quote{Name: "Apple Inc", Price: decimal.NewFromInt(150)}}
	mc, err := NewMemoryCache(100, time.Minute)
	require.NoError(t, err)
	c := NewCached(next, mc, zap.NewNop())

	for i := 0; i < 3; i++ {
		q, err := c.Lookup(context.Background(), "aapl")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", q.Symbol)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	next := &countingLookup{err: ErrUnknownSymbol}
	mc, err := NewMemoryCache(100, time.Minute)
	require.NoError(t, err)
	c := NewCached(next, mc, zap.NewNop())

	_, err = c.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	_, err = c.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	assert.Equal(t, 2, next.calls)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	next := &countingLookup{quote: models.Quote{Name: "Apple Inc", Price: decimal.RequireFromString("150.25")}}
	c := NewCached(next, NewRedisCache(db, 5*time.Minute), zap.NewNop())

	want := models.Quote{Symbol: "AAPL", Name: "Apple Inc", Price: decimal.RequireFromString("150.25")}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	t.Run("miss falls through and fills the cache", func(t *testing.T) {
		mock.ExpectGet("quote:AAPL").RedisNil()
		mock.ExpectSet("quote:AAPL", string(raw), 5*time.Minute).SetVal("OK")

		q, err := c.Lookup(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc", q.Name)
		assert.Equal(t, 1, next.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit skips the provider", func(t *testing.T) {
		mock.ExpectGet("quote:AAPL").SetVal(string(raw))

		q, err := c.Lookup(ctx, "AAPL")
		require.NoError(t, err)
		assert.True(t, want.Price.Equal(q.Price))
		assert.Equal(t, 1, next.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis outage degrades to the provider", func(t *testing.T) {
		mock.ExpectGet("quote:AAPL").SetErr(errors.New("connection refused"))
		mock.ExpectSet("quote:AAPL", string(raw), 5*time.Minute).SetErr(errors.New("connection refused"))

		q, err := c.Lookup(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", q.Symbol)
		assert.Equal(t, 2, next.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// pricingLookup also answers price-only requests.
type pricingLookup struct {
	countingLookup
	prices int
}

func (p *pricingLookup) Price(_ context.Context, _ string) (decimal.Decimal, error) {
	p.prices++
	return p.quote.Price, p.err
}

func TestCachedPrice(t *testing.T) {
	next := &pricingLookup{countingLookup: countingLookup{quote: models.Quote{Name: "Apple Inc", Price: decimal.NewFromInt(150)}}}
	mc, err := NewMemoryCache(100, time.Minute)
	require.NoError(t, err)
	c := NewCached(next, mc, zap.NewNop())

	price, err := c.Price(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(price))
	assert.Equal(t, 1, next.prices)
	assert.Equal(t, 0, next.calls)

	_, err = c.Lookup(context.Background(), "AAPL")
	require.NoError(t, err)
	price, err = c.Price(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(price))
	assert.Equal(t, 1, next.prices, "cached quote serves the price")
	assert.Equal(t, 1, next.calls)
}
