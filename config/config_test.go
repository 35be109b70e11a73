package config

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stocks-simulator/database/memstore"
)

func setRequired(t *testing.T) {
	t.Setenv("API_KEY", "demo")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "memory")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "session", cfg.SessionCookie)
	assert.True(t, cfg.StartingCash.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 5*time.Minute, cfg.QuoteCacheTTL)
	assert.Equal(t, 5, cfg.QuoteRatePerMinute)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STARTING_CASH", "2500.50")
	t.Setenv("QUOTE_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.StartingCash.Equal(decimal.RequireFromString("2500.50")))
	assert.Equal(t, 3*time.Second, cfg.QuoteTimeout)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestValidate(t *testing.T) {
	base := Config{StoreDriver: DriverMemory, SessionTTL: time.Hour, StartingCash: decimal.NewFromInt(10000)}
	require.NoError(t, base.Validate())

	pg := base
	pg.StoreDriver = DriverPostgres
	assert.Error(t, pg.Validate())
	pg.DatabaseURL = "postgres://localhost/finance"
	assert.NoError(t, pg.Validate())

	bad := base
	bad.StoreDriver = "sqlite"
	assert.Error(t, bad.Validate())

	neg := base
	neg.StartingCash = decimal.NewFromInt(-1)
	assert.Error(t, neg.Validate())

	zero := base
	zero.StartingCash = decimal.Zero
	assert.EqualError(t, zero.Validate(), "STARTING_CASH must be positive")
}

func TestLoadRejectsZeroStartingCash(t *testing.T) {
	setRequired(t)
	t.Setenv("STARTING_CASH", "0")

	_, err := Load()
	assert.EqualError(t, err, "STARTING_CASH must be positive")
}

func TestNewAppWithMemoryStore(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	app, err := NewApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &memstore.Store{}, app.Store)
	assert.Nil(t, app.DB)
	assert.Nil(t, app.Redis)
	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.Quotes)
	assert.NotNil(t, app.Trading)
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(Config{LogLevel: "debug", LogFormat: "console"})
	assert.NoError(t, err)

	_, err = NewLogger(Config{LogLevel: "loud"})
	assert.Error(t, err)
}
