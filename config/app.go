package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stocks-simulator/auth"
	"stocks-simulator/database"
	"stocks-simulator/database/memstore"
	"stocks-simulator/metrics"
	"stocks-simulator/quote"
	"stocks-simulator/session"
	"stocks-simulator/trading"
)

// App is the application context built once at startup and handed to the
// HTTP layer.
type App struct {
	Config   Config
	Logger   *zap.Logger
	DB       *gorm.DB      // nil with the memory store
	Redis    *redis.Client // nil without REDIS_URL
	Store    database.Store
	Sessions *session.Manager
	Quotes   quote.Lookup
	Trading  *trading.Service
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewApp connects to the configured backends and wires every component.
func NewApp(ctx context.Context, cfg Config, logger *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = metrics.New(app.Registry)

	switch cfg.StoreDriver {
	case DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		app.Store = memstore.New()
	default:
		db, err := OpenDB(cfg)
		if err != nil {
			return nil, err
		}
		app.DB = db
		app.Store = database.NewGormStore(db)
	}

	if cfg.RedisURL != "" {
		rdb, err := OpenRedis(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = rdb
	}

	var sessions session.Store
	var cache quote.Cache
	if app.Redis != nil {
		sessions = session.NewRedisStore(app.Redis, cfg.SessionTTL)
		cache = quote.NewRedisCache(app.Redis, cfg.QuoteCacheTTL)
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		mc, err := quote.NewMemoryCache(10_000, cfg.QuoteCacheTTL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init quote cache: %w", err)
		}
		cache = mc
	}

	tokens := auth.NewTokenManager(cfg.SessionSecret, "stocks-simulator", cfg.SessionTTL)
	app.Sessions = session.NewManager(sessions, tokens, session.ManagerOptions{
		CookieName: cfg.SessionCookie,
		MaxAge:     int(cfg.SessionTTL.Seconds()),
		Secure:     cfg.SecureCookies,
	})

	provider := quote.NewAlphaVantage(quote.AlphaVantageConfig{
		BaseURL:        cfg.QuoteBaseURL,
		APIKey:         cfg.APIKey,
		Timeout:        cfg.QuoteTimeout,
		RequestsPerMin: cfg.QuoteRatePerMinute,
	}, logger)
	app.Quotes = quote.NewCached(provider, cache, logger)

	app.Trading = trading.NewService(app.Store, app.Quotes, auth.NewBcrypt(cfg.BcryptCost), trading.Options{
		StartingCash: cfg.StartingCash,
		QuoteTimeout: cfg.QuoteTimeout,
		Metrics:      app.Metrics,
		Logger:       logger,
	})
	return app, nil
}

// Close releases database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// OpenDB connects to Postgres.
func OpenDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
