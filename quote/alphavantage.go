package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stocks-simulator/models"
)

const DefaultBaseURL = "https://www.alphavantage.co/query"

// errRateLimited means the local limiter could not grant a call before the
// caller's deadline.
var errRateLimited = errors.New("alphavantage rate limit")

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

type symbolSearchResponse struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
	} `json:"bestMatches"`
}

// AlphaVantageConfig configures the Alpha Vantage client.
type AlphaVantageConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RequestsPerMin int
}

// AlphaVantage is a Lookup backed by the Alpha Vantage query API. Calls are
// throttled to the configured request rate and pass through a circuit
// breaker.
type AlphaVantage struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewAlphaVantage(cfg AlphaVantageConfig, logger *zap.Logger) *AlphaVantage {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMin > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMin))
		burst = cfg.RequestsPerMin
	}

	a := &AlphaVantage{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
	a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "alphavantage",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// the provider answered, or the caller gave up before asking it
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrUnknownSymbol) ||
				errors.Is(err, errRateLimited) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("quote provider breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return a
}

func (a *AlphaVantage) Lookup(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return models.Quote{}, ErrUnknownSymbol
	}
	res, err := a.breaker.Execute(func() (interface{}, error) {
		return a.fetch(ctx, symbol)
	})
	if err != nil {
		return models.Quote{}, err
	}
	return res.(models.Quote), nil
}

// Price fetches only the current price. It costs one provider call where
// Lookup costs two.
func (a *AlphaVantage) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return decimal.Decimal{}, ErrUnknownSymbol
	}
	res, err := a.breaker.Execute(func() (interface{}, error) {
		return a.globalQuote(ctx, symbol)
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return res.(models.Quote).Price, nil
}

func (a *AlphaVantage) fetch(ctx context.Context, symbol string) (models.Quote, error) {
	q, err := a.globalQuote(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}
	if name, err := a.companyName(ctx, q.Symbol); err != nil {
		a.logger.Debug("symbol search failed; using ticker as name", zap.String("symbol", q.Symbol), zap.Error(err))
	} else if name != "" {
		q.Name = name
	}
	return q, nil
}

// globalQuote returns the quote with the ticker standing in for the name.
func (a *AlphaVantage) globalQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var gq globalQuoteResponse
	if err := a.get(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}, &gq); err != nil {
		return models.Quote{}, err
	}
	switch {
	case gq.Note != "":
		return models.Quote{}, fmt.Errorf("alphavantage throttled: %s", gq.Note)
	case gq.Information != "":
		return models.Quote{}, fmt.Errorf("alphavantage refused: %s", gq.Information)
	case gq.ErrorMessage != "", gq.GlobalQuote.Price == "":
		return models.Quote{}, ErrUnknownSymbol
	}

	price, err := decimal.NewFromString(gq.GlobalQuote.Price)
	if err != nil {
		return models.Quote{}, fmt.Errorf("alphavantage price %q: %w", gq.GlobalQuote.Price, err)
	}
	q := models.Quote{Symbol: Normalize(gq.GlobalQuote.Symbol), Name: symbol, Price: price}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	return q, nil
}

func (a *AlphaVantage) companyName(ctx context.Context, symbol string) (string, error) {
	var sr symbolSearchResponse
	if err := a.get(ctx, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {symbol}}, &sr); err != nil {
		return "", err
	}
	for _, m := range sr.BestMatches {
		if Normalize(m.Symbol) == symbol {
			return m.Name, nil
		}
	}
	return "", nil
}

func (a *AlphaVantage) get(ctx context.Context, params url.Values, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", errRateLimited, err)
	}
	params.Set("apikey", a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("alphavantage request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alphavantage status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("alphavantage decode: %w", err)
	}
	return nil
}
