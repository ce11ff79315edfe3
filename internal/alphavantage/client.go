package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"algo-trading-system-go/internal/config"
	"algo-trading-system-go/internal/market"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Sentinel errors surfaced to the orchestrator. None of them is fatal to
// a batch run; the caller decides per symbol.
var (
	// ErrRateLimited marks a response carrying the provider's call-limit
	// note instead of data.
	ErrRateLimited = errors.New("alphavantage: rate limited")

	// ErrRetriesExhausted is returned once the bounded retry ceiling for
	// rate-limited responses has been hit.
	ErrRetriesExhausted = errors.New("alphavantage: retries exhausted")

	// ErrNoData covers both an explicit provider error for the symbol and
	// an empty time series.
	ErrNoData = errors.New("alphavantage: no data for symbol")
)

// ClientInterface defines the interface for the market-data provider.
type ClientInterface interface {
	FetchDailySeries(ctx context.Context, symbol string) (market.PriceSeries, error)
}

// Client fetches daily price series from the Alpha Vantage REST API.
// It implements the ClientInterface.
type Client struct {
	client     *resty.Client
	apiKey     string
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	retryWait  time.Duration
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new Alpha Vantage client.
func NewClient(cfg *config.AlphaVantage, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// rate.Limit is requests per second; the free tier allows 5 per minute,
	// so the limiter keeps us from burning the quota inside one run.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:     resty.New().SetBaseURL(baseURL),
		apiKey:     cfg.ApiKey,
		logger:     logger.Named("alphavantage"),
		limiter:    limiter,
		maxRetries: cfg.MaxRetries,
		retryWait:  time.Duration(cfg.RetryWaitSec) * time.Second,
	}
}

// dailyResponse is the TIME_SERIES_DAILY payload. The provider signals
// rate limiting with a "Note" (or "Information") field and symbol errors
// with "Error Message", both inside a 200 response.
type dailyResponse struct {
	Note         string              `json:"Note"`
	Information  string              `json:"Information"`
	ErrorMessage string              `json:"Error Message"`
	TimeSeries   map[string]dailyBar `json:"Time Series (Daily)"`
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// FetchDailySeries fetches the full daily history for a symbol, sorted
// ascending by date.
//
// A rate-limit note triggers a bounded wait-and-retry: the configured wait
// doubles each attempt, and once maxRetries is exceeded the call fails
// with ErrRetriesExhausted rather than blocking forever.
func (c *Client) FetchDailySeries(ctx context.Context, symbol string) (market.PriceSeries, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Fetching daily series", zap.String("symbol", symbol), zap.Int("attempt", attempt+1))
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"function":   "TIME_SERIES_DAILY",
				"symbol":     symbol,
				"outputsize": "full",
				"apikey":     c.apiKey,
			}).
			SetResult(&dailyResponse{}).
			Get("/query")

		if err != nil {
			return nil, fmt.Errorf("request failed for %s: %w", symbol, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("request for %s failed with status %s: %s", symbol, resp.Status(), resp.String())
		}

		body := resp.Result().(*dailyResponse)
		if body.Note == "" && body.Information == "" {
			return c.parseSeries(symbol, body)
		}

		if attempt >= c.maxRetries {
			c.logger.Error("Provider still rate limited after final retry",
				zap.String("symbol", symbol),
				zap.Int("attempts", attempt+1))
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt+1, ErrRateLimited)
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
		c.logger.Warn("Provider rate limit hit, waiting before retry",
			zap.String("symbol", symbol),
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt+1))

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// parseSeries converts the wire map into an ordered PriceSeries.
func (c *Client) parseSeries(symbol string, body *dailyResponse) (market.PriceSeries, error) {
	if body.ErrorMessage != "" {
		c.logger.Warn("Provider returned an error for symbol",
			zap.String("symbol", symbol),
			zap.String("message", body.ErrorMessage))
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	if len(body.TimeSeries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	dates := make([]string, 0, len(body.TimeSeries))
	for d := range body.TimeSeries {
		dates = append(dates, d)
	}
	sort.Strings(dates) // ISO dates sort chronologically

	series := make(market.PriceSeries, 0, len(dates))
	for _, d := range dates {
		date, err := time.Parse(market.DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("bad date %q for %s: %w", d, symbol, err)
		}
		raw := body.TimeSeries[d]
		bar := market.PriceBar{Date: date}
		for _, field := range []struct {
			name  string
			value string
			dst   *float64
		}{
			{"open", raw.Open, &bar.Open},
			{"high", raw.High, &bar.High},
			{"low", raw.Low, &bar.Low},
			{"close", raw.Close, &bar.Close},
			{"volume", raw.Volume, &bar.Volume},
		} {
			v, err := strconv.ParseFloat(field.value, 64)
			if err != nil {
				return nil, fmt.Errorf("bad %s %q for %s on %s: %w", field.name, field.value, symbol, d, err)
			}
			*field.dst = v
		}
		series = append(series, bar)
	}

	c.logger.Info("Fetched daily series",
		zap.String("symbol", symbol),
		zap.Int("bars", len(series)))
	return series, nil
}
