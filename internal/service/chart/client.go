package chart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/service/ratelimit"
	apphttp "QuadSig/pkg/http"
	applogger "QuadSig/pkg/logger"
)

// Client fetches daily close history from a chart REST endpoint
// (GET {base}/v8/finance/chart/{symbol}). Implements repository.HistoryProvider.
type Client struct {
	http    *apphttp.Client
	baseURL string
	limiter *ratelimit.Limiter
	logger  *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

// NewClient creates a chart API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    apphttp.NewClient(apphttp.WithTimeout(15 * time.Second)),
		baseURL: baseURL,
		limiter: ratelimit.New(5, 2),
		logger:  applogger.Default().Named("chart"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *apphttp.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLimiter sets the request rate limiter.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Historical fetches daily closes for symbol in [start, end]. Days the
// provider reports with a null close are skipped.
func (c *Client) Historical(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(start.Unix(), 10)},
			"period2":  {strconv.FormatInt(end.Unix(), 10)},
			"interval": {"1d"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error for %s: %s (%s)",
			symbol, resp.Chart.Error.Description, resp.Chart.Error.Code)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart api returned no result for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return models.PriceSeries{}, nil
	}

	closes := result.Indicators.Quote[0].Close
	series := make(models.PriceSeries, 0, len(result.Timestamp))
	var lastTS int64
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		// Providers occasionally repeat or reorder bars; keep the
		// series strictly ascending.
		if len(series) > 0 && ts <= lastTS {
			continue
		}
		series = append(series, models.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
		lastTS = ts
	}

	c.logger.Debug("fetched history",
		applogger.String("symbol", symbol),
		applogger.Int("points", len(series)),
	)

	return series, nil
}
