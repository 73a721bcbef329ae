// Package tiingo is a minimal client for the Tiingo end-of-day REST API.
package tiingo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Tiingo API endpoint
const DefaultBaseURL = "https://api.tiingo.com"

const dateLayout = "2006-01-02"

var (
	// ErrNoAPIKey is returned when a request is attempted without a token
	ErrNoAPIKey = errors.New("tiingo API key not configured")
	// ErrNotFound is returned for unknown tickers
	ErrNotFound = errors.New("ticker not found")
)

// Client for api.tiingo.com
type Client struct {
	http   *resty.Client
	apiKey string
	log    zerolog.Logger
}

// NewClient creates a new Tiingo client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Accept", "application/json")

	return &Client{
		http:   client,
		apiKey: apiKey,
		log:    log.With().Str("client", "tiingo").Logger(),
	}
}

// WithAPIKey returns a client sharing the same transport but authenticating
// with key. An empty key returns c unchanged.
func (c *Client) WithAPIKey(key string) *Client {
	if key == "" {
		return c
	}
	cp := *c
	cp.apiKey = key
	return &cp
}

// HasAPIKey reports whether requests can be authenticated
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// DailyPrice is one end-of-day bar
type DailyPrice struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	AdjClose float64   `json:"adjClose"`
}

// Metadata describes a ticker
type Metadata struct {
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ExchangeCode string `json:"exchangeCode"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

// GetDailyPrices fetches end-of-day prices between start and end (inclusive).
// A zero end means today.
func (c *Client) GetDailyPrices(ctx context.Context, symbol string, start, end time.Time) ([]DailyPrice, error) {
	if end.IsZero() {
		end = time.Now().UTC()
	}

	params := map[string]string{
		"endDate": end.Format(dateLayout),
	}
	if !start.IsZero() {
		params["startDate"] = start.Format(dateLayout)
	}

	var prices []DailyPrice
	if err := c.get(ctx, "/tiingo/daily/{symbol}/prices", symbol, params, &prices); err != nil {
		return nil, fmt.Errorf("failed to fetch prices for %s: %w", symbol, err)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Int("points", len(prices)).
		Msg("Fetched daily prices")
	return prices, nil
}

// GetMetadata fetches ticker metadata
func (c *Client) GetMetadata(ctx context.Context, symbol string) (*Metadata, error) {
	var meta Metadata
	if err := c.get(ctx, "/tiingo/daily/{symbol}", symbol, nil, &meta); err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %s: %w", symbol, err)
	}
	return &meta, nil
}

func (c *Client) get(ctx context.Context, path, symbol string, params map[string]string, out interface{}) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(params).
		SetHeader("Authorization", "Token "+c.apiKey).
		Get(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
