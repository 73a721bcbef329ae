package tiingo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("", "test-key", zerolog.Nop())

	assert.NotNil(t, client)
	assert.Equal(t, "test-key", client.apiKey)
	assert.Equal(t, DefaultBaseURL, client.http.BaseURL)
	assert.True(t, client.HasAPIKey())
}

func TestWithAPIKey(t *testing.T) {
	client := NewClient("", "", zerolog.Nop())
	assert.False(t, client.HasAPIKey())

	override := client.WithAPIKey("user-key")
	assert.Equal(t, "user-key", override.apiKey)
	assert.Equal(t, "", client.apiKey)
	assert.Same(t, client, client.WithAPIKey(""))
}

func TestGetDailyPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tiingo/daily/AAPL/prices", r.URL.Path)
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("token"))
		assert.Equal(t, "2023-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2023-01-31", r.URL.Query().Get("endDate"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date": "2023-01-03T00:00:00.000Z", "close": 125.07, "adjClose": 123.5},
			{"date": "2023-01-04T00:00:00.000Z", "close": 126.36, "adjClose": 124.8}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", zerolog.Nop())
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

	prices, err := client.GetDailyPrices(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, 123.5, prices[0].AdjClose)
	assert.Equal(t, 126.36, prices[1].Close)
	assert.Equal(t, 2023, prices[0].Date.Year())
}

func TestGetDailyPrices_TransportErrorOmitsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, "SECRET-TOKEN-123", zerolog.Nop())
	_, err := client.GetDailyPrices(context.Background(), "AAPL", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN-123")

	_, err = client.GetMetadata(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN-123")
}

func TestGetDailyPrices_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tiingo/daily/NOPE/prices":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", zerolog.Nop())

	_, err := client.GetDailyPrices(context.Background(), "NOPE", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetDailyPrices(context.Background(), "AAPL", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 500")

	_, err = NewClient(server.URL, "", zerolog.Nop()).GetDailyPrices(context.Background(), "AAPL", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGetMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tiingo/daily/MSFT", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticker": "msft", "name": "Microsoft Corporation", "exchangeCode": "NASDAQ"}`))
	}))
	defer server.Close()

	meta, err := NewClient(server.URL, "k", zerolog.Nop()).GetMetadata(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", meta.Name)
	assert.Equal(t, "NASDAQ", meta.ExchangeCode)
}
