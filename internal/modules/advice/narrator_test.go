package advice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/domain"
)

func sampleInput() Input {
	return Input{
		Symbols:       []string{"AAPL", "MSFT"},
		Weights:       []float64{0.6, 0.4},
		Metrics:       domain.PerformanceMetrics{TotalReturn: 12.5, SharpeRatio: 1.1, MaxDrawdown: 8, WinRate: 52},
		RiskTolerance: 6,
	}
}

func TestOpenAINarrator_Narrate(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "  Balanced portfolio with moderate risk.  "}
			}]
		}`))
	}))
	defer server.Close()

	n := NewOpenAINarrator("test-key", "", zerolog.Nop(), option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	text, err := n.Narrate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "Balanced portfolio with moderate risk.", text)
	assert.Equal(t, DefaultOpenAIModel, gotBody["model"])
}

func TestOpenAINarrator_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	n := NewOpenAINarrator("test-key", "gpt-4", zerolog.Nop(), option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	_, err := n.Narrate(context.Background(), sampleInput())
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	text := describe(sampleInput())
	assert.Contains(t, text, "Risk tolerance: 6/10")
	assert.Contains(t, text, "- AAPL: 60.0%")
	assert.Contains(t, text, "Total return: 12.50%")
}
