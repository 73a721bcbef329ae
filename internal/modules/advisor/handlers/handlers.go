// Package handlers provides HTTP handlers for portfolio analysis.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/advisor/internal/clients/tiingo"
	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/marketdata"
	"github.com/aristath/advisor/internal/modules/advisor"
	"github.com/aristath/advisor/internal/modules/optimization"
)

const maxBodyBytes = 1 << 20

// Handler handles portfolio analysis HTTP requests
type Handler struct {
	service *advisor.Service
	factory *marketdata.Factory
	apiKey  string // server-side Tiingo key, overridable per request
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(
	service *advisor.Service,
	factory *marketdata.Factory,
	apiKey string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service: service,
		factory: factory,
		apiKey:  apiKey,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

type constraintsRequest struct {
	MinWeight *float64 `json:"minWeight"`
	MaxWeight *float64 `json:"maxWeight"`
}

// resolve overlays the supplied bounds on defaults; nil means "use defaults"
func (c *constraintsRequest) resolve(defaults optimization.Constraints) *optimization.Constraints {
	if c == nil {
		return nil
	}
	out := defaults
	if c.MinWeight != nil {
		out.MinWeight = *c.MinWeight
	}
	if c.MaxWeight != nil {
		out.MaxWeight = *c.MaxWeight
	}
	return &out
}

type analyzeRequest struct {
	Symbols       []string            `json:"symbols"`
	RiskTolerance int                 `json:"riskTolerance"`
	Investment    decimal.Decimal     `json:"investment"`
	Constraints   *constraintsRequest `json:"constraints"`
	Strategy      string              `json:"strategy"`
	HorizonDays   int                 `json:"horizonDays"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	APIKey        string              `json:"apiKey"`
	Synthetic     bool                `json:"synthetic"`
}

// HandleAnalyze handles POST /api/portfolio/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	strategy, err := optimization.ParseStrategy(req.Strategy)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dataRange, err := marketdata.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.writeError(w, err)
		return
	}

	provider := marketdata.Provider(h.factory.Synthetic())
	if !req.Synthetic {
		provider = h.factory.Provider(h.key(req.APIKey))
	}

	result, err := h.service.WithProvider(provider).AnalyzePortfolio(r.Context(), advisor.AnalysisRequest{
		Symbols:       req.Symbols,
		RiskTolerance: req.RiskTolerance,
		Investment:    req.Investment,
		Constraints:   req.Constraints.resolve(h.service.Options().Constraints),
		Strategy:      strategy,
		HorizonDays:   req.HorizonDays,
		DataRange:     dataRange,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, result)
}

type stockDataRequest struct {
	Symbols   []string `json:"symbols"`
	APIKey    string   `json:"apiKey"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
}

type stockData struct {
	Symbol         string    `json:"symbol"`
	CurrentPrice   float64   `json:"currentPrice"`
	Returns        []float64 `json:"returns"`
	Volatility     float64   `json:"volatility"`
	ExpectedReturn float64   `json:"expectedReturn"`
	DataPoints     int       `json:"dataPoints"`
	IsSimulated    bool      `json:"isSimulated"`
}

// HandleStockData handles POST /api/stock-data
func (h *Handler) HandleStockData(w http.ResponseWriter, r *http.Request) {
	var req stockDataRequest
	if !h.decode(w, r, &req) {
		return
	}

	key := h.key(req.APIKey)
	if !h.factory.HasLiveSource(key) {
		h.writeError(w, domain.NewValidationError("apiKey", "a Tiingo API key is required"))
		return
	}

	symbols := domain.NormalizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		h.writeError(w, domain.NewValidationError("symbols", "at least one symbol is required"))
		return
	}
	dataRange, err := marketdata.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	opts := h.service.Options()
	dataRange = dataRange.WithDefaults(opts.DefaultStartDate, time.Now().UTC())

	series, err := marketdata.FetchAll(r.Context(), h.factory.Provider(key), symbols, dataRange)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]stockData, len(series))
	for i, s := range series {
		out[i] = stockData{
			Symbol:         s.Symbol,
			CurrentPrice:   s.CurrentPrice,
			Returns:        s.DailyReturns,
			Volatility:     s.Volatility(),
			ExpectedReturn: s.ExpectedReturn(),
			DataPoints:     s.Len(),
			IsSimulated:    s.Simulated,
		}
	}

	h.writeData(w, out)
}

// HandleStockInfo handles GET /api/stock-info/{symbol}
func (h *Handler) HandleStockInfo(w http.ResponseWriter, r *http.Request, symbol string) {
	symbols := domain.NormalizeSymbols([]string{symbol})
	if len(symbols) != 1 {
		h.writeError(w, domain.NewValidationError("symbol", "exactly one symbol is required"))
		return
	}

	key := h.key(r.URL.Query().Get("apiKey"))
	if !h.factory.HasLiveSource(key) {
		h.writeError(w, domain.NewValidationError("apiKey", "a Tiingo API key is required"))
		return
	}

	info, err := h.factory.TickerInfo(r.Context(), symbols[0], key)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, info)
}

type optimizeRequest struct {
	StockData     []domain.ReturnSeries `json:"stockData"`
	RiskTolerance int                   `json:"riskTolerance"`
	Constraints   *constraintsRequest   `json:"constraints"`
	Strategy      string                `json:"strategy"`
}

type optimizeResponse struct {
	Symbols       []string              `json:"symbols"`
	Weights       []float64             `json:"weights"`
	RiskTolerance int                   `json:"riskTolerance"`
	RiskLabel     string                `json:"riskLabel"`
	Strategy      optimization.Strategy `json:"strategy"`
}

// HandleOptimize handles POST /api/optimize-portfolio
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if len(req.StockData) < advisor.MinSymbols {
		h.writeError(w, domain.NewValidationError("stockData", "need at least %d series, got %d", advisor.MinSymbols, len(req.StockData)))
		return
	}
	strategy, err := optimization.ParseStrategy(req.Strategy)
	if err != nil {
		h.writeError(w, err)
		return
	}

	weights, err := h.service.OptimizeSeries(
		req.StockData,
		req.RiskTolerance,
		req.Constraints.resolve(h.service.Options().Constraints),
		strategy,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	symbols := make([]string, len(req.StockData))
	for i, s := range req.StockData {
		symbols[i] = s.Symbol
	}

	h.writeData(w, optimizeResponse{
		Symbols:       symbols,
		Weights:       weights,
		RiskTolerance: req.RiskTolerance,
		RiskLabel:     domain.RiskLabel(req.RiskTolerance),
		Strategy:      strategy,
	})
}

func (h *Handler) key(override string) string {
	if override != "" {
		return override
	}
	return h.apiKey
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Debug().Err(err).Msg("Rejected malformed request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tiingo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
		http.Error(w, "Internal server error", status)
		return
	}
	h.log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	h.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
	})
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
