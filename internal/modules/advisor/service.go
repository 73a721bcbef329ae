// Package advisor orchestrates a full portfolio analysis: data retrieval,
// covariance estimation, optimization, backtest, metrics and advice.
package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/marketdata"
	"github.com/aristath/advisor/internal/modules/advice"
	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/analytics"
	"github.com/aristath/advisor/internal/modules/backtest"
	"github.com/aristath/advisor/internal/modules/optimization"
)

// MinSymbols is the smallest portfolio that can be analyzed
const MinSymbols = 2

// analysisNamespace scopes content-derived analysis IDs
var analysisNamespace = uuid.MustParse("6f1c2a7e-9d4b-4f0e-8a53-2b7d1e0c9a41")

// Options are the engine parameters shared by every request
type Options struct {
	RiskFreeRate        float64
	CorrelationFallback float64
	HorizonDays         int
	DefaultStartDate    time.Time
	Constraints         optimization.Constraints
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		RiskFreeRate:        analytics.DefaultRiskFreeRate,
		CorrelationFallback: optimization.DefaultCorrelationFallback,
		HorizonDays:         252,
		DefaultStartDate:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Constraints:         optimization.DefaultConstraints(),
	}
}

// AnalysisRequest describes one analysis
type AnalysisRequest struct {
	Symbols       []string
	RiskTolerance int
	Investment    decimal.Decimal           // Zero omits allocation amounts
	Constraints   *optimization.Constraints // nil = configured defaults
	Strategy      optimization.Strategy     // "" = optimizer default
	HorizonDays   int                       // 0 = configured default
	DataRange     marketdata.DateRange
}

// AnalysisResult is the outcome of AnalyzePortfolio. Identical requests over
// identical data produce identical results.
type AnalysisResult struct {
	ID               string                    `json:"analysisId"`
	Symbols          []string                  `json:"symbols"`
	RiskTolerance    int                       `json:"riskTolerance"`
	RiskLabel        string                    `json:"riskLabel"`
	Strategy         optimization.Strategy     `json:"strategy"`
	Constraints      optimization.Constraints  `json:"constraints"`
	Weights          []float64                 `json:"weights"`
	Metrics          domain.PerformanceMetrics `json:"metrics"`
	ValuePath        []float64                 `json:"valuePath"`
	PortfolioReturns []float64                 `json:"portfolioReturns"`
	Allocation       []allocation.Row          `json:"allocation"`
	Advice           []advice.Recommendation   `json:"recommendations"`
	Commentary       string                    `json:"commentary,omitempty"`
	SimulatedSymbols []string                  `json:"simulatedSymbols"`
	Investment       *decimal.Decimal          `json:"investment,omitempty"`
}

// Service runs analyses
type Service struct {
	provider  marketdata.Provider
	optimizer *optimization.Optimizer
	narrator  advice.Narrator // optional
	opts      Options
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates an advisor service. narrator may be nil.
func NewService(
	provider marketdata.Provider,
	optimizer *optimization.Optimizer,
	narrator advice.Narrator,
	opts Options,
	log zerolog.Logger,
) *Service {
	if optimizer == nil {
		optimizer = optimization.NewOptimizer()
	}
	return &Service{
		provider:  provider,
		optimizer: optimizer,
		narrator:  narrator,
		opts:      opts,
		now:       time.Now,
		log:       log.With().Str("service", "advisor").Logger(),
	}
}

// WithProvider returns a copy of the service reading data from p
func (s *Service) WithProvider(p marketdata.Provider) *Service {
	cp := *s
	cp.provider = p
	return &cp
}

// Options returns the engine parameters
func (s *Service) Options() Options {
	return s.opts
}

// AnalyzePortfolio runs the whole pipeline for req
func (s *Service) AnalyzePortfolio(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	symbols := domain.NormalizeSymbols(req.Symbols)
	if len(symbols) < MinSymbols {
		return nil, domain.NewValidationError("symbols", "need at least %d distinct symbols, got %d", MinSymbols, len(symbols))
	}
	if err := domain.ValidateRiskTolerance(req.RiskTolerance); err != nil {
		return nil, err
	}
	if req.Investment.IsNegative() {
		return nil, domain.NewValidationError("investment", "must not be negative")
	}
	if req.HorizonDays < 0 {
		return nil, domain.NewValidationError("horizonDays", "must not be negative")
	}

	constraints := s.opts.Constraints
	if req.Constraints != nil {
		constraints = *req.Constraints
	}
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	optimizer := s.optimizer.WithStrategy(req.Strategy)
	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = s.opts.HorizonDays
	}
	dataRange := req.DataRange.WithDefaults(s.opts.DefaultStartDate, s.today())

	log := s.log.With().Strs("symbols", symbols).Int("risk_tolerance", req.RiskTolerance).Logger()
	log.Info().Str("strategy", string(optimizer.Strategy)).Msg("Starting portfolio analysis")

	series, err := marketdata.FetchAll(ctx, s.provider, symbols, dataRange)
	if err != nil {
		return nil, fmt.Errorf("failed to load market data: %w", err)
	}

	weights, err := s.optimize(series, req.RiskTolerance, constraints, optimizer)
	if err != nil {
		return nil, err
	}

	aligned, trimmed, err := marketdata.AlignTail(series, horizon)
	if err != nil {
		return nil, err
	}
	if trimmed {
		log.Warn().
			Int("window", aligned[0].Len()).
			Msg("Return series trimmed to a common window for the backtest")
	}

	bt, err := backtest.Simulate(aligned, weights)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate portfolio: %w", err)
	}

	metrics, err := analytics.Analyze(bt.PortfolioReturns, bt.ValuePath, s.opts.RiskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze backtest: %w", err)
	}

	adviceInput := advice.Input{
		Symbols:       symbols,
		Weights:       weights,
		Metrics:       *metrics,
		RiskTolerance: req.RiskTolerance,
	}

	result := &AnalysisResult{
		Symbols:          symbols,
		RiskTolerance:    req.RiskTolerance,
		RiskLabel:        domain.RiskLabel(req.RiskTolerance),
		Strategy:         optimizer.Strategy,
		Constraints:      constraints.Effective(len(symbols)),
		Weights:          weights,
		Metrics:          *metrics,
		ValuePath:        bt.ValuePath,
		PortfolioReturns: bt.PortfolioReturns,
		Allocation:       allocation.Build(series, weights, req.Investment),
		Advice:           advice.Generate(adviceInput),
		SimulatedSymbols: simulatedSymbols(series),
	}
	if req.Investment.IsPositive() {
		inv := req.Investment
		result.Investment = &inv
	}
	result.ID = analysisID(result, req.DataRange, horizon)

	if s.narrator != nil {
		text, err := s.narrator.Narrate(ctx, adviceInput)
		if err != nil {
			log.Warn().Err(err).Msg("Commentary unavailable")
		} else {
			result.Commentary = text
		}
	}

	log.Info().
		Str("analysis_id", result.ID).
		Float64("sharpe", metrics.SharpeRatio).
		Float64("total_return", metrics.TotalReturn).
		Int("simulated", len(result.SimulatedSymbols)).
		Msg("Portfolio analysis completed")

	return result, nil
}

// OptimizeSeries computes weights for already loaded series
func (s *Service) OptimizeSeries(series []domain.ReturnSeries, riskTolerance int, constraints *optimization.Constraints, strategy optimization.Strategy) ([]float64, error) {
	c := s.opts.Constraints
	if constraints != nil {
		c = *constraints
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.optimize(series, riskTolerance, c, s.optimizer.WithStrategy(strategy))
}

func (s *Service) optimize(series []domain.ReturnSeries, riskTolerance int, c optimization.Constraints, opt *optimization.Optimizer) ([]float64, error) {
	cov, err := optimization.EstimateCovariance(series, s.opts.CorrelationFallback)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate covariance: %w", err)
	}

	mu := make([]float64, len(series))
	for i, sr := range series {
		mu[i] = sr.ExpectedReturn()
	}

	weights, err := opt.Optimize(mu, cov, riskTolerance, c)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize weights: %w", err)
	}
	return weights, nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func simulatedSymbols(series []domain.ReturnSeries) []string {
	out := []string{}
	for _, sr := range series {
		if sr.Simulated {
			out = append(out, sr.Symbol)
		}
	}
	return out
}

// analysisID derives a stable UUID from the request and its outcome. The range
// is hashed as requested, before the clock fills in defaults.
func analysisID(r *AnalysisResult, dataRange marketdata.DateRange, horizon int) string {
	var b strings.Builder
	b.WriteString(strings.Join(r.Symbols, ","))
	b.WriteString("|" + strconv.Itoa(r.RiskTolerance))
	b.WriteString("|" + string(r.Strategy))
	b.WriteString("|" + dataRange.Key())
	b.WriteString("|" + strconv.Itoa(horizon))
	for _, w := range r.Weights {
		b.WriteString("|" + strconv.FormatFloat(w, 'g', -1, 64))
	}
	if r.Investment != nil {
		b.WriteString("|" + r.Investment.String())
	}
	return uuid.NewSHA1(analysisNamespace, []byte(b.String())).String()
}
