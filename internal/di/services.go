package di

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/cache"
	"github.com/aristath/advisor/internal/clients/tiingo"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/marketdata"
	"github.com/aristath/advisor/internal/modules/advice"
	"github.com/aristath/advisor/internal/modules/advisor"
	"github.com/aristath/advisor/internal/modules/optimization"
)

// InitializeServices creates repositories, clients and services
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.CacheRepo = cache.NewRepository(container.CacheDB.Conn())

	container.TiingoClient = tiingo.NewClient(cfg.TiingoBaseURL, cfg.TiingoAPIKey, log)
	if !container.TiingoClient.HasAPIKey() {
		log.Warn().Msg("TIINGO_API_KEY not set, analyses use synthetic data unless a request supplies a key")
	}

	seed := cfg.SyntheticSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	container.Synthetic = marketdata.NewSyntheticProvider(seed)
	container.MarketData = marketdata.NewFactory(
		container.TiingoClient,
		container.CacheRepo,
		container.Synthetic,
		cfg.PriceCacheTTL,
		log,
	)

	container.Optimizer = &optimization.Optimizer{
		Strategy:     optimization.StrategyGradient,
		Iterations:   cfg.OptimizerIterations,
		LearningRate: cfg.LearningRate,
	}

	if cfg.OpenAIAPIKey != "" {
		container.Narrator = advice.NewOpenAINarrator(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
		log.Info().Str("model", cfg.OpenAIModel).Msg("AI commentary enabled")
	}

	container.AdvisorService = advisor.NewService(
		container.MarketData.Provider(""),
		container.Optimizer,
		container.Narrator,
		AdvisorOptions(cfg),
		log,
	)

	return nil
}

// AdvisorOptions maps configuration onto engine parameters
func AdvisorOptions(cfg *config.Config) advisor.Options {
	return advisor.Options{
		RiskFreeRate:        cfg.RiskFreeRate,
		CorrelationFallback: cfg.CorrelationFallback,
		HorizonDays:         cfg.HorizonDays,
		DefaultStartDate:    cfg.DefaultStartDate,
		Constraints: optimization.Constraints{
			MinWeight: cfg.MinWeight,
			MaxWeight: cfg.MaxWeight,
		},
	}
}
