// Package cli implements the advisor command line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/di"
	"github.com/aristath/advisor/internal/marketdata"
	"github.com/aristath/advisor/internal/modules/advisor"
	"github.com/aristath/advisor/internal/modules/optimization"
	"github.com/aristath/advisor/pkg/logger"
)

// NewRootCmd creates the root command
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "Portfolio optimization and backtesting",
		Long: `advisor computes long-only portfolio weights for a basket of tickers,
backtests the result over recent history and reports risk-adjusted metrics
with plain-language recommendations.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "advisor %s\n", version)
		},
	}
}

type analyzeOptions struct {
	risk       int
	investment string
	strategy   string
	synthetic  bool
	seed       uint64
	start      string
	end        string
	minWeight  float64
	maxWeight  float64
	horizon    int
	apiKey     string
	jsonOutput bool
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze SYMBOLS...",
		Short: "Optimize, backtest and review a portfolio",
		Long: `Run the full analysis for two or more ticker symbols.
Symbols may be given as separate arguments or comma separated.
Example: advisor analyze AAPL,MSFT,GOOGL --risk 7 --investment 10000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.risk, "risk", 5, "Risk tolerance from 1 (very low) to 10 (aggressive)")
	f.StringVar(&opts.investment, "investment", "", "Amount to allocate; omit for weights only")
	f.StringVar(&opts.strategy, "strategy", string(optimization.StrategyGradient), "Optimizer: gradient, heuristic or hrp")
	f.BoolVar(&opts.synthetic, "synthetic", false, "Use generated data instead of Tiingo")
	f.Uint64Var(&opts.seed, "seed", 0, "Seed for generated data (implies --synthetic)")
	f.StringVar(&opts.start, "start", "", "History start date (YYYY-MM-DD)")
	f.StringVar(&opts.end, "end", "", "History end date (YYYY-MM-DD)")
	f.Float64Var(&opts.minWeight, "min-weight", optimization.DefaultMinWeight, "Lower bound per asset")
	f.Float64Var(&opts.maxWeight, "max-weight", optimization.DefaultMaxWeight, "Upper bound per asset")
	f.IntVar(&opts.horizon, "horizon", 0, "Backtest window in trading days (default HORIZON_DAYS)")
	f.StringVar(&opts.apiKey, "api-key", "", "Tiingo API key (default TIINGO_API_KEY)")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})

	container, err := di.Wire(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	req, err := buildRequest(cmd, args, opts, cfg)
	if err != nil {
		return err
	}

	service := container.AdvisorService.WithProvider(selectProvider(container, opts, log))
	result, err := service.AnalyzePortfolio(cmd.Context(), req)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result, opts.jsonOutput)
}

func buildRequest(cmd *cobra.Command, args []string, opts *analyzeOptions, cfg *config.Config) (advisor.AnalysisRequest, error) {
	req := advisor.AnalysisRequest{
		Symbols:       args,
		RiskTolerance: opts.risk,
		HorizonDays:   opts.horizon,
	}

	if opts.investment != "" {
		amount, err := decimal.NewFromString(opts.investment)
		if err != nil {
			return req, fmt.Errorf("invalid --investment %q: %w", opts.investment, err)
		}
		req.Investment = amount
	}

	strategy, err := optimization.ParseStrategy(opts.strategy)
	if err != nil {
		return req, err
	}
	req.Strategy = strategy

	dataRange, err := marketdata.ParseDateRange(opts.start, opts.end)
	if err != nil {
		return req, err
	}
	req.DataRange = dataRange

	// Flags override configured bounds only when given
	flags := cmd.Flags()
	if flags.Changed("min-weight") || flags.Changed("max-weight") {
		c := optimization.Constraints{MinWeight: cfg.MinWeight, MaxWeight: cfg.MaxWeight}
		if flags.Changed("min-weight") {
			c.MinWeight = opts.minWeight
		}
		if flags.Changed("max-weight") {
			c.MaxWeight = opts.maxWeight
		}
		req.Constraints = &c
	}

	return req, nil
}

func selectProvider(container *di.Container, opts *analyzeOptions, log zerolog.Logger) marketdata.Provider {
	switch {
	case opts.seed != 0:
		return marketdata.NewSyntheticProvider(opts.seed)
	case opts.synthetic:
		return container.Synthetic
	}

	if !container.MarketData.HasLiveSource(opts.apiKey) {
		log.Warn().Msg("No Tiingo API key configured, using synthetic data")
	}
	return container.MarketData.Provider(opts.apiKey)
}

func writeResult(w io.Writer, result *advisor.AnalysisResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := io.WriteString(w, RenderReport(result))
	return err
}

// Execute runs the root command and exits non-zero on failure
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
