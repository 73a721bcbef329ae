package advice

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

// Narrator writes a free-form commentary about an analysis
type Narrator interface {
	Narrate(ctx context.Context, in Input) (string, error)
}

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAINarrator asks a chat completion model for a short commentary
type OpenAINarrator struct {
	cli   oa.Client
	model string
	log   zerolog.Logger
}

// NewOpenAINarrator creates a narrator. Extra options (base URL, retries)
// are passed to the OpenAI client.
func NewOpenAINarrator(apiKey, model string, log zerolog.Logger, opts ...option.RequestOption) *OpenAINarrator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAINarrator{
		cli:   oa.NewClient(opts...),
		model: model,
		log:   log.With().Str("component", "openai_narrator").Logger(),
	}
}

const narratorSystemPrompt = "You are a cautious portfolio analyst. Write one short paragraph of plain-text " +
	"commentary on a backtested portfolio. Do not promise returns. Mention the main risk."

// Narrate implements Narrator
func (n *OpenAINarrator) Narrate(ctx context.Context, in Input) (string, error) {
	resp, err := n.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: oa.ChatModel(n.model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(narratorSystemPrompt),
			oa.UserMessage(describe(in)),
		},
		MaxTokens:   oa.Int(400),
		Temperature: oa.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("failed to request commentary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("failed to request commentary: empty response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	n.log.Debug().Int("chars", len(text)).Msg("Commentary generated")
	return text, nil
}

// describe renders the analysis as the user prompt
func describe(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk tolerance: %d/10\n", in.RiskTolerance)
	b.WriteString("Allocation:\n")
	for i, sym := range in.Symbols {
		if i < len(in.Weights) {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", sym, in.Weights[i]*100)
		}
	}
	m := in.Metrics
	fmt.Fprintf(&b, "Total return: %.2f%%\nAnnualized return: %.2f%%\nVolatility: %.2f%%\n",
		m.TotalReturn, m.AnnualizedReturn, m.Volatility)
	fmt.Fprintf(&b, "Sharpe: %.2f\nSortino: %.2f\nMax drawdown: %.2f%%\nWin rate: %.1f%%\n",
		m.SharpeRatio, m.SortinoRatio, m.MaxDrawdown, m.WinRate)
	return b.String()
}
