package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/nlu"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// OracleConfig holds the configuration for oracle creation.
type OracleConfig struct {
	Oracle        model.OracleConfig
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// NewOracle creates the configured NLU oracle. Provider "none" returns a nil
// oracle, which the adapter treats as always unavailable.
func NewOracle(ctx context.Context, config OracleConfig) (nlu.Oracle, error) {
	switch config.Oracle.Provider {
	case model.ProviderGemini:
		return newGeminiOracle(ctx, config)
	case model.ProviderOpenAI:
		logx.Debug().Str("model", config.Oracle.Model).Msg("Using OpenAI-compatible oracle")
		return nlu.NewOpenAIOracle(nlu.OpenAIConfig{
			APIKey:      config.OpenAIAPIKey,
			BaseURL:     config.OpenAIBaseURL,
			Model:       config.Oracle.Model,
			MaxTokens:   config.Oracle.MaxTokens,
			Temperature: config.Oracle.Temperature,
		}), nil
	case model.ProviderNone, "":
		logx.Warn().Msg("No NLU oracle configured; using deterministic understanding only")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", config.Oracle.Provider)
	}
}

func newGeminiOracle(ctx context.Context, config OracleConfig) (nlu.Oracle, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini oracle requires GEMINI_API_KEY")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.GeminiBaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.GeminiBaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	oc := config.Oracle
	maxTokens := oc.MaxTokens
	temperature := oc.Temperature
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       oc.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(oc.ThinkingBudget),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating oracle model")
		return nil, fmt.Errorf("error creating oracle model: %w", err)
	}

	logx.Debug().Str("model", oc.Model).Msg("Using Gemini oracle")
	return nlu.NewChatModelOracle(chatModel, oc.Model), nil
}
