package nlu

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIOracle talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Groq, a local gateway).
type OpenAIOracle struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float32
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

func NewOpenAIOracle(cfg OpenAIConfig) *OpenAIOracle {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// single attempt, the adapter falls back on failure
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIOracle{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (o *OpenAIOracle) Complete(ctx context.Context, msgs []*schema.Message) (*Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model:       o.model,
		Messages:    toOpenAIMessages(msgs),
		Temperature: openai.Float(float64(o.temperature)),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	name := resp.Model
	if name == "" {
		name = o.model
	}
	return &Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: name,
		Usage: &schema.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func toOpenAIMessages(msgs []*schema.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		switch m.Role {
		case schema.System:
			out = append(out, openai.SystemMessage(m.Content))
		case schema.Assistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
