package nlu

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/scheme-assistant/server/internal/agent/graph/conversations"
	"github.com/scheme-assistant/server/internal/agent/graph/parsers"
	"github.com/scheme-assistant/server/internal/agent/graph/prompts"
	"github.com/scheme-assistant/server/internal/agent/model"
	errx "github.com/scheme-assistant/server/internal/core/error"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

const DefaultTimeout = 8 * time.Second

// Adapter implements the dialogue's NLU surface over an Oracle. Every call is a
// single attempt under a timeout; any failure yields the empty answer. A nil
// oracle is valid and always yields the empty answer.
type Adapter struct {
	oracle   Oracle
	timeout  time.Duration
	messages *conversations.MessagesManager
}

func NewAdapter(oracle Oracle, timeout time.Duration, messages *conversations.MessagesManager) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if messages == nil {
		messages = conversations.NewMessagesManager(model.DialogConfig{})
	}
	return &Adapter{oracle: oracle, timeout: timeout, messages: messages}
}

// Enabled reports whether an oracle is configured.
func (a *Adapter) Enabled() bool {
	return a.oracle != nil
}

// ClassifyIntent returns IntentUnknown when the oracle fails or answers off-list.
func (a *Adapter) ClassifyIntent(ctx context.Context, text string) model.Intent {
	if !a.Enabled() {
		return model.IntentUnknown
	}
	msgs, err := prompts.RenderIntent(ctx, text)
	if err != nil {
		logx.Error().Err(err).Msg("Render intent prompt")
		return model.IntentUnknown
	}
	content, ok := a.complete(ctx, "intent", msgs)
	if !ok {
		return model.IntentUnknown
	}
	intent := parsers.ParseIntentLabel(content)
	logx.Debug().Str("component", "nlu").Str("intent", string(intent)).Msg("Intent classified")
	return intent
}

// ExtractSlots returns the oracle's raw slot object, or an empty map.
func (a *Adapter) ExtractSlots(ctx context.Context, text string, profile model.Slots, history []model.HistoryEntry) map[string]any {
	empty := map[string]any{}
	if !a.Enabled() {
		return empty
	}
	msgs, err := prompts.RenderSlots(ctx, text, profile, a.messages.BuildNLUContext(history, ""))
	if err != nil {
		logx.Error().Err(err).Msg("Render slot prompt")
		return empty
	}
	content, ok := a.complete(ctx, "slots", msgs)
	if !ok {
		return empty
	}
	slots, err := parsers.ParseSlotObject(content)
	if err != nil {
		logx.Warn().Err(errx.WrapOracle(err)).Str("component", "nlu").Msg("Malformed slot output")
		return empty
	}
	return slots
}

// IdentifyScheme returns the oracle's answer line, or "" when it failed.
func (a *Adapter) IdentifyScheme(ctx context.Context, text string, candidates []model.SchemeRef) string {
	if !a.Enabled() || len(candidates) == 0 {
		return ""
	}
	msgs, err := prompts.RenderScheme(ctx, text, candidates)
	if err != nil {
		logx.Error().Err(err).Msg("Render scheme prompt")
		return ""
	}
	content, ok := a.complete(ctx, "scheme", msgs)
	if !ok {
		return ""
	}
	return parsers.ParseSchemeAnswer(content)
}

func (a *Adapter) complete(ctx context.Context, op string, msgs []*schema.Message) (content string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().
				Err(errx.WrapOracle(fmt.Errorf("panic: %v", r))).
				Str("component", "nlu").
				Str("op", op).
				Msg("Oracle call panicked")
			content, ok = "", false
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	out, err := a.oracle.Complete(callCtx, msgs)
	if err != nil {
		logx.Warn().
			Err(errx.WrapOracle(err)).
			Str("component", "nlu").
			Str("op", op).
			Dur("took", time.Since(start)).
			Msg("Oracle call failed")
		return "", false
	}
	if out == nil {
		return "", false
	}
	a.recordUsage(ctx, op, out)
	return out.Text, true
}

// recordUsage computes and logs usage cost, and adds it to the turn's accumulator.
func (a *Adapter) recordUsage(ctx context.Context, op string, out *Completion) {
	if out.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(out.Model)
	inC, outC, totalC := model.ComputeCost(out.Usage, pricing)
	logx.Debug().
		Str("component", "nlu").
		Str("op", op).
		Str("model", out.Model).
		Int("prompt_tokens", out.Usage.PromptTokens).
		Int("completion_tokens", out.Usage.CompletionTokens).
		Int("total_tokens", out.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")

	if u := UsageFrom(ctx); u != nil {
		u.add(out.Usage.TotalTokens, totalC)
	}
}
