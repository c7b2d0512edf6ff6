package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/scheme-assistant/server/internal/agent/model"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

//go:embed template/slot_prompt.txt
var slotSystemPrompt string

//go:embed template/scheme_prompt.txt
var schemeSystemPrompt string

// maxCandidates bounds the scheme list sent to the oracle.
const maxCandidates = 120

// RenderIntent renders the intent classification messages via the Eino
// prompt component, which also fires prompt callbacks.
func RenderIntent(ctx context.Context, text string) ([]*schema.Message, error) {
	return render(ctx, "intent", intentSystemPrompt, map[string]any{
		"Intents": model.Intents,
		"Text":    text,
	})
}

// RenderSlots renders the slot extraction messages. history is the
// conversation context block built by the conversations package.
func RenderSlots(ctx context.Context, text string, profile model.Slots, history string) ([]*schema.Message, error) {
	return render(ctx, "slots", slotSystemPrompt, map[string]any{
		"Fields":  model.KnownFields,
		"Profile": profileLines(profile),
		"History": history,
		"Text":    text,
	})
}

// RenderScheme renders the scheme identification messages.
func RenderScheme(ctx context.Context, text string, candidates []model.SchemeRef) ([]*schema.Message, error) {
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return render(ctx, "scheme", schemeSystemPrompt, map[string]any{
		"Candidates": candidates,
		"Text":       text,
	})
}

func render(ctx context.Context, name, system string, vars map[string]any) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(system),
		schema.UserMessage("{{.Text}}"),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return nil, fmt.Errorf("%s prompt render: unexpected result", name)
	}
	return msgs, nil
}

// profileLines lists the set slots as "field: value", in field order.
func profileLines(profile model.Slots) string {
	var b strings.Builder
	for _, f := range model.KnownFields {
		v, ok := profile.Get(f)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", f, v.String())
	}
	return strings.TrimRight(b.String(), "\n")
}
