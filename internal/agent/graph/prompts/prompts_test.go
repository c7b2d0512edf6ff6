package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assistant/server/internal/agent/model"
)

func TestRenderIntent(t *testing.T) {
	msgs, err := RenderIntent(context.Background(), "నమస్కారం")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "greeting, time_query, name_query")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(msgs[0].Content), "apply, unknown"))
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "నమస్కారం", msgs[1].Content)
}

func TestRenderSlots(t *testing.T) {
	profile := model.Slots{
		model.FieldAge:   model.Int(40),
		model.FieldState: model.String("TS"),
	}
	history := "<conversation_context>\nUserMessage(నా వయసు 40)\n</conversation_context>"

	msgs, err := RenderSlots(context.Background(), "నేను రైతు", profile, history)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	sys := msgs[0].Content
	assert.Contains(t, sys, "state: TS\nage: 40")
	assert.Contains(t, sys, "UserMessage(నా వయసు 40)")
	assert.Contains(t, sys, "has_children, pregnant, location, name")
	assert.Equal(t, "నేను రైతు", msgs[1].Content)
}

func TestRenderSlots_EmptyProfile(t *testing.T) {
	msgs, err := RenderSlots(context.Background(), "hi", nil, "")
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "(empty)")
}

func TestRenderScheme(t *testing.T) {
	candidates := []model.SchemeRef{
		{ID: "AP_AMMA_VODI", Name: "అమ్మ ఒడి"},
		{ID: "TS_RYTHU_BANDHU", Name: "రైతు బంధు"},
	}
	msgs, err := RenderScheme(context.Background(), "అమ్మఒడి ఎలా", candidates)
	require.NoError(t, err)

	assert.Contains(t, msgs[0].Content, "AP_AMMA_VODI: అమ్మ ఒడి\nTS_RYTHU_BANDHU: రైతు బంధు\n")
	assert.Equal(t, "అమ్మఒడి ఎలా", msgs[1].Content)
}

func TestRenderScheme_UserTextIsNotATemplate(t *testing.T) {
	msgs, err := RenderScheme(context.Background(), "{{.Candidates}}", nil)
	require.NoError(t, err)
	assert.Equal(t, "{{.Candidates}}", msgs[1].Content)
}
