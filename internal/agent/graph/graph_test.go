package graph

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assistant/server/internal/agent/dialog"
	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/nlu"
	"github.com/scheme-assistant/server/internal/agent/schemes"
)

// scriptedOracle answers each prompt kind from a fixed script.
type scriptedOracle struct {
	mu     sync.Mutex
	intent string
	slots  map[string]string
	calls  map[string]int
}

func (o *scriptedOracle) Complete(ctx context.Context, msgs []*schema.Message) (*nlu.Completion, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string]int{}
	}

	system, user := msgs[0].Content, msgs[len(msgs)-1].Content
	usage := &schema.TokenUsage{PromptTokens: 500, CompletionTokens: 20, TotalTokens: 520}
	reply := func(kind, text string) (*nlu.Completion, error) {
		o.calls[kind]++
		return &nlu.Completion{Text: text, Model: "gemini-2.5-flash-lite", Usage: usage}, nil
	}

	switch {
	case strings.Contains(system, "intent classifier"):
		return reply("intent", o.intent)
	case strings.Contains(system, "profile"):
		if s, ok := o.slots[user]; ok {
			return reply("slots", s)
		}
		return reply("slots", "{}")
	default:
		return reply("scheme", "NONE")
	}
}

func newTestRunner(t *testing.T, oracle nlu.Oracle) Runner {
	t.Helper()
	store, err := schemes.LoadEmbedded()
	require.NoError(t, err)

	runner, err := BuildTurnGraph(context.Background(), Config{
		Oracle:         model.OracleConfig{Provider: model.ProviderNone, Timeout: "1s"},
		Catalog:        store,
		OracleOverride: oracle,
		Options: []dialog.Option{
			dialog.WithClock(func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }),
		},
	})
	require.NoError(t, err)
	return runner
}

func TestTurnGraph_GreetingWithoutOracle(t *testing.T) {
	runner := newTestRunner(t, nil)

	out, err := runner.Invoke(context.Background(), model.TurnInput{ConversationID: "c1", Text: "హలో"})
	require.NoError(t, err)

	assert.Equal(t, model.IntentGreeting, out.Intent)
	assert.NotEmpty(t, out.Response)
	assert.Empty(t, out.Slots)
	require.Len(t, out.History, 2)
	assert.Equal(t, model.RoleUser, out.History[0].Role)
	assert.Equal(t, out.Response, out.History[1].Content)
	assert.Zero(t, out.OracleCostUSD)
}

func TestTurnGraph_TimeQuery(t *testing.T) {
	runner := newTestRunner(t, &scriptedOracle{intent: "time_query"})

	out, err := runner.Invoke(context.Background(), model.TurnInput{ConversationID: "c1", Text: "ఇప్పుడు టైమ్ ఎంత"})
	require.NoError(t, err)

	assert.Equal(t, model.IntentTimeQuery, out.Intent)
	assert.Contains(t, out.Response, "09:30")
}

func TestTurnGraph_EligibilityMenuThenSelection(t *testing.T) {
	oracle := &scriptedOracle{
		intent: "eligibility_check",
		slots: map[string]string{
			"నాకు ఏ పథకాలు వస్తాయి": `{"state": "ఆంధ్రప్రదేశ్", "age": 30, "income": 100000, "occupation": "farmer"}`,
		},
	}
	runner := newTestRunner(t, oracle)
	ctx := context.Background()

	first, err := runner.Invoke(ctx, model.TurnInput{ConversationID: "c2", Text: "నాకు ఏ పథకాలు వస్తాయి"})
	require.NoError(t, err)

	assert.Equal(t, model.IntentEligibilityCheck, first.Intent)
	v, ok := first.Slots.Str(model.FieldState)
	assert.True(t, ok)
	assert.Equal(t, "AP", v)
	assert.Equal(t, []string{"AP_RYTHU_BHAROSA", "AP_AAROGYASRI"}, first.LastPresentedSchemeIDs)
	assert.Equal(t, model.FollowupChooseScheme, first.PendingFollowup)
	assert.Greater(t, first.OracleCostUSD, 0.0)

	second, err := runner.Invoke(ctx, model.TurnInput{ConversationID: "c2", Text: "1", Prior: first})
	require.NoError(t, err)

	assert.Equal(t, "AP_RYTHU_BHAROSA", second.LastReferencedSchemeID)
	assert.Equal(t, model.FollowupSchemeDetails, second.PendingFollowup)
	assert.Contains(t, second.Response, "రైతు భరోసా")
	assert.Len(t, second.History, 4)

	// the prior state is not mutated by the next turn
	assert.Len(t, first.History, 2)
	assert.Equal(t, model.FollowupChooseScheme, first.PendingFollowup)
}

func TestTurnGraph_ConflictEndsTurnEarly(t *testing.T) {
	oracle := &scriptedOracle{
		intent: "eligibility_check",
		slots: map[string]string{
			"నా వయసు 45": `{"age": 45}`,
		},
	}
	runner := newTestRunner(t, oracle)

	prior := model.NewConversationState()
	prior.Slots.Set(model.FieldAge, model.Int(40))

	out, err := runner.Invoke(context.Background(), model.TurnInput{ConversationID: "c3", Text: "నా వయసు 45", Prior: prior})
	require.NoError(t, err)

	assert.True(t, out.NeedsConfirmation)
	assert.Contains(t, out.PendingConflicts, model.FieldAge)
	age, _ := out.Slots.Int(model.FieldAge)
	assert.Equal(t, 40, age)
	assert.Equal(t, model.ActionEnd, out.NextAction)
}

func TestBuildTurnGraph_RequiresCatalog(t *testing.T) {
	_, err := BuildTurnGraph(context.Background(), Config{})
	assert.Error(t, err)
}

func TestBuildGraph_RequiresManager(t *testing.T) {
	_, err := BuildGraph(context.Background(), &GraphConfig{})
	assert.Error(t, err)
	_, err = BuildGraph(context.Background(), nil)
	assert.Error(t, err)
}
