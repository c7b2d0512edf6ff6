package nodes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/nlu"
)

func TestActionNode(t *testing.T) {
	assert.Equal(t, NodeKnowledge, ActionNode(model.ActionKnowledge))
	assert.Equal(t, NodeClarification, ActionNode(model.ActionClarification))
	assert.Equal(t, NodeEligibility, ActionNode(model.ActionEligibility))
	assert.Equal(t, NodeFinalize, ActionNode(model.ActionEnd))
	assert.Equal(t, NodeFinalize, ActionNode(model.ActionNone))
}

func TestTerminatedCondition(t *testing.T) {
	cond := NewTerminatedCondition(NodePlanner)
	s := model.NewConversationState()

	next, err := cond(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, NodePlanner, next)

	s.Terminate("done")
	next, err = cond(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, NodeFinalize, next)
}

func TestParseOracleTimeout(t *testing.T) {
	assert.Equal(t, 3*time.Second, ParseOracleTimeout("3s"))
	assert.Equal(t, nlu.DefaultTimeout, ParseOracleTimeout(""))
	assert.Equal(t, nlu.DefaultTimeout, ParseOracleTimeout("soon"))
	assert.Equal(t, nlu.DefaultTimeout, ParseOracleTimeout("-1s"))
}

func TestNewOracle(t *testing.T) {
	ctx := context.Background()

	o, err := NewOracle(ctx, OracleConfig{Oracle: model.OracleConfig{Provider: model.ProviderNone}})
	require.NoError(t, err)
	assert.Nil(t, o)

	_, err = NewOracle(ctx, OracleConfig{Oracle: model.OracleConfig{Provider: "carrier-pigeon"}})
	assert.Error(t, err)

	_, err = NewOracle(ctx, OracleConfig{Oracle: model.OracleConfig{Provider: model.ProviderGemini}})
	assert.Error(t, err)

	o, err = NewOracle(ctx, OracleConfig{
		Oracle:        model.OracleConfig{Provider: model.ProviderOpenAI, Model: "llama-3.1-8b-instant"},
		OpenAIAPIKey:  "test",
		OpenAIBaseURL: "http://127.0.0.1:1/",
	})
	require.NoError(t, err)
	assert.IsType(t, &nlu.OpenAIOracle{}, o)
}
