package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/scheme-assistant/server/internal/agent/dialog"
	"github.com/scheme-assistant/server/internal/agent/graph/conversations"
	"github.com/scheme-assistant/server/internal/agent/graph/nodes"
	"github.com/scheme-assistant/server/internal/agent/graph/observers"
	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/nlu"
	"github.com/scheme-assistant/server/internal/agent/schemes"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph for one turn.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*model.ConversationState, error)
}

// Config holds everything needed to compose the full turn graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the
// oracle, the NLU adapter, the scheme resolver and the dialogue manager.
type Config struct {
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Oracle        model.OracleConfig
	Dialog        model.DialogConfig
	Catalog       *schemes.Store

	// OracleOverride replaces the configured provider (tests, embedding).
	OracleOverride nlu.Oracle
	// Options are passed to the dialogue manager.
	Options []dialog.Option
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	Manager *dialog.Manager
}

// GraphBuilder handles the construction of the turn graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *model.ConversationState]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *model.ConversationState]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.ConversationState, error) {
	usage := &nlu.Usage{}
	ctx = nlu.WithUsage(ctx, usage)

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("graph returned no state")
	}
	out.OracleCostUSD = usage.CostUSD()
	if usage.Calls() > 0 {
		logx.Debug().
			Str("conversation_id", in.ConversationID).
			Int("oracle_calls", usage.Calls()).
			Int("total_tokens", usage.Tokens()).
			Float64("usage_cost_total_usd", out.OracleCostUSD).
			Msg("Turn usage")
	}
	return out, nil
}

// BuildTurnGraph composes the oracle, NLU adapter, resolver and dialogue
// manager, builds the graph, and returns a Runner.
func BuildTurnGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("scheme catalog is nil")
	}

	oracle := cfg.OracleOverride
	if oracle == nil {
		var err error
		oracle, err = nodes.NewOracle(ctx, nodes.OracleConfig{
			Oracle:        cfg.Oracle,
			GeminiAPIKey:  cfg.GeminiAPIKey,
			GeminiBaseURL: cfg.GeminiBaseURL,
			OpenAIAPIKey:  cfg.OpenAIAPIKey,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			return nil, err
		}
	}

	adapter := nlu.NewAdapter(oracle, nodes.ParseOracleTimeout(cfg.Oracle.Timeout), conversations.NewMessagesManager(cfg.Dialog))
	resolver := schemes.NewResolver(
		schemes.NewNameMatcher(cfg.Catalog),
		schemes.NewOracleMatcher(cfg.Catalog, adapter),
	)

	opts := append([]dialog.Option{dialog.WithConfig(cfg.Dialog)}, cfg.Options...)
	manager := dialog.NewManager(adapter, cfg.Catalog, cfg.Catalog, resolver, opts...)

	runnable, err := BuildGraph(ctx, &GraphConfig{Manager: manager})
	if err != nil {
		return nil, err
	}

	logx.Debug().Bool("oracle", adapter.Enabled()).Msg("Turn graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled turn graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *model.ConversationState], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Manager == nil {
		return nil, fmt.Errorf("dialogue manager is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *model.ConversationState](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	m := b.config.Manager

	if err := b.graph.AddLambdaNode(nodes.NodeInput,
		nodes.NewInputNode(m),
		compose.WithStatePreHandler(nodes.NewInputPreHandler()),
	); err != nil {
		return fmt.Errorf("add %s node: %w", nodes.NodeInput, err)
	}

	steps := []struct {
		key    string
		lambda *compose.Lambda
	}{
		{nodes.NodeUnderstand, nodes.NewUnderstandNode(m)},
		{nodes.NodeCorrection, nodes.NewCorrectionNode(m)},
		{nodes.NodePlanner, nodes.NewPlannerNode(m)},
		{nodes.NodeKnowledge, nodes.NewKnowledgeNode(m)},
		{nodes.NodeClarification, nodes.NewClarificationNode(m)},
		{nodes.NodeEligibility, nodes.NewEligibilityNode(m)},
		{nodes.NodeCompose, nodes.NewComposeNode(m)},
	}
	for _, s := range steps {
		if err := b.graph.AddLambdaNode(s.key, s.lambda); err != nil {
			return fmt.Errorf("add %s node: %w", s.key, err)
		}
	}

	if err := b.graph.AddLambdaNode(nodes.NodeFinalize,
		nodes.NewFinalizeNode(m),
		compose.WithStatePostHandler(nodes.NewFinalizePostHandler()),
	); err != nil {
		return fmt.Errorf("add %s node: %w", nodes.NodeFinalize, err)
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInput},
		{nodes.NodeInput, nodes.NodeUnderstand},
		{nodes.NodeEligibility, nodes.NodeCompose},
		{nodes.NodeKnowledge, nodes.NodeFinalize},
		{nodes.NodeClarification, nodes.NodeFinalize},
		{nodes.NodeCompose, nodes.NodeFinalize},
		{nodes.NodeFinalize, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	understandBranch := compose.NewGraphBranch(
		nodes.NewTerminatedCondition(nodes.NodeCorrection),
		map[string]bool{
			nodes.NodeCorrection: true,
			nodes.NodeFinalize:   true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeUnderstand, understandBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding understand branch")
		return fmt.Errorf("error adding understand branch: %w", err)
	}

	correctionBranch := compose.NewGraphBranch(
		nodes.NewTerminatedCondition(nodes.NodePlanner),
		map[string]bool{
			nodes.NodePlanner:  true,
			nodes.NodeFinalize: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeCorrection, correctionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding correction branch")
		return fmt.Errorf("error adding correction branch: %w", err)
	}

	plannerBranch := compose.NewGraphBranch(
		nodes.NewPlannerCondition(),
		map[string]bool{
			nodes.NodeKnowledge:     true,
			nodes.NodeClarification: true,
			nodes.NodeEligibility:   true,
			nodes.NodeFinalize:      true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodePlanner, plannerBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding planner branch")
		return fmt.Errorf("error adding planner branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *model.ConversationState], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(nodes.MaxRunSteps()))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
