package nodes

import (
	"context"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/scheme-assistant/server/internal/agent/dialog"
	"github.com/scheme-assistant/server/internal/agent/model"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Graph node keys.
const (
	NodeInput         = "Input"
	NodeUnderstand    = "Understand"
	NodeCorrection    = "Correction"
	NodePlanner       = "Planner"
	NodeKnowledge     = "Knowledge"
	NodeClarification = "Clarification"
	NodeEligibility   = "Eligibility"
	NodeCompose       = "Compose"
	NodeFinalize      = "Finalize"
)

type stateStep func(ctx context.Context, s *model.ConversationState)

// step wraps a dialogue step as a state-to-state lambda.
func step(fn stateStep) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, s *model.ConversationState) (*model.ConversationState, error) {
		fn(ctx, s)
		return s, nil
	})
}

// NewInputPreHandler records the conversation id for the run.
func NewInputPreHandler() func(context.Context, model.TurnInput, *model.AppState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.AppState) (model.TurnInput, error) {
		if s.ConversationID == "" {
			s.ConversationID = in.ConversationID
		}
		s.StartedAt = time.Now()
		return in, nil
	}
}

// NewInputNode starts the turn on a copy of the prior state, or on a fresh one.
func NewInputNode(m *dialog.Manager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (*model.ConversationState, error) {
		s := in.Prior.Clone()
		if s == nil {
			s = model.NewConversationState()
		}
		m.Input(ctx, s, in.Text)
		return s, nil
	})
}

// NewUnderstandNode handles confirmations, classifies intent and merges slots.
func NewUnderstandNode(m *dialog.Manager) *compose.Lambda {
	return step(m.Understand)
}

// NewCorrectionNode handles "that's wrong" replies to a slot question.
func NewCorrectionNode(m *dialog.Manager) *compose.Lambda {
	return step(m.Correct)
}

// NewPlannerNode records the routing decision on the state.
func NewPlannerNode(m *dialog.Manager) *compose.Lambda {
	return step(func(ctx context.Context, s *model.ConversationState) {
		action := m.Plan(s)
		logx.Debug().
			Str("node", NodePlanner).
			Str("intent", string(s.Intent)).
			Str("followup", string(s.PendingFollowup)).
			Str("action", string(action)).
			Msg("Planned")
	})
}

func NewKnowledgeNode(m *dialog.Manager) *compose.Lambda {
	return step(m.Knowledge)
}

func NewClarificationNode(m *dialog.Manager) *compose.Lambda {
	return step(m.Clarify)
}

func NewEligibilityNode(m *dialog.Manager) *compose.Lambda {
	return step(m.Evaluate)
}

func NewComposeNode(m *dialog.Manager) *compose.Lambda {
	return step(m.Compose)
}

func NewFinalizeNode(m *dialog.Manager) *compose.Lambda {
	return step(m.Finalize)
}

// NewFinalizePostHandler logs the completed turn.
func NewFinalizePostHandler() func(context.Context, *model.ConversationState, *model.AppState) (*model.ConversationState, error) {
	return func(ctx context.Context, out *model.ConversationState, state *model.AppState) (*model.ConversationState, error) {
		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("node", NodeFinalize).
			Str("intent", string(out.Intent)).
			Int("slots", len(out.Slots)).
			Dur("took", time.Since(state.StartedAt)).
			Msg("Turn complete")
		return out, nil
	}
}

// NewTerminatedCondition ends the turn early once a step has answered it.
func NewTerminatedCondition(next string) func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, s *model.ConversationState) (string, error) {
		if s.Terminated() {
			logx.Debug().Str("next", NodeFinalize).Msg("Turn answered early")
			return NodeFinalize, nil
		}
		return next, nil
	}
}

// NewPlannerCondition maps the planner's action onto the next node.
func NewPlannerCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, s *model.ConversationState) (string, error) {
		return ActionNode(s.NextAction), nil
	}
}

// ActionNode is the node that carries out action.
func ActionNode(action model.Action) string {
	switch action {
	case model.ActionKnowledge:
		return NodeKnowledge
	case model.ActionClarification:
		return NodeClarification
	case model.ActionEligibility:
		return NodeEligibility
	default:
		return NodeFinalize
	}
}
