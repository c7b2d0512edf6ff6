package dialog

import (
	"context"

	"github.com/scheme-assistant/server/internal/agent/model"
)

// Clarify asks for the first missing required slot.
func (m *Manager) Clarify(ctx context.Context, s *model.ConversationState) {
	missing := s.Slots.Missing(model.RequiredFields)
	if len(missing) == 0 {
		s.LastQuestionSlot = ""
		s.PendingFollowup = model.FollowupEligibilityClarification
		s.Response = msgGenericDetails
		return
	}
	askSlot(s, missing[0])
}
