package dialog

import (
	"context"

	"github.com/scheme-assistant/server/internal/agent/model"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// Correct handles a bare rejection ("కాదు", "wrong") of the slot asked last
// turn: the slot is unset and asked again. When the utterance also carries a
// value, the merge already applied it and nothing happens here.
func (m *Manager) Correct(ctx context.Context, s *model.ConversationState) {
	slot := s.LastQuestionSlot
	if s.Terminated() || slot == "" {
		return
	}
	if !IsCorrection(s.UserText) {
		return
	}
	for _, v := range s.Extracted {
		if present(v, true) {
			return
		}
	}

	s.Slots.Unset(slot)
	s.Ask(slot)
	s.Terminate(msgCorrectionAck + Question(slot))
	logx.Debug().Str("slot", string(slot)).Msg("Slot rejected, asking again")
}
